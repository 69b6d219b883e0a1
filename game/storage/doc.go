// Package storage provides the key-value media a saved game can live in.
//
// Every backend implements Store, a synchronous string key-value API with two
// operations: Get returns the value under a key or ErrNotFound, and Set replaces
// the value under a key. The game only ever uses a single fixed key, so no
// backend offers transactions across keys.
//
// Backends:
//   - memory: a map guarded by a mutex, lost on exit (tests, ephemeral play)
//   - file:   one text file per key inside a directory, replaced atomically
//   - bolt:   a single bucket in a BoltDB file
//   - sqlite: a kv_store table in a SQLite database
//
// Usage:
//
//	store, err := storage.Open(storage.BackendFile, "saves")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
package storage
