// Package config provides runtime configuration for My Immortal Reincarnation.
//
// The config package handles:
//   - Built-in defaults (localhost:8080, file storage under ./saves)
//   - An optional YAML file
//   - IMMORTAL_* environment variables
//   - Validation of ports and storage backends
//
// Precedence, lowest first: defaults, YAML file, environment. Command-line flags
// are applied on top by the caller. A .env file, when present, is loaded into
// the environment before Load runs.
//
// Environment Variables:
//
//	IMMORTAL_HOST, IMMORTAL_PORT, IMMORTAL_DEBUG
//	IMMORTAL_STORAGE_BACKEND   memory | file | bolt | sqlite
//	IMMORTAL_STORAGE_PATH      directory (file) or database file (bolt, sqlite)
//	IMMORTAL_NGROK_ENABLED, IMMORTAL_NGROK_AUTHTOKEN, IMMORTAL_NGROK_DOMAIN
//	IMMORTAL_OTEL_ENDPOINT, IMMORTAL_OTEL_ENABLED, IMMORTAL_OTEL_SERVICE_NAME
//
// NGROK_AUTHTOKEN, NGROK_AUTH_TOKEN, NGROK_DOMAIN and NGROK_ENABLED are also
// honored when the prefixed variables are unset.
//
// Usage:
//
//	cfg, err := config.Load("immortal.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
package config
