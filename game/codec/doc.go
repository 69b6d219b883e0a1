// Package codec persists a Cultivator as a single printable text value.
//
// Store serializes the cultivator into a JSON envelope, encodes it with
// unpadded standard base64 and writes it under StorageKey, overwriting any
// earlier save. Retrieve reads it back with a layered fallback:
//
//   - no value (or a failed read): the default cultivator, no error
//   - not valid base64: the serialized default is parsed instead, no error
//   - valid base64 that does not parse: the default plus ErrMalformedState
//
// The engine turns the last case into a recovered load, so a session never
// crashes on a corrupt save, but the caller still sees what happened.
package codec
