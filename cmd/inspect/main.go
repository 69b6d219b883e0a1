// Command inspect prints a human-readable diagnosis of a saved game. It reads
// the stored payload (or one given with -payload), reports which layer rejects
// it, if any, and shows the decoded cultivator.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/wricardo/immortal-reincarnation/game/codec"
	"github.com/wricardo/immortal-reincarnation/game/config"
	"github.com/wricardo/immortal-reincarnation/game/engine"
	"github.com/wricardo/immortal-reincarnation/game/storage"
)

var (
	configPath  = flag.String("config", "", "YAML configuration file")
	backend     = flag.String("storage", "", "Storage backend (defaults to the configured one)")
	storagePath = flag.String("storage-path", "", "Directory or database file for the saved game")
	payload     = flag.String("payload", "", "Inspect this encoded payload instead of the stored one (- reads stdin)")
)

func main() {
	flag.Parse()

	text, err := readPayload()
	if err != nil {
		log.Fatal(err)
	}
	if text == "" {
		fmt.Println("No saved game found")
		return
	}

	if err := inspectPayload(os.Stdout, text); err != nil {
		os.Exit(1)
	}
}

func readPayload() (string, error) {
	switch *payload {
	case "":
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	default:
		return *payload, nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return "", err
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}
	if *storagePath != "" {
		cfg.Storage.Path = *storagePath
	}

	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	defer store.Close()

	text, err := store.Get(codec.StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", codec.StorageKey, err)
	}
	return text, nil
}

// inspectPayload writes the diagnosis of text to w. It returns the rejection
// error, if any; a rejected payload loads as a fresh cultivator.
func inspectPayload(w io.Writer, text string) error {
	fmt.Fprintf(w, "Key: %s\n", codec.StorageKey)
	fmt.Fprintf(w, "Encoded (%d bytes): %s\n", len(text), text)

	state, err := codec.Peek(text)
	if errors.Is(err, codec.ErrDecodeFailed) {
		fmt.Fprintf(w, "Decode: FAILED (%v)\n", err)
		fmt.Fprintln(w, "Loading this save starts a fresh cultivator")
		return err
	}
	fmt.Fprintln(w, "Decode: ok")
	if decoded, decodeErr := codec.Decode(text); decodeErr == nil {
		fmt.Fprintf(w, "Payload: %s\n", decoded)
	}

	if err != nil {
		fmt.Fprintf(w, "Parse: FAILED (%v)\n", err)
		fmt.Fprintln(w, "Loading this save starts a fresh cultivator")
		return err
	}
	fmt.Fprintln(w, "Parse: ok")

	fmt.Fprintln(w)
	for _, line := range engine.StatusLines(state) {
		fmt.Fprintln(w, line)
	}
	return nil
}
