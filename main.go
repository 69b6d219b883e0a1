// Command immortal runs My Immortal Reincarnation, an idle cultivation game.
//
// Commands:
//  1. "serve" runs the HTTP server exposing the REST API, WebSocket and an /mcp endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "status", "cultivate", "save", "load" and "reset" play from the terminal
//     against the configured storage
//  4. "config" prints the effective configuration
//
// Settings come from defaults, an optional YAML file, .env, IMMORTAL_*
// environment variables and finally flags, each layer overriding the last.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/immortal-reincarnation/game/codec"
	"github.com/wricardo/immortal-reincarnation/game/config"
	"github.com/wricardo/immortal-reincarnation/game/engine"
	"github.com/wricardo/immortal-reincarnation/game/service"
	"github.com/wricardo/immortal-reincarnation/game/storage"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "My Immortal Reincarnation"
)

type cfgKey struct{}

// main builds the command tree and runs it.
func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "immortal",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				Sources: cli.EnvVars(config.EnvPrefix + "CONFIG"),
			},
			&cli.StringFlag{Name: "host", Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Usage: "HTTP server port"},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging (also logs save payloads)"},
			&cli.StringFlag{Name: "storage", Usage: fmt.Sprintf("Storage backend %v", storage.Backends())},
			&cli.StringFlag{Name: "storage-path", Usage: "Directory or database file for the saved game"},
		},
		Before: loadConfig,
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			statusCommand(),
			cultivateCommand(),
			saveCommand(),
			loadCommand(),
			resetCommand(),
			configCommand(),
		},
		// Without a command the server starts
		Action: serveAction,
	}
}

// loadConfig resolves the configuration once and stores it on the context
func loadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("storage") {
		cfg.Storage.Backend = cmd.String("storage")
	}
	if cmd.IsSet("storage-path") {
		cfg.Storage.Path = cmd.String("storage-path")
	}
	if err := cfg.Validate(); err != nil {
		return ctx, err
	}

	// Setup logging
	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	return context.WithValue(ctx, cfgKey{}, cfg), nil
}

func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(cfgKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// game bundles the opened storage and the service built on it
type game struct {
	backend storage.Backend
	service service.CultivationService
}

// openGame opens storage and builds the service, which restores the saved game
func openGame(cfg *config.Config, opts ...service.Option) (*game, error) {
	backend, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	eng := engine.NewEngine(codec.New(backend, codec.WithDebug(cfg.Debug)))
	return &game{
		backend: backend,
		service: service.NewCultivationService(eng, opts...),
	}, nil
}

func (g *game) Close() {
	if err := g.backend.Close(); err != nil {
		log.Printf("Warning: Failed to close storage: %v", err)
	}
}
