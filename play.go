package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/immortal-reincarnation/game/service"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the saved cultivator",
		Action: withGame(func(ctx context.Context, cmd *cli.Command, g *game) error {
			view, err := g.service.State(ctx)
			if err != nil {
				return err
			}
			printStatus(os.Stdout, view)
			return nil
		}),
	}
}

func cultivateCommand() *cli.Command {
	flags := func() []cli.Flag {
		return []cli.Flag{
			&cli.IntFlag{Name: "times", Aliases: []string{"n"}, Value: 1, Usage: fmt.Sprintf("Cultivations to perform (1..%d)", service.MaxIncrementsPerCall)},
			&cli.BoolFlag{Name: "save", Usage: "Save after cultivating"},
		}
	}

	track := func(name, usage string, run func(service.CultivationService, context.Context, int) (*service.ActionResult, error)) *cli.Command {
		return &cli.Command{
			Name:  name,
			Usage: usage,
			Flags: flags(),
			Action: withGame(func(ctx context.Context, cmd *cli.Command, g *game) error {
				result, err := run(g.service, ctx, cmd.Int("times"))
				if err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout, result.Message)

				if cmd.Bool("save") {
					if _, err := g.service.Save(ctx); err != nil {
						return err
					}
					fmt.Fprintln(os.Stdout, "Game saved")
				} else {
					fmt.Fprintln(os.Stdout, "Not saved (pass --save to keep this progress)")
				}
				printStatus(os.Stdout, result.StatusView)
				return nil
			}),
		}
	}

	return &cli.Command{
		Name:  "cultivate",
		Usage: "Cultivate from the terminal",
		Commands: []*cli.Command{
			track("spirit", "Gather spiritual qi", service.CultivationService.CultivateSpirit),
			track("vessel", "Gather vessel qi", service.CultivationService.CultivateVessel),
		},
	}
}

func saveCommand() *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Rewrite the saved game in the current format",
		Action: withGame(func(ctx context.Context, cmd *cli.Command, g *game) error {
			result, err := g.service.Save(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, result.Message)
			return nil
		}),
	}
}

func loadCommand() *cli.Command {
	return &cli.Command{
		Name:  "load",
		Usage: "Load the saved game and report whether it could be read",
		Action: withGame(func(ctx context.Context, cmd *cli.Command, g *game) error {
			result, err := g.service.Load(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%s (%s)\n", result.Message, result.Status)
			if result.Error != "" {
				fmt.Fprintf(os.Stdout, "Reason: %s\n", result.Error)
			}
			printStatus(os.Stdout, result.StatusView)
			return nil
		}),
	}
}

func resetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Start over and overwrite the saved game",
		Action: withGame(func(ctx context.Context, cmd *cli.Command, g *game) error {
			if _, err := g.service.Reset(ctx); err != nil {
				return err
			}
			result, err := g.service.Save(ctx)
			if err != nil {
				return err
			}
			printStatus(os.Stdout, result.StatusView)
			return nil
		}),
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration as YAML",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			data, err := configFrom(ctx).YAML()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}

// withGame opens the configured game for the duration of one command
func withGame(fn func(ctx context.Context, cmd *cli.Command, g *game) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		g, err := openGame(configFrom(ctx))
		if err != nil {
			return err
		}
		defer g.Close()
		return fn(ctx, cmd, g)
	}
}

func printStatus(w io.Writer, view *service.StatusView) {
	if view == nil {
		return
	}
	for _, line := range view.Lines {
		fmt.Fprintln(w, line)
	}
}
