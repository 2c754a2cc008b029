package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/struktos/struktgen/internal/codegen"
	"github.com/struktos/struktgen/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

// kindCommand builds the generate subcommand for one registered kind.
func kindCommand(ctrl *commands.Controller, kind codegen.Kind) *cli.Command {
	flags := make([]cli.Flag, 0, len(kind.Options))
	for _, opt := range kind.Options {
		if opt.Bool {
			flags = append(flags, &cli.BoolFlag{Name: opt.Name, Usage: opt.Usage})
			continue
		}
		flags = append(flags, &cli.StringFlag{Name: opt.Name, Usage: opt.Usage, Value: opt.Default})
	}

	return &cli.Command{
		Name:      kind.Name,
		Usage:     kind.Description,
		ArgsUsage: "NAME",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			options := map[string]string{}
			for _, opt := range kind.Options {
				if !c.IsSet(opt.Name) {
					continue
				}
				if opt.Bool {
					options[opt.Name] = strconv.FormatBool(c.Bool(opt.Name))
				} else {
					options[opt.Name] = c.String(opt.Name)
				}
			}
			return ctrl.Generate(ctx, commands.GenerateOptions{
				Kind:    kind.Name,
				Name:    c.Args().First(),
				Options: options,
			})
		},
	}
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	generate := &cli.Command{
		Name:  "generate",
		Usage: "Generate source artifacts from project metadata",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "print artifacts instead of writing them",
				Destination: &ctrl.Flags.DryRun,
			},
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "overwrite existing files",
				Destination: &ctrl.Flags.Force,
			},
			&cli.BoolFlag{
				Name:        "watch",
				Usage:       "regenerate when .struktos changes",
				Destination: &ctrl.Flags.Watch,
			},
			&cli.BoolFlag{
				Name:        "interactive",
				Aliases:     []string{"i"},
				Usage:       "prompt for name and options",
				Destination: &ctrl.Flags.Interactive,
			},
		},
	}
	for _, kind := range codegen.DefaultRegistry.Kinds() {
		generate.Commands = append(generate.Commands, kindCommand(ctrl, kind))
	}

	app := &cli.Command{
		Name:    "struktgen",
		Usage:   `Metadata-driven code generator for @struktos/core projects.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("STRUKTGEN_LOG_LEVEL"),
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:        "root",
				Usage:       "project root (default: nearest directory with .struktos or package.json)",
				Sources:     cli.EnvVars("STRUKTGEN_ROOT"),
				Destination: &ctrl.Flags.ProjectRoot,
			},
			&cli.StringFlag{
				Name:        "templates",
				Usage:       "template override directory",
				Sources:     cli.EnvVars("STRUKTGEN_TEMPLATES"),
				Destination: &ctrl.Flags.TemplatesDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)
			ctrl.Flags.LogLevel = level.String()

			return ctx, nil
		},
		Commands: []*cli.Command{
			generate,
			{
				Name:  "init",
				Usage: "Write the default metadata document into the project",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Usage: "json or yaml", Value: commands.FormatJSON},
					&cli.StringFlag{Name: "framework", Usage: "framework variant"},
					&cli.BoolFlag{Name: "eject", Usage: "copy the built-in templates into .struktos/templates"},
					&cli.BoolFlag{Name: "force", Usage: "overwrite an existing document", Destination: &ctrl.Flags.Force},
					&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "prompt for options", Destination: &ctrl.Flags.Interactive},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx, commands.InitOptions{
						FrameworkVariant: c.String("framework"),
						Format:           c.String("format"),
						EjectTemplates:   c.Bool("eject"),
					})
				},
			},
			{
				Name:  "metadata",
				Usage: "Print the merged project metadata",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Usage: "json or yaml", Value: commands.FormatJSON},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Metadata(ctx, c.String("format"))
				},
			},
			{
				Name:  "kinds",
				Usage: "List the artifact kinds and their options",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Kinds(ctx)
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run struktgen")
	}
}
