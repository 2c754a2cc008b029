// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/struktos/struktgen/internal/codegen"
	"github.com/struktos/struktgen/internal/metadata"
)

type Flags struct {
	LogLevel     string
	ProjectRoot  string
	TemplatesDir string
	DryRun       bool
	Force        bool
	Watch        bool
	Interactive  bool
}

type Controller struct {
	Flags *Flags
}

// Generate renders one kind of artifact and writes it into the project
func (c *Controller) Generate(ctx context.Context, opts GenerateOptions) error {
	cmd := NewGenerateCommand(c.flags())
	return cmd.Execute(ctx, opts)
}

// Init writes the default metadata document into the project
func (c *Controller) Init(ctx context.Context, opts InitOptions) error {
	cmd := NewInitCommand(c.flags())
	return cmd.Run(ctx, opts)
}

// Metadata prints the merged metadata of the project
func (c *Controller) Metadata(ctx context.Context, format string) error {
	cmd := NewMetadataCommand(c.flags())
	return cmd.Execute(ctx, format)
}

// Kinds lists the registered artifact kinds and their options
func (c *Controller) Kinds(ctx context.Context) error {
	out := &defaultOutput{}
	for _, kind := range codegen.DefaultRegistry.Kinds() {
		out.Printf("%-12s %s\n", kind.Name, kind.Description)
		for _, opt := range kind.Options {
			def := ""
			if opt.Default != "" {
				def = fmt.Sprintf(" (default %q)", opt.Default)
			}
			out.Printf("  --%-22s %s%s\n", opt.Name, opt.Usage, def)
		}
	}
	return nil
}

func (c *Controller) flags() *Flags {
	if c.Flags == nil {
		return &Flags{}
	}
	return c.Flags
}

// projectRoot returns the --root flag, or the nearest directory holding a
// .struktos directory or package.json, or the working directory.
func projectRoot(flags *Flags) string {
	if flags.ProjectRoot != "" {
		return flags.ProjectRoot
	}
	root, err := metadata.FindProjectRoot(".")
	if err != nil {
		log.Debug().Err(err).Msg("using working directory as project root")
		if abs, err := filepath.Abs("."); err == nil {
			return abs
		}
		return "."
	}
	return root
}
