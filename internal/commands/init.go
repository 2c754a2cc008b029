package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/struktos/struktgen/internal/metadata"
	"github.com/struktos/struktgen/internal/render"
)

// Metadata document formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FrameworkVariants offered when initializing a project
var FrameworkVariants = []string{"express", "fastify", "nestjs"}

type InitOptions struct {
	FrameworkVariant string
	Format           string
	// EjectTemplates copies the built-in templates into .struktos/templates
	EjectTemplates bool
}

type InitCommand struct {
	filesystem  FileSystem
	output      Output
	templatesFS fs.FS
	flags       *Flags
	// For testing: if set, prompts run inside a tea program with these options
	programOptions []tea.ProgramOption
}

func NewInitCommand(flags *Flags) *InitCommand {
	return &InitCommand{
		filesystem:  &osFileSystem{},
		output:      &defaultOutput{},
		templatesFS: render.Builtin(),
		flags:       flags,
	}
}

func (ic *InitCommand) Run(ctx context.Context, opts InitOptions) error {
	if ic.flags.Interactive {
		if err := ic.promptInitOptions(&opts); err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}
	if opts.Format == "" {
		opts.Format = FormatJSON
	}

	root := projectRoot(ic.flags)
	configDir := filepath.Join(root, metadata.Dir)

	docName := metadata.JSONFile
	if opts.Format == FormatYAML {
		docName = metadata.YAMLFile
	}
	docPath := filepath.Join(configDir, docName)
	if _, err := ic.filesystem.Stat(docPath); err == nil && !ic.flags.Force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrFileExists, docPath)
	}

	md := metadata.Default()
	if opts.FrameworkVariant != "" {
		md.FrameworkVariant = opts.FrameworkVariant
	}
	data, err := encodeMetadata(md, opts.Format)
	if err != nil {
		return err
	}

	if err := ic.filesystem.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", configDir, err)
	}
	if err := ic.filesystem.WriteFile(docPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata document: %w", err)
	}
	ic.output.Printf("created %s\n", docPath)

	if opts.EjectTemplates {
		dir := filepath.Join(configDir, metadata.TemplatesDir)
		if err := ic.extractTemplates(dir); err != nil {
			return fmt.Errorf("failed to extract templates: %w", err)
		}
		ic.output.Printf("copied templates to %s\n", dir)
	}
	return nil
}

func (ic *InitCommand) promptInitOptions(opts *InitOptions) error {
	if opts.FrameworkVariant == "" {
		opts.FrameworkVariant = FrameworkVariants[0]
	}
	if opts.Format == "" {
		opts.Format = FormatJSON
	}

	form := ic.createInitForm(opts)
	if len(ic.programOptions) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, ic.programOptions...)
		_, err := program.Run()
		return err
	}
	return form.Run()
}

func (ic *InitCommand) createInitForm(opts *InitOptions) *huh.Form {
	variants := make([]huh.Option[string], 0, len(FrameworkVariants))
	for _, v := range FrameworkVariants {
		variants = append(variants, huh.NewOption(v, v))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Framework variant").
				Description("HTTP framework the project is built on").
				Options(variants...).
				Value(&opts.FrameworkVariant),

			huh.NewSelect[string]().
				Title("Metadata format").
				Options(
					huh.NewOption("JSON", FormatJSON),
					huh.NewOption("YAML", FormatYAML),
				).
				Value(&opts.Format),

			huh.NewConfirm().
				Title("Copy the built-in templates into the project?").
				Value(&opts.EjectTemplates),
		),
	)
}

// extractTemplates copies every template into destDir, keeping the layout.
func (ic *InitCommand) extractTemplates(destDir string) error {
	return fs.WalkDir(ic.templatesFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		destPath := filepath.Join(destDir, filepath.FromSlash(path))

		if d.IsDir() {
			return ic.filesystem.MkdirAll(destPath, 0755)
		}

		data, err := fs.ReadFile(ic.templatesFS, path)
		if err != nil {
			return err
		}

		return ic.filesystem.WriteFile(destPath, data, 0644)
	})
}

func encodeMetadata(md *metadata.Metadata, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(md, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(md)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
