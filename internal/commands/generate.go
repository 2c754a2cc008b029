package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/struktos/struktgen/internal/codegen"
	"github.com/struktos/struktgen/internal/metadata"
	"github.com/struktos/struktgen/internal/render"
)

// ErrFileExists is returned when an artifact would replace an existing file
// and overwriting was not allowed.
var ErrFileExists = errors.New("file already exists")

// GenerateOptions names the kind and the request to generate
type GenerateOptions struct {
	Kind    string
	Name    string
	Options map[string]string
}

// MetadataWatcher reports changes to a project's .struktos directory
type MetadataWatcher interface {
	Start(ctx context.Context) error
	Close() error
}

type WatcherFactory interface {
	NewWatcher(projectRoot string, resolver *metadata.Resolver, onChange func(path string)) (MetadataWatcher, error)
}

type defaultWatcherFactory struct {
	logger zerolog.Logger
}

func (f *defaultWatcherFactory) NewWatcher(projectRoot string, resolver *metadata.Resolver, onChange func(path string)) (MetadataWatcher, error) {
	return metadata.NewWatcher(projectRoot, resolver, onChange, f.logger)
}

// GenerateDependencies for the generate command
type GenerateDependencies struct {
	FileSystem     FileSystem
	Prompter       Prompter
	Output         Output
	SignalNotifier SignalNotifier
	Watchers       WatcherFactory
	Registry       *codegen.Registry
}

// GenerateCommand encapsulates the generate logic with injected dependencies
type GenerateCommand struct {
	deps   GenerateDependencies
	flags  *Flags
	logger zerolog.Logger
}

// NewGenerateCommand creates a new generate command with default dependencies
func NewGenerateCommand(flags *Flags) *GenerateCommand {
	logger := log.Logger.With().Str("component", "generate").Logger()
	return &GenerateCommand{
		deps: GenerateDependencies{
			FileSystem:     &osFileSystem{},
			Prompter:       newHuhPrompter(),
			Output:         &defaultOutput{},
			SignalNotifier: &defaultSignalNotifier{},
			Watchers:       &defaultWatcherFactory{logger: log.Logger},
			Registry:       codegen.DefaultRegistry,
		},
		flags:  flags,
		logger: logger,
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (gc *GenerateCommand) WithDependencies(deps GenerateDependencies) *GenerateCommand {
	gc.deps = deps
	return gc
}

// Execute runs the generate command
func (gc *GenerateCommand) Execute(ctx context.Context, opts GenerateOptions) error {
	kind, err := gc.deps.Registry.Get(opts.Kind)
	if err != nil {
		return err
	}

	req := codegen.Request{Name: opts.Name, Options: map[string]string{}}
	for k, v := range opts.Options {
		req.Options[k] = v
	}
	if gc.flags.Interactive || req.Name == "" {
		if err := gc.deps.Prompter.CompleteRequest(kind, &req); err != nil {
			return fmt.Errorf("failed to get %s options: %w", kind.Name, err)
		}
	}

	root := projectRoot(gc.flags)
	engine := render.New(append(gc.templateOptions(root), render.WithLogger(gc.logger))...)
	resolver := metadata.NewResolver()
	generator, err := codegen.NewGenerator(root, resolver, engine, codegen.WithLogger(gc.logger))
	if err != nil {
		return err
	}

	if err := gc.generate(generator, root, kind, req, gc.flags.Force); err != nil {
		return err
	}
	if !gc.flags.Watch {
		return nil
	}

	return gc.watch(ctx, root, resolver, func() error {
		engine.Clear()
		// Regenerated artifacts replace the ones this session wrote.
		return gc.generate(generator, root, kind, req, true)
	})
}

// templateOptions picks the template root: --templates, then the project's
// .struktos/templates, then the built-in set.
func (gc *GenerateCommand) templateOptions(root string) []render.Option {
	if gc.flags.TemplatesDir != "" {
		return []render.Option{render.WithOverlayDir(gc.flags.TemplatesDir)}
	}
	dir := filepath.Join(root, metadata.Dir, metadata.TemplatesDir)
	if info, err := gc.deps.FileSystem.Stat(dir); err == nil && info != nil && info.IsDir() {
		gc.logger.Debug().Str("dir", dir).Msg("using project template overrides")
		return []render.Option{render.WithOverlayDir(dir)}
	}
	return nil
}

func (gc *GenerateCommand) generate(g *codegen.Generator, root string, kind codegen.Kind, req codegen.Request, overwrite bool) error {
	artifacts, err := kind.Generate(g, req)
	if err != nil {
		return err
	}

	for _, a := range artifacts {
		if gc.flags.DryRun {
			gc.deps.Output.Printf("--- %s%s\n%s", a.LogicalPath, a.Extension, a.Content)
			continue
		}
		if err := gc.write(root, a, overwrite); err != nil {
			return err
		}
	}
	return nil
}

func (gc *GenerateCommand) write(root string, a codegen.Artifact, overwrite bool) error {
	path := a.FilePath(root)
	display := a.LogicalPath + a.Extension

	if _, err := gc.deps.FileSystem.Stat(path); err == nil && !overwrite {
		if !gc.flags.Interactive {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrFileExists, display)
		}
		ok, err := gc.deps.Prompter.ConfirmOverwrite(display)
		if err != nil {
			return err
		}
		if !ok {
			gc.deps.Output.Printf("skipped %s\n", display)
			return nil
		}
	}

	if err := gc.deps.FileSystem.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", display, err)
	}
	if err := gc.deps.FileSystem.WriteFile(path, []byte(a.Content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", display, err)
	}

	gc.logger.Debug().Str("kind", a.Kind).Str("path", path).Msg("wrote artifact")
	gc.deps.Output.Printf("created %s\n", display)
	return nil
}

// watch regenerates whenever the project's metadata or templates change,
// until ctx is done or an interrupt arrives.
func (gc *GenerateCommand) watch(ctx context.Context, root string, resolver *metadata.Resolver, regenerate func() error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes := make(chan string, 1)
	w, err := gc.deps.Watchers.NewWatcher(root, resolver, func(path string) {
		select {
		case changes <- path:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	defer w.Close()

	sigChan := make(chan os.Signal, 1)
	gc.deps.SignalNotifier.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer gc.deps.SignalNotifier.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- w.Start(ctx)
	}()

	gc.deps.Output.Printf("watching %s for changes...\n", filepath.Join(root, metadata.Dir))
	for {
		select {
		case <-sigChan:
			gc.deps.Output.Println("stopped watching")
			return nil
		case <-ctx.Done():
			return nil
		case err := <-errChan:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		case path := <-changes:
			gc.logger.Info().Str("path", path).Msg("regenerating")
			if err := regenerate(); err != nil {
				// Keep watching so the user can fix the document or template.
				gc.logger.Error().Err(err).Msg("regeneration failed")
			}
		}
	}
}
