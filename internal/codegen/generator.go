// Package codegen derives names, paths and imports for each artifact kind and
// renders the artifact through the template engine. Generators never touch the
// filesystem; callers persist the returned artifacts.
package codegen

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/struktos/struktgen/internal/importpath"
	"github.com/struktos/struktgen/internal/metadata"
	"github.com/struktos/struktgen/internal/naming"
	"github.com/struktos/struktgen/internal/render"
)

var (
	// ErrUnknownRole is returned when metadata has no directory for a path role.
	ErrUnknownRole = errors.New("unknown path role")

	// ErrUnknownSymbol is returned when a core symbol is missing from the import map.
	ErrUnknownSymbol = errors.New("unknown core symbol")
)

// File extensions of generated artifacts.
const (
	ExtTypeScript = ".ts"
	ExtProto      = ".proto"
)

// Artifact is one generated source file.
type Artifact struct {
	Kind        string
	LogicalPath string
	Extension   string
	Content     string
}

// FilePath returns the on-disk location of a under projectRoot.
func (a Artifact) FilePath(projectRoot string) string {
	return filepath.Join(projectRoot, filepath.FromSlash(a.LogicalPath)+a.Extension)
}

// Generator renders artifacts for one project.
type Generator struct {
	projectRoot string
	resolver    *metadata.Resolver
	engine      *render.Engine
	logger      zerolog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the generator's logger.
func WithLogger(logger zerolog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a generator for projectRoot and registers the partials
// its templates use with engine.
func NewGenerator(projectRoot string, resolver *metadata.Resolver, engine *render.Engine, opts ...GeneratorOption) (*Generator, error) {
	g := &Generator{
		projectRoot: projectRoot,
		resolver:    resolver,
		engine:      engine,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With().Str("component", "codegen").Logger()

	if err := engine.RegisterPartialFile("imports", "partials/imports"); err != nil {
		return nil, fmt.Errorf("failed to register imports partial: %w", err)
	}
	return g, nil
}

// Metadata returns the metadata currently in effect for the project.
func (g *Generator) Metadata() *metadata.Metadata {
	return g.resolver.Get(g.projectRoot)
}

func (g *Generator) render(kind, template, logicalPath, ext string, md *metadata.Metadata, data render.Context) (Artifact, error) {
	content, err := g.engine.RenderWithMetadata(template, data, md)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to generate %s: %w", kind, err)
	}

	g.logger.Debug().
		Str("kind", kind).
		Str("template", template).
		Str("path", logicalPath).
		Msg("rendered artifact")

	return Artifact{
		Kind:        kind,
		LogicalPath: logicalPath,
		Extension:   ext,
		Content:     content,
	}, nil
}

// names holds every casing derived from an artifact name.
type names struct {
	Pascal     string
	Camel      string
	Kebab      string
	Snake      string
	UpperSnake string
	Plural     string
}

func deriveNames(name string) names {
	return names{
		Pascal:     naming.PascalCase(name),
		Camel:      naming.CamelCase(name),
		Kebab:      naming.KebabCase(name),
		Snake:      naming.SnakeCase(name),
		UpperSnake: naming.UpperSnakeCase(name),
		Plural:     naming.CamelCase(naming.Pluralize(naming.PascalCase(name))),
	}
}

// artifactPath joins the directory for role with file.
func artifactPath(md *metadata.Metadata, role, file string) (string, error) {
	dir := md.Path(role)
	if dir == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	return path.Join(importpath.Normalize(dir), file), nil
}

// coreTarget declares the import target for a core symbol. The origin string
// is classified once here so later resolution never guesses.
func coreTarget(md *metadata.Metadata, symbol string) (importpath.Target, error) {
	origin, ok := md.Import(symbol)
	if !ok {
		return importpath.Target{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return importpath.Classify(origin), nil
}
