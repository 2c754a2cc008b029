package codegen

import (
	"strings"

	"github.com/struktos/struktgen/internal/metadata"
	"github.com/struktos/struktgen/internal/naming"
	"github.com/struktos/struktgen/internal/render"
)

// KindMiddleware is the artifact kind of a middleware.
const KindMiddleware = "middleware"

// MiddlewareOptions configures middleware generation.
type MiddlewareOptions struct {
	WithLogger bool
	WithTiming bool
}

// GenerateMiddleware renders a middleware class. The class name gains a
// Middleware suffix unless name already carries one.
func (g *Generator) GenerateMiddleware(name string, opts MiddlewareOptions) (Artifact, error) {
	if err := naming.ValidateEntityName(name); err != nil {
		return Artifact{}, err
	}

	base := strings.TrimSuffix(naming.PascalCase(name), "Middleware")
	if base == "" {
		base = naming.PascalCase(name)
	}
	n := deriveNames(base)
	className := n.Pascal + "Middleware"
	md := g.Metadata()

	self, err := artifactPath(md, metadata.RoleMiddleware, n.Kebab+".middleware")
	if err != nil {
		return Artifact{}, err
	}

	imports := newImportSet(self, md)
	imports.core("IMiddleware", "MiddlewareContext", "NextFunction")
	if opts.WithLogger {
		imports.core("ILogger")
	}
	list, err := imports.list()
	if err != nil {
		return Artifact{}, err
	}

	return g.render(KindMiddleware, "middleware/default", self, ExtTypeScript, md, render.Context{
		"imports":    list,
		"className":  className,
		"tokenName":  naming.UpperSnakeCase(className),
		"timingKey":  n.Camel + "ElapsedMs",
		"withLogger": opts.WithLogger,
		"withTiming": opts.WithTiming,
	})
}
