package codegen

import (
	"github.com/struktos/struktgen/internal/fields"
)

// Option names shared by the built-in kinds.
const (
	OptFields             = "fields"
	OptWithImplementation = "with-implementation"
	OptWithoutID          = "without-id"
	OptAction             = "action"
	OptWithRepository     = "with-repository"
	OptWithLogger         = "with-logger"
	OptWithValidation     = "with-validation"
	OptWithTiming         = "with-timing"
	OptMethods            = "methods"
	OptWithPort           = "with-port"
	OptBaseURL            = "base-url"
)

// DefaultRegistry is the global registry instance with the built-in kinds
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(Kind{
		Name:        "entity",
		Description: "Domain entity with repository interface",
		Options: []OptionSpec{
			{Name: OptFields, Usage: "entity fields, e.g. name:string,age:number?"},
			{Name: OptWithImplementation, Usage: "also generate an in-memory repository", Bool: true},
			{Name: OptWithoutID, Usage: "do not add an id field (needs an id in --fields for --with-implementation)", Bool: true},
		},
		Generate: generateEntity,
	})

	DefaultRegistry.Register(Kind{
		Name:        "usecase",
		Description: "Application use case for an entity",
		Options: []OptionSpec{
			{Name: OptAction, Usage: "create, get, list, update or delete", Default: string(ActionCreate)},
			{Name: OptFields, Usage: "entity fields validated on create"},
			{Name: OptWithRepository, Usage: "inject the entity repository", Bool: true},
			{Name: OptWithLogger, Usage: "inject a logger", Bool: true},
			{Name: OptWithValidation, Usage: "validate input before executing (imports ValidationError via coreImportMap; its default origin src/common/errors/validation.error is not generated)", Bool: true},
		},
		Generate: generateUseCase,
	})

	DefaultRegistry.Register(Kind{
		Name:        "middleware",
		Description: "Request pipeline middleware",
		Options: []OptionSpec{
			{Name: OptWithLogger, Usage: "inject a logger", Bool: true},
			{Name: OptWithTiming, Usage: "measure handling time", Bool: true},
		},
		Generate: generateMiddleware,
	})

	DefaultRegistry.Register(Kind{
		Name:        "client",
		Description: "HTTP client for a remote service",
		Options: []OptionSpec{
			{Name: OptMethods, Usage: "comma-separated client methods", Default: DefaultClientMethod},
			{Name: OptWithPort, Usage: "also generate the port interface", Bool: true},
			{Name: OptBaseURL, Usage: "default base URL", Default: DefaultBaseURL},
		},
		Generate: generateClient,
	})

	DefaultRegistry.Register(Kind{
		Name:        "service",
		Description: "gRPC service: proto, handler and registration",
		Options: []OptionSpec{
			{Name: OptMethods, Usage: "comma-separated RPC methods", Default: DefaultServiceMethod},
			{Name: OptFields, Usage: "record fields carried by each message"},
		},
		Generate: generateService,
	})
}

func parseFields(req Request) ([]fields.Field, error) {
	return fields.Parse(req.String(OptFields, ""))
}

// bools parses several boolean options, stopping at the first bad value.
func bools(req Request, keys ...string) ([]bool, error) {
	out := make([]bool, len(keys))
	for i, key := range keys {
		b, err := req.Bool(key)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func generateEntity(g *Generator, req Request) ([]Artifact, error) {
	fs, err := parseFields(req)
	if err != nil {
		return nil, err
	}
	b, err := bools(req, OptWithImplementation, OptWithoutID)
	if err != nil {
		return nil, err
	}
	return g.GenerateEntityFeature(req.Name, EntityOptions{Fields: fs, WithImplementation: b[0], WithoutID: b[1]})
}

func generateUseCase(g *Generator, req Request) ([]Artifact, error) {
	fs, err := parseFields(req)
	if err != nil {
		return nil, err
	}
	action, err := ParseAction(req.String(OptAction, ""))
	if err != nil {
		return nil, err
	}
	b, err := bools(req, OptWithRepository, OptWithLogger, OptWithValidation)
	if err != nil {
		return nil, err
	}
	a, err := g.GenerateUseCase(req.Name, UseCaseOptions{
		Action:         action,
		WithRepository: b[0],
		WithLogger:     b[1],
		WithValidation: b[2],
		Fields:         fs,
	})
	if err != nil {
		return nil, err
	}
	return []Artifact{a}, nil
}

func generateMiddleware(g *Generator, req Request) ([]Artifact, error) {
	b, err := bools(req, OptWithLogger, OptWithTiming)
	if err != nil {
		return nil, err
	}
	a, err := g.GenerateMiddleware(req.Name, MiddlewareOptions{WithLogger: b[0], WithTiming: b[1]})
	if err != nil {
		return nil, err
	}
	return []Artifact{a}, nil
}

func generateClient(g *Generator, req Request) ([]Artifact, error) {
	b, err := bools(req, OptWithPort)
	if err != nil {
		return nil, err
	}
	return g.GenerateClientFeature(req.Name, ClientOptions{
		Methods:  req.List(OptMethods),
		WithPort: b[0],
		BaseURL:  req.String(OptBaseURL, ""),
	})
}

func generateService(g *Generator, req Request) ([]Artifact, error) {
	fs, err := parseFields(req)
	if err != nil {
		return nil, err
	}
	return g.GenerateService(req.Name, ServiceOptions{
		Methods: req.List(OptMethods),
		Fields:  fs,
	})
}
