package codegen

import (
	"errors"
	"fmt"
	"path"

	"github.com/struktos/struktgen/internal/fields"
	"github.com/struktos/struktgen/internal/importpath"
	"github.com/struktos/struktgen/internal/metadata"
	"github.com/struktos/struktgen/internal/naming"
	"github.com/struktos/struktgen/internal/render"
)

// KindUseCase is the artifact kind of a use case.
const KindUseCase = "usecase"

// ErrUnknownAction is returned for use case actions outside Actions.
var ErrUnknownAction = errors.New("unknown use case action")

// Action is the operation a use case performs on its entity.
type Action string

const (
	ActionCreate Action = "create"
	ActionGet    Action = "get"
	ActionList   Action = "list"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actions lists the supported use case actions.
var Actions = []Action{ActionCreate, ActionGet, ActionList, ActionUpdate, ActionDelete}

// ParseAction validates s. An empty string selects ActionCreate.
func ParseAction(s string) (Action, error) {
	if s == "" {
		return ActionCreate, nil
	}
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid: %v)", ErrUnknownAction, s, Actions)
}

// UseCaseOptions configures use case generation.
type UseCaseOptions struct {
	Action         Action
	WithRepository bool
	WithLogger     bool
	WithValidation bool
	// Fields describe the entity; non-optional ones are validated on create.
	Fields []fields.Field
}

// outputType is the success payload type of a use case.
func (a Action) outputType(entity string) string {
	switch a {
	case ActionList:
		return entity + "[]"
	case ActionDelete:
		return "void"
	default:
		return entity
	}
}

// entitySymbols are the names a use case imports from the entity file.
func (a Action) entitySymbols(entity string) []string {
	switch a {
	case ActionCreate, ActionUpdate:
		return []string{entity, entity + "Props"}
	case ActionGet, ActionList:
		return []string{entity}
	default:
		return nil
	}
}

func requiredFields(fs []fields.Field) []fields.Field {
	out := make([]fields.Field, 0, len(fs))
	for _, f := range fs {
		if f.Optional || f.Name == "id" {
			continue
		}
		out = append(out, f)
	}
	return out
}

// GenerateUseCase renders a use case operating on entity name.
func (g *Generator) GenerateUseCase(name string, opts UseCaseOptions) (Artifact, error) {
	if err := naming.ValidateEntityName(name); err != nil {
		return Artifact{}, err
	}
	action, err := ParseAction(string(opts.Action))
	if err != nil {
		return Artifact{}, err
	}
	n := deriveNames(name)
	md := g.Metadata()

	useCaseDir, err := artifactPath(md, metadata.RoleUseCases, n.Kebab)
	if err != nil {
		return Artifact{}, err
	}
	self := path.Join(useCaseDir, string(action)+"-"+n.Kebab+".use-case")

	actionName := naming.PascalCase(string(action))
	className := actionName + n.Pascal + "UseCase"
	repositoryInterface := "I" + n.Pascal + "Repository"
	fieldList := fields.WithID(opts.Fields)

	imports := newImportSet(self, md)
	imports.core("IUseCase", "Result")
	if opts.WithLogger {
		imports.core("ILogger")
	}
	if opts.WithValidation {
		imports.core("ValidationError")
	}
	if symbols := action.entitySymbols(n.Pascal); len(symbols) > 0 {
		entity, err := entityPath(md, n)
		if err != nil {
			return Artifact{}, err
		}
		imports.add(importpath.Internal(entity), symbols...)
	}
	if opts.WithRepository {
		repo, err := repositoryPath(md, n)
		if err != nil {
			return Artifact{}, err
		}
		imports.add(importpath.Internal(repo), repositoryInterface)
	}
	list, err := imports.list()
	if err != nil {
		return Artifact{}, err
	}

	return g.render(KindUseCase, "use-case/default", self, ExtTypeScript, md, render.Context{
		"imports":             list,
		"action":              string(action),
		"className":           className,
		"inputName":           actionName + n.Pascal + "Input",
		"entityName":          n.Pascal,
		"entityVar":           n.Camel,
		"pluralVar":           n.Plural,
		"idType":              idType(fieldList),
		"outputType":          action.outputType(n.Pascal),
		"hasDependencies":     opts.WithRepository || opts.WithLogger,
		"withRepository":      opts.WithRepository,
		"repositoryVar":       n.Camel + "Repository",
		"repositoryInterface": repositoryInterface,
		"withLogger":          opts.WithLogger,
		"withValidation":      opts.WithValidation,
		"requiredFields":      requiredFields(fieldList),
	})
}
