package codegen

import (
	"errors"
	"fmt"

	"github.com/struktos/struktgen/internal/fields"
	"github.com/struktos/struktgen/internal/importpath"
	"github.com/struktos/struktgen/internal/metadata"
	"github.com/struktos/struktgen/internal/naming"
	"github.com/struktos/struktgen/internal/render"
)

// Artifact kinds produced by the entity orchestrator.
const (
	KindEntity         = "entity"
	KindRepository     = "repository"
	KindRepositoryImpl = "repository-impl"
)

// ErrIDRequired is returned when an in-memory repository is requested for an
// entity that has no id field to key its items on.
var ErrIDRequired = errors.New("in-memory repository requires an id field")

// EntityOptions configures entity and repository generation.
type EntityOptions struct {
	Fields []fields.Field
	// WithoutID skips the synthetic id field.
	WithoutID bool
	// WithImplementation adds an in-memory repository to GenerateEntityFeature.
	WithImplementation bool
}

func (o EntityOptions) fieldList() []fields.Field {
	if o.WithoutID {
		return o.Fields
	}
	return fields.WithID(o.Fields)
}

func idField(fs []fields.Field) (fields.Field, bool) {
	for _, f := range fs {
		if f.Name == "id" {
			return f, true
		}
	}
	return fields.Field{}, false
}

func idType(fs []fields.Field) string {
	if f, ok := idField(fs); ok {
		return f.TSType()
	}
	return string(fields.TypeString)
}

func entityPath(md *metadata.Metadata, n names) (string, error) {
	return artifactPath(md, metadata.RoleEntities, n.Kebab+".entity")
}

func repositoryPath(md *metadata.Metadata, n names) (string, error) {
	return artifactPath(md, metadata.RoleRepositories, n.Kebab+".repository.interface")
}

func repositoryImplPath(md *metadata.Metadata, n names) (string, error) {
	return artifactPath(md, metadata.RolePersistence, "in-memory-"+n.Kebab+".repository")
}

// GenerateEntity renders the entity class for name.
func (g *Generator) GenerateEntity(name string, opts EntityOptions) (Artifact, error) {
	if err := naming.ValidateEntityName(name); err != nil {
		return Artifact{}, err
	}
	n := deriveNames(name)
	md := g.Metadata()

	self, err := entityPath(md, n)
	if err != nil {
		return Artifact{}, err
	}

	return g.render(KindEntity, "entity/default", self, ExtTypeScript, md, render.Context{
		"className": n.Pascal,
		"fields":    opts.fieldList(),
	})
}

// GenerateRepository renders the repository interface for entity name.
func (g *Generator) GenerateRepository(name string, opts EntityOptions) (Artifact, error) {
	if err := naming.ValidateEntityName(name); err != nil {
		return Artifact{}, err
	}
	n := deriveNames(name)
	md := g.Metadata()

	self, err := repositoryPath(md, n)
	if err != nil {
		return Artifact{}, err
	}
	entity, err := entityPath(md, n)
	if err != nil {
		return Artifact{}, err
	}

	imports := newImportSet(self, md)
	imports.core("IRepository")
	imports.add(importpath.Internal(entity), n.Pascal)
	list, err := imports.list()
	if err != nil {
		return Artifact{}, err
	}

	return g.render(KindRepository, "repository/interface", self, ExtTypeScript, md, render.Context{
		"className":     n.Pascal,
		"entityVar":     n.Camel,
		"interfaceName": "I" + n.Pascal + "Repository",
		"tokenName":     n.UpperSnake + "_REPOSITORY",
		"idType":        idType(opts.fieldList()),
		"imports":       list,
	})
}

// GenerateRepositoryImpl renders an in-memory implementation of the
// repository interface for entity name.
func (g *Generator) GenerateRepositoryImpl(name string, opts EntityOptions) (Artifact, error) {
	if err := naming.ValidateEntityName(name); err != nil {
		return Artifact{}, err
	}
	if _, ok := idField(opts.fieldList()); !ok {
		return Artifact{}, fmt.Errorf("%w: %s", ErrIDRequired, name)
	}
	n := deriveNames(name)
	md := g.Metadata()

	self, err := repositoryImplPath(md, n)
	if err != nil {
		return Artifact{}, err
	}
	entity, err := entityPath(md, n)
	if err != nil {
		return Artifact{}, err
	}
	repo, err := repositoryPath(md, n)
	if err != nil {
		return Artifact{}, err
	}

	interfaceName := "I" + n.Pascal + "Repository"
	imports := newImportSet(self, md)
	imports.add(importpath.Internal(entity), n.Pascal)
	imports.add(importpath.Internal(repo), interfaceName)
	list, err := imports.list()
	if err != nil {
		return Artifact{}, err
	}

	return g.render(KindRepositoryImpl, "repository/in-memory", self, ExtTypeScript, md, render.Context{
		"className":     n.Pascal,
		"entityVar":     n.Camel,
		"interfaceName": interfaceName,
		"implName":      "InMemory" + n.Pascal + "Repository",
		"idType":        idType(opts.fieldList()),
		"imports":       list,
	})
}

// GenerateEntityFeature renders the entity and its repository interface, plus
// the in-memory implementation when requested. Artifacts rendered before a
// failure are not returned.
func (g *Generator) GenerateEntityFeature(name string, opts EntityOptions) ([]Artifact, error) {
	steps := []func(string, EntityOptions) (Artifact, error){
		g.GenerateEntity,
		g.GenerateRepository,
	}
	if opts.WithImplementation {
		steps = append(steps, g.GenerateRepositoryImpl)
	}

	artifacts := make([]Artifact, 0, len(steps))
	for _, step := range steps {
		a, err := step(name, opts)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}
