package codegen

import (
	"github.com/struktos/struktgen/internal/importpath"
	"github.com/struktos/struktgen/internal/metadata"
	"github.com/struktos/struktgen/internal/naming"
	"github.com/struktos/struktgen/internal/render"
)

// Artifact kinds produced by the client orchestrator.
const (
	KindPort   = "port"
	KindClient = "client"
)

// Client defaults.
const (
	DefaultClientMethod = "request"
	DefaultBaseURL      = "http://localhost:3000"
)

// ClientOptions configures port and HTTP client generation.
type ClientOptions struct {
	// Methods are the remote operations, one client method each.
	Methods  []string
	WithPort bool
	BaseURL  string
}

func (o ClientOptions) withDefaults() ClientOptions {
	if len(o.Methods) == 0 {
		o.Methods = []string{DefaultClientMethod}
	}
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	return o
}

// ClientMethod is one operation exposed by a port and its client.
type ClientMethod struct {
	Name  string
	Route string
}

func clientMethods(methods []string) ([]ClientMethod, error) {
	out := make([]ClientMethod, 0, len(methods))
	seen := make(map[string]bool, len(methods))
	for _, m := range methods {
		if err := naming.ValidateServiceName(m); err != nil {
			return nil, err
		}
		name := naming.CamelCase(m)
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, ClientMethod{Name: name, Route: naming.KebabCase(m)})
	}
	return out, nil
}

func portPath(md *metadata.Metadata, n names) (string, error) {
	return artifactPath(md, metadata.RolePorts, n.Kebab+".port")
}

// GeneratePort renders the port interface a client implements.
func (g *Generator) GeneratePort(name string, opts ClientOptions) (Artifact, error) {
	if err := naming.ValidateEntityName(name); err != nil {
		return Artifact{}, err
	}
	opts = opts.withDefaults()
	methods, err := clientMethods(opts.Methods)
	if err != nil {
		return Artifact{}, err
	}
	n := deriveNames(name)
	md := g.Metadata()

	self, err := portPath(md, n)
	if err != nil {
		return Artifact{}, err
	}

	return g.render(KindPort, "client/port", self, ExtTypeScript, md, render.Context{
		"portName":  n.Pascal + "Port",
		"tokenName": n.UpperSnake + "_PORT",
		"methods":   methods,
	})
}

// GenerateClient renders an HTTP client class for name.
func (g *Generator) GenerateClient(name string, opts ClientOptions) (Artifact, error) {
	if err := naming.ValidateEntityName(name); err != nil {
		return Artifact{}, err
	}
	opts = opts.withDefaults()
	methods, err := clientMethods(opts.Methods)
	if err != nil {
		return Artifact{}, err
	}
	n := deriveNames(name)
	md := g.Metadata()

	self, err := artifactPath(md, metadata.RoleHTTPAdapters, n.Kebab+".client")
	if err != nil {
		return Artifact{}, err
	}

	portName := n.Pascal + "Port"
	imports := newImportSet(self, md)
	imports.core("IHttpClient")
	if opts.WithPort {
		port, err := portPath(md, n)
		if err != nil {
			return Artifact{}, err
		}
		imports.add(importpath.Internal(port), portName)
	}
	list, err := imports.list()
	if err != nil {
		return Artifact{}, err
	}

	return g.render(KindClient, "client/http", self, ExtTypeScript, md, render.Context{
		"imports":   list,
		"className": n.Pascal + "Client",
		"withPort":  opts.WithPort,
		"portName":  portName,
		"baseUrl":   opts.BaseURL,
		"methods":   methods,
	})
}

// GenerateClientFeature renders the client and, when requested, its port.
func (g *Generator) GenerateClientFeature(name string, opts ClientOptions) ([]Artifact, error) {
	var artifacts []Artifact
	if opts.WithPort {
		port, err := g.GeneratePort(name, opts)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, port)
	}
	client, err := g.GenerateClient(name, opts)
	if err != nil {
		return nil, err
	}
	return append(artifacts, client), nil
}
