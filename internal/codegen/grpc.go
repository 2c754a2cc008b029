package codegen

import (
	"strings"

	"github.com/struktos/struktgen/internal/fields"
	"github.com/struktos/struktgen/internal/importpath"
	"github.com/struktos/struktgen/internal/metadata"
	"github.com/struktos/struktgen/internal/naming"
	"github.com/struktos/struktgen/internal/render"
)

// Artifact kinds produced by the service orchestrator.
const (
	KindProto        = "proto"
	KindHandler      = "handler"
	KindRegistration = "registration"
)

// DefaultServiceMethod is the RPC generated when none is given.
const DefaultServiceMethod = "Get"

// Well-known proto imports for non-scalar field types.
const (
	protoTimestampImport = "google/protobuf/timestamp.proto"
	protoStructImport    = "google/protobuf/struct.proto"
)

// ServiceOptions configures RPC service generation.
type ServiceOptions struct {
	Methods []string
	// Fields describe the record carried by every request and response.
	// No record message is emitted when empty.
	Fields []fields.Field
}

// RPCMethod is one method of a generated service.
type RPCMethod struct {
	Name     string
	Request  string
	Response string
	// Handler is the implementation method name on the handler class.
	Handler string
}

// service holds the names shared by the proto, handler and registration.
type service struct {
	names
	ServiceName string
	HandlerName string
	RecordName  string
	Methods     []RPCMethod
	Fields      []fields.Field
}

func newService(name string, opts ServiceOptions) (service, error) {
	if err := naming.ValidateServiceName(name); err != nil {
		return service{}, err
	}
	n := deriveNames(name)
	base := strings.TrimSuffix(n.Pascal, "Service")
	if base == "" {
		base = n.Pascal
	}

	methodNames := opts.Methods
	if len(methodNames) == 0 {
		methodNames = []string{DefaultServiceMethod}
	}
	seen := make(map[string]bool, len(methodNames))
	methods := make([]RPCMethod, 0, len(methodNames))
	for _, m := range methodNames {
		if err := naming.ValidateServiceName(m); err != nil {
			return service{}, err
		}
		rpc := naming.PascalCase(m)
		if seen[rpc] {
			continue
		}
		seen[rpc] = true
		methods = append(methods, RPCMethod{
			Name:     rpc,
			Request:  rpc + base + "Request",
			Response: rpc + base + "Response",
			Handler:  naming.CamelCase(rpc),
		})
	}

	var record []fields.Field
	if len(opts.Fields) > 0 {
		record = fields.WithID(opts.Fields)
	}

	return service{
		names:       n,
		ServiceName: base + "Service",
		HandlerName: base + "Handler",
		RecordName:  base + "Record",
		Methods:     methods,
		Fields:      record,
	}, nil
}

// protoImports lists the well-known types the record's fields need.
func (s service) protoImports() []string {
	var timestamp, value bool
	for _, f := range s.Fields {
		switch f.Type {
		case fields.TypeDate:
			timestamp = true
		case fields.TypeAny, fields.TypeUnknown:
			value = true
		}
	}
	var out []string
	if value {
		out = append(out, protoStructImport)
	}
	if timestamp {
		out = append(out, protoTimestampImport)
	}
	return out
}

func protoPath(md *metadata.Metadata, s service) (string, error) {
	return artifactPath(md, metadata.RoleProto, s.Snake)
}

func handlerPath(md *metadata.Metadata, s service) (string, error) {
	return artifactPath(md, metadata.RoleGRPCAdapters, s.Kebab+".handler")
}

// GenerateProto renders the proto3 schema of the service.
func (g *Generator) GenerateProto(name string, opts ServiceOptions) (Artifact, error) {
	s, err := newService(name, opts)
	if err != nil {
		return Artifact{}, err
	}
	md := g.Metadata()

	self, err := protoPath(md, s)
	if err != nil {
		return Artifact{}, err
	}

	return g.render(KindProto, "grpc/proto", self, ExtProto, md, render.Context{
		"protoPackage": s.Snake,
		"protoImports": s.protoImports(),
		"serviceName":  s.ServiceName,
		"methods":      s.Methods,
		"fields":       s.Fields,
		"recordName":   s.RecordName,
	})
}

// GenerateHandler renders the handler class implementing the service.
func (g *Generator) GenerateHandler(name string, opts ServiceOptions) (Artifact, error) {
	s, err := newService(name, opts)
	if err != nil {
		return Artifact{}, err
	}
	md := g.Metadata()

	self, err := handlerPath(md, s)
	if err != nil {
		return Artifact{}, err
	}
	proto, err := protoPath(md, s)
	if err != nil {
		return Artifact{}, err
	}
	grpcImport, err := coreTarget(md, "grpc")
	if err != nil {
		return Artifact{}, err
	}

	return g.render(KindHandler, "grpc/handler", self, ExtTypeScript, md, render.Context{
		"grpcImport":  grpcImport.From(self),
		"serviceName": s.ServiceName,
		"protoFile":   proto + ExtProto,
		"handlerName": s.HandlerName,
		"methods":     s.Methods,
	})
}

// GenerateRegistration renders the function that loads the proto and binds
// the handler to a gRPC server.
func (g *Generator) GenerateRegistration(name string, opts ServiceOptions) (Artifact, error) {
	s, err := newService(name, opts)
	if err != nil {
		return Artifact{}, err
	}
	md := g.Metadata()

	self, err := artifactPath(md, metadata.RoleGRPCAdapters, s.Kebab+".registration")
	if err != nil {
		return Artifact{}, err
	}
	proto, err := protoPath(md, s)
	if err != nil {
		return Artifact{}, err
	}
	handler, err := handlerPath(md, s)
	if err != nil {
		return Artifact{}, err
	}
	grpcImport, err := coreTarget(md, "grpc")
	if err != nil {
		return Artifact{}, err
	}
	loaderImport, err := coreTarget(md, "protoLoader")
	if err != nil {
		return Artifact{}, err
	}

	imports := newImportSet(self, md)
	imports.add(importpath.Internal(handler), s.HandlerName)
	list, err := imports.list()
	if err != nil {
		return Artifact{}, err
	}

	return g.render(KindRegistration, "grpc/registration", self, ExtTypeScript, md, render.Context{
		"grpcImport":        grpcImport.From(self),
		"protoLoaderImport": loaderImport.From(self),
		"imports":           list,
		"protoImport":       importpath.Internal(proto).From(self),
		"serviceName":       s.ServiceName,
		"handlerName":       s.HandlerName,
		"protoPackage":      s.Snake,
		"methods":           s.Methods,
	})
}

// GenerateService renders the proto, handler and registration of a service.
func (g *Generator) GenerateService(name string, opts ServiceOptions) ([]Artifact, error) {
	steps := []func(string, ServiceOptions) (Artifact, error){
		g.GenerateProto,
		g.GenerateHandler,
		g.GenerateRegistration,
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
