// Package metadata holds the project layout and import-origin configuration
// consumed by the generators.
//
// Path roles are stored flattened as dot-separated key paths
// ("infrastructure.adapters.grpc") so that merging an override document is a
// plain leaf-by-leaf overlay.
package metadata

import (
	"encoding/json"
	"sort"
	"strings"
)

// Well-known path roles.
const (
	RoleEntities     = "domain.entities"
	RoleRepositories = "domain.repositories"
	RoleServices     = "domain.services"
	RoleUseCases     = "application.useCases"
	RolePorts        = "application.ports"
	RoleDTO          = "application.dto"
	RolePersistence  = "infrastructure.persistence"
	RoleMiddleware   = "infrastructure.middleware"
	RoleHTTPAdapters = "infrastructure.adapters.http"
	RoleGRPCAdapters = "infrastructure.adapters.grpc"
	RoleErrors       = "common.errors"
	RoleProto        = "proto"
)

// CorePackage is the framework package most core symbols come from.
const CorePackage = "@struktos/core"

// Metadata is the merged project configuration.
type Metadata struct {
	Version          string
	FrameworkVariant string
	// CoreImportMap maps a symbol name to the module it is imported from.
	CoreImportMap map[string]string
	// PathMap maps a flattened role key path to a project directory.
	PathMap map[string]string
}

// Default returns a fresh copy of the built-in metadata.
func Default() *Metadata {
	return &Metadata{
		Version:          "1.0.0",
		FrameworkVariant: "express",
		CoreImportMap: map[string]string{
			"IUseCase":          CorePackage,
			"Result":            CorePackage,
			"IMiddleware":       CorePackage,
			"MiddlewareContext": CorePackage,
			"NextFunction":      CorePackage,
			"RequestContext":    CorePackage,
			"ILogger":           CorePackage,
			"IRepository":       CorePackage,
			"IHttpClient":       "@struktos/adapter-http",
			"ValidationError":   "src/common/errors/validation.error",
			"grpc":              "@grpc/grpc-js",
			"protoLoader":       "@grpc/proto-loader",
		},
		PathMap: map[string]string{
			RoleEntities:     "src/domain/entities",
			RoleRepositories: "src/domain/repositories",
			RoleServices:     "src/domain/services",
			RoleUseCases:     "src/application/use-cases",
			RolePorts:        "src/application/ports",
			RoleDTO:          "src/application/dto",
			RolePersistence:  "src/infrastructure/persistence",
			RoleMiddleware:   "src/infrastructure/middleware",
			RoleHTTPAdapters: "src/infrastructure/adapters/http",
			RoleGRPCAdapters: "src/infrastructure/adapters/grpc",
			RoleErrors:       "src/common/errors",
			RoleProto:        "protos",
		},
	}
}

// Path returns the directory registered for role, or "" if none is.
func (m *Metadata) Path(role string) string {
	return m.PathMap[role]
}

// Import returns the module symbol is imported from and whether it is known.
func (m *Metadata) Import(symbol string) (string, bool) {
	origin, ok := m.CoreImportMap[symbol]
	return origin, ok
}

// Roles returns the registered role keys in sorted order.
func (m *Metadata) Roles() []string {
	roles := make([]string, 0, len(m.PathMap))
	for role := range m.PathMap {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// Clone returns a deep copy of m.
func (m *Metadata) Clone() *Metadata {
	c := &Metadata{
		Version:          m.Version,
		FrameworkVariant: m.FrameworkVariant,
		CoreImportMap:    make(map[string]string, len(m.CoreImportMap)),
		PathMap:          make(map[string]string, len(m.PathMap)),
	}
	for k, v := range m.CoreImportMap {
		c.CoreImportMap[k] = v
	}
	for k, v := range m.PathMap {
		c.PathMap[k] = v
	}
	return c
}

// SetPath assigns dir to role. A leaf replaces any subtree below it, and a
// leaf under an existing leaf replaces that leaf.
func (m *Metadata) SetPath(role, dir string) {
	prefix := role + "."
	for key := range m.PathMap {
		if strings.HasPrefix(key, prefix) || strings.HasPrefix(role, key+".") {
			delete(m.PathMap, key)
		}
	}
	m.PathMap[role] = dir
}

// Tree returns PathMap expanded back into nested maps.
func (m *Metadata) Tree() map[string]any {
	tree := map[string]any{}
	for _, role := range m.Roles() {
		parts := strings.Split(role, ".")
		node := tree
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = m.PathMap[role]
	}
	return tree
}

// MarshalJSON writes the document form with a nested pathMap.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.document())
}

// MarshalYAML writes the same document form as MarshalJSON.
func (m *Metadata) MarshalYAML() (any, error) {
	return m.document(), nil
}

func (m *Metadata) document() document {
	return document{
		Version:          m.Version,
		FrameworkVariant: m.FrameworkVariant,
		CoreImportMap:    m.CoreImportMap,
		PathMap:          m.Tree(),
	}
}

type document struct {
	Version          string            `json:"version" yaml:"version"`
	FrameworkVariant string            `json:"frameworkVariant" yaml:"frameworkVariant"`
	CoreImportMap    map[string]string `json:"coreImportMap" yaml:"coreImportMap"`
	PathMap          map[string]any    `json:"pathMap" yaml:"pathMap"`
}

// Merge overlays an override document onto a copy of base. Scalars present in
// the override replace the base value, and every string leaf under
// coreImportMap and pathMap replaces exactly that leaf.
func Merge(base *Metadata, override map[string]any) *Metadata {
	merged := base.Clone()

	if v, ok := override["version"].(string); ok {
		merged.Version = v
	}
	if v, ok := override["frameworkVariant"].(string); ok {
		merged.FrameworkVariant = v
	}
	if imports, ok := asMap(override["coreImportMap"]); ok {
		for symbol, origin := range Flatten(imports) {
			merged.CoreImportMap[symbol] = origin
		}
	}
	if paths, ok := asMap(override["pathMap"]); ok {
		flat := Flatten(paths)
		keys := make([]string, 0, len(flat))
		for k := range flat {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			merged.SetPath(k, flat[k])
		}
	}

	return merged
}

// Flatten converts a nested map into dot-separated key paths. Only string
// leaves are kept.
func Flatten(tree map[string]any) map[string]string {
	out := map[string]string{}
	flattenInto(out, "", tree)
	return out
}

func flattenInto(out map[string]string, prefix string, tree map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		default:
			if child, ok := asMap(val); ok {
				flattenInto(out, key, child)
			}
		}
	}
}

// asMap accepts the map shapes produced by encoding/json and yaml.v3.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}
