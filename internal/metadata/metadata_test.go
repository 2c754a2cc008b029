package metadata

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Test plan:
// 1. Defaults contain every well-known role
// 2. Merge overrides only the leaves it names (pathMap, coreImportMap, scalars)
// 3. A leaf override replaces a whole subtree and vice versa
// 4. Load reads JSON, then YAML, and falls back to defaults when absent or corrupt
// 5. Tree, MarshalJSON and MarshalYAML expose the nested form
// 6. Resolver caches per root, hands out copies, and honours Invalidate/Clear
// 7. FindProjectRoot walks parent directories
// 8. Watcher invalidates the resolver when the document changes

func writeDoc(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, Dir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestDefault_HasEveryRole(t *testing.T) {
	md := Default()
	for _, role := range []string{
		RoleEntities, RoleRepositories, RoleServices, RoleUseCases, RolePorts, RoleDTO,
		RolePersistence, RoleMiddleware, RoleHTTPAdapters, RoleGRPCAdapters, RoleErrors, RoleProto,
	} {
		assert.NotEmpty(t, md.Path(role), role)
	}

	origin, ok := md.Import("IUseCase")
	assert.True(t, ok)
	assert.Equal(t, CorePackage, origin)

	// Default returns independent copies.
	md.PathMap[RoleEntities] = "changed"
	assert.Equal(t, "src/domain/entities", Default().Path(RoleEntities))
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]any
		check    func(t *testing.T, md *Metadata)
	}{
		{
			name: "single nested leaf",
			override: map[string]any{
				"pathMap": map[string]any{
					"infrastructure": map[string]any{"middleware": "src/http/middleware"},
				},
			},
			check: func(t *testing.T, md *Metadata) {
				assert.Equal(t, "src/http/middleware", md.Path(RoleMiddleware))
				assert.Equal(t, "src/domain/entities", md.Path(RoleEntities))
				assert.Equal(t, "src/infrastructure/adapters/grpc", md.Path(RoleGRPCAdapters))
			},
		},
		{
			name: "deep leaf",
			override: map[string]any{
				"pathMap": map[string]any{
					"infrastructure": map[string]any{
						"adapters": map[string]any{"grpc": "src/rpc"},
					},
				},
			},
			check: func(t *testing.T, md *Metadata) {
				assert.Equal(t, "src/rpc", md.Path(RoleGRPCAdapters))
				assert.Equal(t, "src/infrastructure/adapters/http", md.Path(RoleHTTPAdapters))
			},
		},
		{
			name: "scalars and imports",
			override: map[string]any{
				"version":          "2.0.0",
				"frameworkVariant": "fastify",
				"coreImportMap":    map[string]any{"ILogger": "src/common/logger"},
			},
			check: func(t *testing.T, md *Metadata) {
				assert.Equal(t, "2.0.0", md.Version)
				assert.Equal(t, "fastify", md.FrameworkVariant)
				origin, _ := md.Import("ILogger")
				assert.Equal(t, "src/common/logger", origin)
				origin, _ = md.Import("IUseCase")
				assert.Equal(t, CorePackage, origin)
			},
		},
		{
			name: "new role",
			override: map[string]any{
				"pathMap": map[string]any{"presentation": map[string]any{"controllers": "src/controllers"}},
			},
			check: func(t *testing.T, md *Metadata) {
				assert.Equal(t, "src/controllers", md.Path("presentation.controllers"))
			},
		},
		{
			name: "leaf replaces subtree",
			override: map[string]any{
				"pathMap": map[string]any{
					"infrastructure": map[string]any{"adapters": "src/adapters"},
				},
			},
			check: func(t *testing.T, md *Metadata) {
				assert.Equal(t, "src/adapters", md.Path("infrastructure.adapters"))
				assert.Empty(t, md.Path(RoleGRPCAdapters))
				assert.Empty(t, md.Path(RoleHTTPAdapters))
				assert.Equal(t, "src/infrastructure/middleware", md.Path(RoleMiddleware))
			},
		},
		{
			name: "non-string leaves and wrong shapes are ignored",
			override: map[string]any{
				"version":       3,
				"pathMap":       map[string]any{"domain": map[string]any{"entities": 42}},
				"coreImportMap": []any{"x"},
			},
			check: func(t *testing.T, md *Metadata) {
				assert.Equal(t, "1.0.0", md.Version)
				assert.Equal(t, "src/domain/entities", md.Path(RoleEntities))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := Default()
			md := Merge(base, tt.override)
			tt.check(t, md)
			// The base is never modified.
			assert.Equal(t, Default(), base)
		})
	}
}

func TestSetPath_SubtreeUnderLeaf(t *testing.T) {
	md := Default()
	md.SetPath(RoleProto, "protos")
	md.SetPath("proto.v1", "protos/v1")

	assert.Empty(t, md.Path(RoleProto))
	assert.Equal(t, "protos/v1", md.Path("proto.v1"))
}

func TestLoad(t *testing.T) {
	t.Run("no document", func(t *testing.T) {
		assert.Equal(t, Default(), Load(t.TempDir()))
	})

	t.Run("json document", func(t *testing.T) {
		root := t.TempDir()
		writeDoc(t, root, JSONFile, `{
			"version": "1.2.0",
			"pathMap": {"infrastructure": {"middleware": "src/mw"}}
		}`)

		md := Load(root)
		assert.Equal(t, "1.2.0", md.Version)
		assert.Equal(t, "src/mw", md.Path(RoleMiddleware))
		assert.Equal(t, "src/domain/entities", md.Path(RoleEntities))
	})

	t.Run("yaml document", func(t *testing.T) {
		root := t.TempDir()
		writeDoc(t, root, YAMLFile, "frameworkVariant: nest\npathMap:\n  domain:\n    entities: src/model\n")

		md := Load(root)
		assert.Equal(t, "nest", md.FrameworkVariant)
		assert.Equal(t, "src/model", md.Path(RoleEntities))
	})

	t.Run("json wins over yaml", func(t *testing.T) {
		root := t.TempDir()
		writeDoc(t, root, JSONFile, `{"frameworkVariant": "koa"}`)
		writeDoc(t, root, YAMLFile, "frameworkVariant: nest\n")

		assert.Equal(t, "koa", Load(root).FrameworkVariant)
	})

	t.Run("corrupt document falls back to defaults", func(t *testing.T) {
		root := t.TempDir()
		writeDoc(t, root, JSONFile, `{"pathMap": {`)

		assert.Equal(t, Default(), Load(root))
	})

	t.Run("non-object document falls back to defaults", func(t *testing.T) {
		root := t.TempDir()
		writeDoc(t, root, JSONFile, `["not", "an", "object"]`)

		assert.Equal(t, Default(), Load(root))
	})
}

func TestLoadContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	md, err := LoadContext(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, md)
}

func TestTreeAndJSON(t *testing.T) {
	md := Default()
	tree := md.Tree()

	domain, ok := tree["domain"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "src/domain/entities", domain["entities"])

	infra := tree["infrastructure"].(map[string]any)
	adapters := infra["adapters"].(map[string]any)
	assert.Equal(t, "src/infrastructure/adapters/grpc", adapters["grpc"])
	assert.Equal(t, "protos", tree["proto"])

	data, err := json.Marshal(md)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	// Round trip through Merge reproduces the same metadata.
	assert.Equal(t, md, Merge(Default(), doc))
}

func TestYAMLRoundTrip(t *testing.T) {
	md := Default()
	md.SetPath(RoleUseCases, "src/app/use-cases")
	md.CoreImportMap["ILogger"] = "@acme/logging"

	data, err := yaml.Marshal(md)
	require.NoError(t, err)
	assert.Contains(t, string(data), "frameworkVariant: express")

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, md, Merge(Default(), doc))
}

func TestResolver(t *testing.T) {
	root := t.TempDir()
	var loads int32

	r := NewResolver()
	r.load = func(projectRoot string) *Metadata {
		atomic.AddInt32(&loads, 1)
		return Load(projectRoot)
	}

	first := r.Get(root)
	first.PathMap[RoleEntities] = "mutated"

	second := r.Get(root)
	assert.Equal(t, "src/domain/entities", second.Path(RoleEntities), "callers receive copies")
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))

	writeDoc(t, root, JSONFile, `{"pathMap": {"domain": {"entities": "src/model"}}}`)
	assert.Equal(t, "src/domain/entities", r.Get(root).Path(RoleEntities), "cached until invalidated")

	r.Invalidate(root)
	assert.Equal(t, "src/model", r.Get(root).Path(RoleEntities))
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))

	r.Clear()
	r.Get(root)
	assert.Equal(t, int32(3), atomic.LoadInt32(&loads))
}

func TestStaticResolver(t *testing.T) {
	md := Default()
	md.Version = "9.9.9"

	r := NewStaticResolver(md)
	assert.Equal(t, "9.9.9", r.Get("anything").Version)
	assert.Equal(t, "9.9.9", r.Get("elsewhere").Version)
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, Dir), 0755))
	nested := filepath.Join(root, "src", "domain")
	require.NoError(t, os.MkdirAll(nested, 0755))

	got, err := FindProjectRoot(nested)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, gotResolved)

	pkgRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(pkgRoot, "package.json"), []byte("{}"), 0644))
	got, err = FindProjectRoot(pkgRoot)
	require.NoError(t, err)
	assert.Equal(t, pkgRoot, got)
}

func TestWatcher_InvalidatesResolver(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, JSONFile, `{}`)

	r := NewResolver()
	assert.Equal(t, "src/domain/entities", r.Get(root).Path(RoleEntities))

	var changes int32
	w, err := NewWatcher(root, r, func(string) { atomic.AddInt32(&changes, 1) }, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	writeDoc(t, root, JSONFile, `{"pathMap": {"domain": {"entities": "src/model"}}}`)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&changes) > 0 && r.Get(root).Path(RoleEntities) == "src/model"
	}, 2*time.Second, 20*time.Millisecond)
}
