// Package render compiles and executes the named templates that produce
// generated source files.
//
// Output is plain text: nothing is escaped, because the templates emit
// source code rather than markup.
package render

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/rs/zerolog"

	"github.com/struktos/struktgen/internal/metadata"
)

//go:embed templates
var embedded embed.FS

// Extension is the file suffix of template sources.
const Extension = ".tmpl"

// EmbeddedRoot identifies the built-in template set in cache keys.
const EmbeddedRoot = "embedded"

// Reserved context keys populated from metadata on every render.
const (
	KeyMetadata         = "metadata"
	KeyCoreImportMap    = "coreImportMap"
	KeyPathMap          = "pathMap"
	KeyVersion          = "version"
	KeyFrameworkVariant = "frameworkVariant"
)

// ErrTemplateNotFound is returned when a template name has no source under
// the engine's template root.
var ErrTemplateNotFound = errors.New("template not found")

// Context is the data visible to a template.
type Context map[string]any

// Engine renders named templates from a template root.
type Engine struct {
	fsys     fs.FS
	rootID   string
	cache    *Cache
	metadata *metadata.Metadata
	now      func() time.Time
	logger   zerolog.Logger

	mu       sync.Mutex
	partials map[string]string

	// partialFiles maps partial names to the template they are read from.
	partialFiles map[string]string
}

// Option configures an Engine.
type Option func(*Engine)

// WithFS renders templates from fsys. rootID distinguishes the root in the cache.
func WithFS(fsys fs.FS, rootID string) Option {
	return func(e *Engine) {
		e.fsys = fsys
		e.rootID = rootID
	}
}

// WithDir renders templates from a directory on disk.
func WithDir(dir string) Option {
	return func(e *Engine) {
		e.fsys = os.DirFS(dir)
		e.rootID = absOrClean(dir)
	}
}

// WithOverlayDir renders templates from dir, falling back to the built-in
// templates for names dir does not provide.
func WithOverlayDir(dir string) Option {
	return func(e *Engine) {
		e.fsys = overlayFS{primary: os.DirFS(dir), fallback: Builtin()}
		e.rootID = "overlay:" + absOrClean(dir)
	}
}

// WithMetadata sets the metadata merged into every render that does not
// supply its own.
func WithMetadata(md *metadata.Metadata) Option {
	return func(e *Engine) {
		e.metadata = md
	}
}

// WithClock sets the time source used by the dateStamp helper.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets the engine's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Builtin returns the embedded template set.
func Builtin() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}

// New creates an engine. Without options it renders the built-in templates
// with default metadata.
func New(opts ...Option) *Engine {
	e := &Engine{
		fsys:         Builtin(),
		rootID:       EmbeddedRoot,
		cache:        NewCache(),
		metadata:     metadata.Default(),
		now:          time.Now,
		logger:       zerolog.Nop(),
		partials:     make(map[string]string),
		partialFiles: make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With().Str("component", "render").Str("root", e.rootID).Logger()
	return e
}

// Cache exposes the engine's template cache.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// Clear drops every compiled template. Partials registered from files are
// read again on the next render.
func (e *Engine) Clear() {
	e.cache.Clear()
}

// RegisterPartial makes source available to templates as {{template "name"}}.
// Compiled templates are dropped so that later renders see the partial.
func (e *Engine) RegisterPartial(name, source string) {
	e.mu.Lock()
	e.partials[name] = source
	delete(e.partialFiles, name)
	e.mu.Unlock()

	e.cache.Clear()
}

// RegisterPartialFile registers the template stored under templateName as a
// partial called name. The source is re-read whenever templates are
// recompiled, so edits show up after Clear.
func (e *Engine) RegisterPartialFile(name, templateName string) error {
	if _, err := e.source(templateName); err != nil {
		return err
	}

	e.mu.Lock()
	e.partialFiles[name] = templateName
	delete(e.partials, name)
	e.mu.Unlock()

	e.cache.Clear()
	return nil
}

// Exists reports whether the engine can find a source for name.
func (e *Engine) Exists(name string) bool {
	_, err := e.source(name)
	return err == nil
}

// Render executes the named template with data merged over the engine's metadata.
func (e *Engine) Render(name string, data Context) (string, error) {
	return e.RenderWithMetadata(name, data, e.metadata)
}

// RenderWithMetadata executes the named template with data merged over md.
func (e *Engine) RenderWithMetadata(name string, data Context, md *metadata.Metadata) (string, error) {
	tmpl, err := e.compiled(name)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, MergeContext(data, md)); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return sb.String(), nil
}

// MergeContext returns a shallow copy of data with metadata attached under
// the reserved keys. Reserved keys always hold the metadata values.
func MergeContext(data Context, md *metadata.Metadata) Context {
	if md == nil {
		md = metadata.Default()
	}

	out := make(Context, len(data)+5)
	for k, v := range data {
		out[k] = v
	}
	out[KeyMetadata] = md
	out[KeyCoreImportMap] = md.CoreImportMap
	out[KeyPathMap] = md.Tree()
	out[KeyVersion] = md.Version
	out[KeyFrameworkVariant] = md.FrameworkVariant
	return out
}

func (e *Engine) compiled(name string) (*template.Template, error) {
	if tmpl, ok := e.cache.Get(e.rootID, name); ok {
		return tmpl, nil
	}

	source, err := e.source(name)
	if err != nil {
		return nil, err
	}

	partials, err := e.partialSources()
	if err != nil {
		return nil, err
	}

	tmpl := template.New(name).Funcs(e.funcs())

	names := make([]string, 0, len(partials))
	for p := range partials {
		names = append(names, p)
	}
	sort.Strings(names)
	for _, p := range names {
		if _, err := tmpl.New(p).Parse(partials[p]); err != nil {
			return nil, fmt.Errorf("failed to parse partial %s: %w", p, err)
		}
	}

	if _, err := tmpl.Parse(source); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	e.cache.Put(e.rootID, name, tmpl)
	e.logger.Debug().Str("template", name).Msg("compiled template")
	return tmpl, nil
}

// partialSources snapshots the registered partials, reading file-backed
// ones from the template root.
func (e *Engine) partialSources() (map[string]string, error) {
	e.mu.Lock()
	out := make(map[string]string, len(e.partials)+len(e.partialFiles))
	for name, source := range e.partials {
		out[name] = source
	}
	files := make(map[string]string, len(e.partialFiles))
	for name, templateName := range e.partialFiles {
		files[name] = templateName
	}
	e.mu.Unlock()

	for name, templateName := range files {
		source, err := e.source(templateName)
		if err != nil {
			return nil, fmt.Errorf("failed to read partial %s: %w", name, err)
		}
		out[name] = source
	}
	return out, nil
}

func (e *Engine) source(name string) (string, error) {
	path := name + Extension
	if !fs.ValidPath(path) {
		return "", fmt.Errorf("%w: %q is not a valid template name", ErrTemplateNotFound, name)
	}

	data, err := fs.ReadFile(e.fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %q (no %s in %s)", ErrTemplateNotFound, name, path, e.rootID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", name, err)
	}
	return string(data), nil
}

// overlayFS reads from primary and falls back to fallback for missing files.
type overlayFS struct {
	primary  fs.FS
	fallback fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return o.fallback.Open(name)
	}
	return f, err
}

func absOrClean(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return filepath.Clean(dir)
}
