package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/struktos/struktgen/internal/codegen"
	"github.com/struktos/struktgen/internal/metadata"
)

type mockFileInfo struct {
	name string
	dir  bool
}

func (i mockFileInfo) Name() string       { return i.name }
func (i mockFileInfo) Size() int64        { return 0 }
func (i mockFileInfo) Mode() os.FileMode  { return 0644 }
func (i mockFileInfo) ModTime() time.Time { return time.Time{} }
func (i mockFileInfo) IsDir() bool        { return i.dir }
func (i mockFileInfo) Sys() any           { return nil }

// mockFileSystem keeps files and directories in memory
type mockFileSystem struct {
	mu           sync.Mutex
	files        map[string][]byte
	dirs         map[string]bool
	mkdirAllErr  error
	writeFileErr error
	writes       []string
}

func newMockFileSystem() *mockFileSystem {
	return &mockFileSystem{
		files: map[string][]byte{},
		dirs:  map[string]bool{},
	}
}

func (m *mockFileSystem) Stat(name string) (os.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = filepath.Clean(name)
	if _, ok := m.files[name]; ok {
		return mockFileInfo{name: filepath.Base(name)}, nil
	}
	if m.dirs[name] {
		return mockFileInfo{name: filepath.Base(name), dir: true}, nil
	}
	return nil, fs.ErrNotExist
}

func (m *mockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mkdirAllErr != nil {
		return m.mkdirAllErr
	}
	m.dirs[filepath.Clean(path)] = true
	return nil
}

func (m *mockFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeFileErr != nil {
		return m.writeFileErr
	}
	name = filepath.Clean(name)
	m.files[name] = append([]byte(nil), data...)
	m.writes = append(m.writes, name)
	return nil
}

func (m *mockFileSystem) file(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(name)]
	return string(data), ok
}

func (m *mockFileSystem) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

type mockOutput struct {
	mu       sync.Mutex
	messages []string
}

func (o *mockOutput) Printf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, fmt.Sprintf(format, args...))
}

func (o *mockOutput) Println(args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, fmt.Sprintln(args...))
}

func (o *mockOutput) all() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.messages...)
}

type mockSignalNotifier struct {
	mock.Mock
}

func (m *mockSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	m.Called(c, sig)
}

func (m *mockSignalNotifier) Stop(c chan<- os.Signal) {
	m.Called(c)
}

type mockPrompter struct {
	mock.Mock
}

func (m *mockPrompter) CompleteRequest(kind codegen.Kind, req *codegen.Request) error {
	args := m.Called(kind.Name, req)
	return args.Error(0)
}

func (m *mockPrompter) ConfirmOverwrite(path string) (bool, error) {
	args := m.Called(path)
	return args.Bool(0), args.Error(1)
}

// fakeWatcher invalidates the resolver and calls onChange for every path
// sent on events
type fakeWatcher struct {
	events   chan string
	root     string
	resolver *metadata.Resolver
	onChange func(string)
	closed   bool
}

func (w *fakeWatcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path := <-w.events:
			w.resolver.Invalidate(w.root)
			w.onChange(path)
		}
	}
}

func (w *fakeWatcher) Close() error {
	w.closed = true
	return nil
}

type fakeWatcherFactory struct {
	watcher *fakeWatcher
	err     error
}

func (f *fakeWatcherFactory) NewWatcher(projectRoot string, resolver *metadata.Resolver, onChange func(path string)) (MetadataWatcher, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.watcher.root = projectRoot
	f.watcher.resolver = resolver
	f.watcher.onChange = onChange
	return f.watcher, nil
}
