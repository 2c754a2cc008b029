package metadata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher observes a project's .struktos directory, invalidating a Resolver
// and notifying a callback whenever the metadata document or a template
// override changes.
type Watcher struct {
	watcher     *fsnotify.Watcher
	projectRoot string
	configDir   string
	resolver    *Resolver
	onChange    func(path string)
	logger      zerolog.Logger
}

// NewWatcher creates a watcher for projectRoot. resolver may be nil.
func NewWatcher(projectRoot string, resolver *Resolver, onChange func(path string), logger zerolog.Logger) (*Watcher, error) {
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", projectRoot, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:     fsw,
		projectRoot: projectRoot,
		configDir:   filepath.Join(projectRoot, Dir),
		resolver:    resolver,
		onChange:    onChange,
		logger:      logger.With().Str("component", "metadata-watcher").Logger(),
	}

	// The root is watched so that creating .struktos later is noticed.
	if err := fsw.Add(projectRoot); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", projectRoot, err)
	}
	if err := w.addTree(w.configDir); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// addTree recursively adds dir and its subdirectories if dir exists.
func (w *Watcher) addTree(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return nil
	}
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", path, err)
			}
		}
		return nil
	})
}

// Start processes events until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if !w.relevant(event.Name) {
				continue
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
					}
				}
			}

			w.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("configuration changed")
			if w.resolver != nil {
				w.resolver.Invalidate(w.projectRoot)
			}
			if w.onChange != nil {
				w.onChange(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				// Log error but continue watching
				w.logger.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

// relevant reports whether path is the config directory or inside it.
func (w *Watcher) relevant(path string) bool {
	path = filepath.Clean(path)
	return path == w.configDir || strings.HasPrefix(path, w.configDir+string(filepath.Separator))
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
