package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	// Dir is the per-project configuration directory.
	Dir = ".struktos"
	// JSONFile is the primary metadata document.
	JSONFile = "metadata.json"
	// YAMLFile is read when JSONFile is absent.
	YAMLFile = "metadata.yaml"
	// TemplatesDir holds project template overrides inside Dir.
	TemplatesDir = "templates"
)

// DocumentPaths returns the candidate metadata documents for projectRoot in
// lookup order.
func DocumentPaths(projectRoot string) []string {
	return []string{
		filepath.Join(projectRoot, Dir, JSONFile),
		filepath.Join(projectRoot, Dir, YAMLFile),
	}
}

// Load returns the metadata for projectRoot ("" means the working directory).
// A missing document yields the defaults. An unreadable or malformed document
// also yields the defaults; the failure is logged at warn level and never
// returned.
func Load(projectRoot string) *Metadata {
	override, path, err := readDocument(projectRoot)
	if err != nil {
		log.Warn().
			Err(err).
			Str("component", "metadata").
			Str("path", path).
			Msg("ignoring metadata document, using defaults")
		return Default()
	}
	if override == nil {
		return Default()
	}

	log.Debug().Str("component", "metadata").Str("path", path).Msg("merged metadata document")
	return Merge(Default(), override)
}

// LoadContext is Load with an early exit when ctx is already done.
func LoadContext(ctx context.Context, projectRoot string) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(projectRoot), nil
}

// readDocument returns the first document found for projectRoot decoded into
// a generic tree, or a nil tree when none exists.
func readDocument(projectRoot string) (map[string]any, string, error) {
	for _, path := range DocumentPaths(projectRoot) {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, fmt.Errorf("failed to read metadata document: %w", err)
		}

		tree, err := decode(path, data)
		if err != nil {
			return nil, path, fmt.Errorf("failed to parse metadata document: %w", err)
		}
		return tree, path, nil
	}
	return nil, "", nil
}

func decode(path string, data []byte) (map[string]any, error) {
	tree := map[string]any{}
	if filepath.Ext(path) == ".yaml" {
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
		return tree, nil
	}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// FindProjectRoot searches start and its parents for a directory containing
// a .struktos directory or a package.json file.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, Dir)); err == nil && info.IsDir() {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s directory or package.json found in %s or any parent directory", Dir, start)
}
