package codegen

import (
	"sort"

	"github.com/struktos/struktgen/internal/importpath"
	"github.com/struktos/struktgen/internal/metadata"
)

// Import is one named-import statement in a generated file.
type Import struct {
	Symbols []string
	From    string

	external bool
}

// importSet collects the imports of the file at current.
type importSet struct {
	current string
	md      *metadata.Metadata
	entries map[string]*Import
	err     error
}

func newImportSet(current string, md *metadata.Metadata) *importSet {
	return &importSet{
		current: current,
		md:      md,
		entries: make(map[string]*Import),
	}
}

// add imports symbols from target.
func (s *importSet) add(target importpath.Target, symbols ...string) {
	spec := target.From(s.current)
	entry, ok := s.entries[spec]
	if !ok {
		entry = &Import{From: spec, external: target.Kind() == importpath.KindExternal}
		s.entries[spec] = entry
	}
	for _, sym := range symbols {
		if !contains(entry.Symbols, sym) {
			entry.Symbols = append(entry.Symbols, sym)
		}
	}
}

// core imports symbols from wherever the metadata import map says they live.
// The first unknown symbol is remembered and reported by list.
func (s *importSet) core(symbols ...string) {
	for _, sym := range symbols {
		target, err := coreTarget(s.md, sym)
		if err != nil {
			if s.err == nil {
				s.err = err
			}
			continue
		}
		s.add(target, sym)
	}
}

// list returns the imports with packages first, then project files, each
// sorted by specifier, with symbols sorted inside every statement.
func (s *importSet) list() ([]Import, error) {
	if s.err != nil {
		return nil, s.err
	}

	out := make([]Import, 0, len(s.entries))
	for _, entry := range s.entries {
		imp := *entry
		imp.Symbols = append([]string(nil), entry.Symbols...)
		sort.Strings(imp.Symbols)
		out = append(out, imp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].external != out[j].external {
			return out[i].external
		}
		return out[i].From < out[j].From
	})
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
