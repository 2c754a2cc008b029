package importpath

// Kind says where an import target originates.
type Kind int

const (
	// KindInternal targets are project files addressed by logical path.
	KindInternal Kind = iota
	// KindExternal targets are package specifiers used verbatim.
	KindExternal
)

func (k Kind) String() string {
	if k == KindExternal {
		return "external"
	}
	return "internal"
}

// Target is an import target whose origin was decided when it was declared,
// so no string-shape guessing is needed when it is resolved.
type Target struct {
	kind  Kind
	value string
}

// Internal declares a project-local target by logical path.
func Internal(logicalPath string) Target {
	return Target{kind: KindInternal, value: logicalPath}
}

// External declares a package specifier.
func External(specifier string) Target {
	return Target{kind: KindExternal, value: specifier}
}

// Classify builds a Target using the IsExternal heuristic.
func Classify(s string) Target {
	if IsExternal(s) {
		return External(s)
	}
	return Internal(s)
}

// Kind returns the target's origin.
func (t Target) Kind() Kind { return t.kind }

// Value returns the logical path or specifier the target was declared with.
func (t Target) Value() string { return t.value }

// From returns the specifier to write in the file at current.
func (t Target) From(current string) string {
	if t.kind == KindExternal {
		return t.value
	}
	return Relative(t.value, current)
}
