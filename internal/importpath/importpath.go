// Package importpath computes module specifiers between generated files.
//
// Logical paths are slash-delimited, extension-free locations inside the
// project (for example "src/domain/entities/user.entity"). Specifiers that
// name an installed package (for example "@struktos/core") are passed through
// unchanged.
package importpath

import (
	"strings"
)

// SourceRootMarker marks a path as living inside the project's source tree.
const SourceRootMarker = "src/"

// sourceSuffixes are stripped during normalization, longest first.
var sourceSuffixes = []string{".d.ts", ".tsx", ".ts", ".mjs", ".js"}

// IsExternal reports whether target looks like a package specifier rather
// than a project path. The check is a string-shape heuristic; callers that
// know the origin of an import should build a Target instead.
func IsExternal(target string) bool {
	if strings.HasPrefix(target, "@") {
		return true
	}
	if strings.HasPrefix(target, ".") || strings.HasPrefix(target, "/") {
		return false
	}
	return !strings.Contains(toSlash(target), SourceRootMarker)
}

// Resolve returns the specifier to use in the file at current for importing
// target. External targets are returned unchanged; project paths produce a
// forward-slash relative specifier starting with "./" or "../".
func Resolve(target, current string) string {
	if IsExternal(target) {
		return target
	}
	return Relative(target, current)
}

// Relative computes the relative specifier from the file at current to target
// without classifying target first.
func Relative(target, current string) string {
	to := Normalize(target)
	from := dir(Normalize(current))

	toParts := segments(to)
	fromParts := segments(from)

	shared := 0
	for shared < len(toParts) && shared < len(fromParts) && toParts[shared] == fromParts[shared] {
		shared++
	}

	rel := make([]string, 0, len(fromParts)-shared+len(toParts)-shared)
	for i := shared; i < len(fromParts); i++ {
		rel = append(rel, "..")
	}
	rel = append(rel, toParts[shared:]...)

	if len(rel) == 0 || rel[0] != ".." {
		rel = append([]string{"."}, rel...)
	}
	out := strings.Join(rel, "/")
	// Directory targets keep a trailing slash so the result still reads as relative.
	if last := rel[len(rel)-1]; last == "." || last == ".." {
		out += "/"
	}
	return out
}

// Normalize strips a source-file suffix, converts separators to '/', and
// removes a leading "./".
func Normalize(p string) string {
	p = toSlash(p)
	for _, suffix := range sourceSuffixes {
		if strings.HasSuffix(p, suffix) {
			p = strings.TrimSuffix(p, suffix)
			break
		}
	}
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

// Depth returns the number of directories between the project root and the
// file at p.
func Depth(p string) int {
	return len(segments(dir(Normalize(p))))
}

// UpPrefix returns a prefix climbing n directories ("./" when n is zero).
func UpPrefix(n int) string {
	if n <= 0 {
		return "./"
	}
	return strings.Repeat("../", n)
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// dir returns everything before the last slash, or "" for a bare file name.
func dir(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}

// segments splits p into path elements, dropping empty and "." entries.
// A leading "/" is kept as an empty root element so absolute and relative
// paths never share a prefix.
func segments(p string) []string {
	var out []string
	if strings.HasPrefix(p, "/") {
		out = append(out, "")
	}
	for _, s := range strings.Split(p, "/") {
		if s == "" || s == "." {
			continue
		}
		out = append(out, s)
	}
	return out
}
