// Package fields parses the compact field grammar used to describe entity
// properties on the command line:
//
//	name:string,price:number,bio:string?
package fields

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidSegment is returned for a segment that is not of the form name:type.
	ErrInvalidSegment = errors.New("invalid field segment")

	// ErrUnknownType is returned when a segment names a type outside the closed set.
	ErrUnknownType = errors.New("unknown field type")
)

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// Type is one of the closed set of field types.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeDate    Type = "date"
	TypeAny     Type = "any"
	TypeUnknown Type = "unknown"
)

// Types lists every valid type token in grammar order.
var Types = []Type{TypeString, TypeNumber, TypeBoolean, TypeDate, TypeAny, TypeUnknown}

// Valid reports whether t is part of the closed set.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// TSType returns the TypeScript spelling of t.
func (t Type) TSType() string {
	if t == TypeDate {
		return "Date"
	}
	return string(t)
}

// ProtoType returns the proto3 type used for t in generated schemas.
func (t Type) ProtoType() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "double"
	case TypeBoolean:
		return "bool"
	case TypeDate:
		return "google.protobuf.Timestamp"
	default:
		return "google.protobuf.Value"
	}
}

// Field describes one property of a generated entity.
type Field struct {
	Name     string `json:"name"`
	Type     Type   `json:"type"`
	Optional bool   `json:"optional"`
}

// TSType is a template convenience for f.Type.TSType().
func (f Field) TSType() string {
	return f.Type.TSType()
}

// ProtoType is a template convenience for f.Type.ProtoType().
func (f Field) ProtoType() string {
	return f.Type.ProtoType()
}

// String reconstitutes the grammar segment for f.
func (f Field) String() string {
	s := f.Name + ":" + string(f.Type)
	if f.Optional {
		s += "?"
	}
	return s
}

// Parse parses a comma separated list of name:type[?] segments. Empty or
// whitespace-only input yields an empty list. On error no fields are returned.
func Parse(input string) ([]Field, error) {
	result := []Field{}

	for _, segment := range strings.Split(input, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		field, err := parseSegment(segment)
		if err != nil {
			return nil, err
		}
		result = append(result, field)
	}

	return result, nil
}

func parseSegment(segment string) (Field, error) {
	name, typ, found := strings.Cut(segment, ":")
	name = strings.TrimSpace(name)
	typ = strings.TrimSpace(typ)

	if !found || name == "" || typ == "" {
		return Field{}, fmt.Errorf("%w: %q (expected name:type)", ErrInvalidSegment, segment)
	}
	if !namePattern.MatchString(name) {
		return Field{}, fmt.Errorf("%w: %q (field name must match [A-Za-z][A-Za-z0-9]*)", ErrInvalidSegment, segment)
	}

	optional := false
	if strings.HasSuffix(typ, "?") {
		optional = true
		typ = strings.TrimSpace(strings.TrimSuffix(typ, "?"))
	}

	t := Type(typ)
	if !t.Valid() {
		return Field{}, fmt.Errorf("%w: %q in segment %q (valid types: %s)", ErrUnknownType, typ, segment, validTypeList())
	}

	return Field{Name: name, Type: t, Optional: optional}, nil
}

// Format joins fields back into the grammar accepted by Parse.
func Format(fields []Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}

// WithID prepends a synthetic id:string field unless one named id is present.
func WithID(fields []Field) []Field {
	for _, f := range fields {
		if f.Name == "id" {
			return fields
		}
	}
	return append([]Field{{Name: "id", Type: TypeString}}, fields...)
}

func validTypeList() string {
	names := make([]string, len(Types))
	for i, t := range Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
