package render

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"text/template"

	"github.com/struktos/struktgen/internal/importpath"
	"github.com/struktos/struktgen/internal/naming"
)

// funcs returns the helpers available to every template. Equality (eq, ne)
// and variadic logic (and, or) are the text/template builtins.
func (e *Engine) funcs() template.FuncMap {
	return template.FuncMap{
		"pascalCase":     naming.PascalCase,
		"camelCase":      naming.CamelCase,
		"kebabCase":      naming.KebabCase,
		"snakeCase":      naming.SnakeCase,
		"upperSnakeCase": naming.UpperSnakeCase,
		"pluralize":      naming.Pluralize,
		"resolveImport":  importpath.Resolve,
		"includes":       includes,
		"concat":         concat,
		"join":           strings.Join,
		"inc":            func(i int) int { return i + 1 },
		"dateStamp":      e.dateStamp,
		"json":           toJSON,
	}
}

// includes reports whether list (a slice or array) contains item.
func includes(list any, item any) bool {
	v := reflect.ValueOf(list)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		if reflect.DeepEqual(v.Index(i).Interface(), item) {
			return true
		}
	}
	return false
}

func concat(parts ...any) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(fmt.Sprint(p))
	}
	return sb.String()
}

func (e *Engine) dateStamp() string {
	return e.now().Format("2006-01-02")
}

func toJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
