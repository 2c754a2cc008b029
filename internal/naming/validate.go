package naming

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidName is returned when an artifact name does not match the name grammar.
var ErrInvalidName = errors.New("invalid name")

var (
	entityNamePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
	serviceNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
)

// ValidateEntityName checks name against the strict grammar used for entities,
// use-cases, middleware and clients.
func ValidateEntityName(name string) error {
	if !entityNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must start with a letter and contain only letters and digits", ErrInvalidName, name)
	}
	return nil
}

// ValidateServiceName checks name against the lenient grammar used for RPC
// services, which also permits '-' and '_'.
func ValidateServiceName(name string) error {
	if !serviceNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must start with a letter and contain only letters, digits, '-' or '_'", ErrInvalidName, name)
	}
	return nil
}
