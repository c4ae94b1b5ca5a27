package core

import (
	"fmt"
	"strings"

	"github.com/jmgilman/go/errors"
)

// Separator splits path segments. Absolute paths start with it, which yields an
// empty first segment that only the root matches.
const Separator = "/"

type ValidationError struct {
	Arg   string
	Cause string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Arg, e.Cause)
}

func invalid(arg, cause string) errors.PlatformError {
	return errors.Wrap(&ValidationError{Arg: arg, Cause: cause}, errors.CodeInvalidInput, "validation failed")
}

// ParsePath splits an absolute path into segments. Trailing empty segments are
// dropped, so "/" yields no segments (the root) and "/a/" equals "/a". Nothing
// else is normalized: "//a" keeps its empty middle segment and will not resolve.
func ParsePath(raw string) ([]string, error) {
	if !strings.HasPrefix(raw, Separator) {
		return nil, invalid(raw, "path must start with "+Separator)
	}

	parts := strings.Split(raw, Separator)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	return parts, nil
}

// ValidateName checks that name can be stored as a single path segment.
func ValidateName(name string) error {
	if name == "" {
		return invalid(name, "name must not be empty")
	}
	if strings.Contains(name, Separator) {
		return invalid(name, "name must not contain "+Separator)
	}
	return nil
}
