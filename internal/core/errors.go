package core

import "github.com/jmgilman/go/errors"

func notFound(what string) errors.PlatformError {
	return errors.Newf(errors.CodeNotFound, "%s not found", what)
}

func duplicate(name string) errors.PlatformError {
	return errors.WithContext(
		errors.Newf(errors.CodeAlreadyExists, "an element named %q already exists", name),
		"name", name,
	)
}

// IsNotFound reports whether err means a name or path did not resolve.
func IsNotFound(err error) bool {
	return err != nil && errors.GetCode(err) == errors.CodeNotFound
}

// IsDuplicate reports whether err means the target directory already has a child with that name.
func IsDuplicate(err error) bool {
	return err != nil && errors.GetCode(err) == errors.CodeAlreadyExists
}

// IsInvalid reports whether err means the caller passed a malformed name, path or argument.
func IsInvalid(err error) bool {
	return err != nil && errors.GetCode(err) == errors.CodeInvalidInput
}
