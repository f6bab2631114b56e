package gen

import (
	"errors"
	"fmt"
	"go/token"
)

var (
	ErrUnknownDirective   = errors.New("unknown directive")
	ErrDuplicateDirective = errors.New("repeated directive")
	ErrMissingDirective   = errors.New("missing directive")
	ErrBackendForm        = errors.New("exactly one of //store:postgres and //store:mongo is required")
	ErrMisplacedDirective = errors.New("directive not supported by this form")
	ErrInvalidEntity      = errors.New("entity must be a named type, optionally package-qualified")
	ErrInvalidType        = errors.New("invalid type expression")
	ErrUnknownQualifier   = errors.New("package qualifier is not imported")
	ErrInvalidName        = errors.New("invalid storage identifier")
	ErrMissingHandle      = errors.New("repository struct lacks handle field")
	ErrNotStruct          = errors.New("repository must be a struct type")
)

// ResolveError locates a declaration failure in source.
type ResolveError struct {
	Pos    token.Position
	Type   string
	Err    error
	Detail string
}

func (e *ResolveError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s: %v", e.Pos, e.Type, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v: %s", e.Pos, e.Type, e.Err, e.Detail)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}
