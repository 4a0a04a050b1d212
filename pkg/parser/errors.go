package parser

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/catalog"
)

var (
	// ErrSyntax reports malformed input: unbalanced brackets, missing parameter lists, stray tokens.
	ErrSyntax = errors.New("syntax error")
	// ErrArity reports a structural type with the wrong number of nested types.
	ErrArity = errors.New("wrong number of nested types")
	// ErrNullabilityConflict reports Nullable(...) combined with a NULL or NOT NULL marker.
	ErrNullabilityConflict = errors.New("conflicting nullability")
	// ErrUnknownEnumValue reports an enum entry that is not a 'name' = ordinal pair.
	ErrUnknownEnumValue = errors.New("invalid enum value")
	// ErrInvalidParameter reports a type parameter that is missing, out of range or not allowed.
	ErrInvalidParameter = errors.New("invalid type parameter")

	ErrUnknownType     = catalog.ErrUnknownType
	ErrUnknownFunction = catalog.ErrUnknownFunction
)

// Error describes why a type declaration could not be parsed. Kind is one of the sentinel errors
// of this package and is returned by Unwrap, so errors.Is works on the result of any Parse call.
type Error struct {
	Kind   error
	Input  string
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Kind
}
