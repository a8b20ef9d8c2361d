package compile

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDirectiveName = errors.New("invalid directive name")
	ErrMultipleIsolate      = errors.New("multiple directives asking for new/isolated scope")
	ErrControllerNotFound   = errors.New("required controller not found")
	ErrUnterminatedGroup    = errors.New("unterminated multi-element group")
	ErrInvalidBinding       = errors.New("invalid scope binding")
)

// RequireError reports a require entry that could not be satisfied at link
// time.
type RequireError struct {
	Directive string
	Require   string
	Node      string
}

func (e *RequireError) Error() string {
	return fmt.Sprintf("controller %q, required by directive %q on <%s>, can't be found", e.Require, e.Directive, e.Node)
}

func (e *RequireError) Unwrap() error {
	return ErrControllerNotFound
}

func IsControllerNotFound(err error) bool {
	return errors.Is(err, ErrControllerNotFound)
}
