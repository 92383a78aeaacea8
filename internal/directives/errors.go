package directives

import "errors"

var (
	// ErrDuplicateDefinition indicates an attempt to register a directive key twice.
	ErrDuplicateDefinition = errors.New("directives: duplicate definition")
	// ErrInvalidDefinition occurs when a definition lacks a kind or any way to render.
	ErrInvalidDefinition = errors.New("directives: invalid definition")
	// ErrUnknownDirective is returned when no definition or template matches.
	ErrUnknownDirective = errors.New("directives: unknown directive")
)
