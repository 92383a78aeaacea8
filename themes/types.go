// Package themes exposes the resolved theme context handed to templates.
package themes

import internal "github.com/goliatone/go-sitegen/internal/themes"

type (
	Config  = internal.Config
	Context = internal.Context
)

var (
	Load                 = internal.Load
	Empty                = internal.Empty
	ErrThemeNameRequired = internal.ErrThemeNameRequired
)
