package sitegen

import "github.com/goliatone/go-sitegen/internal/runtimeconfig"

var (
	ErrSiteDomainRequired     = runtimeconfig.ErrSiteDomainRequired
	ErrSiteDomainInvalid      = runtimeconfig.ErrSiteDomainInvalid
	ErrOutputDirRequired      = runtimeconfig.ErrOutputDirRequired
	ErrTemplatesDirRequired   = runtimeconfig.ErrTemplatesDirRequired
	ErrPageSizeInvalid        = runtimeconfig.ErrPageSizeInvalid
	ErrTemplateEngineUnknown  = runtimeconfig.ErrTemplateEngineUnknown
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	SiteConfig       = runtimeconfig.SiteConfig
	PathsConfig      = runtimeconfig.PathsConfig
	PaginationConfig = runtimeconfig.PaginationConfig
	StaticPageConfig = runtimeconfig.StaticPageConfig
	GeneratorConfig  = runtimeconfig.GeneratorConfig
	MarkdownConfig   = runtimeconfig.MarkdownConfig
	TemplatesConfig  = runtimeconfig.TemplatesConfig
	ThemeConfig      = runtimeconfig.ThemeConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	ServerConfig     = runtimeconfig.ServerConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
