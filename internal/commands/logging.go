package commands

import (
	"strings"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const commandModuleRoot = "sitegen.commands"

// Scope names the command group and the site a handler operates on.
type Scope struct {
	Module    string
	Domain    string
	OutputDir string
}

func (s Scope) module() string {
	name := strings.ToLower(strings.TrimSpace(s.Module))
	name = strings.NewReplacer("/", ".", " ", "_").Replace(name)
	name = strings.Trim(name, ".")
	if name == "" {
		return "core"
	}
	return name
}

// CommandLogger returns a module-scoped logger for command handlers.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	return ScopedLogger(provider, Scope{Module: module})
}

// ScopedLogger is CommandLogger with the target site attached, so every
// command log line carries the domain and output directory it built.
func ScopedLogger(provider interfaces.LoggerProvider, scope Scope) interfaces.Logger {
	name := scope.module()
	fields := map[string]any{
		"component":     "command",
		"command_group": name,
	}
	if domain := strings.TrimRight(strings.TrimSpace(scope.Domain), "/"); domain != "" {
		fields["site_domain"] = domain
	}
	if out := strings.TrimSpace(scope.OutputDir); out != "" {
		fields["output_dir"] = out
	}
	return logging.WithFields(logging.ModuleLogger(provider, commandModuleRoot+"."+name), fields)
}
