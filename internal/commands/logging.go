package commands

import (
	"strings"

	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/pkg/interfaces"
)

// CommandLogger returns the commands logger tagged with the command group.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	name := strings.TrimSpace(group)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.CommandsLogger(provider), map[string]any{
		"component":     "command",
		"command_group": name,
	})
}
