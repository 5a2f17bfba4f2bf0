package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-recipes/pkg/interfaces"
)

const (
	rootModule     = "recipes"
	editorModule   = "recipes.editor"
	syncModule     = "recipes.sync"
	storeModule    = "recipes.store"
	markdownModule = "recipes.markdown"
	httpModule     = "recipes.http"
	commandsModule = "recipes.commands"
)

const (
	fieldModule  = "module"
	fieldSession = "session"
	fieldDriver  = "driver"
	fieldNode    = "node_id"
)

// ModuleLogger returns a logger scoped to module. A nil provider, or one that
// returns nil, yields the no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{fieldModule: module})
}

// RootLogger returns the top level recipes logger.
func RootLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rootModule)
}

// EditorLogger returns the logger used by editor sessions.
func EditorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, editorModule)
}

// SyncLogger returns the logger used by the sync loop.
func SyncLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, syncModule)
}

// StoreLogger returns the logger used by persistence drivers.
func StoreLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storeModule)
}

// MarkdownLogger returns the logger used by export and preview.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// HTTPLogger returns the logger used by the HTTP frontend.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// CommandsLogger returns the logger used by command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithStoreContext adds the session key and storage driver to logger. Blank
// values are skipped.
func WithStoreContext(logger interfaces.Logger, driver, session string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(driver); trimmed != "" {
		fields[fieldDriver] = trimmed
	}
	if trimmed := strings.TrimSpace(session); trimmed != "" {
		fields[fieldSession] = trimmed
	}
	return WithFields(logger, fields)
}

// WithNode adds the view node identifier to logger.
func WithNode(logger interfaces.Logger, id string) interfaces.Logger {
	if id == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldNode: id})
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
