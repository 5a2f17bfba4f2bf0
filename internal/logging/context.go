package logging

import (
	"context"
	"maps"
)

type contextKey string

const contextFieldsKey contextKey = "recipes.logging.fields"

// ContextWithFields returns a context carrying structured fields that console
// loggers merge into every entry logged with that context. Fields already on
// the context are kept unless overridden.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields returns a copy of the fields stored on the context.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// ContextWithSession tags the context with the editor session key.
func ContextWithSession(ctx context.Context, session string) context.Context {
	if session == "" {
		return ctx
	}
	return ContextWithFields(ctx, map[string]any{fieldSession: session})
}
