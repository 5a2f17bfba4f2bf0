// Package fixtures holds test doubles shared by the command packages.
package fixtures

// RecordingRegistry captures registered command handlers in order.
type RecordingRegistry struct {
	Handlers []any
	Err      error
}

// NewRecordingRegistry constructs an empty registry recorder.
func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{
		Handlers: make([]any, 0),
	}
}

// RegisterCommand records handler, or fails with Err when set.
func (r *RecordingRegistry) RegisterCommand(handler any) error {
	if r.Err != nil {
		return r.Err
	}
	r.Handlers = append(r.Handlers, handler)
	return nil
}
