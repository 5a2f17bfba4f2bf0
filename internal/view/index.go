package view

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrNodeNotFound indicates the identifier does not address an attached
// field or control.
var ErrNodeNotFound = errors.New("view: node not found")

// ErrInvalidText indicates a field value that is not valid UTF-8. Persisted
// payloads are JSON, which cannot carry such bytes unchanged.
var ErrInvalidText = errors.New("view: field value is not valid UTF-8")

// Index maps identifiers to the fields and controls currently attached to a
// view tree. Removing an entry drops its whole subtree from the index.
type Index struct {
	fields   map[NodeID]*Field
	controls map[NodeID]*Control
}

// NewIndex constructs an empty index.
func NewIndex() *Index {
	return &Index{
		fields:   make(map[NodeID]*Field),
		controls: make(map[NodeID]*Control),
	}
}

// Field looks up an attached field.
func (i *Index) Field(id NodeID) (*Field, error) {
	field, ok := i.fields[id]
	if !ok {
		return nil, fmt.Errorf("%w: field %q", ErrNodeNotFound, id)
	}
	return field, nil
}

// Control looks up an attached control.
func (i *Index) Control(id NodeID) (*Control, error) {
	control, ok := i.controls[id]
	if !ok {
		return nil, fmt.Errorf("%w: control %q", ErrNodeNotFound, id)
	}
	return control, nil
}

// SetValue edits the field in place. Values must be valid UTF-8.
func (i *Index) SetValue(id NodeID, value string) error {
	field, err := i.Field(id)
	if err != nil {
		return err
	}
	if !utf8.ValidString(value) {
		return fmt.Errorf("%w: field %q", ErrInvalidText, id)
	}
	field.SetValue(value)
	return nil
}

// Activate runs the control and reports its kind so callers can react to
// submit and export actions.
func (i *Index) Activate(id NodeID) (ControlKind, error) {
	control, err := i.Control(id)
	if err != nil {
		return "", err
	}
	control.Activate()
	return control.kind, nil
}

// Fields returns the number of attached fields.
func (i *Index) Fields() int { return len(i.fields) }

// Controls returns the number of attached controls.
func (i *Index) Controls() int { return len(i.controls) }

func (i *Index) addField(field *Field) {
	i.fields[field.id] = field
}

func (i *Index) addControl(control *Control) {
	i.controls[control.id] = control
}

func (i *Index) forget(walk func(visit func(NodeID))) {
	walk(func(id NodeID) {
		delete(i.fields, id)
		delete(i.controls, id)
	})
}
