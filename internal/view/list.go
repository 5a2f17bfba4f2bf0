package view

// Item is the payload an entry can carry.
type Item interface {
	Node
	walk(visit func(NodeID))
}

// FieldList is an ingredient or step list.
type FieldList = List[*Field]

// SectionList is the section list of a recipe.
type SectionList = List[*SectionView]

// Entry is one item of a list together with its own remove control.
type Entry[T Item] struct {
	id     NodeID
	Item   T
	Remove *Control

	list *List[T]
}

func (e *Entry[T]) ID() NodeID { return e.id }

// Attached reports whether the entry still belongs to its list.
func (e *Entry[T]) Attached() bool { return e.list != nil }

func (e *Entry[T]) walk(visit func(NodeID)) {
	visit(e.id)
	if e.Remove != nil {
		visit(e.Remove.id)
	}
	e.Item.walk(visit)
}

// List holds ordered entries followed by exactly one trailing add control.
type List[T Item] struct {
	id     NodeID
	Legend string
	Add    *Control

	entries []*Entry[T]
	blank   func() T
	builder *Builder
}

func (l *List[T]) ID() NodeID { return l.id }

// Len returns the number of data entries, excluding the add control.
func (l *List[T]) Len() int { return len(l.entries) }

// Entries returns the attached entries in order.
func (l *List[T]) Entries() []*Entry[T] {
	out := make([]*Entry[T], len(l.entries))
	copy(out, l.entries)
	return out
}

// Entry returns the entry at position i, or nil when out of range.
func (l *List[T]) Entry(i int) *Entry[T] {
	if i < 0 || i >= len(l.entries) {
		return nil
	}
	return l.entries[i]
}

// Nodes returns the entries in order followed by the trailing add control.
func (l *List[T]) Nodes() []Node {
	out := make([]Node, 0, len(l.entries)+1)
	for _, entry := range l.entries {
		out = append(out, entry)
	}
	if l.Add != nil {
		out = append(out, l.Add)
	}
	return out
}

// appendBlank inserts a blank entry right before the add control.
func (l *List[T]) appendBlank() *Entry[T] {
	entry := newEntry(l, l.blank())
	l.entries = append(l.entries, entry)
	return entry
}

// detach removes exactly this entry. Detaching twice is a no-op.
func (l *List[T]) detach(entry *Entry[T]) {
	for i, candidate := range l.entries {
		if candidate != entry {
			continue
		}
		l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
		entry.list = nil
		l.builder.index.forget(entry.walk)
		return
	}
}

func (l *List[T]) walk(visit func(NodeID)) {
	visit(l.id)
	for _, entry := range l.entries {
		entry.walk(visit)
	}
	if l.Add != nil {
		visit(l.Add.id)
	}
}

func newEntry[T Item](list *List[T], item T) *Entry[T] {
	b := list.builder
	entry := &Entry[T]{
		id:   b.nextID(),
		Item: item,
		list: list,
	}
	entry.Remove = b.control(ControlRemove, b.labels.Remove, func() {
		list.detach(entry)
	})
	return entry
}
