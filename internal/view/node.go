package view

// NodeID addresses a field, control, entry, or list within one view tree.
type NodeID string

// Node is anything with a stable identifier inside the view tree.
type Node interface {
	ID() NodeID
}

// Role names what an editable field holds.
type Role string

const (
	RoleRecipeName  Role = "recipe_name"
	RoleSectionName Role = "section_name"
	RoleIngredient  Role = "ingredient"
	RoleStep        Role = "step"
)

// ControlKind names what activating a control does.
type ControlKind string

const (
	ControlAddIngredient ControlKind = "add_ingredient"
	ControlAddStep       ControlKind = "add_step"
	ControlAddSection    ControlKind = "add_section"
	ControlRemove        ControlKind = "remove"
	ControlSubmit        ControlKind = "submit"
	ControlExport        ControlKind = "export"
)

// Field is an editable, required text input.
type Field struct {
	id    NodeID
	role  Role
	label string
	value string
}

func (f *Field) ID() NodeID     { return f.id }
func (f *Field) Role() Role     { return f.role }
func (f *Field) Label() string  { return f.label }
func (f *Field) Value() string  { return f.value }
func (f *Field) Required() bool { return true }

// SetValue replaces the current text, as a user edit would.
func (f *Field) SetValue(value string) {
	f.value = value
}

func (f *Field) walk(visit func(NodeID)) {
	visit(f.id)
}

// Control is a button. Add and remove controls carry their own behaviour;
// submit and export controls are interpreted by the owner of the view.
type Control struct {
	id         NodeID
	kind       ControlKind
	label      string
	onActivate func()
}

func (c *Control) ID() NodeID        { return c.id }
func (c *Control) Kind() ControlKind { return c.kind }
func (c *Control) Label() string     { return c.label }

// Activate runs the control's behaviour, if any.
func (c *Control) Activate() {
	if c.onActivate != nil {
		c.onActivate()
	}
}

// SectionView is the view of one recipe section with typed handles to its
// name field and both sublists.
type SectionView struct {
	id          NodeID
	Legend      string
	Name        *Field
	Ingredients *FieldList
	Steps       *FieldList
}

func (s *SectionView) ID() NodeID { return s.id }

func (s *SectionView) walk(visit func(NodeID)) {
	visit(s.id)
	if s.Name != nil {
		s.Name.walk(visit)
	}
	if s.Ingredients != nil {
		s.Ingredients.walk(visit)
	}
	if s.Steps != nil {
		s.Steps.walk(visit)
	}
}

// RecipeView is the root of a built view.
type RecipeView struct {
	id       NodeID
	Name     *Field
	Sections *SectionList
	Submit   *Control
	Export   *Control

	index *Index
}

func (r *RecipeView) ID() NodeID { return r.id }

// Index returns the lookup table of the nodes currently attached to the tree.
func (r *RecipeView) Index() *Index { return r.index }
