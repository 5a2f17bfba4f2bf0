package view

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-recipes/recipe"
)

// Builder constructs view trees from document model values. Every node it
// creates, including nodes added later through add controls, is registered in
// the builder's index.
type Builder struct {
	index  *Index
	labels Labels
	newID  func() string
}

// Option configures a Builder.
type Option func(*Builder)

// WithLabels overrides the user-facing labels. Empty values keep the default.
func WithLabels(labels Labels) Option {
	return func(b *Builder) {
		b.labels = labels.withDefaults()
	}
}

// WithIDGenerator overrides the node identifier generator, used mainly for
// tests.
func WithIDGenerator(generator func() string) Option {
	return func(b *Builder) {
		if generator != nil {
			b.newID = generator
		}
	}
}

// NewBuilder constructs a builder with its own index.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		index:  NewIndex(),
		labels: DefaultLabels(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Index returns the index shared by every tree this builder produced.
func (b *Builder) Index() *Index { return b.index }

// Labels returns the labels in use.
func (b *Builder) Labels() Labels { return b.labels }

// BuildIngredientList builds an ingredient list with a trailing add control.
func (b *Builder) BuildIngredientList(ingredients recipe.IngredientList) *FieldList {
	return b.buildFieldList(RoleIngredient, b.labels.IngredientsLegend, ControlAddIngredient, b.labels.AddIngredient, ingredients)
}

// BuildStepList builds a step list with a trailing add control.
func (b *Builder) BuildStepList(steps recipe.StepList) *FieldList {
	return b.buildFieldList(RoleStep, b.labels.StepsLegend, ControlAddStep, b.labels.AddStep, steps)
}

// BuildSection builds the view of one section.
func (b *Builder) BuildSection(section recipe.Section) *SectionView {
	return &SectionView{
		id:          b.nextID(),
		Legend:      b.labels.SectionLegend,
		Name:        b.field(RoleSectionName, b.labels.SectionName, section.Name),
		Ingredients: b.BuildIngredientList(section.Ingredients),
		Steps:       b.BuildStepList(section.Steps),
	}
}

// BuildSectionList builds the section list with a trailing add-section
// control.
func (b *Builder) BuildSectionList(sections recipe.SectionList) *SectionList {
	list := newList(b, ControlAddSection, b.labels.AddSection, "", func() *SectionView {
		return b.BuildSection(recipe.NewSection("", nil, nil))
	})
	for _, section := range sections {
		list.entries = append(list.entries, newEntry(list, b.BuildSection(section)))
	}
	return list
}

// BuildRecipe builds the complete editable view of a recipe.
func (b *Builder) BuildRecipe(r recipe.Recipe) *RecipeView {
	return &RecipeView{
		id:       b.nextID(),
		Name:     b.field(RoleRecipeName, b.labels.RecipeName, r.Name),
		Sections: b.BuildSectionList(r.Sections),
		Submit:   b.control(ControlSubmit, b.labels.Submit, nil),
		Export:   b.control(ControlExport, b.labels.Export, nil),
		index:    b.index,
	}
}

func (b *Builder) buildFieldList(role Role, legend string, addKind ControlKind, addLabel string, values []string) *FieldList {
	list := newList(b, addKind, addLabel, legend, func() *Field {
		return b.field(role, "", "")
	})
	for _, value := range values {
		list.entries = append(list.entries, newEntry(list, b.field(role, "", value)))
	}
	return list
}

func (b *Builder) field(role Role, label, value string) *Field {
	field := &Field{
		id:    b.nextID(),
		role:  role,
		label: label,
		value: value,
	}
	b.index.addField(field)
	return field
}

func (b *Builder) control(kind ControlKind, label string, onActivate func()) *Control {
	control := &Control{
		id:         b.nextID(),
		kind:       kind,
		label:      label,
		onActivate: onActivate,
	}
	b.index.addControl(control)
	return control
}

func (b *Builder) nextID() NodeID {
	return NodeID(b.newID())
}

func newList[T Item](b *Builder, addKind ControlKind, addLabel, legend string, blank func() T) *List[T] {
	list := &List[T]{
		id:      b.nextID(),
		Legend:  legend,
		blank:   blank,
		builder: b,
	}
	list.Add = b.control(addKind, addLabel, func() {
		list.appendBlank()
	})
	return list
}
