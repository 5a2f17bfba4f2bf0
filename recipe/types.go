// Package recipe holds the document model edited by the recipe editor: a
// recipe name followed by ordered sections, each carrying its own ordered
// ingredient and step lists.
//
// The model is a plain value tree. Nothing in it is shared between parents,
// and callers that need to keep a snapshot around should Clone it first.
package recipe

// Ingredient is a single ingredient line. It has no identity beyond its
// position in the owning list.
type Ingredient = string

// Step is a single preparation step, positioned like Ingredient.
type Step = string

// IngredientList is the ordered ingredient sequence of a section.
type IngredientList = []Ingredient

// StepList is the ordered step sequence of a section.
type StepList = []Step

// Section groups ingredients and steps under a name. Both lists are ordered
// independently and may be empty.
type Section struct {
	Name        string         `json:"name" yaml:"name"`
	Ingredients IngredientList `json:"ingredients" yaml:"ingredients"`
	Steps       StepList       `json:"steps" yaml:"steps"`
}

// SectionList is the ordered section sequence of a recipe.
type SectionList = []Section

// Recipe is the root of the document model.
type Recipe struct {
	Name     string      `json:"name" yaml:"name"`
	Sections SectionList `json:"sections" yaml:"sections"`
}

// NewSection builds a section, normalising nil lists to empty ones so the
// persisted record always carries arrays.
func NewSection(name string, ingredients IngredientList, steps StepList) Section {
	return Section{
		Name:        name,
		Ingredients: cloneStrings(ingredients),
		Steps:       cloneStrings(steps),
	}
}

// New builds a recipe from the supplied sections.
func New(name string, sections ...Section) Recipe {
	out := Recipe{Name: name, Sections: make(SectionList, 0, len(sections))}
	for _, section := range sections {
		out.Sections = append(out.Sections, section.Clone())
	}
	return out
}

// Empty returns a blank recipe holding one blank section.
func Empty() Recipe {
	return New("", NewSection("", nil, nil))
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	return NewSection(s.Name, s.Ingredients, s.Steps)
}

// Clone returns a deep copy of the recipe.
func (r Recipe) Clone() Recipe {
	return New(r.Name, r.Sections...)
}

// Normalize replaces nil lists with empty ones throughout the tree.
func (r Recipe) Normalize() Recipe {
	return r.Clone()
}

// Equal reports whether both sections carry the same name and the same
// ingredient and step values in the same order. Nil and empty lists compare
// equal.
func (s Section) Equal(other Section) bool {
	return s.Name == other.Name &&
		equalStrings(s.Ingredients, other.Ingredients) &&
		equalStrings(s.Steps, other.Steps)
}

// Equal reports structural equality of two recipes.
func (r Recipe) Equal(other Recipe) bool {
	if r.Name != other.Name || len(r.Sections) != len(other.Sections) {
		return false
	}
	for i := range r.Sections {
		if !r.Sections[i].Equal(other.Sections[i]) {
			return false
		}
	}
	return true
}

func cloneStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
