package view

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-recipes/recipe"
)

// ErrStructure indicates a view that was not produced by Builder: a required
// field or container is missing. It signals a programming error, never a
// user error.
var ErrStructure = errors.New("view: structural contract violation")

// DecodeRecipe reads the current state of the view back into a fresh recipe.
// It never mutates the view, so repeated calls without edits in between
// return equal values.
func DecodeRecipe(root *RecipeView) (recipe.Recipe, error) {
	if root == nil {
		return recipe.Recipe{}, structureError("recipe view")
	}
	if root.Name == nil {
		return recipe.Recipe{}, structureError("recipe name field")
	}
	sections, err := DecodeSectionList(root.Sections)
	if err != nil {
		return recipe.Recipe{}, err
	}
	return recipe.Recipe{
		Name:     root.Name.Value(),
		Sections: sections,
	}, nil
}

// DecodeSectionList decodes every attached section in order.
func DecodeSectionList(list *SectionList) (recipe.SectionList, error) {
	if list == nil {
		return nil, structureError("section list")
	}
	sections := make(recipe.SectionList, 0, list.Len())
	for i, entry := range list.entries {
		section, err := DecodeSection(entry.Item)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		sections = append(sections, section)
	}
	return sections, nil
}

// DecodeSection decodes a single section view.
func DecodeSection(section *SectionView) (recipe.Section, error) {
	if section == nil {
		return recipe.Section{}, structureError("section view")
	}
	if section.Name == nil {
		return recipe.Section{}, structureError("section name field")
	}
	ingredients, err := DecodeFieldList(section.Ingredients)
	if err != nil {
		return recipe.Section{}, fmt.Errorf("ingredients: %w", err)
	}
	steps, err := DecodeFieldList(section.Steps)
	if err != nil {
		return recipe.Section{}, fmt.Errorf("steps: %w", err)
	}
	return recipe.Section{
		Name:        section.Name.Value(),
		Ingredients: ingredients,
		Steps:       steps,
	}, nil
}

// DecodeFieldList returns the current values of an ingredient or step list.
// An emptied list decodes to an empty, non-nil slice.
func DecodeFieldList(list *FieldList) ([]string, error) {
	if list == nil {
		return nil, structureError("field list")
	}
	values := make([]string, 0, list.Len())
	for i, entry := range list.entries {
		if entry.Item == nil {
			return nil, structureError(fmt.Sprintf("field of entry %d", i))
		}
		values = append(values, entry.Item.Value())
	}
	return values, nil
}

func structureError(missing string) error {
	return fmt.Errorf("%w: %s missing", ErrStructure, missing)
}
