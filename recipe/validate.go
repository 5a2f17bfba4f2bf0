package recipe

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var errBlank = validation.NewError("recipe.value_required", "cannot be blank")

// notBlank mirrors the form's required attribute: whitespace-only values count
// as missing.
var notBlank = validation.By(func(value any) error {
	text, _ := value.(string)
	if strings.TrimSpace(text) == "" {
		return errBlank
	}
	return nil
})

// Validate reports required fields that are missing from the section.
func (s Section) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, notBlank),
		validation.Field(&s.Ingredients, validation.Each(notBlank)),
		validation.Field(&s.Steps, validation.Each(notBlank)),
	)
}

// Validate reports required fields that are missing anywhere in the recipe.
// The editor treats the result as advisory: saving and exporting proceed
// regardless.
func (r Recipe) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, notBlank),
		validation.Field(&r.Sections),
	)
}
