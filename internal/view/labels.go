package view

// Labels holds the user-facing text attached to fields and controls.
type Labels struct {
	RecipeName        string
	SectionLegend     string
	SectionName       string
	IngredientsLegend string
	StepsLegend       string
	AddIngredient     string
	AddStep           string
	AddSection        string
	Remove            string
	Submit            string
	Export            string
}

// DefaultLabels returns the Hebrew form labels.
func DefaultLabels() Labels {
	return Labels{
		RecipeName:        "שם מתכון:",
		SectionLegend:     "שלב",
		SectionName:       "שם שלב:",
		IngredientsLegend: "רכיבים",
		StepsLegend:       "הוראות הכנה",
		AddIngredient:     "הוסף רכיב",
		AddStep:           "הוסף שלב",
		AddSection:        "הוסף שלב",
		Remove:            "הסר",
		Submit:            "שמור מתכון",
		Export:            "ייצא ל-Markdown",
	}
}

func (l Labels) withDefaults() Labels {
	defaults := DefaultLabels()
	fill := func(value *string, fallback string) {
		if *value == "" {
			*value = fallback
		}
	}
	fill(&l.RecipeName, defaults.RecipeName)
	fill(&l.SectionLegend, defaults.SectionLegend)
	fill(&l.SectionName, defaults.SectionName)
	fill(&l.IngredientsLegend, defaults.IngredientsLegend)
	fill(&l.StepsLegend, defaults.StepsLegend)
	fill(&l.AddIngredient, defaults.AddIngredient)
	fill(&l.AddStep, defaults.AddStep)
	fill(&l.AddSection, defaults.AddSection)
	fill(&l.Remove, defaults.Remove)
	fill(&l.Submit, defaults.Submit)
	fill(&l.Export, defaults.Export)
	return l
}
