package recipe

// Seed returns the default recipe offered when nothing has been persisted yet.
func Seed() Recipe {
	return New("פיצה",
		NewSection("בצק",
			IngredientList{"קמח", "מים", "שמרים"},
			StepList{"לשים את הקמח בקערה", "להוסיף את המים והשמרים"},
		),
		NewSection("רוטב",
			IngredientList{"רסק עגבניות", "תבלינים"},
			StepList{"לערבב את כל המרכיבים"},
		),
	)
}
