package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	recipes "github.com/goliatone/go-recipes"
	"github.com/goliatone/go-recipes/recipe"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the recipe persisted for the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withModule(cmd, func(module *recipes.Module) error {
				current, err := module.Recipe(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					encoder := json.NewEncoder(out)
					encoder.SetIndent("", "  ")
					return encoder.Encode(current)
				}

				fmt.Fprintf(out, "Recipe: %s\n", current.Name)
				fmt.Fprintf(out, "Session: %s\n", module.Session().Key())
				fmt.Fprintf(out, "Source: %s\n", module.Container().Source())
				if err := current.Validate(); err != nil {
					fmt.Fprintf(out, "Issues: %v\n", err)
				}
				if len(current.Sections) == 0 {
					fmt.Fprintln(out, "No sections")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Section", "Part", "#", "Text"},
					recipeRows(current),
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the recipe as JSON")
	return cmd
}

func recipeRows(r recipe.Recipe) [][]string {
	rows := make([][]string, 0)
	for _, section := range r.Sections {
		for i, ingredient := range section.Ingredients {
			rows = append(rows, []string{section.Name, "ingredient", strconv.Itoa(i + 1), ingredient})
		}
		for i, step := range section.Steps {
			rows = append(rows, []string{section.Name, "step", strconv.Itoa(i + 1), step})
		}
		if len(section.Ingredients) == 0 && len(section.Steps) == 0 {
			rows = append(rows, []string{section.Name, "", "", ""})
		}
	}
	return rows
}
