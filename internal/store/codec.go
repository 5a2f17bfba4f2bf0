package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-recipes/recipe"
)

//go:embed schema.json
var recipeSchemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func recipeSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("recipe.schema.json", bytes.NewReader(recipeSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("recipe.schema.json")
	})
	return compiledSchema, schemaErr
}

// Encode renders r as the persisted JSON record. Nil lists are written as
// empty arrays.
func Encode(r recipe.Recipe) ([]byte, error) {
	return json.Marshal(r.Normalize())
}

// Decode parses a persisted record. Anything that is not valid JSON or does
// not match the record schema yields ErrMalformed.
func Decode(payload []byte) (recipe.Recipe, error) {
	var document any
	if err := json.Unmarshal(payload, &document); err != nil {
		return recipe.Recipe{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	schema, err := recipeSchema()
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("store: compile recipe schema: %w", err)
	}
	if err := schema.Validate(document); err != nil {
		return recipe.Recipe{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var out recipe.Recipe
	if err := json.Unmarshal(payload, &out); err != nil {
		return recipe.Recipe{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return out.Normalize(), nil
}
