// Package view implements the live, editable representation of a recipe.
//
// A Builder turns a recipe.Recipe into a tree of typed nodes: editable
// Fields, activatable Controls, and ordered Lists whose last node is always a
// trailing add control. Once built, the tree is the only source of truth for
// the edited document; DecodeRecipe reads the current field values back into
// a fresh recipe.Recipe.
//
// The tree is not safe for concurrent use. Callers serialise every mutation
// and decode (see internal/editor).
package view
