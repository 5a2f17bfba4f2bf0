package interfaces

import "github.com/goliatone/go-recipes/recipe"

// MarkdownExporter formats a recipe as a markdown document. Implementations
// must be pure; the editor never parses the output back.
type MarkdownExporter interface {
	Format(r recipe.Recipe) string
}

// MarkdownParser converts markdown into HTML for previews.
type MarkdownParser interface {
	Parse(markdown []byte) ([]byte, error)
}

// ParseOptions configures a MarkdownParser. The zero value renders GFM and
// drops raw HTML found in the source.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	// RawHTML passes HTML embedded in recipe text through to the output.
	// Recipe text is user input, so enable it only for trusted content.
	RawHTML bool
}
