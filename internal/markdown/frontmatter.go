package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-recipes/internal/download"
	"github.com/goliatone/go-recipes/recipe"
)

// FrontMatter is the metadata block written ahead of an exported recipe.
type FrontMatter struct {
	Title      string    `yaml:"title"`
	Slug       string    `yaml:"slug"`
	Sections   int       `yaml:"sections"`
	ExportedAt time.Time `yaml:"exported_at"`
}

func renderFrontmatter(r recipe.Recipe, at time.Time) string {
	meta := FrontMatter{
		Title:      r.Name,
		Slug:       download.Slug(r.Name),
		Sections:   len(r.Sections),
		ExportedAt: at.UTC().Truncate(time.Second),
	}
	encoded, err := yaml.Marshal(meta)
	if err != nil {
		// Scalar fields only; omit the block rather than fail the export.
		return ""
	}
	return "---\n" + string(encoded) + "---\n\n"
}

// SplitFrontMatter separates a leading YAML block from the markdown body.
// Documents without one come back unchanged with zero metadata.
func SplitFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}
