package markdown

import (
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

// Headings are the sub-headings written above each section's lists.
type Headings struct {
	Ingredients string
	Steps       string
}

// DefaultHeadings match the labels of the editor form.
func DefaultHeadings() Headings {
	return Headings{
		Ingredients: "רכיבים",
		Steps:       "הוראות הכנה",
	}
}

// Exporter formats recipes as markdown:
//
//	# name
//	## section
//	### ingredients heading, then a bullet list
//	### steps heading, then a numbered list
//
// Empty lists are left out of the body.
type Exporter struct {
	headings    Headings
	frontmatter bool
	now         func() time.Time
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithFrontmatter prepends a YAML block with title, slug, section count and
// export time.
func WithFrontmatter(enabled bool) ExporterOption {
	return func(e *Exporter) {
		e.frontmatter = enabled
	}
}

// WithHeadings overrides the list headings. Empty values keep the default.
func WithHeadings(h Headings) ExporterOption {
	return func(e *Exporter) {
		if h.Ingredients != "" {
			e.headings.Ingredients = h.Ingredients
		}
		if h.Steps != "" {
			e.headings.Steps = h.Steps
		}
	}
}

// WithClock sets the clock used for exported_at.
func WithClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// NewExporter returns an exporter without frontmatter.
func NewExporter(opts ...ExporterOption) *Exporter {
	e := &Exporter{
		headings: DefaultHeadings(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

var _ interfaces.MarkdownExporter = (*Exporter)(nil)

// Format renders r. Line breaks inside values are folded into spaces so every
// value stays on its own markdown line.
func (e *Exporter) Format(r recipe.Recipe) string {
	var b strings.Builder

	if e.frontmatter {
		b.WriteString(renderFrontmatter(r, e.now()))
	}

	heading(&b, 1, r.Name)
	for _, section := range r.Sections {
		b.WriteByte('\n')
		heading(&b, 2, section.Name)

		if len(section.Ingredients) > 0 {
			b.WriteByte('\n')
			heading(&b, 3, e.headings.Ingredients)
			b.WriteByte('\n')
			for _, ingredient := range section.Ingredients {
				b.WriteString("- ")
				b.WriteString(inline(ingredient))
				b.WriteByte('\n')
			}
		}

		if len(section.Steps) > 0 {
			b.WriteByte('\n')
			heading(&b, 3, e.headings.Steps)
			b.WriteByte('\n')
			for i, step := range section.Steps {
				b.WriteString(strconv.Itoa(i + 1))
				b.WriteString(". ")
				b.WriteString(inline(step))
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

func heading(b *strings.Builder, level int, text string) {
	b.WriteString(strings.Repeat("#", level))
	if text = inline(text); text != "" {
		b.WriteByte(' ')
		b.WriteString(text)
	}
	b.WriteByte('\n')
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func inline(value string) string {
	return lineBreaks.Replace(value)
}
