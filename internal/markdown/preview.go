package markdown

import (
	"fmt"

	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

// Preview renders exported recipes to HTML.
type Preview struct {
	exporter interfaces.MarkdownExporter
	parser   interfaces.MarkdownParser
	logger   interfaces.Logger
}

// NewPreview combines an exporter and a parser. A nil logger is replaced by
// the no-op logger.
func NewPreview(exporter interfaces.MarkdownExporter, parser interfaces.MarkdownParser, logger interfaces.Logger) *Preview {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Preview{exporter: exporter, parser: parser, logger: logger}
}

// Rendered is the output of a preview.
type Rendered struct {
	Markdown string
	Meta     FrontMatter
	HTML     []byte
}

// Render exports r and converts the body, without its frontmatter, to HTML.
func (p *Preview) Render(r recipe.Recipe) (Rendered, error) {
	source := p.exporter.Format(r)

	meta, body, err := SplitFrontMatter([]byte(source))
	if err != nil {
		return Rendered{}, err
	}

	html, err := p.parser.Parse(body)
	if err != nil {
		p.logger.Error("markdown.preview.failed", "recipe", r.Name, "error", err)
		return Rendered{}, fmt.Errorf("markdown: render preview: %w", err)
	}

	p.logger.Debug("markdown.preview.rendered", "recipe", r.Name, "bytes", len(html))
	return Rendered{Markdown: source, Meta: meta, HTML: html}, nil
}
