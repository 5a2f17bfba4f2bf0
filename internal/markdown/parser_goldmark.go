package markdown

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-recipes/pkg/interfaces"
)

// previewExtensions are the goldmark extensions a preview can enable by name.
// Recipes are headings and lists, so only inline and table syntax is offered.
var previewExtensions = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"typographer":   extension.Typographer,
}

// ExtensionNames returns the accepted extension names in sorted order.
func ExtensionNames() []string {
	names := make([]string, 0, len(previewExtensions))
	for name := range previewExtensions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GoldmarkParser converts exported recipes to HTML. The engine is configured
// once and shared by every Parse call.
type GoldmarkParser struct {
	engine goldmark.Markdown
}

// NewGoldmarkParser builds the engine for opts. Unknown extension names are
// ignored, and no names means GFM. Raw HTML typed into recipe fields is
// dropped from the output unless opts.RawHTML is set.
func NewGoldmarkParser(opts interfaces.ParseOptions) *GoldmarkParser {
	var rendering []renderer.Option
	if opts.HardWraps {
		rendering = append(rendering, html.WithHardWraps())
	}
	if opts.RawHTML {
		rendering = append(rendering, html.WithUnsafe())
	}

	engine := goldmark.New(
		goldmark.WithExtensions(resolveExtensions(opts.Extensions)...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendering...),
	)
	return &GoldmarkParser{engine: engine}
}

var _ interfaces.MarkdownParser = (*GoldmarkParser)(nil)

func (p *GoldmarkParser) Parse(source []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := p.engine.Convert(source, &out); err != nil {
		return nil, fmt.Errorf("markdown: convert: %w", err)
	}
	return out.Bytes(), nil
}

func resolveExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM}
	}
	var resolved []goldmark.Extender
	var used []string
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		ext, ok := previewExtensions[key]
		if !ok || slices.Contains(used, key) {
			continue
		}
		used = append(used, key)
		resolved = append(resolved, ext)
	}
	return resolved
}
