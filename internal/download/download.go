// Package download offers exported markdown to the user. Triggers are fire
// and forget from the editor's point of view: a failed offer is logged by the
// caller and never rolls back the edit that produced it.
package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

// FallbackName is used when the recipe name produces no usable slug.
const FallbackName = "recipe"

// Slug normalizes a recipe name for file names and frontmatter.
func Slug(name string) string {
	normalized, err := slug.Normalize(name)
	if err != nil {
		return ""
	}
	return normalized
}

// Filename returns "<slug>.md", or "recipe.md" when the slug is empty.
func Filename(r recipe.Recipe) string {
	base := Slug(r.Name)
	if base == "" {
		base = FallbackName
	}
	return base + ".md"
}

// Directory writes offered files into Dir, replacing files of the same name.
type Directory struct {
	Dir string
}

func (d Directory) Offer(ctx context.Context, filename, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.Dir == "" {
		return errors.New("download: directory is not set")
	}
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("download: invalid file name %q", filename)
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("download: create %s: %w", d.Dir, err)
	}
	return os.WriteFile(filepath.Join(d.Dir, name), []byte(text), 0o644)
}

// Response writes the file as an HTTP attachment.
type Response struct {
	Writer http.ResponseWriter
}

func (r Response) Offer(_ context.Context, filename, text string) error {
	header := r.Writer.Header()
	header.Set("Content-Type", "text/markdown; charset=utf-8")
	header.Set("Content-Disposition", contentDisposition(filename))
	r.Writer.WriteHeader(http.StatusOK)
	_, err := r.Writer.Write([]byte(text))
	return err
}

func contentDisposition(filename string) string {
	ascii := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return -1
		}
		return r
	}, filename)
	if strings.TrimSuffix(ascii, ".md") == "" {
		ascii = FallbackName + ".md"
	}
	return fmt.Sprintf(`attachment; filename="%s"`, ascii)
}

// Offer is one recorded file.
type Offer struct {
	Filename string
	Text     string
}

// Buffer records offers in memory.
type Buffer struct {
	mu     sync.Mutex
	offers []Offer
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Offer(_ context.Context, filename, text string) error {
	b.mu.Lock()
	b.offers = append(b.offers, Offer{Filename: filename, Text: text})
	b.mu.Unlock()
	return nil
}

// Offers returns every recorded offer in order.
func (b *Buffer) Offers() []Offer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Offer(nil), b.offers...)
}

// Last returns the most recent offer.
func (b *Buffer) Last() (Offer, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.offers) == 0 {
		return Offer{}, false
	}
	return b.offers[len(b.offers)-1], true
}

var (
	_ interfaces.DownloadTrigger = Directory{}
	_ interfaces.DownloadTrigger = Response{}
	_ interfaces.DownloadTrigger = (*Buffer)(nil)
)
