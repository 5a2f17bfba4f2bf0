// Package markdown turns a recipe into a markdown document and renders that
// document to HTML for the preview page. Export is one-way: nothing here reads
// markdown back into a recipe.
package markdown
