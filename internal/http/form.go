package http

import (
	"html/template"
	"net/http"

	"golang.org/x/text/unicode/bidi"

	"github.com/goliatone/go-recipes/internal/markdown"
	"github.com/goliatone/go-recipes/internal/view"
	"github.com/goliatone/go-recipes/recipe"
)

var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<form method="post" action="{{.SubmitAction}}">
{{template "field" .Name}}
{{template "sections" .}}
<button type="submit" formaction="{{.SubmitAction}}">{{.SubmitLabel}}</button>
<button type="submit" formaction="{{.ExportAction}}">{{.ExportLabel}}</button>
</form>
</body>
</html>
{{define "field"}}<label>{{.Label}} <input type="text" name="{{.Name}}" value="{{.Value}}"{{if .Required}} required{{end}}></label>{{end}}
{{define "button"}}<button type="submit" formaction="{{.Action}}" formnovalidate>{{.Label}}</button>{{end}}
{{define "list"}}<fieldset><legend>{{.Legend}}</legend>
<ul>{{range .Entries}}
<li>{{template "field" .Field}} {{template "button" .Remove}}</li>{{end}}
</ul>
{{template "button" .Add}}
</fieldset>{{end}}
{{define "sections"}}{{range .Sections}}
<fieldset><legend>{{.Legend}}</legend>
{{template "field" .Name}}
{{template "list" .Ingredients}}
{{template "list" .Steps}}
{{template "button" .Remove}}
</fieldset>{{end}}
{{template "button" .AddSection}}{{end}}`))

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html dir="{{.Dir}}">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
{{.Body}}
</body>
</html>
`))

type formField struct {
	Name     string
	Label    string
	Value    string
	Required bool
}

type formButton struct {
	Action string
	Label  string
}

type formEntry struct {
	Field  formField
	Remove formButton
}

type formList struct {
	Legend  string
	Entries []formEntry
	Add     formButton
}

type formSection struct {
	Legend      string
	Name        formField
	Ingredients formList
	Steps       formList
	Remove      formButton
}

type formPage struct {
	Lang         string
	Dir          string
	Title        string
	Name         formField
	Sections     []formSection
	AddSection   formButton
	SubmitAction string
	SubmitLabel  string
	ExportAction string
	ExportLabel  string
}

func (api *EditorAPI) handleForm(w http.ResponseWriter, r *http.Request) {
	var page formPage
	err := api.session.Inspect(func(root *view.RecipeView) error {
		page = api.buildPage(root)
		return nil
	})
	if err != nil {
		api.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := formTemplate.Execute(w, page); err != nil {
		api.logger.Error("http.form.render_failed", "error", err)
	}
}

func (api *EditorAPI) renderPreview(w http.ResponseWriter, current recipe.Recipe, rendered markdown.Rendered) {
	title := rendered.Meta.Title
	if title == "" {
		title = current.Name
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := previewTemplate.Execute(w, map[string]any{
		"Dir":   textDirection(current.Name, api.title),
		"Title": title,
		"Body":  template.HTML(rendered.HTML),
	})
	if err != nil {
		api.logger.Error("http.preview.render_failed", "error", err)
	}
}

func (api *EditorAPI) buildPage(root *view.RecipeView) formPage {
	page := formPage{
		Lang:         "he",
		Title:        api.title,
		SubmitAction: joinPath(api.basePath, "submit"),
		ExportAction: joinPath(api.basePath, "export"),
	}
	if root.Name != nil {
		page.Name = api.field(root.Name)
		page.Dir = textDirection(root.Name.Value(), root.Name.Label())
	} else {
		page.Dir = textDirection(api.title)
	}
	if root.Submit != nil {
		page.SubmitLabel = root.Submit.Label()
	}
	if root.Export != nil {
		page.ExportLabel = root.Export.Label()
	}
	if root.Sections == nil {
		return page
	}
	for _, entry := range root.Sections.Entries() {
		section := entry.Item
		page.Sections = append(page.Sections, formSection{
			Legend:      section.Legend,
			Name:        api.field(section.Name),
			Ingredients: api.list(section.Ingredients),
			Steps:       api.list(section.Steps),
			Remove:      api.button(entry.Remove),
		})
	}
	page.AddSection = api.button(root.Sections.Add)
	return page
}

func (api *EditorAPI) list(list *view.FieldList) formList {
	if list == nil {
		return formList{}
	}
	out := formList{Legend: list.Legend, Add: api.button(list.Add)}
	for _, entry := range list.Entries() {
		out.Entries = append(out.Entries, formEntry{
			Field:  api.field(entry.Item),
			Remove: api.button(entry.Remove),
		})
	}
	return out
}

func (api *EditorAPI) field(field *view.Field) formField {
	if field == nil {
		return formField{}
	}
	return formField{
		Name:     fieldPrefix + string(field.ID()),
		Label:    field.Label(),
		Value:    field.Value(),
		Required: field.Required(),
	}
}

func (api *EditorAPI) button(control *view.Control) formButton {
	if control == nil {
		return formButton{}
	}
	return formButton{
		Action: joinPath(api.basePath, "controls") + "/" + string(control.ID()),
		Label:  control.Label(),
	}
}

// textDirection returns "rtl" or "ltr" from the first strongly directional
// rune found in samples, defaulting to "rtl" for the Hebrew labels.
func textDirection(samples ...string) string {
	for _, sample := range samples {
		for _, r := range sample {
			props, _ := bidi.LookupRune(r)
			switch props.Class() {
			case bidi.R, bidi.AL:
				return "rtl"
			case bidi.L:
				return "ltr"
			}
		}
	}
	return "rtl"
}
