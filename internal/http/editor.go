package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	editorcmd "github.com/goliatone/go-recipes/internal/commands/editor"
	"github.com/goliatone/go-recipes/internal/download"
	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/internal/markdown"
	"github.com/goliatone/go-recipes/internal/view"
	"github.com/goliatone/go-recipes/pkg/interfaces"
	"github.com/goliatone/go-recipes/recipe"
)

// fieldPrefix marks form inputs that carry field values keyed by node id.
const fieldPrefix = "f."

// Session is the read side of the editor session used for rendering.
type Session interface {
	Version() uint64
	Decode(ctx context.Context) (recipe.Recipe, error)
	Inspect(fn func(root *view.RecipeView) error) error
}

// EditorAPI registers the form frontend and the JSON endpoints of one
// editor session.
type EditorAPI struct {
	basePath string
	title    string
	session  Session
	commands *editorcmd.HandlerSet
	preview  *markdown.Preview
	logger   interfaces.Logger
}

// EditorOption mutates the EditorAPI configuration.
type EditorOption func(*EditorAPI)

// NewEditorAPI constructs an EditorAPI mounted at "/".
func NewEditorAPI(opts ...EditorOption) *EditorAPI {
	api := &EditorAPI{
		basePath: "/",
		title:    "מתכון",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the mount path.
func WithBasePath(path string) EditorOption {
	return func(api *EditorAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithTitle sets the page title of the form.
func WithTitle(title string) EditorOption {
	return func(api *EditorAPI) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			api.title = trimmed
		}
	}
}

// WithSession wires the session rendered by the form and read endpoints.
func WithSession(session Session) EditorOption {
	return func(api *EditorAPI) {
		api.session = session
	}
}

// WithCommands wires the handlers that perform user actions.
func WithCommands(set *editorcmd.HandlerSet) EditorOption {
	return func(api *EditorAPI) {
		api.commands = set
	}
}

// WithPreview enables GET /preview.
func WithPreview(preview *markdown.Preview) EditorOption {
	return func(api *EditorAPI) {
		api.preview = preview
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) EditorOption {
	return func(api *EditorAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the editor endpoints to the provided mux.
func (api *EditorAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: editor api is nil")
	}
	if api.session == nil || api.commands == nil {
		return fmt.Errorf("http: editor api requires a session and commands")
	}

	base := joinPath(api.basePath, "")
	root := strings.TrimSuffix(base, "/")

	mux.HandleFunc("GET "+root+"/{$}", api.handleForm)
	mux.HandleFunc("POST "+joinPath(base, "fields")+"/{id}", api.handleEditField)
	mux.HandleFunc("POST "+joinPath(base, "controls")+"/{id}", api.handleActivate)
	mux.HandleFunc("POST "+joinPath(base, "submit"), api.handleSubmit)
	mux.HandleFunc("POST "+joinPath(base, "export"), api.handleExport)
	mux.HandleFunc("POST "+joinPath(base, "reset"), api.handleReset)
	mux.HandleFunc("GET "+joinPath(base, "api/recipe"), api.handleRecipe)
	mux.HandleFunc("GET "+joinPath(base, "api/view"), api.handleView)
	mux.HandleFunc("GET "+joinPath(base, "preview"), api.handlePreview)
	return nil
}

type editPayload struct {
	Value string `json:"value"`
}

type versionResponse struct {
	Version uint64 `json:"version"`
}

type submitResponse struct {
	Version uint64        `json:"version"`
	Recipe  recipe.Recipe `json:"recipe"`
	Issues  any           `json:"issues,omitempty"`
}

func (api *EditorAPI) handleEditField(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var value string
	if isFormPost(r) {
		value = r.PostFormValue("value")
	} else {
		var payload editPayload
		if err := decodeJSON(r, &payload); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
			return
		}
		value = payload.Value
	}

	if err := api.commands.Edit.Execute(r.Context(), editorcmd.EditFieldCommand{NodeID: id, Value: value}); err != nil {
		api.fail(w, r, err)
		return
	}
	api.done(w, r, versionResponse{Version: api.session.Version()})
}

func (api *EditorAPI) handleActivate(w http.ResponseWriter, r *http.Request) {
	if !api.applyFormEdits(w, r) {
		return
	}
	id := r.PathValue("id")
	if err := api.commands.Activate.Execute(r.Context(), editorcmd.ActivateControlCommand{NodeID: id}); err != nil {
		api.fail(w, r, err)
		return
	}
	api.done(w, r, versionResponse{Version: api.session.Version()})
}

func (api *EditorAPI) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !api.applyFormEdits(w, r) {
		return
	}
	var result editorcmd.SaveResult
	if err := api.commands.Save.Execute(r.Context(), editorcmd.SaveRecipeCommand{Result: &result}); err != nil {
		api.fail(w, r, err)
		return
	}
	api.done(w, r, submitResponse{
		Version: api.session.Version(),
		Recipe:  result.Recipe,
		Issues:  result.Issues,
	})
}

func (api *EditorAPI) handleExport(w http.ResponseWriter, r *http.Request) {
	if !api.applyFormEdits(w, r) {
		return
	}
	msg := editorcmd.ExportRecipeCommand{
		Filename: strings.TrimSpace(r.URL.Query().Get("filename")),
		Trigger:  download.Response{Writer: w},
	}
	if err := api.commands.Export.Execute(r.Context(), msg); err != nil {
		api.fail(w, r, err)
	}
}

func (api *EditorAPI) handleReset(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	msg := editorcmd.ResetRecipeCommand{
		Empty: parseBoolQuery(query.Get("empty"), false),
		Purge: parseBoolQuery(query.Get("purge"), false),
	}
	if err := api.commands.Reset.Execute(r.Context(), msg); err != nil {
		api.fail(w, r, err)
		return
	}
	api.done(w, r, versionResponse{Version: api.session.Version()})
}

func (api *EditorAPI) handleRecipe(w http.ResponseWriter, r *http.Request) {
	current, err := api.session.Decode(r.Context())
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (api *EditorAPI) handleView(w http.ResponseWriter, r *http.Request) {
	var tree viewNode
	err := api.session.Inspect(func(root *view.RecipeView) error {
		tree = describeRecipe(root)
		return nil
	})
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (api *EditorAPI) handlePreview(w http.ResponseWriter, r *http.Request) {
	if api.preview == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable", Message: "preview disabled"})
		return
	}
	current, err := api.session.Decode(r.Context())
	if err != nil {
		api.fail(w, r, err)
		return
	}
	rendered, err := api.preview.Render(current)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	api.renderPreview(w, current, rendered)
}

// applyFormEdits pushes every posted field value into the session so that a
// button press also carries what the user typed. Values for fields that no
// longer exist are skipped.
func (api *EditorAPI) applyFormEdits(w http.ResponseWriter, r *http.Request) bool {
	if !isFormPost(r) {
		return true
	}
	if err := r.ParseForm(); err != nil {
		api.fail(w, r, err)
		return false
	}
	for key, values := range r.PostForm {
		id, ok := strings.CutPrefix(key, fieldPrefix)
		if !ok || len(values) == 0 {
			continue
		}
		err := api.commands.Edit.Execute(r.Context(), editorcmd.EditFieldCommand{NodeID: id, Value: values[0]})
		if err != nil {
			logging.WithNode(api.logger, id).Debug("http.form.edit_skipped", "error", err)
		}
	}
	return true
}

func (api *EditorAPI) done(w http.ResponseWriter, r *http.Request, payload any) {
	if isFormPost(r) {
		http.Redirect(w, r, api.formPath(), http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (api *EditorAPI) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := mapError(err)
	if status >= http.StatusInternalServerError {
		api.logger.Error("http.request.failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		api.logger.Debug("http.request.rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeError(w, err)
}

func (api *EditorAPI) formPath() string {
	path := joinPath(api.basePath, "")
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}
