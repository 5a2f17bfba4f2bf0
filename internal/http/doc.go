// Package http serves the recipe editor over plain net/http.
//
// Routes mount under the configured base path:
//   - Form frontend: GET /, POST /fields/{id}, POST /controls/{id}
//   - Actions: POST /submit, POST /export, POST /reset
//   - Read-only: GET /api/recipe, GET /api/view, GET /preview
//
// Form posts answer with a redirect back to the form; JSON posts answer with
// JSON. Host applications can register the handlers on their own mux.
package http
