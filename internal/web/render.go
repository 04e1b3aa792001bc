package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/ludoteca/internal/web/templates"
	"github.com/a-h/templ"
)

// writePage renders fragment inside the page layout. Output is buffered so
// a render error can still produce a clean 500.
func writePage(w http.ResponseWriter, r *http.Request, title string, statusCode int, fragment templ.Component) {
	var buf bytes.Buffer
	ctx := templ.WithChildren(r.Context(), fragment)
	if err := templates.Layout(title).Render(ctx, &buf); err != nil {
		slog.Error("render page", "title", title, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeHTML(w, statusCode, buf.Bytes())
}

// writeFragment renders fragment on its own.
func writeFragment(w http.ResponseWriter, r *http.Request, statusCode int, fragment templ.Component) {
	var buf bytes.Buffer
	if err := fragment.Render(r.Context(), &buf); err != nil {
		slog.Error("render fragment", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeHTML(w, statusCode, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, statusCode int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
