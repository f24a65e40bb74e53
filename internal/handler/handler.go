// Package handler provides HTTP request handlers for the account pages.
package handler

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pages holds the parsed page templates. Each template file is a
// self-contained document keyed by its file name.
var pages = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// pageData is the payload every page template receives.
type pageData struct {
	Flash    string
	Username string
}

// renderPage executes a page template into a buffer first, so a template
// error produces a clean 500 instead of a half-written page.
func renderPage(w http.ResponseWriter, logger *slog.Logger, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error("render page", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeJSON writes a JSON response with the given status code.
// Used by the health endpoints.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = err
	}
}

// NotFound handles 404 responses.
func NotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "page not found", http.StatusNotFound)
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
