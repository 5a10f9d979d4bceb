package inbound

import (
	"bytes"
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed page.html
var pageHTML string

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

type pageData struct {
	HasSecret bool
}

// newPage serves the widget. The initial state comes from Load so a returning
// session sees the verify input without pressing setup again.
func newPage(uc uc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		resp, err := uc.Load(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "failed to load widget state", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		var buf bytes.Buffer
		if err := pageTmpl.Execute(&buf, pageData{HasSecret: resp.HasSecret}); err != nil {
			slog.ErrorContext(ctx, "failed to render widget page", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	})
}
