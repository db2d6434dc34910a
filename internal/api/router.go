package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/visperhq/visper/internal/auth"
	"github.com/visperhq/visper/internal/journal"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *journal.Service, verifier auth.Verifier, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(verifier))

	// Entries.
	r.Post("/entries", h.CreateEntry)
	r.Get("/entries", h.ListEntries)
	r.Get("/entries/export", h.ExportHistory)
	r.Delete("/entries/{id}", h.DeleteEntry)

	// Enrichment.
	r.Post("/entries/improve", h.ImproveText)
	r.Post("/entries/metadata", h.ExtractMetadata)
	r.Post("/urls/summarize", h.SummarizeURL)

	// Search.
	r.Get("/search", h.Search)

	// Image upload (auth-protected).
	r.Post("/upload", h.Upload)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
