package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/visperhq/visper/internal/journal"
	"github.com/visperhq/visper/internal/models"
	"github.com/visperhq/visper/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	svc *journal.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *journal.Service) *Handler {
	return &Handler{svc: svc}
}

// parseFilter reads the shared query-string filter parameters.
// Dates accept RFC 3339 or plain YYYY-MM-DD.
func parseFilter(r *http.Request) store.Filter {
	q := r.URL.Query()
	f := store.Filter{
		Type:      models.EntryType(q.Get("type")),
		Tag:       q.Get("tag"),
		Sentiment: models.Sentiment(q.Get("sentiment")),
	}
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	f.From = parseDate(q.Get("from"))
	f.To = parseDate(q.Get("to"))
	return f
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}

// CreateEntry handles POST /api/entries.
//
//	@Summary		Create a journal entry
//	@Tags			entries
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateEntryRequest	true	"Entry to create"
//	@Success		201		{object}	models.Entry
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/entries [post]
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	entry, err := h.svc.CreateEntry(r.Context(), requestUser(r), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ListEntries handles GET /api/entries.
//
//	@Summary		List the caller's entries, newest first
//	@Tags			entries
//	@Produce		json
//	@Param			type		query		string	false	"Filter by type"	Enums(note, url, image)
//	@Param			tag			query		string	false	"Filter by exact tag"
//	@Param			sentiment	query		string	false	"Filter by sentiment"	Enums(negative, neutral, positive)
//	@Param			from		query		string	false	"Creation date lower bound (RFC 3339 or YYYY-MM-DD)"
//	@Param			to			query		string	false	"Creation date upper bound"
//	@Param			limit		query		int		false	"Page size (default 50)"
//	@Success		200			{object}	EntryListResponse
//	@Security		BearerAuth
//	@Router			/entries [get]
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListEntries(r.Context(), requestUser(r), parseFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EntryListResponse{Entries: entries, Total: len(entries)})
}

// DeleteEntry handles DELETE /api/entries/{id}.
//
//	@Summary		Delete an entry owned by the caller
//	@Tags			entries
//	@Param			id	path	string	true	"Entry id"
//	@Success		204	"Entry deleted"
//	@Failure		403	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/entries/{id} [delete]
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	if err := h.svc.DeleteEntry(r.Context(), id, requestUser(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportHistory handles GET /api/entries/export.
//
//	@Summary		Download the full journal as a self-contained HTML document
//	@Tags			entries
//	@Produce		html
//	@Param			includeImages	query	bool	false	"Embed image URLs (default true)"
//	@Success		200	"HTML export"
//	@Security		BearerAuth
//	@Router			/entries/export [get]
func (h *Handler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	includeImages := r.URL.Query().Get("includeImages") != "false"

	html, filename, err := h.svc.ExportHistory(r.Context(), requestUser(r), includeImages)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		slog.Error("export write failed", slog.String("error", err.Error()))
	}
}

// ImproveText handles POST /api/entries/improve.
//
//	@Summary		Improve raw text and extract entry metadata
//	@Tags			enrichment
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ImproveRequest	true	"Raw text"
//	@Success		200		{object}	ImproveResponse
//	@Failure		400		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/entries/improve [post]
func (h *Handler) ImproveText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ImproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	result, err := h.svc.ImproveText(r.Context(), req.RawText)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ExtractMetadata handles POST /api/entries/metadata.
//
//	@Summary		Extract metadata from text or an image URL
//	@Tags			enrichment
//	@Accept			json
//	@Produce		json
//	@Param			body	body		MetadataRequest	true	"Text or image URL"
//	@Success		200		{object}	venice.TextMetadata
//	@Failure		400		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/entries/metadata [post]
func (h *Handler) ExtractMetadata(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req MetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	var (
		result any
		err    error
	)
	if req.ImageURL != "" {
		result, err = h.svc.ExtractImageMetadata(r.Context(), req.ImageURL)
	} else {
		result, err = h.svc.ExtractTextMetadata(r.Context(), req.Text)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SummarizeURL handles POST /api/urls/summarize.
//
//	@Summary		Fetch a URL and condense it into a summary
//	@Tags			enrichment
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SummarizeRequest	true	"URL to summarize"
//	@Success		200		{object}	SummarizeResponse
//	@Failure		400		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/urls/summarize [post]
func (h *Handler) SummarizeURL(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	result, err := h.svc.SummarizeURL(r.Context(), req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Search handles GET /api/search.
//
//	@Summary		Substring search across the caller's entries
//	@Tags			search
//	@Produce		json
//	@Param			q			query		string	false	"Search text"
//	@Param			type		query		string	false	"Filter by type"
//	@Param			tag			query		string	false	"Filter by exact tag"
//	@Param			sentiment	query		string	false	"Filter by sentiment"
//	@Param			from		query		string	false	"Creation date lower bound"
//	@Param			to			query		string	false	"Creation date upper bound"
//	@Param			limit		query		int		false	"Page size (default 50)"
//	@Success		200			{object}	EntryListResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	// The semantic flag is accepted and ignored; search is always lexical.
	entries, err := h.svc.SearchEntries(r.Context(), requestUser(r), r.URL.Query().Get("q"), parseFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EntryListResponse{Entries: entries, Total: len(entries)})
}

// Upload handles POST /api/upload (multipart/form-data, field "file").
//
//	@Summary		Upload an image for an entry
//	@Tags			media
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Image file"
//	@Success		201		{object}	UploadResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, journal.MaxUploadBytes+1<<20)

	if err := r.ParseMultipartForm(journal.MaxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	result, err := h.svc.UploadImage(r.Context(), requestUser(r), header.Filename, contentType, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
