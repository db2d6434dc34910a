package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/visperhq/visper/internal/auth"
	"github.com/visperhq/visper/internal/journal"
	"github.com/visperhq/visper/internal/models"
	"github.com/visperhq/visper/internal/scraper"
	"github.com/visperhq/visper/internal/testutil"
	"github.com/visperhq/visper/internal/venice"
)

type stubEnricher struct {
	improve *venice.ImproveResult
	summary *venice.URLSummary
	err     error
}

func (s *stubEnricher) ImproveEntry(context.Context, string) (*venice.ImproveResult, error) {
	return s.improve, s.err
}

func (s *stubEnricher) ExtractTextMetadata(context.Context, string) (*venice.TextMetadata, error) {
	return &venice.TextMetadata{Tags: []string{}, Entities: []string{}, Topics: []string{}, Keywords: []string{}}, s.err
}

func (s *stubEnricher) ExtractImageMetadata(context.Context, string) (*venice.ImageMetadata, error) {
	return &venice.ImageMetadata{Tags: []string{}, Objects: []string{}}, s.err
}

func (s *stubEnricher) SummarizeURL(context.Context, string) (*venice.URLSummary, error) {
	return s.summary, s.err
}

type stubFetcher struct {
	content *models.ScrapedContent
	err     error
}

func (s *stubFetcher) Fetch(context.Context, string) (*models.ScrapedContent, error) {
	return s.content, s.err
}

// testEnv builds a service and router. A nil verifier means disabled-mode
// auth acting as user "local".
func testEnv(t *testing.T, verifier auth.Verifier) (*journal.Service, http.Handler) {
	t.Helper()
	return testEnvWith(t, verifier, &stubEnricher{}, &stubFetcher{})
}

func testEnvWith(t *testing.T, verifier auth.Verifier, enricher journal.Enricher, fetcher journal.ContentFetcher) (*journal.Service, http.Handler) {
	t.Helper()
	db := testutil.TestDB(t)
	_, blobs := testutil.TestMedia(t)
	svc := journal.NewService(db, blobs, enricher, fetcher, nil)
	if verifier == nil {
		verifier = auth.StaticUser("local")
	}
	return svc, NewRouter(svc, verifier, nil)
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndListEntries(t *testing.T) {
	_, router := testEnv(t, nil)

	w := doJSON(t, router, http.MethodPost, "/entries", "", map[string]any{
		"type":    "note",
		"rawText": "first thought",
		"tags":    []string{"start"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.Entry
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == "" || created.UserID != "local" || created.Source != models.SourceRaw {
		t.Errorf("created = %+v", created)
	}

	w = doJSON(t, router, http.MethodGet, "/entries", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list EntryListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 || list.Entries[0].RawText != "first thought" {
		t.Errorf("list = %+v", list)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	_, router := testEnv(t, nil)

	w := doJSON(t, router, http.MethodPost, "/entries", "", map[string]any{"type": "note"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/entries", "", map[string]any{"type": "url"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("url without url = %d, want 400", w.Code)
	}
}

func TestTokenAuth(t *testing.T) {
	verifier := auth.NewTokenRegistry(map[string]string{"tok-1": "u1", "tok-2": "u2"})
	_, router := testEnv(t, verifier)

	if w := doJSON(t, router, http.MethodGet, "/entries", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}
	if w := doJSON(t, router, http.MethodGet, "/entries", "wrong", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token = %d, want 401", w.Code)
	}
	if w := doJSON(t, router, http.MethodGet, "/entries", "tok-1", nil); w.Code != http.StatusOK {
		t.Errorf("good token = %d, want 200", w.Code)
	}
}

func TestDeleteOwnership(t *testing.T) {
	verifier := auth.NewTokenRegistry(map[string]string{"tok-1": "u1", "tok-2": "u2"})
	_, router := testEnv(t, verifier)

	w := doJSON(t, router, http.MethodPost, "/entries", "tok-1", map[string]any{"type": "note", "rawText": "mine"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d", w.Code)
	}
	var created models.Entry
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	if w := doJSON(t, router, http.MethodDelete, "/entries/"+created.ID, "tok-2", nil); w.Code != http.StatusForbidden {
		t.Errorf("foreign delete = %d, want 403", w.Code)
	}
	if w := doJSON(t, router, http.MethodDelete, "/entries/"+created.ID, "tok-1", nil); w.Code != http.StatusNoContent {
		t.Errorf("owner delete = %d, want 204", w.Code)
	}
	if w := doJSON(t, router, http.MethodDelete, "/entries/"+created.ID, "tok-1", nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", w.Code)
	}
}

func TestListIsolatesUsers(t *testing.T) {
	verifier := auth.NewTokenRegistry(map[string]string{"tok-1": "u1", "tok-2": "u2"})
	_, router := testEnv(t, verifier)

	doJSON(t, router, http.MethodPost, "/entries", "tok-1", map[string]any{"type": "note", "rawText": "u1 note"})
	doJSON(t, router, http.MethodPost, "/entries", "tok-2", map[string]any{"type": "note", "rawText": "u2 note"})

	w := doJSON(t, router, http.MethodGet, "/entries", "tok-2", nil)
	var list EntryListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 || list.Entries[0].RawText != "u2 note" {
		t.Errorf("list = %+v", list)
	}
}

func TestExportHeaders(t *testing.T) {
	_, router := testEnv(t, nil)
	doJSON(t, router, http.MethodPost, "/entries", "", map[string]any{"type": "note", "rawText": "kept"})

	w := doJSON(t, router, http.MethodGet, "/entries/export", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, `attachment; filename="visper-history-`) {
		t.Errorf("content disposition = %q", cd)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("cache control = %q", cc)
	}
	if !strings.Contains(w.Body.String(), "kept") {
		t.Error("entry missing from export body")
	}
}

func TestImproveEndpoint(t *testing.T) {
	enricher := &stubEnricher{improve: &venice.ImproveResult{
		ImprovedText: "Better.",
		QualityScore: 0.9,
		Tags:         []string{"t"},
		Entities:     []string{},
		Sentiment:    models.SentimentPositive,
	}}
	_, router := testEnvWith(t, nil, enricher, &stubFetcher{})

	w := doJSON(t, router, http.MethodPost, "/entries/improve", "", map[string]any{"rawText": "worse"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got ImproveResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.ImprovedText != "Better." || got.Sentiment != models.SentimentPositive {
		t.Errorf("got %+v", got)
	}

	// Empty rawText is a validation failure, not a gateway call.
	if w := doJSON(t, router, http.MethodPost, "/entries/improve", "", map[string]any{"rawText": " "}); w.Code != http.StatusBadRequest {
		t.Errorf("empty rawText = %d, want 400", w.Code)
	}
}

func TestSummarizeGatewayErrors(t *testing.T) {
	fetcher := &stubFetcher{err: &scraper.FetchError{URL: "https://x", Status: 403, Reason: "403 Forbidden"}}
	_, router := testEnvWith(t, nil, &stubEnricher{}, fetcher)

	w := doJSON(t, router, http.MethodPost, "/urls/summarize", "", map[string]any{"url": "https://x"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("fetch failure = %d, want 502", w.Code)
	}

	enricher := &stubEnricher{err: &venice.APIError{Status: 500, Message: "AI service temporarily unavailable"}}
	fetcher = &stubFetcher{content: &models.ScrapedContent{Title: "t", Content: "c", Domain: "x"}}
	_, router = testEnvWith(t, nil, enricher, fetcher)

	w = doJSON(t, router, http.MethodPost, "/urls/summarize", "", map[string]any{"url": "https://x"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("ai failure = %d, want 502", w.Code)
	}
	var body errResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Error != "AI service temporarily unavailable" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, nil)
	doJSON(t, router, http.MethodPost, "/entries", "", map[string]any{"type": "note", "rawText": "walking the dog"})
	doJSON(t, router, http.MethodPost, "/entries", "", map[string]any{"type": "note", "rawText": "reading a book"})

	w := doJSON(t, router, http.MethodGet, "/search?q=DOG", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var list EntryListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 || !strings.Contains(list.Entries[0].RawText, "dog") {
		t.Errorf("search = %+v", list)
	}
}

func TestUploadEndpoint(t *testing.T) {
	_, router := testEnv(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="p.jpg"`},
		"Content-Type":        {"image/jpeg"},
	})
	part.Write([]byte("jpeg-bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got UploadResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if !strings.HasPrefix(got.StoragePath, "entries/local/") || got.Metadata.Size != int64(len("jpeg-bytes")) {
		t.Errorf("got %+v", got)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	_, router := testEnv(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="doc.pdf"`},
		"Content-Type":        {"application/pdf"},
	})
	part.Write([]byte("%PDF"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
