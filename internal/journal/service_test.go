package journal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/visperhq/visper/internal/apperr"
	"github.com/visperhq/visper/internal/models"
	"github.com/visperhq/visper/internal/store"
	"github.com/visperhq/visper/internal/testutil"
	"github.com/visperhq/visper/internal/venice"
)

type fakeEnricher struct {
	improve   *venice.ImproveResult
	textMeta  *venice.TextMetadata
	imageMeta *venice.ImageMetadata
	summary   *venice.URLSummary
	err       error
}

func (f *fakeEnricher) ImproveEntry(context.Context, string) (*venice.ImproveResult, error) {
	return f.improve, f.err
}

func (f *fakeEnricher) ExtractTextMetadata(context.Context, string) (*venice.TextMetadata, error) {
	return f.textMeta, f.err
}

func (f *fakeEnricher) ExtractImageMetadata(context.Context, string) (*venice.ImageMetadata, error) {
	return f.imageMeta, f.err
}

func (f *fakeEnricher) SummarizeURL(context.Context, string) (*venice.URLSummary, error) {
	return f.summary, f.err
}

type fakeFetcher struct {
	content *models.ScrapedContent
	err     error
}

func (f *fakeFetcher) Fetch(context.Context, string) (*models.ScrapedContent, error) {
	return f.content, f.err
}

type eventRecorder struct {
	kinds []string
	ids   []string
}

func (r *eventRecorder) PublishEntryEvent(kind, id string) {
	r.kinds = append(r.kinds, kind)
	r.ids = append(r.ids, id)
}

func testService(t *testing.T) (*Service, *eventRecorder) {
	t.Helper()
	db := testutil.TestDB(t)
	_, blobs := testutil.TestMedia(t)
	events := &eventRecorder{}
	svc := NewService(db, blobs, &fakeEnricher{}, &fakeFetcher{}, events)
	return svc, events
}

func TestCreateEntryValidation(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateEntryInput
	}{
		{"missing type", CreateEntryInput{RawText: "x"}},
		{"unknown type", CreateEntryInput{Type: "video", RawText: "x"}},
		{"note without text", CreateEntryInput{Type: models.TypeNote}},
		{"image without text", CreateEntryInput{Type: models.TypeImage, ImageURL: "/media/x.jpg"}},
		{"url without url", CreateEntryInput{Type: models.TypeURL, RawText: "x"}},
		{"bad sentiment", CreateEntryInput{Type: models.TypeNote, RawText: "x", Sentiment: "ecstatic"}},
		{"bad source", CreateEntryInput{Type: models.TypeNote, RawText: "x", Source: "mixed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateEntry(ctx, "u1", &tt.in); err == nil {
				t.Error("want validation error")
			}
		})
	}
}

func TestCreateEntrySourceDefaulting(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateEntryInput
		want models.EntrySource
	}{
		{"raw only", CreateEntryInput{Type: models.TypeNote, RawText: "r"}, models.SourceRaw},
		{"improved present", CreateEntryInput{Type: models.TypeNote, ImprovedText: "i"}, models.SourceImproved},
		{"explicit both kept", CreateEntryInput{Type: models.TypeNote, RawText: "r", ImprovedText: "i", Source: models.SourceBoth}, models.SourceBoth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := svc.CreateEntry(ctx, "u1", &tt.in)
			if err != nil {
				t.Fatalf("CreateEntry: %v", err)
			}
			if entry.Source != tt.want {
				t.Errorf("source = %q, want %q", entry.Source, tt.want)
			}
		})
	}
}

func TestCreateEntryPublishesEvent(t *testing.T) {
	svc, events := testService(t)

	entry, err := svc.CreateEntry(context.Background(), "u1", &CreateEntryInput{Type: models.TypeNote, RawText: "x"})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if len(events.kinds) != 1 || events.kinds[0] != "created" || events.ids[0] != entry.ID {
		t.Errorf("events = %v %v", events.kinds, events.ids)
	}
}

func TestCreateEntryRequiresOwner(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.CreateEntry(context.Background(), "", &CreateEntryInput{Type: models.TypeNote, RawText: "x"})
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestSearchEntries(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	seed := []CreateEntryInput{
		{Type: models.TypeNote, RawText: "Walked the dog by the river"},
		{Type: models.TypeNote, ImprovedText: "Quiet evening reading Borges"},
		{Type: models.TypeURL, URL: "https://example.com", Summary: "A piece about Go generics", URLTitle: "Generics Deep Dive"},
		{Type: models.TypeNote, RawText: "gym session", Tags: []string{"Fitness"}},
	}
	for i := range seed {
		if _, err := svc.CreateEntry(ctx, "u1", &seed[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	tests := []struct {
		q    string
		want int
	}{
		{"DOG", 1},        // case-insensitive over rawText
		{"borges", 1},     // improvedText
		{"generics", 1},   // summary and urlTitle
		{"fitness", 1},    // tags
		{"", 4},           // empty query returns all
		{"nowhere", 0},    // no match
	}

	for _, tt := range tests {
		got, err := svc.SearchEntries(ctx, "u1", tt.q, store.Filter{})
		if err != nil {
			t.Fatalf("SearchEntries(%q): %v", tt.q, err)
		}
		if len(got) != tt.want {
			t.Errorf("SearchEntries(%q) = %d entries, want %d", tt.q, len(got), tt.want)
		}
	}
}

func TestDeleteEntryEvents(t *testing.T) {
	svc, events := testService(t)
	ctx := context.Background()

	entry, err := svc.CreateEntry(ctx, "u1", &CreateEntryInput{Type: models.TypeNote, RawText: "x"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteEntry(ctx, entry.ID, "u2"); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("foreign delete = %v", err)
	}
	if err := svc.DeleteEntry(ctx, entry.ID, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteEntry(ctx, entry.ID, "u1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete = %v", err)
	}

	// One created event, one deleted event; the failed deletes publish nothing.
	if len(events.kinds) != 2 || events.kinds[1] != "deleted" {
		t.Errorf("events = %v", events.kinds)
	}
}

func TestImproveTextRejectsEmpty(t *testing.T) {
	svc, _ := testService(t)
	var verr *apperr.ValidationError
	if _, err := svc.ImproveText(context.Background(), "   "); !errors.As(err, &verr) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestSummarizeURLMergesScrapedMeta(t *testing.T) {
	db := testutil.TestDB(t)
	_, blobs := testutil.TestMedia(t)
	svc := NewService(db, blobs,
		&fakeEnricher{summary: &venice.URLSummary{
			TLDR:      "short take",
			KeyPoints: []string{"p1"},
			Quotes:    []models.Quote{{Text: "q"}},
			Tags:      []string{"reading"},
		}},
		&fakeFetcher{content: &models.ScrapedContent{
			Title:    "Example Article",
			Content:  "body text",
			Author:   "Jane",
			Domain:   "example.com",
			Checksum: "abc123",
		}},
		nil)

	got, err := svc.SummarizeURL(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("SummarizeURL: %v", err)
	}
	if got.Summary != "short take" || len(got.KeyPoints) != 1 {
		t.Errorf("summary = %+v", got)
	}
	if got.Meta.Title != "Example Article" || got.Meta.Domain != "example.com" || got.Meta.Checksum != "abc123" {
		t.Errorf("meta = %+v", got.Meta)
	}
}

func TestSummarizeURLPropagatesFetchError(t *testing.T) {
	db := testutil.TestDB(t)
	_, blobs := testutil.TestMedia(t)
	fetchErr := errors.New("boom")
	svc := NewService(db, blobs, &fakeEnricher{}, &fakeFetcher{err: fetchErr}, nil)

	if _, err := svc.SummarizeURL(context.Background(), "https://x"); !errors.Is(err, fetchErr) {
		t.Errorf("err = %v, want fetch error", err)
	}
}

func TestExportHistory(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.CreateEntry(ctx, "u1", &CreateEntryInput{Type: models.TypeNote, RawText: "exported thought"}); err != nil {
		t.Fatal(err)
	}

	html, filename, err := svc.ExportHistory(ctx, "u1", true)
	if err != nil {
		t.Fatalf("ExportHistory: %v", err)
	}
	if !strings.HasPrefix(filename, "visper-history-") || !strings.HasSuffix(filename, ".html") {
		t.Errorf("filename = %q", filename)
	}
	if !strings.Contains(html, "exported thought") {
		t.Error("entry content missing from export")
	}
}

func TestUploadImage(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	got, err := svc.UploadImage(ctx, "u1", "photo.PNG", "image/png", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if !strings.HasPrefix(got.StoragePath, "entries/u1/") || !strings.HasSuffix(got.StoragePath, ".PNG") {
		t.Errorf("storagePath = %q", got.StoragePath)
	}
	if got.URL != "/media/"+got.StoragePath {
		t.Errorf("url = %q", got.URL)
	}
	if got.Metadata.Size != 4 || got.Metadata.ContentType != "image/png" || got.Metadata.Filename != "photo.PNG" {
		t.Errorf("metadata = %+v", got.Metadata)
	}
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	svc, _ := testService(t)
	var verr *apperr.ValidationError
	_, err := svc.UploadImage(context.Background(), "u1", "doc.pdf", "application/pdf", strings.NewReader("x"))
	if !errors.As(err, &verr) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestUploadImageRejectsOversize(t *testing.T) {
	svc, _ := testService(t)
	big := bytes.NewReader(make([]byte, MaxUploadBytes+1))
	var verr *apperr.ValidationError
	if _, err := svc.UploadImage(context.Background(), "u1", "big.jpg", "image/jpeg", big); !errors.As(err, &verr) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}
