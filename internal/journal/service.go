// Package journal coordinates entry assembly, enrichment, persistence and export.
package journal

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/visperhq/visper/internal/apperr"
	"github.com/visperhq/visper/internal/blob"
	"github.com/visperhq/visper/internal/export"
	"github.com/visperhq/visper/internal/models"
	"github.com/visperhq/visper/internal/store"
	"github.com/visperhq/visper/internal/venice"
)

const (
	// exportMaxEntries caps the corpus fetched for an export document.
	exportMaxEntries = 2000

	// MaxUploadBytes caps a single image upload.
	MaxUploadBytes = 10 << 20 // 10 MB
)

// Enricher is the AI enrichment capability consumed by the service.
// Strategies are stateless and independently substitutable.
type Enricher interface {
	ImproveEntry(ctx context.Context, rawText string) (*venice.ImproveResult, error)
	ExtractTextMetadata(ctx context.Context, text string) (*venice.TextMetadata, error)
	ExtractImageMetadata(ctx context.Context, imageURL string) (*venice.ImageMetadata, error)
	SummarizeURL(ctx context.Context, content string) (*venice.URLSummary, error)
}

// ContentFetcher retrieves and normalizes raw content from a URL.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (*models.ScrapedContent, error)
}

// EventSink receives entry lifecycle notifications. May be nil.
type EventSink interface {
	PublishEntryEvent(kind, id string)
}

// Service is the journal application service.
type Service struct {
	entries  store.EntryStore
	blobs    blob.Store
	enricher Enricher
	fetcher  ContentFetcher
	events   EventSink
}

// NewService wires the service with its collaborators. events may be nil.
func NewService(entries store.EntryStore, blobs blob.Store, enricher Enricher, fetcher ContentFetcher, events EventSink) *Service {
	return &Service{entries: entries, blobs: blobs, enricher: enricher, fetcher: fetcher, events: events}
}

// CreateEntryInput is the classified input accepted by CreateEntry.
// Enrichment-derived fields are attached when the client already ran the
// corresponding strategy.
type CreateEntryInput struct {
	Type   models.EntryType   `json:"type"`
	Source models.EntrySource `json:"source,omitempty"`

	RawText      string `json:"rawText,omitempty"`
	ImprovedText string `json:"improvedText,omitempty"`

	Tags         []string         `json:"tags,omitempty"`
	Entities     []string         `json:"entities,omitempty"`
	Sentiment    models.Sentiment `json:"sentiment,omitempty"`
	QualityScore float64          `json:"qualityScore,omitempty"`
	Topics       []string         `json:"topics,omitempty"`
	Keywords     []string         `json:"keywords,omitempty"`
	Category     string           `json:"category,omitempty"`

	URL         string         `json:"url,omitempty"`
	URLTitle    string         `json:"urlTitle,omitempty"`
	URLDomain   string         `json:"urlDomain,omitempty"`
	URLAuthor   string         `json:"urlAuthor,omitempty"`
	URLChecksum string         `json:"urlChecksum,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	KeyPoints   []string       `json:"keyPoints,omitempty"`
	Quotes      []models.Quote `json:"quotes,omitempty"`

	ImageURL         string                `json:"imageUrl,omitempty"`
	ImageStoragePath string                `json:"imageStoragePath,omitempty"`
	ImageDescription string                `json:"imageDescription,omitempty"`
	ImageObjects     []string              `json:"imageObjects,omitempty"`
	ImageScene       string                `json:"imageScene,omitempty"`
	ImageMood        string                `json:"imageMood,omitempty"`
	ImageColors      []string              `json:"imageColors,omitempty"`
	ImageMetadata    *models.ImageMetadata `json:"imageMetadata,omitempty"`

	Timezone string `json:"timezone,omitempty"`
	Device   string `json:"device,omitempty"`
}

// Validate checks the structural rules for the given entry type.
func (in *CreateEntryInput) Validate() error {
	if err := validation.ValidateStruct(in,
		validation.Field(&in.Type, validation.Required, validation.In(models.TypeNote, models.TypeURL, models.TypeImage)),
		validation.Field(&in.Source, validation.In(models.SourceRaw, models.SourceImproved, models.SourceBoth)),
		validation.Field(&in.Sentiment, validation.In(models.SentimentNegative, models.SentimentNeutral, models.SentimentPositive)),
	); err != nil {
		return err
	}

	switch in.Type {
	case models.TypeNote, models.TypeImage:
		if in.RawText == "" && in.ImprovedText == "" {
			return apperr.Invalid("rawText", "rawText or improvedText is required for "+string(in.Type)+" entries")
		}
	case models.TypeURL:
		if in.URL == "" {
			return apperr.Invalid("url", "url is required for url entries")
		}
	}
	return nil
}

// CreateEntry validates the input, assembles the Entry and persists it.
// Timestamps are assigned by the repository, not here.
func (s *Service) CreateEntry(ctx context.Context, ownerID string, in *CreateEntryInput) (*models.Entry, error) {
	if ownerID == "" {
		return nil, apperr.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	entry := assemble(ownerID, in)
	created, err := s.entries.Create(entry)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.PublishEntryEvent("created", created.ID)
	}
	return created, nil
}

// assemble merges classified input and enrichment output into one Entry.
func assemble(ownerID string, in *CreateEntryInput) *models.Entry {
	source := in.Source
	if source == "" {
		if in.ImprovedText != "" {
			source = models.SourceImproved
		} else {
			source = models.SourceRaw
		}
	}

	return &models.Entry{
		UserID:           ownerID,
		Type:             in.Type,
		Source:           source,
		RawText:          in.RawText,
		ImprovedText:     in.ImprovedText,
		Tags:             nonNil(in.Tags),
		Entities:         nonNil(in.Entities),
		Sentiment:        in.Sentiment,
		QualityScore:     in.QualityScore,
		Topics:           in.Topics,
		Keywords:         in.Keywords,
		Category:         in.Category,
		URL:              in.URL,
		URLTitle:         in.URLTitle,
		URLDomain:        in.URLDomain,
		URLAuthor:        in.URLAuthor,
		URLChecksum:      in.URLChecksum,
		Summary:          in.Summary,
		KeyPoints:        in.KeyPoints,
		Quotes:           in.Quotes,
		ImageURL:         in.ImageURL,
		ImageStoragePath: in.ImageStoragePath,
		ImageDescription: in.ImageDescription,
		ImageObjects:     in.ImageObjects,
		ImageScene:       in.ImageScene,
		ImageMood:        in.ImageMood,
		ImageColors:      in.ImageColors,
		ImageMetadata:    in.ImageMetadata,
		Timezone:         in.Timezone,
		Device:           in.Device,
	}
}

// GetEntry returns a single entry, enforcing ownership.
func (s *Service) GetEntry(_ context.Context, id, requesterID string) (*models.Entry, error) {
	entry, err := s.entries.Get(id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != requesterID {
		return nil, apperr.ErrForbidden
	}
	return entry, nil
}

// ListEntries returns the owner's entries, newest first.
func (s *Service) ListEntries(_ context.Context, ownerID string, f store.Filter) ([]models.Entry, error) {
	if ownerID == "" {
		return nil, apperr.ErrUnauthorized
	}
	return s.entries.ListByOwner(ownerID, f)
}

// SearchEntries lists with filters and applies a case-insensitive substring
// match over the canonical text and tags. The match runs after the
// limit-bounded fetch, so a truncated result set can hide in-range matches;
// see store.Filter.
func (s *Service) SearchEntries(ctx context.Context, ownerID, q string, f store.Filter) ([]models.Entry, error) {
	entries, err := s.ListEntries(ctx, ownerID, f)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return entries, nil
	}

	matched := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(searchableText(&e), q) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func searchableText(e *models.Entry) string {
	parts := []string{e.RawText, e.ImprovedText, e.Summary, e.URLTitle}
	parts = append(parts, e.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// DeleteEntry removes an entry after the repository's ownership check.
func (s *Service) DeleteEntry(_ context.Context, id, requesterID string) error {
	if requesterID == "" {
		return apperr.ErrUnauthorized
	}
	if err := s.entries.Delete(id, requesterID); err != nil {
		return err
	}
	if s.events != nil {
		s.events.PublishEntryEvent("deleted", id)
	}
	return nil
}

// ImproveText runs the text-improvement strategy.
func (s *Service) ImproveText(ctx context.Context, rawText string) (*venice.ImproveResult, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, apperr.Invalid("rawText", "rawText is required and cannot be empty")
	}
	return s.enricher.ImproveEntry(ctx, rawText)
}

// ExtractTextMetadata runs the text-metadata strategy.
func (s *Service) ExtractTextMetadata(ctx context.Context, text string) (*venice.TextMetadata, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Invalid("text", "text is required for text metadata")
	}
	return s.enricher.ExtractTextMetadata(ctx, text)
}

// ExtractImageMetadata runs the image-metadata strategy.
func (s *Service) ExtractImageMetadata(ctx context.Context, imageURL string) (*venice.ImageMetadata, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, apperr.Invalid("imageUrl", "imageUrl is required for image metadata")
	}
	return s.enricher.ExtractImageMetadata(ctx, imageURL)
}

// SummaryMeta carries provenance for a summarized URL.
type SummaryMeta struct {
	Title    string `json:"title"`
	Domain   string `json:"domain"`
	Author   string `json:"author,omitempty"`
	Checksum string `json:"checksum"`
}

// SummarizeResult is the merged output of fetch + summarization.
type SummarizeResult struct {
	Summary   string         `json:"summary"`
	KeyPoints []string       `json:"keyPoints"`
	Quotes    []models.Quote `json:"quotes"`
	Tags      []string       `json:"tags"`
	Meta      SummaryMeta    `json:"meta"`
}

// SummarizeURL fetches the page and condenses its text. Fetch and gateway
// failures propagate unchanged as typed errors.
func (s *Service) SummarizeURL(ctx context.Context, rawURL string) (*SummarizeResult, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, apperr.Invalid("url", "url is required and cannot be empty")
	}

	scraped, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	summary, err := s.enricher.SummarizeURL(ctx, scraped.Content)
	if err != nil {
		return nil, err
	}

	return &SummarizeResult{
		Summary:   summary.TLDR,
		KeyPoints: summary.KeyPoints,
		Quotes:    summary.Quotes,
		Tags:      summary.Tags,
		Meta: SummaryMeta{
			Title:    scraped.Title,
			Domain:   scraped.Domain,
			Author:   scraped.Author,
			Checksum: scraped.Checksum,
		},
	}, nil
}

// ExportHistory renders the owner's full corpus as a self-contained HTML
// document and returns it with the download filename.
func (s *Service) ExportHistory(ctx context.Context, ownerID string, includeImages bool) (html, filename string, err error) {
	entries, err := s.ListEntries(ctx, ownerID, store.Filter{Limit: exportMaxEntries})
	if err != nil {
		return "", "", err
	}
	exportedAt := time.Now().UTC()
	html = export.Render(entries, exportedAt, includeImages)
	filename = fmt.Sprintf("visper-history-%s.html", exportedAt.Format("2006-01-02"))
	return html, filename, nil
}

// UploadResult describes a stored image.
type UploadResult struct {
	URL         string               `json:"url"`
	StoragePath string               `json:"storagePath"`
	Metadata    models.ImageMetadata `json:"metadata"`
}

// UploadImage stores an uploaded image and returns its durable URL.
func (s *Service) UploadImage(_ context.Context, ownerID, filename, contentType string, r io.Reader) (*UploadResult, error) {
	if ownerID == "" {
		return nil, apperr.ErrUnauthorized
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperr.Invalid("file", "file must be an image")
	}

	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "jpg"
	}
	storagePath := fmt.Sprintf("entries/%s/%s.%s", ownerID, uuid.NewString(), ext)

	size, err := s.blobs.Save(storagePath, io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if size > MaxUploadBytes {
		_ = s.blobs.Delete(storagePath)
		return nil, apperr.Invalid("file", "file exceeds the 10 MB limit")
	}

	return &UploadResult{
		URL:         s.blobs.URL(storagePath),
		StoragePath: storagePath,
		Metadata: models.ImageMetadata{
			Filename:    filename,
			Size:        size,
			ContentType: contentType,
		},
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
