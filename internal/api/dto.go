package api

import (
	"github.com/visperhq/visper/internal/journal"
	"github.com/visperhq/visper/internal/models"
	"github.com/visperhq/visper/internal/venice"
)

// CreateEntryRequest is the request body for creating an entry
// (aliased from the domain layer).
type CreateEntryRequest = journal.CreateEntryInput

// ImproveRequest is the request body for text improvement.
type ImproveRequest struct {
	RawText string `json:"rawText" example:"today was rough but i shipped it" validate:"required"`
}

// MetadataRequest asks for metadata extraction from text or an image.
// Exactly one of the fields should be set; imageUrl wins when both are.
type MetadataRequest struct {
	Text     string `json:"text,omitempty" example:"Long day at the lake with the dog."`
	ImageURL string `json:"imageUrl,omitempty" example:"https://example.com/photo.jpg"`
}

// SummarizeRequest is the request body for URL summarization.
type SummarizeRequest struct {
	URL string `json:"url" example:"https://example.com/article" validate:"required"`
}

// EntryListResponse wraps entry listings.
type EntryListResponse struct {
	Entries []models.Entry `json:"entries" validate:"required"`
	Total   int            `json:"total" example:"42" validate:"required"`
}

// ImproveResponse is the text-improvement result (aliased from the AI layer).
type ImproveResponse = venice.ImproveResult

// SummarizeResponse is the URL summarization result (aliased from the domain layer).
type SummarizeResponse = journal.SummarizeResult

// UploadResponse is returned after a successful image upload (aliased from the domain layer).
type UploadResponse = journal.UploadResult
