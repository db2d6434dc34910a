// Package models defines the domain types for Visper.
package models

// EntryType classifies what a journal entry captures.
type EntryType string

// Entry types.
const (
	TypeNote  EntryType = "note"
	TypeURL   EntryType = "url"
	TypeImage EntryType = "image"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	return t == TypeNote || t == TypeURL || t == TypeImage
}

// EntrySource records which text variant(s) an entry stores.
type EntrySource string

// Entry sources.
const (
	SourceRaw      EntrySource = "raw"
	SourceImproved EntrySource = "improved"
	SourceBoth     EntrySource = "both"
)

// Valid reports whether s is a known entry source.
func (s EntrySource) Valid() bool {
	return s == SourceRaw || s == SourceImproved || s == SourceBoth
}

// Sentiment is the three-value mood classification produced by enrichment.
type Sentiment string

// Sentiments.
const (
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentPositive Sentiment = "positive"
)

// Valid reports whether s is a known sentiment.
func (s Sentiment) Valid() bool {
	return s == SentimentNegative || s == SentimentNeutral || s == SentimentPositive
}

// ImageMetadata describes an uploaded image file.
type ImageMetadata struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// Quote is a short verbatim excerpt extracted from summarized URL content.
type Quote struct {
	Text    string `json:"text"`
	Locator string `json:"locator,omitempty"` // e.g. "paragraph 3"
}

// Entry is the central persisted journal record. Exactly one owner;
// tags/entities/topics/keywords serialize as [] rather than null.
type Entry struct {
	ID     string      `json:"id"`
	UserID string      `json:"userId"`
	Type   EntryType   `json:"type"`
	Source EntrySource `json:"source"`

	RawText      string `json:"rawText,omitempty"`
	ImprovedText string `json:"improvedText,omitempty"`

	Tags         []string  `json:"tags"`
	Entities     []string  `json:"entities"`
	Sentiment    Sentiment `json:"sentiment,omitempty"`
	QualityScore float64   `json:"qualityScore,omitempty"` // 0-1
	Topics       []string  `json:"topics,omitempty"`
	Keywords     []string  `json:"keywords,omitempty"`
	Category     string    `json:"category,omitempty"`

	// URL entries.
	URL         string   `json:"url,omitempty"`
	URLTitle    string   `json:"urlTitle,omitempty"`
	URLDomain   string   `json:"urlDomain,omitempty"`
	URLAuthor   string   `json:"urlAuthor,omitempty"`
	URLChecksum string   `json:"urlChecksum,omitempty"` // SHA-256 of scraped text
	Summary     string   `json:"summary,omitempty"`
	KeyPoints   []string `json:"keyPoints,omitempty"`
	Quotes      []Quote  `json:"quotes,omitempty"`

	// Image entries.
	ImageURL         string         `json:"imageUrl,omitempty"`
	ImageStoragePath string         `json:"imageStoragePath,omitempty"`
	ImageDescription string         `json:"imageDescription,omitempty"`
	ImageObjects     []string       `json:"imageObjects,omitempty"`
	ImageScene       string         `json:"imageScene,omitempty"`
	ImageMood        string         `json:"imageMood,omitempty"`
	ImageColors      []string       `json:"imageColors,omitempty"`
	ImageMetadata    *ImageMetadata `json:"imageMetadata,omitempty"`

	Timezone string `json:"timezone,omitempty"`
	Device   string `json:"device,omitempty"`

	// Assigned by the repository at write time; the sole ordering key
	// for timeline and export grouping.
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// ScrapedContent is the transient output of the content fetcher,
// consumed immediately by the URL summarization strategy.
type ScrapedContent struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Author   string `json:"author,omitempty"`
	Domain   string `json:"domain"`
	Checksum string `json:"checksum"`
}
