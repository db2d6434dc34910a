package venice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/visperhq/visper/internal/models"
)

// ImproveResult is the output of the text-improvement strategy.
type ImproveResult struct {
	ImprovedText string           `json:"improvedText"`
	QualityScore float64          `json:"qualityScore"`
	Tags         []string         `json:"tags"`
	Entities     []string         `json:"entities"`
	Sentiment    models.Sentiment `json:"sentiment"`
}

// TextMetadata is the output of the text-metadata strategy.
type TextMetadata struct {
	Tags      []string         `json:"tags"`
	Entities  []string         `json:"entities"`
	Topics    []string         `json:"topics"`
	Keywords  []string         `json:"keywords"`
	Summary   string           `json:"summary"`
	Sentiment models.Sentiment `json:"sentiment"`
	Category  string           `json:"category,omitempty"`
}

// ImageMetadata is the output of the image-metadata strategy.
type ImageMetadata struct {
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Objects     []string `json:"objects"`
	Scene       string   `json:"scene"`
	Mood        string   `json:"mood,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// URLSummary is the output of the URL-summarization strategy.
type URLSummary struct {
	TLDR      string         `json:"tldr"`
	KeyPoints []string       `json:"keyPoints"`
	Quotes    []models.Quote `json:"quotes"`
	Tags      []string       `json:"tags"`
}

func stringProp() map[string]any {
	return map[string]any{"type": "string"}
}

func numberProp() map[string]any {
	return map[string]any{"type": "number"}
}

func stringArrayProp() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

func sentimentProp() map[string]any {
	return map[string]any{"type": "string", "enum": []string{"negative", "neutral", "positive"}}
}

func objectSchema(props map[string]any, required []string) JSONSchema {
	return JSONSchema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: false,
	}
}

func schemaFormat(name string, schema JSONSchema) *ResponseFormat {
	return &ResponseFormat{
		Type: "json_schema",
		JSONSchema: NamedSchema{
			Name:   name,
			Strict: true,
			Schema: schema,
		},
	}
}

// ImproveEntry rewrites raw journal text for clarity while preserving the
// writer's voice, and derives tags, entities, sentiment and a quality score.
func (c *Client) ImproveEntry(ctx context.Context, rawText string) (*ImproveResult, error) {
	req := &ChatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{
				Role: "system",
				Content: "You are an editor that preserves the writer's voice while improving clarity and concision. " +
					"Return JSON with: improved_text, quality_score (0-1), tags (array of strings), entities (array of strings), " +
					"sentiment (one of: negative, neutral, positive). Keep 10-25% shorter, no new facts, no change of meaning.",
			},
			{Role: "user", Content: rawText},
		},
		Temperature: 0.7,
		ResponseFormat: schemaFormat("improve_entry_response", objectSchema(map[string]any{
			"improved_text": stringProp(),
			"quality_score": numberProp(),
			"tags":          stringArrayProp(),
			"entities":      stringArrayProp(),
			"sentiment":     sentimentProp(),
		}, []string{"improved_text", "quality_score", "tags", "entities", "sentiment"})),
	}

	content, err := c.completionContent(ctx, req)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		ImprovedText string           `json:"improved_text"`
		QualityScore float64          `json:"quality_score"`
		Tags         []string         `json:"tags"`
		Entities     []string         `json:"entities"`
		Sentiment    models.Sentiment `json:"sentiment"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("venice: parse improve result: %w", err)
	}

	return &ImproveResult{
		ImprovedText: parsed.ImprovedText,
		QualityScore: parsed.QualityScore,
		Tags:         nonNil(parsed.Tags),
		Entities:     nonNil(parsed.Entities),
		Sentiment:    parsed.Sentiment,
	}, nil
}

// ExtractTextMetadata derives searchable metadata from journal text.
func (c *Client) ExtractTextMetadata(ctx context.Context, text string) (*TextMetadata, error) {
	req := &ChatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{
				Role: "system",
				Content: "Analyze the journal entry and return JSON with: tags (3-6 short lowercase strings), " +
					"entities (people, places, organizations mentioned), topics (main themes), keywords (important words), " +
					"summary (one sentence), sentiment (negative, neutral or positive), " +
					"category (optional single word such as work, personal, travel, health).",
			},
			{Role: "user", Content: text},
		},
		Temperature: 0.3,
		ResponseFormat: schemaFormat("text_metadata_response", objectSchema(map[string]any{
			"tags":      stringArrayProp(),
			"entities":  stringArrayProp(),
			"topics":    stringArrayProp(),
			"keywords":  stringArrayProp(),
			"summary":   stringProp(),
			"sentiment": sentimentProp(),
			"category":  stringProp(),
		}, []string{"tags", "entities", "topics", "keywords", "summary", "sentiment"})),
	}

	content, err := c.completionContent(ctx, req)
	if err != nil {
		return nil, err
	}

	var parsed TextMetadata
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("venice: parse text metadata: %w", err)
	}
	parsed.Tags = nonNil(parsed.Tags)
	parsed.Entities = nonNil(parsed.Entities)
	parsed.Topics = nonNil(parsed.Topics)
	parsed.Keywords = nonNil(parsed.Keywords)
	return &parsed, nil
}

// ExtractImageMetadata describes an image referenced by URL using a
// vision-capable completion with an image_url content part.
func (c *Client) ExtractImageMetadata(ctx context.Context, imageURL string) (*ImageMetadata, error) {
	req := &ChatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{
				Role: "system",
				Content: "Describe the image for a personal journal. Return JSON with: tags (3-6 short lowercase strings), " +
					"description (2-3 sentences), objects (things visible in the image), scene (one phrase), " +
					"mood (optional), colors (optional dominant colors), category (optional single word).",
			},
			{
				Role: "user",
				Content: []map[string]any{
					{"type": "text", "text": "Describe this image."},
					{"type": "image_url", "image_url": map[string]any{"url": imageURL}},
				},
			},
		},
		Temperature: 0.3,
		ResponseFormat: schemaFormat("image_metadata_response", objectSchema(map[string]any{
			"tags":        stringArrayProp(),
			"description": stringProp(),
			"objects":     stringArrayProp(),
			"scene":       stringProp(),
			"mood":        stringProp(),
			"colors":      stringArrayProp(),
			"category":    stringProp(),
		}, []string{"tags", "description", "objects", "scene"})),
	}

	content, err := c.completionContent(ctx, req)
	if err != nil {
		return nil, err
	}

	var parsed ImageMetadata
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("venice: parse image metadata: %w", err)
	}
	parsed.Tags = nonNil(parsed.Tags)
	parsed.Objects = nonNil(parsed.Objects)
	return &parsed, nil
}

// SummarizeURL condenses scraped plain text into a TL;DR, key points,
// quotes and suggested tags.
func (c *Client) SummarizeURL(ctx context.Context, content string) (*URLSummary, error) {
	req := &ChatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{
				Role: "system",
				Content: "Summarize the article into: 1) 5 bullet key points; 2) 3 short quotes with exact text; " +
					"3) 2-3 suggested tags; 4) one-sentence TL;DR. Keep neutral tone.",
			},
			{Role: "user", Content: content},
		},
		Temperature: 0.6,
		ResponseFormat: schemaFormat("url_summary_response", objectSchema(map[string]any{
			"tldr":       stringProp(),
			"key_points": stringArrayProp(),
			"quotes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"properties":           map[string]any{"text": stringProp()},
					"required":             []string{"text"},
					"additionalProperties": false,
				},
			},
			"tags": stringArrayProp(),
		}, []string{"tldr", "key_points", "quotes", "tags"})),
	}

	raw, err := c.completionContent(ctx, req)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		TLDR      string         `json:"tldr"`
		KeyPoints []string       `json:"key_points"`
		Quotes    []models.Quote `json:"quotes"`
		Tags      []string       `json:"tags"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("venice: parse url summary: %w", err)
	}

	return &URLSummary{
		TLDR:      parsed.TLDR,
		KeyPoints: nonNil(parsed.KeyPoints),
		Quotes:    nonNilQuotes(parsed.Quotes),
		Tags:      nonNil(parsed.Tags),
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilQuotes(q []models.Quote) []models.Quote {
	if q == nil {
		return []models.Quote{}
	}
	return q
}
