package venice

import (
	"context"
	"testing"

	"github.com/visperhq/visper/internal/models"
)

func TestImproveEntry(t *testing.T) {
	content := `{"improved_text":"Shipped the release today; tired but satisfied.",` +
		`"quality_score":0.82,"tags":["work","release"],"entities":["Visper"],"sentiment":"positive"}`

	var captured ChatRequest
	srv := fakeCompletion(t, content, &captured)
	defer srv.Close()

	got, err := NewClient(srv.URL, "k", "", 0).ImproveEntry(context.Background(), "shipped the release today, so tired but satisfied")
	if err != nil {
		t.Fatalf("ImproveEntry: %v", err)
	}

	if got.ImprovedText != "Shipped the release today; tired but satisfied." {
		t.Errorf("improvedText = %q", got.ImprovedText)
	}
	if got.QualityScore != 0.82 {
		t.Errorf("qualityScore = %v", got.QualityScore)
	}
	if got.Sentiment != models.SentimentPositive {
		t.Errorf("sentiment = %q", got.Sentiment)
	}

	if captured.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", captured.Temperature)
	}
	rf := captured.ResponseFormat
	if rf == nil || rf.Type != "json_schema" {
		t.Fatalf("response format = %+v", rf)
	}
	if rf.JSONSchema.Name != "improve_entry_response" || !rf.JSONSchema.Strict {
		t.Errorf("schema = %q strict = %v", rf.JSONSchema.Name, rf.JSONSchema.Strict)
	}
	if rf.JSONSchema.Schema.AdditionalProperties {
		t.Error("schema should forbid additional properties")
	}
}

func TestExtractTextMetadataCategoryOptional(t *testing.T) {
	content := `{"tags":["lake","dog"],"entities":["Lake Tahoe"],"topics":["outdoors"],` +
		`"keywords":["swim"],"summary":"A day at the lake.","sentiment":"neutral"}`

	var captured ChatRequest
	srv := fakeCompletion(t, content, &captured)
	defer srv.Close()

	got, err := NewClient(srv.URL, "k", "", 0).ExtractTextMetadata(context.Background(), "Long day at the lake with the dog.")
	if err != nil {
		t.Fatalf("ExtractTextMetadata: %v", err)
	}
	if got.Category != "" {
		t.Errorf("category = %q, want empty", got.Category)
	}
	if len(got.Tags) != 2 || got.Summary != "A day at the lake." {
		t.Errorf("got %+v", got)
	}
	if captured.Temperature != 0.3 {
		t.Errorf("temperature = %v, want 0.3", captured.Temperature)
	}
}

func TestExtractImageMetadataRequestShape(t *testing.T) {
	content := `{"tags":["sunset","beach"],"description":"A sunset over the ocean.",` +
		`"objects":["ocean","sun"],"scene":"beach at dusk"}`

	var captured ChatRequest
	srv := fakeCompletion(t, content, &captured)
	defer srv.Close()

	got, err := NewClient(srv.URL, "k", "", 0).ExtractImageMetadata(context.Background(), "https://example.com/p.jpg")
	if err != nil {
		t.Fatalf("ExtractImageMetadata: %v", err)
	}
	if got.Scene != "beach at dusk" {
		t.Errorf("scene = %q", got.Scene)
	}
	if got.Colors == nil {
		// Optional arrays omitted by the model stay nil in the metadata
		// result; only required arrays are defaulted.
		t.Log("colors nil")
	}

	// The user message must carry an image_url content part.
	if len(captured.Messages) != 2 {
		t.Fatalf("messages = %d", len(captured.Messages))
	}
	parts, ok := captured.Messages[1].Content.([]any)
	if !ok || len(parts) != 2 {
		t.Fatalf("user content = %#v", captured.Messages[1].Content)
	}
	part, _ := parts[1].(map[string]any)
	if part["type"] != "image_url" {
		t.Errorf("second part type = %v", part["type"])
	}
}

func TestSummarizeURL(t *testing.T) {
	content := `{"tldr":"A short take.","key_points":["point one","point two"],` +
		`"quotes":[{"text":"exact words"}],"tags":["reading"]}`

	var captured ChatRequest
	srv := fakeCompletion(t, content, &captured)
	defer srv.Close()

	got, err := NewClient(srv.URL, "k", "", 0).SummarizeURL(context.Background(), "article text")
	if err != nil {
		t.Fatalf("SummarizeURL: %v", err)
	}
	if got.TLDR != "A short take." {
		t.Errorf("tldr = %q", got.TLDR)
	}
	if len(got.KeyPoints) != 2 || len(got.Quotes) != 1 || got.Quotes[0].Text != "exact words" {
		t.Errorf("got %+v", got)
	}
	if captured.Temperature != 0.6 {
		t.Errorf("temperature = %v, want 0.6", captured.Temperature)
	}
}

func TestSummarizeURLDefaultsEmptyArrays(t *testing.T) {
	srv := fakeCompletion(t, `{"tldr":"t","key_points":null,"quotes":null,"tags":null}`, nil)
	defer srv.Close()

	got, err := NewClient(srv.URL, "k", "", 0).SummarizeURL(context.Background(), "text")
	if err != nil {
		t.Fatalf("SummarizeURL: %v", err)
	}
	if got.KeyPoints == nil || got.Quotes == nil || got.Tags == nil {
		t.Errorf("arrays should default to empty, got %+v", got)
	}
}
