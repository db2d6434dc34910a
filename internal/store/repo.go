package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/visperhq/visper/internal/apperr"
	"github.com/visperhq/visper/internal/models"
)

const entryColumns = `id, user_id, type, source, raw_text, improved_text, tags, entities,
	sentiment, quality_score, topics, keywords, category,
	url, url_title, url_domain, url_author, url_checksum, summary, key_points, quotes,
	image_url, image_storage_path, image_description, image_objects, image_scene,
	image_mood, image_colors, image_metadata, timezone, device, created_at, updated_at`

// Create assigns the id and server-authoritative timestamps, persists the
// entry, and returns it.
func (db *DB) Create(e *models.Entry) (*models.Entry, error) {
	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.CreatedAt = models.NewTimestamp(now)
	e.UpdatedAt = models.NewTimestamp(now)

	var imageMeta string
	if e.ImageMetadata != nil {
		raw, err := json.Marshal(e.ImageMetadata)
		if err != nil {
			return nil, fmt.Errorf("store: marshal image metadata: %w", err)
		}
		imageMeta = string(raw)
	}

	_, err := db.conn.Exec(`
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID, e.UserID, string(e.Type), string(e.Source), e.RawText, e.ImprovedText,
		mustJSON(e.Tags), mustJSON(e.Entities), string(e.Sentiment), e.QualityScore,
		mustJSON(e.Topics), mustJSON(e.Keywords), e.Category,
		e.URL, e.URLTitle, e.URLDomain, e.URLAuthor, e.URLChecksum, e.Summary,
		mustJSON(e.KeyPoints), mustJSONQuotes(e.Quotes),
		e.ImageURL, e.ImageStoragePath, e.ImageDescription, mustJSON(e.ImageObjects),
		e.ImageScene, e.ImageMood, mustJSON(e.ImageColors), imageMeta,
		e.Timezone, e.Device, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("store: insert entry: %w", err)
	}
	return e, nil
}

// Get returns the entry with the given id, or apperr.ErrNotFound.
func (db *DB) Get(id string) (*models.Entry, error) {
	row := db.conn.QueryRow(`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get entry: %w", err)
	}
	return e, nil
}

// ListByOwner returns the owner's entries, newest first. Type, tag and
// sentiment constraints run in the query; the date range is a post-fetch
// step (see Filter).
func (db *DB) ListByOwner(ownerID string, f Filter) ([]models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE user_id = ?`
	args := []any{ownerID}

	if f.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(f.Type))
	}
	if f.Sentiment != "" {
		query += ` AND sentiment = ?`
		args = append(args, string(f.Sentiment))
	}
	if f.Tag != "" {
		query += ` AND EXISTS (SELECT 1 FROM json_each(entries.tags) WHERE json_each.value = ?)`
		args = append(args, f.Tag)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list entries: %w", err)
	}
	defer rows.Close()

	var out []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan entry: %w", err)
		}
		if !f.From.IsZero() && e.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.CreatedAt.After(f.To) {
			continue
		}
		out = append(out, *e)
	}
	if out == nil {
		out = []models.Entry{}
	}
	return out, rows.Err()
}

// Delete removes the entry after verifying ownership. A missing id yields
// apperr.ErrNotFound; an owner mismatch yields apperr.ErrForbidden. A
// second delete of the same id observes ErrNotFound.
func (db *DB) Delete(id, requesterID string) error {
	var ownerID string
	err := db.conn.QueryRow(`SELECT user_id FROM entries WHERE id = ?`, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("store: lookup entry: %w", err)
	}
	if ownerID != requesterID {
		return apperr.ErrForbidden
	}
	if _, err := db.conn.Exec(`DELETE FROM entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete entry: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		e                            models.Entry
		entryType, source, sentiment string
		tags, entities, topics       string
		keywords, keyPoints, quotes  string
		imageObjects, imageColors    string
		imageMeta                    string
		createdAt, updatedAt         time.Time
	)

	err := row.Scan(
		&e.ID, &e.UserID, &entryType, &source, &e.RawText, &e.ImprovedText, &tags, &entities,
		&sentiment, &e.QualityScore, &topics, &keywords, &e.Category,
		&e.URL, &e.URLTitle, &e.URLDomain, &e.URLAuthor, &e.URLChecksum, &e.Summary, &keyPoints, &quotes,
		&e.ImageURL, &e.ImageStoragePath, &e.ImageDescription, &imageObjects, &e.ImageScene,
		&e.ImageMood, &imageColors, &imageMeta, &e.Timezone, &e.Device, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Type = models.EntryType(entryType)
	e.Source = models.EntrySource(source)
	e.Sentiment = models.Sentiment(sentiment)
	e.Tags = decodeStrings(tags)
	e.Entities = decodeStrings(entities)
	e.Topics = decodeStrings(topics)
	e.Keywords = decodeStrings(keywords)
	e.KeyPoints = decodeStrings(keyPoints)
	e.ImageObjects = decodeStrings(imageObjects)
	e.ImageColors = decodeStrings(imageColors)
	e.CreatedAt = models.NewTimestamp(createdAt.UTC())
	e.UpdatedAt = models.NewTimestamp(updatedAt.UTC())

	if quotes != "" && quotes != "[]" {
		_ = json.Unmarshal([]byte(quotes), &e.Quotes)
	}
	if e.Quotes == nil {
		e.Quotes = []models.Quote{}
	}
	if imageMeta != "" {
		var meta models.ImageMetadata
		if err := json.Unmarshal([]byte(imageMeta), &meta); err == nil {
			e.ImageMetadata = &meta
		}
	}
	return &e, nil
}

func decodeStrings(raw string) []string {
	var out []string
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &out)
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func mustJSON(s []string) string {
	if s == nil {
		s = []string{}
	}
	raw, _ := json.Marshal(s)
	return string(raw)
}

func mustJSONQuotes(q []models.Quote) string {
	if q == nil {
		q = []models.Quote{}
	}
	raw, _ := json.Marshal(q)
	return string(raw)
}
