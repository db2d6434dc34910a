// Package export renders a journal corpus as a single self-contained
// interactive HTML document.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/visperhq/visper/internal/models"
)

const (
	readableDateLayout = "Monday, January 2, 2006 at 3:04 PM"
	shortDateLayout    = "Jan 2"
)

type monthGroup struct {
	anchor  string
	label   string
	entries []models.Entry
}

type yearGroup struct {
	year   string
	months []monthGroup
}

type tagCount struct {
	tag   string
	count int
}

// Render builds the export document for the given entries. It is pure:
// no I/O, no error paths, deterministic for a fixed exportedAt.
func Render(entries []models.Entry, exportedAt time.Time, includeImages bool) string {
	groups := groupByYearMonth(entries)
	tags := collectTagStats(entries)
	types := collectTypeCounts(entries)
	sentiments := collectSentimentCounts(entries)

	var preview []string
	for _, tc := range tags {
		if len(preview) == 4 {
			break
		}
		preview = append(preview, "#"+tc.tag)
	}
	topTagsPreview := strings.Join(preview, " &bull; ")
	if topTagsPreview == "" {
		topTagsPreview = "No tags yet"
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>Visper History Export</title>
    <link rel="preconnect" href="https://fonts.googleapis.com">
    <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
    <link
      href="https://fonts.googleapis.com/css2?family=Outfit:wght@400;500;600;700&display=swap"
      rel="stylesheet"
    />
    <style>
`)
	b.WriteString(exportCSS)
	b.WriteString(`
    </style>
  </head>
  <body>
    <div class="layout">
      <aside class="sidebar">
        <div class="sidebar__logo">
          <span>Visper</span>
          <h1>Timeline</h1>
        </div>
        <div class="sidebar__label">Navigate</div>
`)
	writeSidebarNavigation(&b, groups)
	fmt.Fprintf(&b, `      </aside>
      <main class="content">
        <section class="hero">
          <h2>Your private Visper archive</h2>
          <p>Export generated %s &bull; %d %s &bull; %s</p>
        </section>
`, exportedAt.Format(readableDateLayout), len(entries), plural(len(entries)), topTagsPreview)
	writeSummaryGrid(&b, len(entries), types, sentiments, tags)
	writeFiltersSection(&b, len(entries), tags)
	b.WriteString(`        <section class="timeline">
`)
	writeTimeline(&b, groups, includeImages)
	b.WriteString(`        </section>
      </main>
    </div>
    <button class="nav-toggle" id="navToggle">Timeline</button>
    <div class="nav-overlay" id="navOverlay"></div>
    <script>
`)
	b.WriteString(exportScript)
	b.WriteString(`
    </script>
  </body>
</html>`)
	return b.String()
}

// groupByYearMonth buckets entries by creation date, years and months
// both descending. Entries keep their input order inside a month.
func groupByYearMonth(entries []models.Entry) []yearGroup {
	type monthKeyed struct {
		key   string
		group monthGroup
	}
	byYear := map[string][]monthKeyed{}
	var yearOrder []string

	for _, e := range entries {
		date := e.CreatedAt.Time
		year := strconv.Itoa(date.Year())
		key := fmt.Sprintf("%s-%02d", year, int(date.Month()))

		months, seen := byYear[year]
		if !seen {
			yearOrder = append(yearOrder, year)
		}
		idx := -1
		for i := range months {
			if months[i].key == key {
				idx = i
				break
			}
		}
		if idx < 0 {
			months = append(months, monthKeyed{
				key: key,
				group: monthGroup{
					anchor: "month-" + key,
					label:  date.Month().String(),
				},
			})
			idx = len(months) - 1
		}
		months[idx].group.entries = append(months[idx].group.entries, e)
		byYear[year] = months
	}

	sort.Slice(yearOrder, func(i, j int) bool {
		a, _ := strconv.Atoi(yearOrder[i])
		b, _ := strconv.Atoi(yearOrder[j])
		return a > b
	})

	groups := make([]yearGroup, 0, len(yearOrder))
	for _, year := range yearOrder {
		months := byYear[year]
		sort.Slice(months, func(i, j int) bool { return months[i].key > months[j].key })
		yg := yearGroup{year: year}
		for _, m := range months {
			yg.months = append(yg.months, m.group)
		}
		groups = append(groups, yg)
	}
	return groups
}

// collectTagStats counts tag frequency, descending; ties keep the
// order tags were first seen in.
func collectTagStats(entries []models.Entry) []tagCount {
	counts := map[string]int{}
	var order []string
	for _, e := range entries {
		for _, tag := range e.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	stats := make([]tagCount, 0, len(order))
	for _, tag := range order {
		stats = append(stats, tagCount{tag: tag, count: counts[tag]})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].count > stats[j].count })
	return stats
}

func collectTypeCounts(entries []models.Entry) map[models.EntryType]int {
	counts := map[models.EntryType]int{
		models.TypeNote:  0,
		models.TypeURL:   0,
		models.TypeImage: 0,
	}
	for _, e := range entries {
		t := e.Type
		if t == "" {
			t = models.TypeNote
		}
		counts[t]++
	}
	return counts
}

func collectSentimentCounts(entries []models.Entry) map[models.Sentiment]int {
	counts := map[models.Sentiment]int{
		models.SentimentPositive: 0,
		models.SentimentNeutral:  0,
		models.SentimentNegative: 0,
	}
	for _, e := range entries {
		s := e.Sentiment
		if !s.Valid() {
			s = models.SentimentNeutral
		}
		counts[s]++
	}
	return counts
}

func writeSummaryGrid(b *strings.Builder, total int, types map[models.EntryType]int, sentiments map[models.Sentiment]int, tags []tagCount) {
	fmt.Fprintf(b, `<section class="summary-grid">
    <article class="summary-card gradient">
      <h3>Entries captured</h3>
      <strong>%d</strong>
      <div class="summary-meta">Notes %d | URLs %d | Images %d</div>
    </article>
    <article class="summary-card">
      <h3>Active tags</h3>
      <strong>%d</strong>
      <div class="summary-tags">
`, total, types[models.TypeNote], types[models.TypeURL], types[models.TypeImage], len(tags))
	if len(tags) == 0 {
		b.WriteString(`        <span>No tags captured yet</span>
`)
	} else {
		top := tags
		if len(top) > 6 {
			top = top[:6]
		}
		for _, tc := range top {
			fmt.Fprintf(b, `        <span class="summary-tag">#%s</span>
`, escapeHTML(tc.tag))
		}
	}
	fmt.Fprintf(b, `      </div>
    </article>
    <article class="summary-card">
      <h3>Mood snapshot</h3>
      <strong>%d</strong>
      <div class="summary-meta">%d positive | %d neutral | %d negative</div>
    </article>
  </section>
`,
		sentiments[models.SentimentPositive],
		sentiments[models.SentimentPositive],
		sentiments[models.SentimentNeutral],
		sentiments[models.SentimentNegative])
}

func writeFiltersSection(b *strings.Builder, total int, tags []tagCount) {
	b.WriteString(`<section class="filters">
    <div class="input-wrapper">
      <label for="searchInput">Search</label>
      <input type="text" id="searchInput" placeholder="Find anything..." />
    </div>
    <div class="input-wrapper">
      <label for="typeFilter">Type</label>
      <select id="typeFilter">
        <option value="">All entries</option>
        <option value="note">Notes</option>
        <option value="url">URLs</option>
        <option value="image">Images</option>
      </select>
    </div>
    <div class="input-wrapper">
      <label for="tagFilter">Tag</label>
      <select id="tagFilter">
        <option value="">All tags</option>
`)
	for _, tc := range tags {
		fmt.Fprintf(b, `        <option value="%s">%s</option>
`, escapeHTML(tc.tag), escapeHTML(tc.tag))
	}
	fmt.Fprintf(b, `      </select>
    </div>
    <button id="resetFilters" type="button">Reset</button>
    <div class="filters__results" id="resultsCount">%d %s shown</div>
  </section>
`, total, plural(total))
}

func writeTimeline(b *strings.Builder, groups []yearGroup, includeImages bool) {
	if len(groups) == 0 {
		b.WriteString(`<div class="month-group">
      <p style="margin:0;">No entries yet. Capture your first thought from Visper to see it appear here.</p>
    </div>
`)
		return
	}

	for _, group := range groups {
		fmt.Fprintf(b, `      <div>
        <div class="year-group-label">%s</div>
`, escapeHTML(group.year))
		for _, month := range group.months {
			fmt.Fprintf(b, `        <section class="month-group" id="%s">
          <div class="month-header">
            <h3>%s %s</h3>
            <span>%d %s</span>
          </div>
`, month.anchor, month.label, group.year, len(month.entries), plural(len(month.entries)))
			for i := range month.entries {
				writeEntryCard(b, &month.entries[i], includeImages)
			}
			b.WriteString(`        </section>
`)
		}
		b.WriteString(`      </div>
`)
	}
}

func writeEntryCard(b *strings.Builder, e *models.Entry, includeImages bool) {
	date := e.CreatedAt.Time
	formatted := date.Format(readableDateLayout)
	short := date.Format(shortDateLayout)

	entryType := e.Type
	if entryType == "" {
		entryType = models.TypeNote
	}
	pill := "Note"
	switch entryType {
	case models.TypeURL:
		pill = "URL"
	case models.TypeImage:
		pill = "Image"
	}

	source := e.Source
	if source == "" {
		source = models.SourceRaw
	}

	content := e.ImprovedText
	if content == "" {
		content = e.RawText
	}
	if content == "" {
		content = e.Summary
	}
	if content == "" {
		content = "No content provided."
	}

	var lowerTags []string
	for _, tag := range e.Tags {
		lowerTags = append(lowerTags, strings.ToLower(tag))
	}

	searchParts := []string{formatted, e.URLTitle, e.Summary, e.RawText, e.ImprovedText, e.ImageDescription, strings.Join(e.Tags, " ")}
	var nonEmpty []string
	for _, p := range searchParts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	searchContent := strings.ToLower(strings.Join(nonEmpty, " "))

	fmt.Fprintf(b, `<article class="entry-card" data-type="%s" data-tags="%s" data-content="%s">
    <div class="entry-card__header">
      <div>
        <p class="entry-date">%s | %s</p>
        <div class="entry-source">Source: %s</div>
      </div>
      <span class="entry-type-pill %s">%s</span>
    </div>
`, entryType, escapeHTML(strings.Join(lowerTags, ",")), escapeHTML(searchContent),
		short, formatted, escapeHTML(string(source)), entryType, pill)

	if e.URL != "" {
		title := e.URLTitle
		if title == "" {
			title = e.URL
		}
		fmt.Fprintf(b, `    <h4 class="entry-title"><a href="%s" target="_blank" rel="noopener noreferrer">%s</a></h4>
`, escapeHTML(e.URL), escapeHTML(title))
	}

	if e.ImageURL != "" {
		if includeImages {
			alt := e.ImageDescription
			if alt == "" {
				alt = "Image"
			}
			fmt.Fprintf(b, `    <div class="entry-image">
      <img src="%s" alt="%s" loading="lazy" />
    </div>
`, escapeHTML(e.ImageURL), escapeHTML(alt))
		} else {
			b.WriteString(`    <div class="entry-image-placeholder" style="background: linear-gradient(135deg, #f0f9ff 0%, #faf5ff 100%); border: 2px dashed #a855f7; border-radius: 0.75rem; padding: 2rem; text-align: center; color: #7c3aed; margin-top: 1rem;">
      <span style="font-size: 2rem;">&#128444;&#65039;</span>
      <p style="margin: 0.5rem 0 0;">Image not included in export</p>
    </div>
`)
		}
	}

	fmt.Fprintf(b, `    <div class="entry-content">%s</div>
    <div class="entry-meta">
      <div><strong>Sentiment:</strong> %s</div>
      <div><strong>Category:</strong> %s</div>
      <div><strong>Device:</strong> %s</div>
      <div><strong>Timezone:</strong> %s</div>
    </div>
`, escapeHTML(content),
		escapeHTML(orDefault(string(e.Sentiment), "neutral")),
		escapeHTML(orDefault(e.Category, "uncategorized")),
		escapeHTML(orDefault(e.Device, "unknown")),
		escapeHTML(orDefault(e.Timezone, "unknown")))

	if len(e.Topics) > 0 {
		fmt.Fprintf(b, `    <div class="entry-section-title">Topics</div>
    <div>%s</div>
`, escapeJoin(e.Topics, ", "))
	}
	if len(e.Keywords) > 0 {
		fmt.Fprintf(b, `    <div class="entry-section-title">Keywords</div>
    <div>%s</div>
`, escapeJoin(e.Keywords, ", "))
	}
	if len(e.KeyPoints) > 0 {
		b.WriteString(`    <div class="entry-section-title">Key points</div>
    <ul class="entry-list">
`)
		for _, point := range e.KeyPoints {
			fmt.Fprintf(b, `      <li>%s</li>
`, escapeHTML(point))
		}
		b.WriteString(`    </ul>
`)
	}
	if len(e.Quotes) > 0 {
		b.WriteString(`    <div class="entry-section-title">Quotes</div>
    <ul class="entry-list">
`)
		for _, q := range e.Quotes {
			fmt.Fprintf(b, `      <li>&ldquo;%s&rdquo;`, escapeHTML(q.Text))
			if q.Locator != "" {
				fmt.Fprintf(b, ` &mdash; %s`, escapeHTML(q.Locator))
			}
			b.WriteString(`</li>
`)
		}
		b.WriteString(`    </ul>
`)
	}
	if e.ImageDescription != "" {
		fmt.Fprintf(b, `    <div class="entry-section-title">Image</div>
    <div>%s</div>
`, escapeHTML(e.ImageDescription))
	}
	if len(e.Tags) > 0 {
		b.WriteString(`    <div class="entry-tags">
`)
		for _, tag := range e.Tags {
			fmt.Fprintf(b, `      <span class="entry-tag">#%s</span>
`, escapeHTML(tag))
		}
		b.WriteString(`    </div>
`)
	}
	b.WriteString(`  </article>
`)
}

func writeSidebarNavigation(b *strings.Builder, groups []yearGroup) {
	if len(groups) == 0 {
		b.WriteString(`<div class="sidebar__empty">No entries yet. As soon as you add thoughts in Visper, quick navigation will appear here.</div>
`)
		return
	}

	for _, group := range groups {
		fmt.Fprintf(b, `      <div class="nav-group">
        <div class="nav-year">%s</div>
        <div class="nav-months">
`, escapeHTML(group.year))
		for _, month := range group.months {
			fmt.Fprintf(b, `          <a href="#%s" class="month-link" data-target="%s">
            %s
            <span>%d</span>
          </a>
`, month.anchor, month.anchor, month.label, len(month.entries))
		}
		b.WriteString(`        </div>
      </div>
`)
	}
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

func escapeJoin(items []string, sep string) string {
	escaped := make([]string, len(items))
	for i, item := range items {
		escaped[i] = escapeHTML(item)
	}
	return strings.Join(escaped, sep)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func plural(n int) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}
