package harvest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SourceAttribution carries the citation fields stored with every piece of
// scraped content.
type SourceAttribution struct {
	Source          string `json:"source"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	Author          string `json:"author,omitempty"`
	PublicationDate string `json:"publication_date,omitempty"`
	PublicationType string `json:"publication_type,omitempty"`
}

// Citation renders the attribution in the bracketed form downstream
// consumers expect.
func (a SourceAttribution) Citation() string {
	base := fmt.Sprintf("[Source: %q", a.Source)
	if a.Title != "" && len(a.Title) < 60 {
		base += fmt.Sprintf(", %q", a.Title)
	}
	return base + "]"
}

// Content is one harvested article as stored in the content lake.
type Content struct {
	ID          string            `json:"id"`
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	Text        string            `json:"content"`
	ContentType string            `json:"content_type"`
	Attribution SourceAttribution `json:"source_attribution"`
	ScrapedAt   time.Time         `json:"scraped_at"`
	WordCount   int               `json:"word_count"`
	ContentHash string            `json:"content_hash"`
	S3Key       string            `json:"s3_key"`
}

// NewContent builds a Content record and fills the derived fields: word
// count, a short content hash, and the date-partitioned lake key
// scraped-content/<source>/<yyyy/mm/dd>/content-<hash>.json.
func NewContent(url string, title string, text string, attribution SourceAttribution) (*Content, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate content id: %w", err)
	}

	sum := sha256.Sum256([]byte(text))
	hash := hex.EncodeToString(sum[:])[:16]

	now := time.Now().UTC()
	source := strings.ReplaceAll(strings.ToLower(attribution.Source), " ", "_")
	key := fmt.Sprintf("scraped-content/%s/%s/content-%s.json",
		source, now.Format("2006/01/02"), hash)

	return &Content{
		ID:          id,
		URL:         url,
		Title:       title,
		Text:        text,
		ContentType: "article",
		Attribution: attribution,
		ScrapedAt:   now,
		WordCount:   len(strings.Fields(text)),
		ContentHash: hash,
		S3Key:       key,
	}, nil
}
