package harvest

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	minContentLength = 200
	maxContentLength = 50000
	minTitleLength   = 5
	maxTitleLength   = 200
)

// Patterns that indicate the scrape captured an error or interstitial page
// instead of article content.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`404 not found`),
	regexp.MustCompile(`access denied`),
	regexp.MustCompile(`please enable javascript`),
	regexp.MustCompile(`robot.*detected`),
	regexp.MustCompile(`captcha`),
	regexp.MustCompile(`cloudflare`),
	regexp.MustCompile(`subscription required`),
	regexp.MustCompile(`sign in to continue`),
	regexp.MustCompile(`this content is not available`),
}

var musicKeywords = []string{
	"music", "album", "song", "artist", "band", "musician", "singer",
	"concert", "tour", "festival", "record", "recording", "studio",
	"genre", "jazz", "rock", "pop", "hip-hop", "classical", "folk",
	"guitar", "piano", "drums", "vocals", "lyrics", "melody",
}

// ValidationResult reports whether a piece of content may enter the lake.
type ValidationResult struct {
	Passed   bool
	Score    float64
	Errors   []string
	Warnings []string
}

// Validator gates scraped content on quality and provenance before it is
// written to the content lake.
type Validator struct {
	Sources map[string]bool
}

// NewValidator creates a validator that accepts the given publication
// sources. With no sources given, the default allowlist applies.
func NewValidator(sources ...string) *Validator {
	if len(sources) == 0 {
		sources = []string{
			"Billboard", "Rolling Stone", "Pitchfork", "NPR", "Sound Opinions",
			"All Songs Considered", "Fresh Air", "Spotify", "Apple Podcasts",
		}
	}

	allowed := make(map[string]bool, len(sources))
	for _, s := range sources {
		allowed[s] = true
	}

	return &Validator{Sources: allowed}
}

// Validate checks one content record. Errors fail the record; warnings only
// lower its score. A record passes with no errors and a score above 0.5.
func (v *Validator) Validate(content *Content) ValidationResult {
	errors := make([]string, 0)
	warnings := make([]string, 0)
	score := 1.0

	if content.URL == "" {
		errors = append(errors, "missing url")
	} else if parsed, err := url.Parse(content.URL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errors = append(errors, "invalid url format")
	}

	if len(content.Text) < minContentLength {
		errors = append(errors, fmt.Sprintf("content too short: %d chars (min %d)", len(content.Text), minContentLength))
		score *= 0.3
	}
	if len(content.Text) > maxContentLength {
		warnings = append(warnings, fmt.Sprintf("content very long: %d chars", len(content.Text)))
		score *= 0.9
	}
	if len(content.Title) < minTitleLength {
		errors = append(errors, fmt.Sprintf("title too short: %d chars", len(content.Title)))
		score *= 0.5
	}
	if len(content.Title) > maxTitleLength {
		warnings = append(warnings, "title very long")
		score *= 0.9
	}

	textLower := strings.ToLower(content.Text)
	for _, pattern := range suspiciousPatterns {
		if pattern.MatchString(textLower) {
			errors = append(errors, fmt.Sprintf("suspicious content pattern detected: %s", pattern))
			score *= 0.2
			break
		}
	}

	if content.Attribution.Source == "" {
		errors = append(errors, "missing source attribution")
	} else if !v.Sources[content.Attribution.Source] {
		errors = append(errors, fmt.Sprintf("unknown source: %s", content.Attribution.Source))
	}

	searchText := strings.ToLower(content.Title + " " + content.Text)
	mentions := 0
	for _, keyword := range musicKeywords {
		if strings.Contains(searchText, keyword) {
			mentions++
		}
	}
	if mentions == 0 {
		warnings = append(warnings, "no music-related keywords found")
		score *= 0.5
	} else if mentions < 3 {
		warnings = append(warnings, "limited music relevance")
		score *= 0.8
	}

	return ValidationResult{
		Passed:   len(errors) == 0 && score > 0.5,
		Score:    score,
		Errors:   errors,
		Warnings: warnings,
	}
}
