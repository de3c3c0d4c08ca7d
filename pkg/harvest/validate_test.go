package harvest

import (
	"strings"
	"testing"
)

func validContent(t *testing.T) *Content {
	t.Helper()
	text := strings.Repeat("The artist recorded the album in a famous studio with a jazz band. ", 10)
	content, err := NewContent(
		"https://pitchfork.com/reviews/albums/patti-smith-horses/",
		"Patti Smith: Horses Album Review",
		text,
		SourceAttribution{Source: "Pitchfork", Title: "Patti Smith: Horses Album Review", URL: "https://pitchfork.com/reviews/albums/patti-smith-horses/"},
	)
	if err != nil {
		t.Fatalf("failed to build content: %v", err)
	}
	return content
}

func TestValidatePasses(t *testing.T) {
	result := NewValidator().Validate(validContent(t))
	if !result.Passed {
		t.Errorf("expected content to pass, errors: %v", result.Errors)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Content)
	}{
		{
			name:   "content too short",
			mutate: func(c *Content) { c.Text = "too short" },
		},
		{
			name:   "title too short",
			mutate: func(c *Content) { c.Title = "Hi" },
		},
		{
			name: "captcha interstitial",
			mutate: func(c *Content) {
				c.Text = strings.Repeat("please solve this captcha to continue to the music article ", 10)
			},
		},
		{
			name: "paywall interstitial",
			mutate: func(c *Content) {
				c.Text = strings.Repeat("subscription required to read this music album review ", 10)
			},
		},
		{
			name:   "unknown source",
			mutate: func(c *Content) { c.Attribution.Source = "Random Blog" },
		},
		{
			name:   "missing source",
			mutate: func(c *Content) { c.Attribution.Source = "" },
		},
		{
			name:   "invalid url",
			mutate: func(c *Content) { c.URL = "not a url" },
		},
	}

	validator := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := validContent(t)
			tt.mutate(content)
			result := validator.Validate(content)
			if result.Passed {
				t.Errorf("expected content to be rejected")
			}
		})
	}
}

func TestValidateCustomSources(t *testing.T) {
	validator := NewValidator("My Zine")
	content := validContent(t)
	content.Attribution.Source = "My Zine"
	if result := validator.Validate(content); !result.Passed {
		t.Errorf("expected custom source to pass, errors: %v", result.Errors)
	}
}

func TestNewContentDerivedFields(t *testing.T) {
	content := validContent(t)

	if content.ID == "" {
		t.Error("expected generated id")
	}
	if content.WordCount == 0 {
		t.Error("expected word count")
	}
	if len(content.ContentHash) != 16 {
		t.Errorf("content hash length = %d, want 16", len(content.ContentHash))
	}
	if !strings.HasPrefix(content.S3Key, "scraped-content/pitchfork/") {
		t.Errorf("unexpected s3 key: %s", content.S3Key)
	}
	if !strings.HasSuffix(content.S3Key, "content-"+content.ContentHash+".json") {
		t.Errorf("unexpected s3 key suffix: %s", content.S3Key)
	}
}

func TestCitationFormat(t *testing.T) {
	attribution := SourceAttribution{Source: "Rolling Stone", Title: "Short Title"}
	citation := attribution.Citation()
	if citation != `[Source: "Rolling Stone", "Short Title"]` {
		t.Errorf("citation = %s", citation)
	}

	long := SourceAttribution{Source: "NPR", Title: strings.Repeat("x", 80)}
	if long.Citation() != `[Source: "NPR"]` {
		t.Errorf("long-title citation = %s", long.Citation())
	}
}
