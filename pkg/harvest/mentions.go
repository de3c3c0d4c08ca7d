package harvest

import (
	"fmt"
	"strings"

	"github.com/unitedtribes/culturegraph/pkg/common"
	"github.com/unitedtribes/culturegraph/pkg/graph"
)

// Detector scans article text for tracked artist names and emits the
// relationships a mention implies.
type Detector struct {
	Artists []string
}

// NewDetector creates a detector. With no artists given, the curated
// musician list from the classifier tables is tracked.
func NewDetector(artists ...string) *Detector {
	if len(artists) == 0 {
		artists = graph.TrackedMusicians()
	}
	return &Detector{Artists: artists}
}

// Detect returns the tracked artists mentioned in the content, in tracked
// order. Matching is a case-insensitive substring test over title and text.
func (d *Detector) Detect(content *Content) []string {
	searchText := strings.ToLower(content.Title + " " + content.Text)

	detected := make([]string, 0)
	for _, artist := range d.Artists {
		if strings.Contains(searchText, strings.ToLower(artist)) {
			detected = append(detected, artist)
		}
	}

	return detected
}

// Relationships emits the raw relationships implied by the mentions: each
// detected artist is featured_in the article, and every detected pair is
// mentioned_with each other. The aggregator collapses the symmetric pair
// duplicates downstream.
func (d *Detector) Relationships(content *Content) []common.RawRelationship {
	detected := d.Detect(content)
	if len(detected) == 0 {
		return nil
	}

	source := content.Attribution.Source
	title := content.Title
	shortTitle := title
	if len(shortTitle) > 50 {
		shortTitle = shortTitle[:50] + "..."
	}

	raws := make([]common.RawRelationship, 0, len(detected)*len(detected))
	for _, artist := range detected {
		raws = append(raws, common.RawRelationship{
			Source:     artist,
			Target:     fmt.Sprintf("%s Article: %s", source, shortTitle),
			Type:       "featured_in",
			Confidence: 0.9,
			Evidence:   fmt.Sprintf("Featured in %s article: %s", source, title),
		})

		for _, other := range detected {
			if other == artist {
				continue
			}
			raws = append(raws, common.RawRelationship{
				Source:     artist,
				Target:     other,
				Type:       "mentioned_with",
				Confidence: 0.8,
				Evidence:   fmt.Sprintf("Both mentioned in %s article: %s", source, title),
			})
		}
	}

	return raws
}
