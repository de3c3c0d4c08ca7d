package graph

import (
	"testing"

	"github.com/unitedtribes/culturegraph/pkg/common"
)

func TestClassify(t *testing.T) {
	classifier := DefaultClassifier()

	tests := []struct {
		name string
		want common.Category
	}{
		{"John Coltrane", common.CategoryMusician},
		{"patti smith", common.CategoryMusician},
		{"Allen Ginsberg", common.CategoryPoet},
		{"Andy Warhol", common.CategoryCulturalFigure},
		{"Kind of Blue", common.CategoryAlbum},
		{"Just Kids", common.CategoryBook},
		{"Blue Note Records", common.CategoryVenue},
		{"Chelsea Hotel", common.CategoryVenue},
		{"Sunset Sound Studio", common.CategoryVenue},
		{"Monterey Pop Festival", common.CategoryVenue},
		{"The Roxy Club", common.CategoryVenue},
		{"Debut Album Sessions", common.CategoryAlbum},
		{"The Lost Diary", common.CategoryBook},
		{"Xyzzy Quartet", common.CategoryEntity},
		{"", common.CategoryEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Classify(tt.name); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestClassifyCuratedWinsOverHeuristics(t *testing.T) {
	classifier := DefaultClassifier()

	// "Horses" is a curated album; a custom table putting it elsewhere
	// must take precedence over any heuristic.
	custom := &Classifier{
		Version:    "test",
		Lookup:     map[string]common.Category{"electric lady studios": common.CategoryVenue},
		Heuristics: defaultHeuristics,
	}

	if got := classifier.Classify("Horses"); got != common.CategoryAlbum {
		t.Errorf("Classify(Horses) = %q, want %q", got, common.CategoryAlbum)
	}
	if got := custom.Classify("Electric Lady Studios"); got != common.CategoryVenue {
		t.Errorf("Classify(Electric Lady Studios) = %q, want %q", got, common.CategoryVenue)
	}
}

func TestClassifyHeuristicOrder(t *testing.T) {
	classifier := DefaultClassifier()

	// Venue words are tried before album words, so a name matching both
	// resolves to venue.
	if got := classifier.Classify("Album Release at the Whisky Club"); got != common.CategoryVenue {
		t.Errorf("Classify = %q, want %q", got, common.CategoryVenue)
	}
}
