package harvest

import (
	"testing"
)

func mentionContent(text string) *Content {
	return &Content{
		Title:       "Jazz Giants Revisited",
		Text:        text,
		Attribution: SourceAttribution{Source: "NPR", Title: "Jazz Giants Revisited"},
	}
}

func TestDetect(t *testing.T) {
	detector := NewDetector("Miles Davis", "John Coltrane", "Patti Smith")

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single mention",
			text: "A new box set collects the Miles Davis quintet sessions.",
			want: []string{"Miles Davis"},
		},
		{
			name: "multiple mentions in tracked order",
			text: "Patti Smith wrote about hearing John Coltrane for the first time.",
			want: []string{"John Coltrane", "Patti Smith"},
		},
		{
			name: "case insensitive",
			text: "the influence of MILES DAVIS endures",
			want: []string{"Miles Davis"},
		},
		{
			name: "no mentions",
			text: "An article about something else entirely.",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detector.Detect(mentionContent(tt.text))
			if len(got) != len(tt.want) {
				t.Fatalf("detected %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("detected %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestRelationshipsFromMentions(t *testing.T) {
	detector := NewDetector("Miles Davis", "John Coltrane")
	content := mentionContent("Miles Davis and John Coltrane recorded together.")

	raws := detector.Relationships(content)

	// 2 featured_in plus 2 ordered mentioned_with pairs.
	if len(raws) != 4 {
		t.Fatalf("got %d relationships, want 4: %+v", len(raws), raws)
	}

	var featured, mentioned int
	for _, raw := range raws {
		switch raw.Type {
		case "featured_in":
			featured++
			if raw.Confidence != 0.9 {
				t.Errorf("featured_in confidence = %v, want 0.9", raw.Confidence)
			}
		case "mentioned_with":
			mentioned++
			if raw.Confidence != 0.8 {
				t.Errorf("mentioned_with confidence = %v, want 0.8", raw.Confidence)
			}
		default:
			t.Errorf("unexpected relationship type %q", raw.Type)
		}
	}
	if featured != 2 || mentioned != 2 {
		t.Errorf("featured = %d, mentioned = %d, want 2 and 2", featured, mentioned)
	}
}

func TestRelationshipsEmptyWithoutMentions(t *testing.T) {
	detector := NewDetector("Miles Davis")
	if raws := detector.Relationships(mentionContent("nothing relevant here")); raws != nil {
		t.Errorf("expected nil, got %+v", raws)
	}
}

func TestDefaultDetectorTracksCuratedMusicians(t *testing.T) {
	detector := NewDetector()
	got := detector.Detect(mentionContent("A profile of Thelonious Monk."))
	if len(got) != 1 || got[0] != "Thelonious Monk" {
		t.Errorf("detected %v, want [Thelonious Monk]", got)
	}
}
