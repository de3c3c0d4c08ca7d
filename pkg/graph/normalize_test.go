package graph

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "plain name",
			input:  "Joan Baez",
			want:   "Joan Baez",
			wantOK: true,
		},
		{
			name:   "bold emphasis with citation tail",
			input:  "**Bob Dylan** - [00:12]",
			want:   "Bob Dylan",
			wantOK: true,
		},
		{
			name:   "italic emphasis with trailing text",
			input:  "*Patti Smith* - discussed in the interview",
			want:   "Patti Smith",
			wantOK: true,
		},
		{
			name:   "timestamp list tail",
			input:  "John Coltrane - [03:15, 07:42] - Blue Train session",
			want:   "John Coltrane",
			wantOK: true,
		},
		{
			name:   "bare timestamp fragment",
			input:  "Miles Davis [12:05]",
			want:   "Miles Davis",
			wantOK: true,
		},
		{
			name:   "surrounding quotes and asterisks",
			input:  `  *"Lou Reed"*  `,
			want:   "Lou Reed",
			wantOK: true,
		},
		{
			name:   "empty input",
			input:  "",
			wantOK: false,
		},
		{
			name:   "whitespace only",
			input:  "   \t ",
			wantOK: false,
		},
		{
			name:   "timestamp fragment only",
			input:  "[00:12, 00:45]",
			wantOK: false,
		},
		{
			name:   "placeholder label",
			input:  "Artists",
			wantOK: false,
		},
		{
			name:   "placeholder label mixed case",
			input:  "pRiMaRy SuBjEcT",
			wantOK: false,
		},
		{
			name:   "http url",
			input:  "http://example.com/profile",
			wantOK: false,
		},
		{
			name:   "https url",
			input:  "https://example.com/article",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Joan Baez",
		"**Bob Dylan** - [00:12]",
		"John Coltrane - [03:15, 07:42] - Blue Train session",
		`"Chelsea Hotel"`,
		"Miles Davis [12:05] live",
		"*Sam Shepard* - mentioned alongside",
		"A Love Supreme",
	}

	for _, input := range inputs {
		first, ok := Normalize(input)
		if !ok {
			t.Fatalf("Normalize(%q) unexpectedly rejected", input)
		}
		second, ok := Normalize(first)
		if !ok {
			t.Fatalf("Normalize(%q) rejected its own output %q", input, first)
		}
		if second != first {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, first, second)
		}
	}
}
