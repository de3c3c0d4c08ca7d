package graph

import (
	"regexp"
	"strings"

	"github.com/unitedtribes/culturegraph/pkg/common"
)

// Heuristic is an ordered pattern rule applied after the curated lookup.
// The first heuristic whose pattern matches the name decides the category.
type Heuristic struct {
	Pattern  *regexp.Regexp
	Category common.Category
}

// Classifier assigns a semantic category to entity names. It is a
// prioritized sequence of membership tests against curated reference
// lists followed by light pattern heuristics; anything unmatched falls
// back to CategoryEntity.
//
// The tables are plain configuration so a classification policy can be
// versioned, tested and extended without touching the aggregation path.
type Classifier struct {
	Version    string
	Lookup     map[string]common.Category
	Heuristics []Heuristic
}

// Classify returns a deterministic category for name. The curated lookup
// (lowercased exact match) takes precedence over heuristics; heuristics
// are tried in order; the fallback is CategoryEntity.
//
// This is explicitly a heuristic, not authoritative metadata. Names absent
// from the curated lists may be misclassified; the only promise is that
// every name gets some stable category.
func (c *Classifier) Classify(name string) common.Category {
	if cat, ok := c.Lookup[strings.ToLower(name)]; ok {
		return cat
	}
	for _, h := range c.Heuristics {
		if h.Pattern.MatchString(name) {
			return h.Category
		}
	}
	return common.CategoryEntity
}

var curatedMusicians = []string{
	"John Coltrane", "Lee Morgan", "Art Blakey", "Horace Silver", "Charlie Parker",
	"Grant Green", "Dexter Gordon", "Kenny Drew", "Paul Chambers", "Philly Joe Jones",
	"Herbie Hancock", "Freddie Hubbard", "Joe Henderson", "Donald Byrd", "Wayne Shorter",
	"Thelonious Monk", "Duke Ellington", "Dizzy Gillespie", "Joe Pass",
	"Miles Davis", "Bill Evans", "Cannonball Adderley", "Bill Charlap", "John Scofield", "Pat Metheny",
	"Bob Dylan", "Joan Baez", "Patti Smith", "Lou Reed", "Leonard Cohen",
	"Jimi Hendrix", "Janis Joplin", "Nina Simone", "Television", "The Velvet Underground",
}

var curatedPoets = []string{
	"Allen Ginsberg", "Arthur Rimbaud", "Sylvia Plath", "William Blake",
	"Gregory Corso", "Jim Carroll", "Frank O'Hara",
}

var curatedCulturalFigures = []string{
	"Andy Warhol", "Robert Mapplethorpe", "Jack Kerouac", "William S. Burroughs",
	"Salvador Dali", "Sam Shepard", "Jean-Luc Godard",
}

var curatedAlbums = []string{
	"Horses", "Blue Train", "Kind of Blue", "A Love Supreme", "Blonde on Blonde",
	"Highway 61 Revisited", "Marquee Moon", "The Freewheelin' Bob Dylan",
}

var curatedBooks = []string{
	"Just Kids", "M Train", "On the Road", "Howl", "Chronicles: Volume One",
	"The Basketball Diaries", "Naked Lunch",
}

var curatedVenues = []string{
	"Chelsea Hotel", "CBGB", "Max's Kansas City", "Electric Lady Studios",
	"Blue Note Records", "Village Vanguard", "Fillmore East", "Apollo Theater",
	"Newport Folk Festival",
}

var defaultHeuristics = []Heuristic{
	{regexp.MustCompile(`(?i)\b(hotel|studio|studios|festival|club|records|ballroom|theater|theatre|vanguard)\b`), common.CategoryVenue},
	{regexp.MustCompile(`(?i)\b(album|lp|ep|soundtrack)\b`), common.CategoryAlbum},
	{regexp.MustCompile(`(?i)\b(book|novel|diary|diaries|memoir|poems)\b`), common.CategoryBook},
}

// TrackedMusicians returns the curated musician list. The harvest pipeline
// scans article text for these names when extracting mention relationships.
func TrackedMusicians() []string {
	out := make([]string, len(curatedMusicians))
	copy(out, curatedMusicians)
	return out
}

// DefaultClassifier returns the curated classification tables shipped with
// the service. Curated entries win over heuristics, so a venue like
// "Blue Note Records" stays a venue even though "Records" would also match
// the venue heuristic.
func DefaultClassifier() *Classifier {
	lookup := make(map[string]common.Category)
	add := func(names []string, cat common.Category) {
		for _, n := range names {
			lookup[strings.ToLower(n)] = cat
		}
	}
	add(curatedMusicians, common.CategoryMusician)
	add(curatedPoets, common.CategoryPoet)
	add(curatedCulturalFigures, common.CategoryCulturalFigure)
	add(curatedAlbums, common.CategoryAlbum)
	add(curatedBooks, common.CategoryBook)
	add(curatedVenues, common.CategoryVenue)

	return &Classifier{
		Version:    "curated-2025-08",
		Lookup:     lookup,
		Heuristics: defaultHeuristics,
	}
}
