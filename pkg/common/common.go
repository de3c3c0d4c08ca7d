package common

import "time"

// Category is the semantic class assigned to an entity name.
// Classification is heuristic: curated lookup lists first, then
// pattern rules, falling back to CategoryEntity for anything unknown.
type Category string

const (
	CategoryMusician       Category = "musician"
	CategoryPoet           Category = "poet"
	CategoryCulturalFigure Category = "cultural_figure"
	CategoryAlbum          Category = "album"
	CategoryBook           Category = "book"
	CategoryVenue          Category = "venue"
	CategoryEntity         Category = "entity"
)

// DefaultRelationType is assigned to raw records that carry no
// relationship label of their own.
const DefaultRelationType = "connected"

// DefaultConfidence is assigned to raw records without a confidence score.
const DefaultConfidence = 0.8

// RawRelationship is an untrusted relationship record as delivered by an
// upstream source (broker API response, harvested article, video analysis
// file). Names may contain markdown emphasis, transcript timestamps and
// other extraction noise; any field except the two names may be missing.
type RawRelationship struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Type       string  `json:"relationship_type"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence"`
}

// Relationship is a canonical, deduplicated edge between two cleaned
// entity names. Source and Target are never equal and never empty.
type Relationship struct {
	Source         string   `json:"source"`
	Target         string   `json:"target"`
	Type           string   `json:"relationship_type"`
	Confidence     float64  `json:"confidence"`
	Evidence       string   `json:"evidence,omitempty"`
	SourceCategory Category `json:"source_category"`
	TargetCategory Category `json:"target_category"`
}

// Entity is a ranked node in the aggregated graph, carrying the number of
// deduplicated relationships that reference it.
type Entity struct {
	Name        string   `json:"name"`
	Connections int      `json:"connections"`
	Category    Category `json:"type"`
}

// DropStats counts raw records discarded during one aggregation run,
// broken down by the stage that dropped them. The original pipeline threw
// this information away; it is kept here so rebuild logs can explain why
// output counts are smaller than input counts.
type DropStats struct {
	BadName   int `json:"bad_name"`
	SelfLoop  int `json:"self_loop"`
	Duplicate int `json:"duplicate"`
}

// Metadata describes one aggregation run.
type Metadata struct {
	Version       string    `json:"version"`
	TotalInput    int       `json:"total_input"`
	Relationships int       `json:"total_relationships"`
	Entities      int       `json:"total_entities"`
	Dropped       DropStats `json:"dropped"`
	GeneratedAt   time.Time `json:"generated_at,omitzero"`
}

// Result is the output of one aggregation run, shaped for direct JSON
// serialization into the static visualization pages.
//
// Relationships preserve first-seen order. EntityConnections maps every
// surviving entity name to its tally. TopEntities is sorted by descending
// connection count, ties broken by first-seen order, truncated to the
// configured limit.
type Result struct {
	Relationships     []Relationship `json:"relationships"`
	EntityConnections map[string]int `json:"entity_connections"`
	TopEntities       []Entity       `json:"top_entities"`
	Metadata          Metadata       `json:"metadata"`
}
