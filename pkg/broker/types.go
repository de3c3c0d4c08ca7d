package broker

import (
	"github.com/unitedtribes/culturegraph/pkg/common"
)

// Query is a single request to the creative intelligence API.
type Query struct {
	Query string `json:"query"`
	Type  string `json:"type,omitempty"`
}

// Response is the top-level body returned by the API.
type Response struct {
	Connections Connections `json:"connections"`
}

// Connections holds the three relationship substructures the API may return.
// Any of them can be absent or empty.
type Connections struct {
	DirectConnections     []DirectConnection `json:"direct_connections"`
	InfluenceNetworks     []Record           `json:"influence_networks"`
	CollaborativeClusters []Record           `json:"collaborative_clusters"`
}

// DirectConnection describes one entity and its strongest neighbors.
type DirectConnection struct {
	Entity          string   `json:"entity"`
	ConnectionCount int      `json:"connection_count"`
	TopConnections  []Record `json:"top_connections"`
}

// Record is a single relationship as the API reports it. Field names vary
// between substructures, so both spellings of each field are accepted.
type Record struct {
	Source  string `json:"source"`
	EntityA string `json:"entity_a"`
	Target  string `json:"target"`
	EntityB string `json:"entity_b"`

	Type             string `json:"type"`
	RelationshipType string `json:"relationship_type"`

	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence"`
}

// Raw converts the record into the aggregator's input shape, resolving the
// alternative field spellings. The fallback owner is used as the source when
// the record only names its counterpart (top_connections entries).
func (r Record) Raw(owner string) common.RawRelationship {
	source := r.Source
	if source == "" {
		source = r.EntityA
	}
	if source == "" {
		source = owner
	}

	target := r.Target
	if target == "" {
		target = r.EntityB
	}

	relType := r.Type
	if relType == "" {
		relType = r.RelationshipType
	}

	return common.RawRelationship{
		Source:     source,
		Target:     target,
		Type:       relType,
		Confidence: r.Confidence,
		Evidence:   r.Evidence,
	}
}

// Relationships flattens all three substructures into aggregator input.
func (r Response) Relationships() []common.RawRelationship {
	raws := make([]common.RawRelationship, 0)

	for _, direct := range r.Connections.DirectConnections {
		for _, conn := range direct.TopConnections {
			raws = append(raws, conn.Raw(direct.Entity))
		}
	}
	for _, rec := range r.Connections.InfluenceNetworks {
		raws = append(raws, rec.Raw(""))
	}
	for _, rec := range r.Connections.CollaborativeClusters {
		raws = append(raws, rec.Raw(""))
	}

	return raws
}
