package graph

import (
	"sort"

	"github.com/unitedtribes/culturegraph/pkg/common"
)

// Aggregate runs the full pipeline over a batch of raw relationship
// records: normalize both endpoint names, classify the survivors,
// deduplicate by unordered pair plus type, tally per-entity connections
// and rank the entities.
//
// Malformed individual records never produce an error. A missing
// relationship type defaults to "connected", a missing confidence to 0.8;
// records whose endpoints reject or collapse into a self-loop are silently
// skipped, and later duplicates of an already-seen key are dropped with
// their confidence and evidence (the graph is a set of edges, not a
// multiset). An empty input yields an empty Result.
//
// Aggregating the concatenation of several batches is equivalent to
// merging their individual results, because the key scheme is stable
// across runs.
func (a *Aggregator) Aggregate(raws []common.RawRelationship) common.Result {
	relationships := make([]common.Relationship, 0, len(raws))
	tally := make(map[string]int)
	firstSeen := make([]string, 0)
	seen := make(map[RelationKey]struct{}, len(raws))

	var dropped common.DropStats

	for _, raw := range raws {
		source, ok := Normalize(raw.Source)
		if !ok {
			dropped.BadName++
			continue
		}
		target, ok := Normalize(raw.Target)
		if !ok {
			dropped.BadName++
			continue
		}
		if source == target {
			dropped.SelfLoop++
			continue
		}

		relType := raw.Type
		if relType == "" {
			relType = common.DefaultRelationType
		}
		confidence := raw.Confidence
		if confidence == 0 {
			confidence = common.DefaultConfidence
		}

		key := NewRelationKey(source, target, relType)
		if _, dup := seen[key]; dup {
			dropped.Duplicate++
			continue
		}
		seen[key] = struct{}{}

		relationships = append(relationships, common.Relationship{
			Source:         source,
			Target:         target,
			Type:           relType,
			Confidence:     confidence,
			Evidence:       raw.Evidence,
			SourceCategory: a.classifier.Classify(source),
			TargetCategory: a.classifier.Classify(target),
		})

		for _, name := range []string{source, target} {
			if _, known := tally[name]; !known {
				firstSeen = append(firstSeen, name)
			}
			tally[name]++
		}
	}

	return common.Result{
		Relationships:     relationships,
		EntityConnections: tally,
		TopEntities:       a.rankEntities(firstSeen, tally),
		Metadata: common.Metadata{
			Version:       a.version,
			TotalInput:    len(raws),
			Relationships: len(relationships),
			Entities:      len(tally),
			Dropped:       dropped,
		},
	}
}

// rankEntities orders entities by descending connection count. Ties keep
// first-seen order; the stable sort over the first-seen slice guarantees it.
func (a *Aggregator) rankEntities(firstSeen []string, tally map[string]int) []common.Entity {
	entities := make([]common.Entity, 0, len(firstSeen))
	for _, name := range firstSeen {
		entities = append(entities, common.Entity{
			Name:        name,
			Connections: tally[name],
			Category:    a.classifier.Classify(name),
		})
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Connections > entities[j].Connections
	})

	if len(entities) > a.topLimit {
		entities = entities[:a.topLimit]
	}
	return entities
}

// Aggregate runs a one-off aggregation with the default configuration.
func Aggregate(raws []common.RawRelationship) common.Result {
	return NewAggregator(NewAggregatorParams{}).Aggregate(raws)
}
