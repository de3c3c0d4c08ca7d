package graph

import (
	"reflect"
	"testing"

	"github.com/unitedtribes/culturegraph/pkg/common"
)

func TestNewRelationKeySymmetric(t *testing.T) {
	a := NewRelationKey("Miles Davis", "John Coltrane", "collaboration")
	b := NewRelationKey("John Coltrane", "Miles Davis", "collaboration")
	if a != b {
		t.Errorf("expected symmetric keys, got %+v and %+v", a, b)
	}

	c := NewRelationKey("Miles Davis", "John Coltrane", "influenced")
	if a == c {
		t.Errorf("expected distinct keys for different types, got %+v twice", a)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	res := Aggregate(nil)

	if len(res.Relationships) != 0 {
		t.Errorf("expected no relationships, got %d", len(res.Relationships))
	}
	if len(res.EntityConnections) != 0 {
		t.Errorf("expected empty tally, got %v", res.EntityConnections)
	}
	if len(res.TopEntities) != 0 {
		t.Errorf("expected no top entities, got %v", res.TopEntities)
	}
	if res.Metadata.Version != DefaultVersion {
		t.Errorf("metadata version = %q, want %q", res.Metadata.Version, DefaultVersion)
	}
}

func TestAggregateNormalizesAndTallies(t *testing.T) {
	res := Aggregate([]common.RawRelationship{
		{Source: "**Bob Dylan** - [00:12]", Target: "Joan Baez", Type: "collaboration"},
	})

	if len(res.Relationships) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(res.Relationships))
	}
	rel := res.Relationships[0]
	if rel.Source != "Bob Dylan" || rel.Target != "Joan Baez" || rel.Type != "collaboration" {
		t.Errorf("unexpected relationship: %+v", rel)
	}
	if rel.Confidence != common.DefaultConfidence {
		t.Errorf("confidence = %v, want %v", rel.Confidence, common.DefaultConfidence)
	}
	if rel.SourceCategory != common.CategoryMusician || rel.TargetCategory != common.CategoryMusician {
		t.Errorf("unexpected categories: %+v", rel)
	}

	want := map[string]int{"Bob Dylan": 1, "Joan Baez": 1}
	if !reflect.DeepEqual(res.EntityConnections, want) {
		t.Errorf("tally = %v, want %v", res.EntityConnections, want)
	}
}

func TestAggregateDropsURLs(t *testing.T) {
	res := Aggregate([]common.RawRelationship{
		{Source: "Patti Smith", Target: "https://example.com/article", Type: "featured_in"},
	})

	if len(res.Relationships) != 0 || len(res.EntityConnections) != 0 || len(res.TopEntities) != 0 {
		t.Errorf("expected record to be dropped entirely, got %+v", res)
	}
	if res.Metadata.Dropped.BadName != 1 {
		t.Errorf("dropped.bad_name = %d, want 1", res.Metadata.Dropped.BadName)
	}
}

func TestAggregateDropsSelfLoops(t *testing.T) {
	res := Aggregate([]common.RawRelationship{
		{Source: "**Lou Reed** - [01:02]", Target: "Lou Reed", Type: "mentioned_with"},
	})

	if len(res.Relationships) != 0 {
		t.Errorf("expected self-loop to be dropped, got %+v", res.Relationships)
	}
	if res.Metadata.Dropped.SelfLoop != 1 {
		t.Errorf("dropped.self_loop = %d, want 1", res.Metadata.Dropped.SelfLoop)
	}
}

func TestAggregateDedupSymmetry(t *testing.T) {
	res := Aggregate([]common.RawRelationship{
		{Source: "A", Target: "B", Type: "influenced"},
		{Source: "B", Target: "A", Type: "influenced"},
	})

	if len(res.Relationships) != 1 {
		t.Fatalf("expected unordered pair to collapse to 1 relationship, got %d", len(res.Relationships))
	}
	if res.Metadata.Dropped.Duplicate != 1 {
		t.Errorf("dropped.duplicate = %d, want 1", res.Metadata.Dropped.Duplicate)
	}
	want := map[string]int{"A": 1, "B": 1}
	if !reflect.DeepEqual(res.EntityConnections, want) {
		t.Errorf("tally = %v, want %v", res.EntityConnections, want)
	}
}

func TestAggregateTypeIsPartOfKey(t *testing.T) {
	res := Aggregate([]common.RawRelationship{
		{Source: "Miles Davis", Target: "John Coltrane", Type: "collaboration"},
		{Source: "Miles Davis", Target: "John Coltrane", Type: "influenced"},
	})

	if len(res.Relationships) != 2 {
		t.Fatalf("expected both typed relationships retained, got %d", len(res.Relationships))
	}
	want := map[string]int{"Miles Davis": 2, "John Coltrane": 2}
	if !reflect.DeepEqual(res.EntityConnections, want) {
		t.Errorf("tally = %v, want %v", res.EntityConnections, want)
	}
}

func TestAggregateFirstDuplicateWins(t *testing.T) {
	res := Aggregate([]common.RawRelationship{
		{Source: "A", Target: "B", Type: "influenced", Confidence: 0.9, Evidence: "first"},
		{Source: "A", Target: "B", Type: "influenced", Confidence: 0.5, Evidence: "second"},
	})

	if len(res.Relationships) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(res.Relationships))
	}
	if res.Relationships[0].Confidence != 0.9 || res.Relationships[0].Evidence != "first" {
		t.Errorf("expected first occurrence retained, got %+v", res.Relationships[0])
	}
}

func TestAggregateDefaults(t *testing.T) {
	res := Aggregate([]common.RawRelationship{
		{Source: "A", Target: "B"},
	})

	if len(res.Relationships) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(res.Relationships))
	}
	rel := res.Relationships[0]
	if rel.Type != common.DefaultRelationType {
		t.Errorf("type = %q, want %q", rel.Type, common.DefaultRelationType)
	}
	if rel.Confidence != common.DefaultConfidence {
		t.Errorf("confidence = %v, want %v", rel.Confidence, common.DefaultConfidence)
	}
}

func TestAggregateTallyConsistency(t *testing.T) {
	res := Aggregate([]common.RawRelationship{
		{Source: "A", Target: "B", Type: "influenced"},
		{Source: "A", Target: "C", Type: "influenced"},
		{Source: "B", Target: "C", Type: "collaboration"},
		{Source: "C", Target: "A", Type: "influenced"}, // duplicate of A-C
		{Source: "A", Target: "D", Type: "connected"},
	})

	counts := make(map[string]int)
	for _, rel := range res.Relationships {
		counts[rel.Source]++
		counts[rel.Target]++
	}
	if !reflect.DeepEqual(res.EntityConnections, counts) {
		t.Errorf("tally %v does not match recount %v", res.EntityConnections, counts)
	}
}

func TestAggregateTopEntitiesRankingAndTruncation(t *testing.T) {
	raws := []common.RawRelationship{
		{Source: "A", Target: "B", Type: "t1"},
		{Source: "A", Target: "C", Type: "t1"},
		{Source: "A", Target: "D", Type: "t1"},
		{Source: "B", Target: "C", Type: "t1"},
	}

	agg := NewAggregator(NewAggregatorParams{TopEntityLimit: 2})
	res := agg.Aggregate(raws)

	if len(res.TopEntities) != 2 {
		t.Fatalf("expected 2 top entities, got %d", len(res.TopEntities))
	}
	if res.TopEntities[0].Name != "A" || res.TopEntities[0].Connections != 3 {
		t.Errorf("top entity = %+v, want A with 3 connections", res.TopEntities[0])
	}
	// B and C both tally 2; B was seen first and must rank ahead.
	if res.TopEntities[1].Name != "B" || res.TopEntities[1].Connections != 2 {
		t.Errorf("second entity = %+v, want B with 2 connections", res.TopEntities[1])
	}

	full := NewAggregator(NewAggregatorParams{}).Aggregate(raws)
	if len(full.TopEntities) != len(full.EntityConnections) {
		t.Errorf("top entities length = %d, want %d", len(full.TopEntities), len(full.EntityConnections))
	}
	for i := 1; i < len(full.TopEntities); i++ {
		if full.TopEntities[i].Connections > full.TopEntities[i-1].Connections {
			t.Errorf("top entities not sorted at index %d: %+v", i, full.TopEntities)
		}
	}
}

func TestAggregateFirstSeenOrderPreserved(t *testing.T) {
	res := Aggregate([]common.RawRelationship{
		{Source: "Z", Target: "Y", Type: "t"},
		{Source: "X", Target: "W", Type: "t"},
	})

	if res.Relationships[0].Source != "Z" || res.Relationships[1].Source != "X" {
		t.Errorf("relationships re-ordered: %+v", res.Relationships)
	}
}

func TestAggregateBatchMergeEquivalence(t *testing.T) {
	batch1 := []common.RawRelationship{
		{Source: "A", Target: "B", Type: "influenced"},
		{Source: "B", Target: "C", Type: "collaboration"},
	}
	batch2 := []common.RawRelationship{
		{Source: "B", Target: "A", Type: "influenced"}, // duplicate across batches
		{Source: "C", Target: "D", Type: "influenced"},
	}

	combined := Aggregate(append(append([]common.RawRelationship{}, batch1...), batch2...))

	// Re-aggregating the surviving canonical relationships of both runs
	// must produce the same graph.
	first := Aggregate(batch1)
	second := Aggregate(batch2)
	merged := make([]common.RawRelationship, 0)
	for _, res := range []common.Result{first, second} {
		for _, rel := range res.Relationships {
			merged = append(merged, common.RawRelationship{
				Source:     rel.Source,
				Target:     rel.Target,
				Type:       rel.Type,
				Confidence: rel.Confidence,
				Evidence:   rel.Evidence,
			})
		}
	}
	remerged := Aggregate(merged)

	if !reflect.DeepEqual(remerged.Relationships, combined.Relationships) {
		t.Errorf("merged relationships differ:\n%+v\n%+v", remerged.Relationships, combined.Relationships)
	}
	if !reflect.DeepEqual(remerged.EntityConnections, combined.EntityConnections) {
		t.Errorf("merged tallies differ: %v vs %v", remerged.EntityConnections, combined.EntityConnections)
	}
}
