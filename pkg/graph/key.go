package graph

// RelationKey identifies a relationship by its unordered entity pair and
// type label. Two records describing the same pair in either direction with
// the same type map to the same key, which is what makes deduplication an
// explicit, auditable contract instead of a string-formatting trick.
//
// RelationKey is comparable and can be used directly as a map key.
type RelationKey struct {
	// A and B are the endpoint names sorted lexicographically, so that
	// (X, Y) and (Y, X) produce identical keys.
	A, B string
	Type string
}

// NewRelationKey builds the canonical key for a source/target pair and a
// relationship type. The pair is unordered: endpoint names are sorted
// before being stored.
func NewRelationKey(source, target, relType string) RelationKey {
	if target < source {
		source, target = target, source
	}
	return RelationKey{A: source, B: target, Type: relType}
}
