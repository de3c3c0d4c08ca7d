package graph

// Aggregator turns noisy raw relationship records into a deduplicated,
// classified and ranked cultural graph. It holds no state between runs;
// every call to Aggregate is an independent, pure computation.
//
// An Aggregator should be created using NewAggregator.
type Aggregator struct {
	classifier *Classifier
	topLimit   int
	version    string
}

// DefaultTopEntityLimit caps the ranked entity list when no explicit
// limit is configured.
const DefaultTopEntityLimit = 100

// DefaultVersion is the free-text payload version written into the
// aggregation metadata.
const DefaultVersion = "complete-network-v1"

// NewAggregatorParams defines the configuration parameters for creating
// a new Aggregator.
//
// Classifier controls entity categorization; nil selects the curated
// default tables. TopEntityLimit truncates the ranked entity list.
// Version overrides the metadata version string.
type NewAggregatorParams struct {
	Classifier     *Classifier
	TopEntityLimit int
	Version        string
}

// NewAggregator creates and returns a new Aggregator configured with the
// provided parameters. Zero values select the defaults.
func NewAggregator(params NewAggregatorParams) *Aggregator {
	classifier := params.Classifier
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	limit := params.TopEntityLimit
	if limit <= 0 {
		limit = DefaultTopEntityLimit
	}
	version := params.Version
	if version == "" {
		version = DefaultVersion
	}
	return &Aggregator{
		classifier: classifier,
		topLimit:   limit,
		version:    version,
	}
}
