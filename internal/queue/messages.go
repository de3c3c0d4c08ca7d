package queue

// HarvestJobMsg asks the worker to scrape a batch of article URLs from one
// publication source into the content lake.
type HarvestJobMsg struct {
	Source string   `json:"source"`
	URLs   []string `json:"urls"`
}

// RebuildJobMsg asks the worker to rebuild a named graph from scratch.
// With no queries given, the curated musician list is queried. Scraped
// content from the lake is merged in when IncludeScraped is set.
type RebuildJobMsg struct {
	GraphName      string   `json:"graph_name"`
	Queries        []string `json:"queries,omitempty"`
	QueryType      string   `json:"query_type,omitempty"`
	IncludeScraped bool     `json:"include_scraped"`
	Publish        bool     `json:"publish"`
}

// PublishJobMsg asks the worker to publish the latest stored build of a
// named graph to S3.
type PublishJobMsg struct {
	GraphName string `json:"graph_name"`
}
