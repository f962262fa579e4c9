package analyzer

import "context"

// DefaultNumTopics is used when a request does not say how many topics to cluster
const DefaultNumTopics = 3

// Processor performs the four text analyses combined into one response.
// Implementations must be safe for concurrent use; a single instance serves all requests.
// Long-running operations should stop when ctx is done.
type Processor interface {
	ExtractEntities(ctx context.Context, text string) (map[string][]string, error)
	ClusterTopics(ctx context.Context, text string, numTopics int) ([]map[string]any, error)
	AnalyzeReadability(ctx context.Context, text string) (map[string]float64, error)
	GetTextStatistics(ctx context.Context, text string) (map[string]any, error)
}

// Result is the combined output of one analysis
type Result struct {
	Entities    map[string][]string `json:"entities"`
	Topics      []map[string]any    `json:"topics"`
	Readability map[string]float64  `json:"readability"`
	Statistics  map[string]any      `json:"statistics"`
}

// Lexicon maps lowercase, single-spaced phrases to entity labels
type Lexicon map[string]string
