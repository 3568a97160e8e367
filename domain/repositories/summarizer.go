package repositories

import "context"

// SummarySource tells whether a summary came from the external model or the
// local fallback heuristic.
type SummarySource string

const (
	SummarySourceExternal SummarySource = "external"
	SummarySourceLocal    SummarySource = "local"
)

// Summarizer abstracts an external text-generation service that turns a
// flattened transcript into a summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}
