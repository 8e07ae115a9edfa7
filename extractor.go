package pageqa

import "time"

// Link is an anchor found inside a page's main content.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// PageContent holds the content extracted from a single fetched page.
// It lives for one request and is never persisted.
type PageContent struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	SiteName    string    `json:"siteName,omitempty"`
	MainText    string    `json:"mainText"`
	ContentHTML string    `json:"-"`
	Markdown    string    `json:"markdown,omitempty"`
	ContentHash string    `json:"contentHash,omitempty"`
	Links       []Link    `json:"links"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Extractor extracts the main content of an HTML page, removing boilerplate.
type Extractor interface {
	// Extract parses html and returns its main content. Relative links are
	// resolved against baseURL.
	// Returns EEXTRACT if no block of the page carries enough text.
	Extract(html string, baseURL string) (*PageContent, error)
}

// Default extraction tuning values.
const (
	DefaultMaxLinks        = 20
	DefaultMinTextLength   = 10
	DefaultTextWeight      = 0.01
	DefaultParagraphWeight = 1.0
	DefaultLinkPenalty     = 1.0
	DefaultAncestorDecay   = 0.5
)

// Scoring holds the weights used to rank candidate content blocks.
// The values are empirical; none of them is a correctness requirement.
type Scoring struct {
	// TextWeight is the score per character of paragraph text.
	TextWeight float64

	// ParagraphWeight is the flat score each paragraph-like element adds.
	ParagraphWeight float64

	// LinkPenalty scales how strongly link-heavy blocks are penalized.
	// A candidate's score is multiplied by 1 - LinkPenalty*linkDensity.
	LinkPenalty float64

	// AncestorDecay is the share of a paragraph's score credited to the
	// grandparent candidate. The direct parent receives the full score.
	AncestorDecay float64

	// MinTextLength is the minimum normalized text length (in characters)
	// a candidate needs to be selected.
	MinTextLength int
}

// DefaultScoring returns the default scoring weights.
func DefaultScoring() Scoring {
	return Scoring{
		TextWeight:      DefaultTextWeight,
		ParagraphWeight: DefaultParagraphWeight,
		LinkPenalty:     DefaultLinkPenalty,
		AncestorDecay:   DefaultAncestorDecay,
		MinTextLength:   DefaultMinTextLength,
	}
}

// ExtractOptions configures ExtractPage.
type ExtractOptions struct {
	Scoring  Scoring
	MaxLinks int
}

// DefaultExtractOptions returns the default extraction options.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		Scoring:  DefaultScoring(),
		MaxLinks: DefaultMaxLinks,
	}
}
