package pageqa

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Input limits.
const (
	MaxQuestionLength = 2000
	MaxContentURLs    = 10
)

// QARequest asks a question about the page at URL.
type QARequest struct {
	URL      string `json:"url"`
	Question string `json:"question"`
}

// Validate returns an error if the request contains invalid fields.
func (r *QARequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return Errorf(EINVALID, "url required")
	}
	if err := ValidateURL(r.URL); err != nil {
		return err
	}
	if strings.TrimSpace(r.Question) == "" {
		return Errorf(EINVALID, "question required")
	}
	if utf8.RuneCountInString(r.Question) > MaxQuestionLength {
		return Errorf(EINVALID, "question must be at most %d characters", MaxQuestionLength)
	}
	return nil
}

// ValidateURL returns EINVALID unless raw is an absolute http or https URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Errorf(EINVALID, "invalid url %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "url must use http or https: %q", raw)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "url must be absolute: %q", raw)
	}
	return nil
}

// QAResponse is the answer to a QARequest together with the page's
// related links.
type QAResponse struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	QAResult
	RelatedLinks []Link `json:"relatedLinks"`
}

// QAService answers questions about web pages.
type QAService interface {
	// Ask fetches the page, extracts its content, and answers the question.
	// Input is validated before any network call. Errors carry the code of
	// the step that failed: EINVALID, EFETCH, EEXTRACT, EANSWER, or EFORMAT.
	Ask(ctx context.Context, req *QARequest) (*QAResponse, error)
}

// ContentService extracts the content of several pages at once.
type ContentService interface {
	// FetchContent returns the content of each URL, in request order.
	// Returns EINVALID for an empty list, more than MaxContentURLs
	// entries, or a malformed URL. Fails on the first page that fails.
	FetchContent(ctx context.Context, urls []string) ([]*PageContent, error)
}
