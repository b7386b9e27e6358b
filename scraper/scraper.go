package scraper

import "context"

// Fetcher retrieves the post page. Implementations must honour ctx
// cancellation and are safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context) (*Page, error)
}

// Page is one upstream response.
type Page struct {
	// StatusCode is the final HTTP status after redirects.
	StatusCode int

	// FinalURL is the URL after following all redirects.
	FinalURL string

	// HTML is the decoded body. It is only read for 2xx responses.
	HTML string

	// Truncated is set when the body exceeded the size cap and HTML holds
	// only its first bytes.
	Truncated bool
}

// OK reports whether the upstream status is in the 2xx range.
func (p *Page) OK() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}
