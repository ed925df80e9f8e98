// Package fetch
package fetch

import (
	"context"
	"errors"
)

// ErrRenderTimeout marks a rendered fetch whose target element never appeared
// within the bounded wait. It is still a transient failure and worth retrying.
var ErrRenderTimeout = errors.New("rendered content did not appear before the deadline")

// Fetcher returns the HTML of a page. waitFor is the CSS selector a rendered
// backend blocks on until the page scripts have populated it; static backends
// ignore it.
type Fetcher interface {
	Fetch(ctx context.Context, url, waitFor string) (string, error)
}
