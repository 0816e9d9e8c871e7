// Package accessor provides the asset-accessor collaborator: the narrow
// injected interface the content manager and endpoint broker use to
// fetch bytes from a URL without depending on a specific HTTP stack.
package accessor

import "context"

// Response is the result of an asset fetch.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
	URL     string
}

// AssetAccessor issues a fetch for url, with headers attached, and
// returns the raw response. Implementations must not interpret the
// status code; that is the caller's job (see the error-handling policy
// in SPEC_FULL.md §7).
type AssetAccessor interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
