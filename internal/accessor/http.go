package accessor

import (
	"context"
	"io"
	"net/http"
	"time"
)

// HTTPAccessor is the reference AssetAccessor backed by net/http, used
// for plain https:// endpoint and tile fetches.
type HTTPAccessor struct {
	client *http.Client
}

// NewHTTPAccessor builds an HTTPAccessor with the given per-request
// timeout.
func NewHTTPAccessor(timeout time.Duration) *HTTPAccessor {
	return &HTTPAccessor{client: &http.Client{Timeout: timeout}}
}

func (a *HTTPAccessor) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	respHeaders := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		respHeaders[k] = resp.Header.Get(k)
	}

	return Response{
		Status:  resp.StatusCode,
		Headers: respHeaders,
		Body:    body,
		URL:     url,
	}, nil
}
