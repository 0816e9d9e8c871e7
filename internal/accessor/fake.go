package accessor

import "context"

// Fake is a scripted AssetAccessor for tests: Get returns the next
// queued response/error pair, recording every request it was asked to
// make.
type Fake struct {
	Responses []Response
	Errors    []error
	Requests  []string

	next int
}

func (f *Fake) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	f.Requests = append(f.Requests, url)
	if f.next >= len(f.Responses) {
		return Response{}, nil
	}
	resp := f.Responses[f.next]
	var err error
	if f.next < len(f.Errors) {
		err = f.Errors[f.next]
	}
	f.next++
	return resp, err
}
