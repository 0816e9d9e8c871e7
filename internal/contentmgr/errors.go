package contentmgr

import "errors"

// ErrRetryLater is returned internally when a tile's content fetch comes
// back 401 and a credential refresh was kicked off; the load is parked in
// FailedTemporarily so a later frame's selection pass re-initiates it once
// the refreshed token is in place, rather than spinning on a fixed retry
// count.
var ErrRetryLater = errors.New("content manager: retry after credential refresh")

// ErrTransient wraps a fetch/decode failure that is expected to clear on
// its own: a 5xx response or a network-level timeout. commit maps it to
// FailedTemporarily so the next selection pass retries the load.
var ErrTransient = errors.New("content manager: transient error")

// ErrPermanent wraps a fetch failure the caller should not retry: any
// 4xx response other than 401 (401 is handled separately via
// ErrRetryLater and the credential-refresh path). commit maps it to
// Failed.
var ErrPermanent = errors.New("content manager: permanent error")

// ErrMalformed wraps a decode failure the loader considers unrecoverable
// (a truncated payload, a corrupt header, a glTF graph that never became
// self-contained). commit maps it to Failed, the same as ErrPermanent,
// but kept distinguishable via errors.Is since the two arise from
// different stages (transport vs. decode).
var ErrMalformed = errors.New("content manager: malformed content")
