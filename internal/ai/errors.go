package ai

import "errors"

// Failure taxonomy for gateway calls. Callers branch with errors.Is;
// none of these trigger an automatic retry.
var (
	// ErrRateLimited means the gateway signalled throttling (429). The
	// user may retry later.
	ErrRateLimited = errors.New("ai gateway rate limited")

	// ErrQuotaExceeded means the gateway signalled billing/quota
	// exhaustion (402). Terminal until the workspace is funded.
	ErrQuotaExceeded = errors.New("ai gateway quota exceeded")

	// ErrMalformedResponse means the structured payload was missing or
	// not parseable. Terminal for this call.
	ErrMalformedResponse = errors.New("ai gateway returned malformed response")

	// ErrTransport covers network failures and any other non-success
	// status from the gateway.
	ErrTransport = errors.New("ai gateway unreachable")
)
