package model

import "github.com/m-mizutani/goerr/v2"

// Error taxonomy for the triage pipeline. The HTTP layer matches these
// with errors.Is to pick a status code; the three backend conditions
// (rate limit, quota, generic failure) must stay distinguishable so the
// UI can show different messages.
var (
	// ErrReadingNotFound: the triggering reading is absent from the
	// assembled context window. Surfaced as not-found, never retried.
	ErrReadingNotFound = goerr.New("reading not found")

	// ErrRecipientNotFound: no recipient metadata for the given
	// (circle, recipient) key.
	ErrRecipientNotFound = goerr.New("care recipient not found")

	// ErrAlertNotFound: alert lookup by ID failed.
	ErrAlertNotFound = goerr.New("alert not found")

	// ErrRateLimited: the model backend rejected the call with a rate
	// limit. The caller may retry in a moment.
	ErrRateLimited = goerr.New("model backend rate limited")

	// ErrQuotaExhausted: the model backend is out of quota or credits.
	// Retrying will not help until credits are added.
	ErrQuotaExhausted = goerr.New("model backend quota exhausted")

	// ErrClassifierUnavailable: any other model backend failure.
	ErrClassifierUnavailable = goerr.New("model backend unavailable")

	// ErrUnrecognizedSeverity: the backend returned a severity outside
	// the four-level enum.
	ErrUnrecognizedSeverity = goerr.New("unrecognized severity")
)
