package domain

import "errors"

var (
	// ErrUnparsablePrice is returned when a price string contains no
	// recognizable amount. Callers keep the row without a price.
	ErrUnparsablePrice = errors.New("no parsable price in text")

	// ErrMalformedOffer is returned when an offer encoding has a current
	// price at or above the original. Treated like ErrUnparsablePrice.
	ErrMalformedOffer = errors.New("malformed offer: current price not below original")

	// ErrIdentityNotResolved is returned when no listing can be attributed
	// to the reference domain and no reference title was supplied either,
	// leaving nothing to score competitors against.
	ErrIdentityNotResolved = errors.New("own product not found among listings")

	// ErrInvalidRequest is returned when analysis parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoResults is returned when the import produced no usable rows
	ErrNoResults = errors.New("no usable rows in export")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrEnrichmentFailure is returned when the LLM extraction collaborator
	// fails. The core falls back to its heuristic token path.
	ErrEnrichmentFailure = errors.New("title enrichment failed")
)
