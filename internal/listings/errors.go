package listings

import "errors"

var (
	// ErrNotFound signals a missing listing record.
	ErrNotFound = errors.New("listing not found")
	// ErrForbidden indicates the actor may not mutate the listing.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidRange indicates a numeric filter with min greater than max.
	ErrInvalidRange = errors.New("invalid range")
	// ErrInvalidGeoFilter indicates an incomplete latitude/longitude/radius triple.
	ErrInvalidGeoFilter = errors.New("invalid geo filter")
	// ErrInvalidListing indicates validation failure for listing data.
	ErrInvalidListing = errors.New("invalid listing")
	// ErrCacheMiss is returned by detail caches when no entry exists.
	ErrCacheMiss = errors.New("cache miss")
)
