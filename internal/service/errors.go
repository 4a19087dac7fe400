package service

import "errors"

var (
	// ErrEmptyCatalog means there are no plans to search, either because no
	// catalog was imported or because the given file holds none.
	ErrEmptyCatalog = errors.New("catalog is empty; import one with 'roamer catalog import' or pass --catalog")

	ErrNoItinerary = errors.New("no itinerary given; pass --segment, --days with --data-gb, or --itinerary")
)
