package storage

import "apartment-scraper/models"

// ListingWriter is the interface any storage backend must satisfy.
type ListingWriter interface {
	Write(listings []*models.MergedListing) error
	Close() error
}
