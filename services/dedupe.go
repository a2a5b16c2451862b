package services

import "apartment-scraper/models"

// Deduplicate collapses repeated observations of the same listing, keyed by
// the normalized URL. The first occurrence wins; later duplicates are
// discarded whole, never merged. Listings without a URL are dropped.
func Deduplicate(listings []*models.Listing) []*models.Listing {
	seen := make(map[string]struct{}, len(listings))
	result := make([]*models.Listing, 0, len(listings))

	for _, l := range listings {
		if l.URL == "" {
			continue
		}
		if _, dup := seen[l.URL]; dup {
			continue
		}
		seen[l.URL] = struct{}{}
		result = append(result, l)
	}
	return result
}
