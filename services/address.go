package services

import (
	"strings"

	"apartment-scraper/models"
)

// ResolveAddress parses a free-text, comma-separated location label into the
// fixed address taxonomy. Segments run most specific → least specific, so the
// mapping is right-aligned: the last segment is always the province, the one
// before it the city, and so on.
//
// With exactly four segments the first two are subdistrict and district, not
// street fragments. With five or more, everything before the last four is the
// street.
func ResolveAddress(label string) models.AddressParts {
	var segs []string
	for _, raw := range strings.Split(label, ",") {
		if s := strings.TrimSpace(raw); s != "" {
			segs = append(segs, s)
		}
	}

	var parts models.AddressParts
	k := len(segs)
	switch {
	case k == 0:
	case k <= 3:
		parts.Province = segs[k-1]
		if k >= 2 {
			parts.City = segs[k-2]
		}
		if k >= 3 {
			parts.District = segs[k-3]
		}
	case k == 4:
		parts.Subdistrict = segs[0]
		parts.District = segs[1]
		parts.City = segs[2]
		parts.Province = segs[3]
	default:
		parts.Street = strings.Join(segs[:k-4], ", ")
		tail := segs[k-4:]
		parts.Subdistrict = tail[0]
		parts.District = tail[1]
		parts.City = tail[2]
		parts.Province = tail[3]
	}
	return parts
}
