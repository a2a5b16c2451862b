package services

import "apartment-scraper/models"

// Merge left-joins detail records onto the base listings by URL. Base records
// without a matching detail record pass through unchanged, all enrichment
// fields unknown. The final district is the first present value of: detail
// district, structured base district, URL-slug guess.
func Merge(base []*models.Listing, details map[string]*models.DetailRecord) []*models.MergedListing {
	result := make([]*models.MergedListing, 0, len(base))

	for _, l := range base {
		m := &models.MergedListing{Listing: *l}
		if d, ok := details[l.URL]; ok && d != nil {
			m.Detail = *d
		}
		m.Detail.URL = l.URL
		m.DistrictFinal = firstNonEmpty(m.Detail.District, l.Address.District, l.DistrictGuess)
		result = append(result, m)
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
