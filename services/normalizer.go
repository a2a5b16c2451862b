package services

import (
	"time"

	"apartment-scraper/models"
	"apartment-scraper/utils"
)

// Normalizer assembles canonical listings from classifier-selected candidate
// nodes. A failing extractor degrades its own field to unknown; it never
// prevents the rest of the record from being emitted.
type Normalizer struct {
	logger *utils.Logger
	source string
}

// NewNormalizer creates a Normalizer tagging records with the given source.
func NewNormalizer(logger *utils.Logger, source string) *Normalizer {
	return &Normalizer{logger: logger, source: source}
}

// Normalize runs every extractor over each candidate. Candidates that yield
// no identifier are dropped — the URL is the one required field.
func (n *Normalizer) Normalize(candidates []*models.Node) []*models.Listing {
	result := make([]*models.Listing, 0, len(candidates))
	dropped := 0

	for _, node := range candidates {
		l := n.normalizeOne(node)
		if l.URL == "" {
			n.logger.Warn("[normalizer] Dropping candidate with no URL: %s", l.Title)
			dropped++
			continue
		}
		result = append(result, l)
	}

	n.logger.Info("[normalizer] Normalized %d → %d listings (dropped %d)",
		len(candidates), len(result), dropped)
	return result
}

func (n *Normalizer) normalizeOne(node *models.Node) *models.Listing {
	c := NewCandidate(node)

	price, currency := ExtractPrice(c)
	l := &models.Listing{
		URL:       NormalizeURL(firstText(node, urlKeys)),
		Title:     c.Title,
		Price:     price,
		Currency:  currency,
		AreaM2:    ExtractArea(c),
		Rooms:     ExtractRooms(c),
		Floor:     ExtractFloor(c),
		Elevator:  ExtractElevator(c),
		Address:   extractAddress(c),
		Source:    n.source,
		ScrapedAt: time.Now(),
	}
	l.DistrictGuess = DistrictGuessFromURL(l.URL)
	return l
}

// ExtractDetail builds the enrichment record from a detail-page state tree.
// Missing fields stay unknown; the record always carries at least the URL.
func (n *Normalizer) ExtractDetail(root *models.Node, url string) *models.DetailRecord {
	d := &models.DetailRecord{URL: url}

	node := FirstListingCandidate(root)
	if node == nil {
		n.logger.Warn("[normalizer] Detail page has no listing-shaped node: %s", url)
		return d
	}
	c := NewCandidate(node)

	d.Latitude, d.Longitude = extractCoordinates(node)
	d.BuildYear = intFromAttr(c, "rok budowy", "build_year", "buildyear")
	d.BuildingFloors = intFromAttr(c, "liczba pięter", "building_floors", "floors_num")
	d.AdvertiserType = firstText(node, []string{"advertiserType", "advertType"})
	d.District = extractAddress(c).District

	if raw := attrValue(c.Attrs, "cena za metr", "price_per_m"); raw != "" {
		if f, ok := parseNumericText(raw); ok && f > 0 {
			d.PricePerM2 = &f
		}
	}
	if d.PricePerM2 == nil {
		price, _ := ExtractPrice(c)
		area := ExtractArea(c)
		if price != nil && area != nil && *area > 0 {
			ppm := float64(*price) / *area
			d.PricePerM2 = &ppm
		}
	}
	return d
}

var coordinateKeys = []string{"coordinates", "location", "geo"}

// extractCoordinates finds the first object carrying both latitude and
// longitude, checking the conventional wrappers before the whole subtree.
func extractCoordinates(node *models.Node) (*float64, *float64) {
	for _, key := range coordinateKeys {
		if wrapper, ok := node.Field(key); ok {
			if lat, lon, ok := latLon(wrapper); ok {
				return lat, lon
			}
		}
	}
	for _, n := range Scan(node) {
		if lat, lon, ok := latLon(n); ok {
			return lat, lon
		}
	}
	return nil, nil
}

func latLon(n *models.Node) (*float64, *float64, bool) {
	if n == nil || n.Kind() != models.KindObject {
		return nil, nil, false
	}
	latNode, ok := n.Field("latitude")
	if !ok {
		return nil, nil, false
	}
	lonNode, ok := n.Field("longitude")
	if !ok {
		return nil, nil, false
	}
	lat, ok := parseNumeric(latNode)
	if !ok {
		return nil, nil, false
	}
	lon, ok := parseNumeric(lonNode)
	if !ok {
		return nil, nil, false
	}
	return &lat, &lon, true
}

func intFromAttr(c *Candidate, terms ...string) *int {
	raw := attrValue(c.Attrs, terms...)
	if raw == "" {
		return nil
	}
	if v, ok := firstInt(raw); ok {
		return &v
	}
	return nil
}
