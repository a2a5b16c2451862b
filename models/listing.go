package models

import "time"

// Tristate is a boolean attribute whose absence from the source is meaningful:
// "unknown" must never collapse into "no".
type Tristate int8

const (
	TriUnknown Tristate = iota
	TriAbsent
	TriPresent
)

func (t Tristate) String() string {
	switch t {
	case TriPresent:
		return "yes"
	case TriAbsent:
		return "no"
	default:
		return ""
	}
}

// AddressParts is the fixed address taxonomy derived from a free-text
// location label. Every component is optional.
type AddressParts struct {
	Street      string
	Subdistrict string
	District    string
	City        string
	Province    string
}

// Listing is the canonical record extracted from one search-result candidate.
// Pointer fields are nil when the source did not state a value — zero is a
// real value (Floor 0 is the ground floor).
type Listing struct {
	URL      string // normalized; the unique key
	Title    string
	Price    *int // amount in currency units
	Currency string
	AreaM2   *float64
	Rooms    *int
	Floor    *int
	Elevator Tristate

	Address AddressParts
	// DistrictGuess is the low-confidence district derived from the URL slug.
	// It never overwrites a structured value; the merger only falls back to it
	// when nothing better exists.
	DistrictGuess string

	Source    string
	ScrapedAt time.Time
}

// DetailRecord carries fields only available on a listing's detail page,
// keyed by the same normalized URL.
type DetailRecord struct {
	URL            string
	Latitude       *float64
	Longitude      *float64
	BuildYear      *int
	BuildingFloors *int
	PricePerM2     *float64
	AdvertiserType string
	District       string // detail-page district, wins over the base value
}

// MergedListing is the terminal artifact: the base listing joined with its
// detail record and the resolved district.
type MergedListing struct {
	Listing
	Detail        DetailRecord
	DistrictFinal string
}

// MarketReport holds the computed analytics over the merged dataset.
type MarketReport struct {
	TotalListings int
	WithPrice     int
	AveragePrice  float64
	MinPrice      float64
	MaxPrice      float64
	AvgPricePerM2 float64
	MostExpensive *MergedListing
	ByDistrict    map[string]int
}
