package services

import (
	"testing"

	"apartment-scraper/models"
)

func TestMergeDistrictPrecedence(t *testing.T) {
	tests := []struct {
		name           string
		baseDistrict   string
		guess          string
		detailDistrict string
		haveDetail     bool
		want           string
	}{
		{"detail wins over structured", "Stare Miasto", "Podgorze", "Podgórze", true, "Podgórze"},
		{"detail fills unknown base", "", "", "Podgórze", true, "Podgórze"},
		{"structured when detail empty", "Stare Miasto", "Podgorze", "", true, "Stare Miasto"},
		{"structured when no detail record", "Stare Miasto", "Podgorze", "", false, "Stare Miasto"},
		{"guess only as last resort", "", "Podgorze", "", true, "Podgorze"},
		{"nothing known", "", "", "", false, ""},
	}

	for _, tt := range tests {
		base := []*models.Listing{{
			URL:           "https://www.otodom.pl/pl/oferta/a-ID1",
			Address:       models.AddressParts{District: tt.baseDistrict},
			DistrictGuess: tt.guess,
		}}
		details := map[string]*models.DetailRecord{}
		if tt.haveDetail {
			details[base[0].URL] = &models.DetailRecord{URL: base[0].URL, District: tt.detailDistrict}
		}

		got := Merge(base, details)
		if len(got) != 1 {
			t.Fatalf("%s: got %d records, want 1", tt.name, len(got))
		}
		if got[0].DistrictFinal != tt.want {
			t.Errorf("%s: district_final = %q, want %q", tt.name, got[0].DistrictFinal, tt.want)
		}
	}
}

func TestMergePassthroughWithoutDetail(t *testing.T) {
	price := 500000
	area := 50.0
	base := []*models.Listing{{
		URL:    "https://www.otodom.pl/pl/oferta/a-ID1",
		Title:  "Mieszkanie",
		Price:  &price,
		AreaM2: &area,
	}}

	got := Merge(base, nil)
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	m := got[0]
	if m.Title != "Mieszkanie" || m.Price == nil || *m.Price != 500000 {
		t.Error("base fields must pass through unchanged")
	}
	if m.Detail.Latitude != nil || m.Detail.BuildYear != nil || m.Detail.AdvertiserType != "" {
		t.Error("enrichment fields must stay unknown without a detail record")
	}
	if m.Detail.URL != m.URL {
		t.Errorf("detail URL: got %q, want %q", m.Detail.URL, m.URL)
	}
}

func TestMergeLeavesPricePerM2UnknownWithoutDetail(t *testing.T) {
	// price per m² is an enrichment field; a base record with no detail record
	// must pass through with it unknown, even when price and area could derive it
	price := 800000
	area := 50.0
	base := []*models.Listing{{
		URL:    "https://www.otodom.pl/pl/oferta/a-ID1",
		Price:  &price,
		AreaM2: &area,
	}}

	got := Merge(base, nil)
	if got[0].Detail.PricePerM2 != nil {
		t.Errorf("price per m²: got %v, want unknown", *got[0].Detail.PricePerM2)
	}
}

func TestMergeKeepsDetailPricePerM2(t *testing.T) {
	price := 800000
	area := 50.0
	fromDetail := 15900.0
	url := "https://www.otodom.pl/pl/oferta/a-ID1"
	base := []*models.Listing{{URL: url, Price: &price, AreaM2: &area}}
	details := map[string]*models.DetailRecord{
		url: {URL: url, PricePerM2: &fromDetail},
	}

	got := Merge(base, details)
	if *got[0].Detail.PricePerM2 != 15900 {
		t.Errorf("price per m²: got %v, want the detail value 15900", *got[0].Detail.PricePerM2)
	}
}
