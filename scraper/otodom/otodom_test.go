package otodom

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"apartment-scraper/config"
	"apartment-scraper/utils"
)

type stubFetcher struct {
	pages map[string]string
	errs  map[string]error
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	html, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("stub: no page for %s", url)
	}
	return html, nil
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:       "https://www.otodom.pl",
		SearchPath:    "/pl/wyniki/sprzedaz/mieszkanie/malopolskie/krakow",
		PagesToScrape: 1,
		EnrichDetails: true,
	}
}

const detailState = `{"props":{"pageProps":{"ad":{
	"title":"3 pokojowe mieszkanie, parter",
	"price":{"value":720000,"currency":"PLN"},
	"url":"/pl/oferta/mieszkanie-krakow-podgorze-ID1",
	"area":48.2,
	"advertiserType":"private",
	"coordinates":{"latitude":50.03,"longitude":19.94},
	"location":{"address":{
		"district":{"name":"Podgórze"},
		"city":{"name":"Kraków"}
	}}
}}}}`

func TestScraperRun(t *testing.T) {
	cfg := testConfig()
	pages := map[string]string{
		"https://www.otodom.pl/pl/oferta/mieszkanie-krakow-podgorze-ID1": statePage(detailState),
		"https://www.otodom.pl/pl/oferta/kawalerka-krakow-krowodrza-ID2": `<html><body>gone</body></html>`,
	}
	pages[cfg.BaseURL+cfg.SearchPath+"?page=1"] = statePage(searchState)
	fetcher := &stubFetcher{pages: pages}

	merged, err := New(cfg, utils.NewLogger(), fetcher).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("got %d merged listings, want 2", len(merged))
	}

	first := merged[0]
	if first.URL != "https://www.otodom.pl/pl/oferta/mieszkanie-krakow-podgorze-ID1" {
		t.Errorf("first URL: got %q", first.URL)
	}
	if first.Rooms == nil || *first.Rooms != 3 {
		t.Errorf("first rooms: got %v, want 3", first.Rooms)
	}
	if first.Floor == nil || *first.Floor != 0 {
		t.Errorf("first floor: got %v, want 0 (ground)", first.Floor)
	}
	if first.DistrictFinal != "Podgórze" {
		t.Errorf("first district_final: got %q, want detail district", first.DistrictFinal)
	}
	if first.Detail.Latitude == nil || *first.Detail.Latitude != 50.03 {
		t.Errorf("first detail coordinates not carried: %+v", first.Detail)
	}

	// Second listing's detail page is unparseable: the item degrades to its
	// base fields instead of failing the batch.
	second := merged[1]
	if second.URL != "https://www.otodom.pl/pl/oferta/kawalerka-krakow-krowodrza-ID2" {
		t.Errorf("second URL: got %q", second.URL)
	}
	if second.DistrictFinal != "Krowodrza" {
		t.Errorf("second district_final: got %q, want the URL-slug guess", second.DistrictFinal)
	}
	if second.AreaM2 == nil || *second.AreaM2 != 30.5 {
		t.Errorf("second area: got %v, want 30.5", second.AreaM2)
	}
}

func TestScraperRunKeepsPartialsOnTransportError(t *testing.T) {
	cfg := testConfig()
	cfg.PagesToScrape = 2
	cfg.EnrichDetails = false
	fetcher := &stubFetcher{
		pages: map[string]string{
			cfg.BaseURL + cfg.SearchPath + "?page=1": statePage(searchState),
		},
		errs: map[string]error{
			cfg.BaseURL + cfg.SearchPath + "?page=2": errors.New("connection reset"),
		},
	}

	merged, err := New(cfg, utils.NewLogger(), fetcher).Run(context.Background())
	if err == nil {
		t.Fatal("expected the page-2 fetch error to surface")
	}
	if len(merged) != 2 {
		t.Fatalf("partial results: got %d listings, want the 2 from page 1", len(merged))
	}
}

func TestScraperRunFatalParse(t *testing.T) {
	cfg := testConfig()
	fetcher := &stubFetcher{pages: map[string]string{
		cfg.BaseURL + cfg.SearchPath + "?page=1": `<html><body><p>blocked</p></body></html>`,
	}}

	merged, err := New(cfg, utils.NewLogger(), fetcher).Run(context.Background())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type: got %T (%v), want *ParseError", err, err)
	}
	if len(merged) != 0 {
		t.Errorf("got %d listings from an unparseable page, want 0", len(merged))
	}
}

func TestScraperRunCardFallback(t *testing.T) {
	cfg := testConfig()
	cfg.EnrichDetails = false
	fetcher := &stubFetcher{pages: map[string]string{
		cfg.BaseURL + cfg.SearchPath + "?page=1": cardsPage,
	}}

	merged, err := New(cfg, utils.NewLogger(), fetcher).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("got %d listings from HTML cards, want 2", len(merged))
	}
	if merged[0].Title != "3 pokojowe mieszkanie, parter" {
		t.Errorf("card title: got %q", merged[0].Title)
	}
	if merged[0].Price == nil || *merged[0].Price != 720000 {
		t.Errorf("card price: got %v, want 720000", merged[0].Price)
	}
	if merged[0].Address.District != "Podgórze" {
		t.Errorf("card district: got %q, want label-resolved district", merged[0].Address.District)
	}
}
