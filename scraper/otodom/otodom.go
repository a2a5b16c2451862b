package otodom

import (
	"context"
	"fmt"
	"strings"

	"apartment-scraper/config"
	"apartment-scraper/models"
	"apartment-scraper/scraper/fetch"
	"apartment-scraper/services"
	"apartment-scraper/utils"
)

const source = "otodom"

// Scraper drives the extraction pipeline: sequential page fetches, candidate
// extraction, deduplication, sequential detail-page enrichment and the final
// merge. One page is fetched, parsed and extracted to completion before the
// next begins; the throttle enforces the politeness delay between fetches.
type Scraper struct {
	cfg        *config.Config
	logger     *utils.Logger
	fetcher    fetch.Fetcher
	throttle   *utils.Throttle
	visited    *utils.URLSet
	normalizer *services.Normalizer
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger, fetcher fetch.Fetcher) *Scraper {
	return &Scraper{
		cfg:        cfg,
		logger:     logger,
		fetcher:    fetcher,
		throttle:   utils.NewThrottle(cfg.RequestDelayMs),
		visited:    utils.NewURLSet(),
		normalizer: services.NewNormalizer(logger, source),
	}
}

// Run executes the whole pipeline. On a fatal transport or parse error the
// listings merged so far are returned together with the error, so the caller
// can keep partial results.
func (s *Scraper) Run(ctx context.Context) ([]*models.MergedListing, error) {
	var base []*models.Listing

	for page := 1; page <= s.cfg.PagesToScrape; page++ {
		pageURL := s.searchURL(page)
		s.logger.Info("[otodom] Scraping page %d — %s", page, pageURL)

		s.throttle.Wait()
		html, err := s.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return s.partial(base), fmt.Errorf("page %d: %w", page, err)
		}

		candidates, err := s.pageCandidates(pageURL, html)
		if err != nil {
			return s.partial(base), fmt.Errorf("page %d: %w", page, err)
		}

		listings := s.normalizer.Normalize(candidates)
		if len(listings) == 0 {
			s.logger.Warn("[otodom] Page %d yielded 0 listings — stopping", page)
			break
		}
		base = append(base, listings...)

		s.logger.Info("[otodom] Page %d done — %d listings collected so far", page, len(base))
	}

	base = services.Deduplicate(base)
	s.logger.Info("[otodom] Deduplicated to %d distinct listings", len(base))

	details := s.enrich(ctx, base)
	return services.Merge(base, details), nil
}

// partial merges whatever was accumulated before a fatal error, without
// enrichment.
func (s *Scraper) partial(base []*models.Listing) []*models.MergedListing {
	return services.Merge(services.Deduplicate(base), nil)
}

func (s *Scraper) searchURL(page int) string {
	path := strings.ReplaceAll(s.cfg.SearchPath, "[lang]", s.cfg.Locale)
	return fmt.Sprintf("%s%s?page=%d", s.cfg.BaseURL, path, page)
}

// pageCandidates extracts the listing candidates from one result page. The
// embedded state block is the primary mode; HTML cards are only consulted
// when the block is absent. A page with neither is a parse failure.
func (s *Scraper) pageCandidates(pageURL, html string) ([]*models.Node, error) {
	root, err := ParseStateTree(pageURL, html)
	if err == nil {
		items := services.SelectListingCollection(root)
		if len(items) == 0 {
			return nil, &ParseError{URL: pageURL, Reason: "state block has no listing collection"}
		}
		return items, nil
	}

	cards, cardErr := ParseCards(pageURL, html)
	if cardErr != nil {
		// surface the state-block failure; it is the primary mode
		return nil, err
	}
	s.logger.Warn("[otodom] %s: state block missing, falling back to %d HTML cards", pageURL, len(cards))
	return cards, nil
}

// enrich fetches every detail page in order. A failed item degrades to a
// URL-only detail record and the batch continues; only the politeness delay
// is shared with the page loop.
func (s *Scraper) enrich(ctx context.Context, base []*models.Listing) map[string]*models.DetailRecord {
	details := make(map[string]*models.DetailRecord, len(base))
	if !s.cfg.EnrichDetails {
		return details
	}

	for _, l := range base {
		if !s.visited.Add(l.URL) {
			continue
		}

		s.throttle.Wait()
		html, err := s.fetcher.Fetch(ctx, l.URL)
		if err != nil {
			s.logger.Warn("[otodom] Detail fetch failed for %s: %v", l.URL, err)
			details[l.URL] = &models.DetailRecord{URL: l.URL}
			continue
		}

		root, err := ParseStateTree(l.URL, html)
		if err != nil {
			s.logger.Warn("[otodom] Detail parse failed for %s: %v", l.URL, err)
			details[l.URL] = &models.DetailRecord{URL: l.URL}
			continue
		}

		details[l.URL] = s.normalizer.ExtractDetail(root, l.URL)
	}

	s.logger.Info("[otodom] Enriched %d listings from detail pages", len(details))
	return details
}
