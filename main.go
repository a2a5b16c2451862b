package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"apartment-scraper/config"
	"apartment-scraper/scraper/fetch"
	"apartment-scraper/scraper/otodom"
	"apartment-scraper/services"
	"apartment-scraper/storage"
	"apartment-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Apartment Scraping System starting ===")
	logger.Info("Config — pages: %d | delay: %dms | fetch mode: %s | enrich: %v",
		cfg.PagesToScrape, cfg.RequestDelayMs, cfg.FetchMode, cfg.EnrichDetails)

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), cfg.MaxRetries, logger)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure Docker is running: docker compose up -d")
		os.Exit(1)
	}
	defer pgWriter.Close()

	timeout := time.Duration(cfg.FetchTimeoutS) * time.Second
	var fetcher fetch.Fetcher
	if cfg.FetchMode == "chrome" {
		cf := fetch.NewChromeFetcher(cfg.ChromeBin, timeout)
		defer cf.Close()
		fetcher = cf
	} else {
		fetcher = fetch.NewHTTPFetcher(timeout)
	}

	scraper := otodom.New(cfg, logger, fetcher)
	listings, err := scraper.Run(context.Background())
	if err != nil {
		logger.Error("Scrape failed: %v", err)
		logger.Warn("Keeping the %d listings collected before the failure", len(listings))
	}

	if len(listings) == 0 {
		logger.Error("No listings were scraped. Exiting.")
		os.Exit(1)
	}

	logger.Info("Collected %d merged listings — writing to CSV...", len(listings))

	if err := csvWriter.Write(listings); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Listings saved to %s", cfg.CSVOutputPath)
	}

	if err := pgWriter.Write(listings); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
	} else {
		logger.Info("Listings stored in PostgreSQL (table: listings)")
	}

	dbListings, err := pgWriter.FetchAll()
	if err != nil {
		logger.Error("Failed to fetch listings from DB for the report: %v", err)
		dbListings = listings
	}

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(dbListings)
	insightSvc.Print(report)

	fmt.Printf("  Done. CSV → %s | Clean data → PostgreSQL (listings table)\n\n",
		cfg.CSVOutputPath)
}
