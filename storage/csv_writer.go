package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"apartment-scraper/models"
)

// csvHeader is the fixed column set: one row per merged listing. Unknown
// fields render as empty cells, never as a guessed default.
var csvHeader = []string{
	"url", "title", "price", "currency", "area_m2", "rooms", "floor", "elevator",
	"street", "subdistrict", "district", "city", "province", "district_final",
	"latitude", "longitude", "build_year", "building_floors", "price_per_m2",
	"advertiser_type", "source", "scraped_at",
}

// CSVWriter writes merged listings to a CSV file. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per merged listing.
func (c *CSVWriter) Write(listings []*models.MergedListing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			l.URL,
			l.Title,
			intCell(l.Price),
			l.Currency,
			floatCell(l.AreaM2),
			intCell(l.Rooms),
			intCell(l.Floor),
			l.Elevator.String(),
			l.Address.Street,
			l.Address.Subdistrict,
			l.Address.District,
			l.Address.City,
			l.Address.Province,
			l.DistrictFinal,
			floatCell(l.Detail.Latitude),
			floatCell(l.Detail.Longitude),
			intCell(l.Detail.BuildYear),
			intCell(l.Detail.BuildingFloors),
			floatCell(l.Detail.PricePerM2),
			l.Detail.AdvertiserType,
			l.Source,
			l.ScrapedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
