package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"apartment-scraper/models"
	"apartment-scraper/utils"
)

// PostgresWriter persists merged listings to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, waits for it to become
// reachable, runs schema migrations, and returns a ready-to-use writer.
func NewPostgresWriter(dsn string, maxRetries int, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	ping := &utils.RetryConfig{MaxAttempts: maxRetries, BaseDelay: 2 * time.Second, Logger: logger}
	if err := ping.Do("postgres-ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id              SERIAL PRIMARY KEY,
			url             TEXT        UNIQUE NOT NULL,
			title           TEXT        NOT NULL DEFAULT '',
			price           BIGINT,
			currency        VARCHAR(8)  NOT NULL DEFAULT '',
			area_m2         NUMERIC(8,2),
			rooms           INT,
			floor           INT,
			elevator        VARCHAR(8)  NOT NULL DEFAULT '',
			street          TEXT        NOT NULL DEFAULT '',
			subdistrict     TEXT        NOT NULL DEFAULT '',
			district        TEXT        NOT NULL DEFAULT '',
			city            TEXT        NOT NULL DEFAULT '',
			province        TEXT        NOT NULL DEFAULT '',
			district_final  TEXT        NOT NULL DEFAULT '',
			latitude        DOUBLE PRECISION,
			longitude       DOUBLE PRECISION,
			build_year      INT,
			building_floors INT,
			price_per_m2    NUMERIC(12,2),
			advertiser_type TEXT        NOT NULL DEFAULT '',
			source          VARCHAR(50) NOT NULL,
			scraped_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_price          ON listings(price);
		CREATE INDEX IF NOT EXISTS idx_listings_district_final ON listings(district_final);
		CREATE INDEX IF NOT EXISTS idx_listings_city           ON listings(city);
	`)
	return err
}

// Clear deletes all existing listings from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM listings")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts ALL merged listings, clearing old data first.
func (pw *PostgresWriter) Write(listings []*models.MergedListing) error {
	if len(listings) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 40
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

const insertColumns = 22

func (pw *PostgresWriter) insertBatch(batch []*models.MergedListing) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*insertColumns)

	for idx, l := range batch {
		base := idx * insertColumns
		ph := make([]string, insertColumns)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
		valueArgs = append(valueArgs,
			l.URL, l.Title, l.Price, l.Currency, l.AreaM2, l.Rooms, l.Floor,
			l.Elevator.String(),
			l.Address.Street, l.Address.Subdistrict, l.Address.District,
			l.Address.City, l.Address.Province, l.DistrictFinal,
			l.Detail.Latitude, l.Detail.Longitude, l.Detail.BuildYear,
			l.Detail.BuildingFloors, l.Detail.PricePerM2, l.Detail.AdvertiserType,
			l.Source, l.ScrapedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (
			url, title, price, currency, area_m2, rooms, floor, elevator,
			street, subdistrict, district, city, province, district_final,
			latitude, longitude, build_year, building_floors, price_per_m2,
			advertiser_type, source, scraped_at
		)
		VALUES %s
		ON CONFLICT (url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored listings — used by the insight service.
func (pw *PostgresWriter) FetchAll() ([]*models.MergedListing, error) {
	rows, err := pw.db.Query(`
		SELECT url, title, price, currency, area_m2, rooms, floor, elevator,
		       street, subdistrict, district, city, province, district_final,
		       latitude, longitude, build_year, building_floors, price_per_m2,
		       advertiser_type, source, scraped_at
		FROM listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []*models.MergedListing
	for rows.Next() {
		l := &models.MergedListing{}
		var (
			price, rooms, floor, buildYear, buildingFloors sql.NullInt64
			area, lat, lon, ppm                            sql.NullFloat64
			elevator                                       string
		)
		if err := rows.Scan(
			&l.URL, &l.Title, &price, &l.Currency, &area, &rooms, &floor,
			&elevator,
			&l.Address.Street, &l.Address.Subdistrict, &l.Address.District,
			&l.Address.City, &l.Address.Province, &l.DistrictFinal,
			&lat, &lon, &buildYear, &buildingFloors, &ppm,
			&l.Detail.AdvertiserType, &l.Source, &l.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		l.Price = nullableInt(price)
		l.Rooms = nullableInt(rooms)
		l.Floor = nullableInt(floor)
		l.AreaM2 = nullableFloat(area)
		l.Elevator = tristateFrom(elevator)
		l.Detail.URL = l.URL
		l.Detail.Latitude = nullableFloat(lat)
		l.Detail.Longitude = nullableFloat(lon)
		l.Detail.BuildYear = nullableInt(buildYear)
		l.Detail.BuildingFloors = nullableInt(buildingFloors)
		l.Detail.PricePerM2 = nullableFloat(ppm)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func tristateFrom(s string) models.Tristate {
	switch s {
	case "yes":
		return models.TriPresent
	case "no":
		return models.TriAbsent
	default:
		return models.TriUnknown
	}
}
