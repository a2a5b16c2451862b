package services

import (
	"fmt"
	"sort"
	"strings"

	"apartment-scraper/models"
	"apartment-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []*models.MergedListing) *models.MarketReport {
	report := &models.MarketReport{
		ByDistrict: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	var priced []*models.MergedListing
	var ppmTotal float64
	var ppmCount int

	for _, l := range listings {
		if l.Price != nil && *l.Price > 0 {
			priced = append(priced, l)
		}
		if l.Detail.PricePerM2 != nil && *l.Detail.PricePerM2 > 0 {
			ppmTotal += *l.Detail.PricePerM2
			ppmCount++
		}
		if l.DistrictFinal != "" {
			report.ByDistrict[l.DistrictFinal]++
		}
	}

	report.WithPrice = len(priced)

	if len(priced) > 0 {
		report.MinPrice = float64(*priced[0].Price)
		report.MaxPrice = float64(*priced[0].Price)
		var total float64
		for _, l := range priced {
			p := float64(*l.Price)
			total += p
			if p < report.MinPrice {
				report.MinPrice = p
			}
			if p >= report.MaxPrice {
				report.MaxPrice = p
				report.MostExpensive = l
			}
		}
		report.AveragePrice = round2(total / float64(len(priced)))
	}

	if ppmCount > 0 {
		report.AvgPricePerM2 = round2(ppmTotal / float64(ppmCount))
	}

	return report
}

func (s *InsightService) Print(r *models.MarketReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 APARTMENT MARKET REPORT\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total listings      : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  Listings with price : \033[1m%d\033[0m\n", r.WithPrice)
	fmt.Println()

	// Price stats
	fmt.Printf("\033[1;33m  Price Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.WithPrice > 0 {
		fmt.Printf("  Average price : \033[1;32m%.0f zł\033[0m\n", r.AveragePrice)
		fmt.Printf("  Minimum price : \033[1;32m%.0f zł\033[0m\n", r.MinPrice)
		fmt.Printf("  Maximum price : \033[1;32m%.0f zł\033[0m\n", r.MaxPrice)
		if r.AvgPricePerM2 > 0 {
			fmt.Printf("  Average / m²  : \033[1;32m%.0f zł\033[0m\n", r.AvgPricePerM2)
		}
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	// Most expensive
	if r.MostExpensive != nil {
		fmt.Printf("\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.MostExpensive.Title, 50))
		fmt.Printf("  District : %s\n", r.MostExpensive.DistrictFinal)
		fmt.Printf("  Price    : \033[1;31m%d zł\033[0m\n", *r.MostExpensive.Price)
		fmt.Println()
	}

	// Listings by district
	fmt.Printf("\033[1;33m  Listings by District\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ByDistrict) == 0 {
		fmt.Printf("  No district data\n")
	} else {
		type distCount struct {
			district string
			count    int
		}
		var dists []distCount
		for d, cnt := range r.ByDistrict {
			dists = append(dists, distCount{d, cnt})
		}
		sort.Slice(dists, func(i, j int) bool {
			if dists[i].count != dists[j].count {
				return dists[i].count > dists[j].count
			}
			return dists[i].district < dists[j].district
		})
		for _, dc := range dists {
			bar := strings.Repeat("█", dc.count)
			fmt.Printf("  %-30s %s (%d)\n", truncate(dc.district, 28), bar, dc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
