package services

import (
	"testing"

	"apartment-scraper/models"
)

func TestResolveAddress(t *testing.T) {
	tests := []struct {
		label string
		want  models.AddressParts
	}{
		{
			"Bonarka, Podgórze, Kraków, małopolskie",
			models.AddressParts{Subdistrict: "Bonarka", District: "Podgórze", City: "Kraków", Province: "małopolskie"},
		},
		{
			"ul. Myśliwska, Płaszów, Podgórze, Kraków, małopolskie",
			models.AddressParts{Street: "ul. Myśliwska", Subdistrict: "Płaszów", District: "Podgórze", City: "Kraków", Province: "małopolskie"},
		},
		{
			// six segments: everything before the last four joins into the street
			"ul. Długa 5, m. 3, Kleparz, Stare Miasto, Kraków, małopolskie",
			models.AddressParts{Street: "ul. Długa 5, m. 3", Subdistrict: "Kleparz", District: "Stare Miasto", City: "Kraków", Province: "małopolskie"},
		},
		{
			"Podgórze, Kraków, małopolskie",
			models.AddressParts{District: "Podgórze", City: "Kraków", Province: "małopolskie"},
		},
		{
			"Kraków, małopolskie",
			models.AddressParts{City: "Kraków", Province: "małopolskie"},
		},
		{
			"małopolskie",
			models.AddressParts{Province: "małopolskie"},
		},
		{
			"",
			models.AddressParts{},
		},
		{
			// blank segments are dropped before counting
			" , Podgórze ,, Kraków , małopolskie ",
			models.AddressParts{District: "Podgórze", City: "Kraków", Province: "małopolskie"},
		},
	}

	for _, tt := range tests {
		got := ResolveAddress(tt.label)
		if got != tt.want {
			t.Errorf("ResolveAddress(%q) = %+v, want %+v", tt.label, got, tt.want)
		}
	}
}
