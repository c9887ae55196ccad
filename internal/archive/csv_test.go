package archive

import (
	"strings"
	"testing"

	"real-estate-dashboard/internal/models"
)

func sampleListing() models.Listing {
	price := 450000.0
	rent := 2000.0
	ratio := 225.0
	baths := 2.5
	fsba := true
	days := 12

	return models.Listing{
		ID:               "2078133107",
		ZipCode:          "00830",
		ImageURL:         "https://photos.example.com/1.jpg",
		DetailURL:        "/homedetails/110-1st-St/2078133107_zpid/",
		StreetAddress:    "110 1st St",
		StreetName:       "110 1st St",
		City:             "Jersey City",
		State:            "NJ",
		Country:          "USA",
		Price:            &price,
		OriginalPrice:    "$450,000",
		Currency:         "USD",
		Bathrooms:        &baths,
		HomeType:         "CONDO",
		HomeStatus:       "FOR_SALE",
		DaysOnMarket:     &days,
		IsFeatured:       true,
		IsFSBA:           &fsba,
		RentEstimate:     &rent,
		PriceToRentRatio: &ratio,
		DetailPageURL:    "https://www.zillow.com/homedetails/110-1st-St/2078133107_zpid/",
	}
}

func TestEncodeListingsHeaderOrder(t *testing.T) {
	data, err := EncodeListings(nil)
	if err != nil {
		t.Fatalf("EncodeListings: %v", err)
	}

	header := strings.TrimSpace(string(data))
	want := strings.Join(models.ListingColumns, ",")
	if header != want {
		t.Errorf("header = %q, want canonical column order", header)
	}
}

func TestListingRoundTrip(t *testing.T) {
	in := sampleListing()

	data, err := EncodeListings([]models.Listing{in})
	if err != nil {
		t.Fatalf("EncodeListings: %v", err)
	}

	rows, err := DecodeListings(data)
	if err != nil {
		t.Fatalf("DecodeListings: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	out := rows[0]
	if out.ID != "2078133107" {
		t.Errorf("ID = %q, want textual id", out.ID)
	}
	if out.ZipCode != "00830" {
		t.Errorf("ZipCode = %q, leading zero lost in round trip", out.ZipCode)
	}
	if out.Price == nil || *out.Price != 450000 {
		t.Errorf("Price did not round-trip: %v", out.Price)
	}
	if out.OriginalPrice != "$450,000" {
		t.Errorf("OriginalPrice = %q", out.OriginalPrice)
	}
	if out.IsFSBA == nil || !*out.IsFSBA {
		t.Error("IsFSBA did not round-trip")
	}
	if out.DaysOnMarket == nil || *out.DaysOnMarket != 12 {
		t.Errorf("DaysOnMarket = %v", out.DaysOnMarket)
	}
	if out.PriceToRentRatio == nil || *out.PriceToRentRatio != 225 {
		t.Errorf("PriceToRentRatio = %v", out.PriceToRentRatio)
	}
}

func TestListingRoundTripNilsStayNil(t *testing.T) {
	in := models.Listing{ID: "1", ZipCode: "07302"}

	data, err := EncodeListings([]models.Listing{in})
	if err != nil {
		t.Fatalf("EncodeListings: %v", err)
	}
	rows, err := DecodeListings(data)
	if err != nil {
		t.Fatalf("DecodeListings: %v", err)
	}

	out := rows[0]
	if out.Price != nil || out.RentEstimate != nil || out.PriceToRentRatio != nil {
		t.Error("nil numerics must decode as nil, not zero")
	}
	if out.IsFSBA != nil {
		t.Error("nil IsFSBA must stay nil")
	}
}

func TestPropertyRoundTrip(t *testing.T) {
	price := 450000.0
	tax2023 := 8500.0
	year := 1997

	in := &models.Property{
		ID:            "2078133107",
		ZipCode:       "07302",
		StreetAddress: "110 1st St",
		Price:         &price,
		OriginalPrice: "450000",
		YearBuilt:     &year,
		Description:   "Bright corner unit, with a \"city\" view.",
		TaxHistory: []models.HistoryEntry{
			{Date: "2023", Value: &tax2023},
			{Date: "2022", Value: nil},
		},
		PriceHistory:        []models.HistoryEntry{},
		NearbyCities:        []string{"Hoboken", "Newark"},
		NearbyNeighborhoods: []string{},
		NearbyZipcodes:      []string{"07030"},
	}

	data, err := EncodeProperty(in)
	if err != nil {
		t.Fatalf("EncodeProperty: %v", err)
	}

	out, err := DecodeProperty(data)
	if err != nil {
		t.Fatalf("DecodeProperty: %v", err)
	}

	if out.ID != in.ID || out.ZipCode != in.ZipCode {
		t.Errorf("identifiers: got id=%q zip=%q", out.ID, out.ZipCode)
	}
	if out.YearBuilt == nil || *out.YearBuilt != 1997 {
		t.Errorf("YearBuilt = %v", out.YearBuilt)
	}
	if out.Description != in.Description {
		t.Errorf("Description = %q", out.Description)
	}
	if len(out.TaxHistory) != 2 || out.TaxHistory[0].Date != "2023" || *out.TaxHistory[0].Value != 8500 {
		t.Errorf("TaxHistory = %+v", out.TaxHistory)
	}
	if out.TaxHistory[1].Value != nil {
		t.Error("nil history value must stay nil")
	}
	if len(out.NearbyCities) != 2 || out.NearbyCities[1] != "Newark" {
		t.Errorf("NearbyCities = %v", out.NearbyCities)
	}
}
