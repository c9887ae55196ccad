package search

import (
	"testing"
)

func fptr(v float64) *float64 { return &v }

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter ListingFilter
		want   []string
	}{
		{
			name:   "empty filter produces no expressions",
			filter: ListingFilter{},
			want:   nil,
		},
		{
			name: "price range",
			filter: ListingFilter{
				MinPrice: fptr(250000),
				MaxPrice: fptr(750000),
			},
			want: []string{"price >= 250000", "price <= 750000"},
		},
		{
			name: "rooms and categorical fields",
			filter: ListingFilter{
				MinBedrooms:  fptr(3),
				MinBathrooms: fptr(1.5),
				HomeType:     "SINGLE_FAMILY",
				ZipCode:      "00830",
			},
			want: []string{
				"bedrooms >= 3",
				"bathrooms >= 1.5",
				`home_type = "SINGLE_FAMILY"`,
				`zip_code = "00830"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.BuildFilters()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("filter[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCombineFilters(t *testing.T) {
	combined := CombineFilters([]string{"price >= 100", `state = "NJ"`})
	want := `price >= 100 AND state = "NJ"`
	if combined != want {
		t.Errorf("CombineFilters = %q, want %q", combined, want)
	}

	if CombineFilters(nil) != "" {
		t.Error("empty input should combine to empty string")
	}
}

func TestParseListingFromHit(t *testing.T) {
	hit := map[string]interface{}{
		"id":                   "2078133107",
		"zip_code":             "00830",
		"street_address":       "54 Mercer St",
		"price":                450000.0,
		"bedrooms":             3.0,
		"days_on_market":       12.0,
		"is_featured":          true,
		"is_for_sale_by_agent": false,
		"price_to_rent_ratio":  225.0,
	}

	listing := parseListingFromHit(hit)
	if listing.ID != "2078133107" || listing.ZipCode != "00830" {
		t.Errorf("identifiers = %q/%q", listing.ID, listing.ZipCode)
	}
	if listing.Price == nil || *listing.Price != 450000 {
		t.Errorf("price = %v", listing.Price)
	}
	if listing.DaysOnMarket == nil || *listing.DaysOnMarket != 12 {
		t.Errorf("days_on_market = %v", listing.DaysOnMarket)
	}
	if !listing.IsFeatured {
		t.Error("is_featured lost")
	}
	if listing.IsFSBA == nil || *listing.IsFSBA {
		t.Errorf("is_for_sale_by_agent = %v", listing.IsFSBA)
	}
	if listing.RentEstimate != nil {
		t.Error("absent field should stay nil")
	}
}
