package normalize

import (
	"fmt"
	"testing"
)

func listingPayload(mapResults string, total int) []byte {
	return []byte(fmt.Sprintf(`{
		"is_success": true,
		"data": {
			"categoryTotals": {"cat1": {"totalResultCount": %d}},
			"cat1": {"searchResults": {"mapResults": %s}}
		}
	}`, total, mapResults))
}

func TestNormalizeListingsFullPipeline(t *testing.T) {
	payload := listingPayload(`[
		{
			"zpid": 2078133107,
			"imgSrc": "https://photos.example.com/1.jpg",
			"detailUrl": "/homedetails/110-1st-St/2078133107_zpid/",
			"price": "$450,000",
			"priceChange": -5000,
			"hdpData": {
				"homeInfo": {
					"streetAddress": "110 1st St",
					"zipcode": "07302",
					"city": "Jersey City",
					"state": "NJ",
					"country": "USA",
					"latitude": 40.72,
					"longitude": -74.03,
					"bathrooms": 2,
					"bedrooms": 3,
					"homeType": "CONDO",
					"homeStatus": "FOR_SALE",
					"daysOnZillow": 12,
					"isFeatured": true,
					"currency": "USD",
					"rentZestimate": 2000,
					"zestimate": 460000,
					"livingArea": 1250,
					"homeDetailUrl": "/homedetails/110-1st-St/2078133107_zpid/"
				}
			},
			"listing_sub_type": {"is_FSBA": true}
		}
	]`, 137)

	table, err := New("").NormalizeListings(payload)
	if err != nil {
		t.Fatalf("NormalizeListings returned error: %v", err)
	}
	if table.TotalResults != 137 {
		t.Errorf("TotalResults = %d, want 137", table.TotalResults)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(table.Rows))
	}

	row := table.Rows[0]
	if row.ID != "2078133107" {
		t.Errorf("ID = %q, want textual zpid", row.ID)
	}
	if row.ZipCode != "07302" {
		t.Errorf("ZipCode = %q, leading zero lost", row.ZipCode)
	}
	if row.Price == nil || *row.Price != 450000 {
		t.Errorf("Price = %v, want 450000", deref(row.Price))
	}
	if row.OriginalPrice != "$450,000" {
		t.Errorf("OriginalPrice = %q, want raw string preserved", row.OriginalPrice)
	}
	if row.StreetName != row.StreetAddress {
		t.Errorf("StreetName = %q, want copy of StreetAddress %q", row.StreetName, row.StreetAddress)
	}
	if row.DetailPageURL != "https://www.zillow.com/homedetails/110-1st-St/2078133107_zpid/" {
		t.Errorf("DetailPageURL = %q, want absolute URL", row.DetailPageURL)
	}
	if row.IsFSBA == nil || !*row.IsFSBA {
		t.Error("IsFSBA should come from the nested sub-type flag")
	}
	// (450000 - 5000) / 2000
	if row.PriceToRentRatio == nil || *row.PriceToRentRatio != 222.5 {
		t.Errorf("PriceToRentRatio = %v, want 222.5", deref(row.PriceToRentRatio))
	}
}

func TestNormalizeListingsDropsRangedRows(t *testing.T) {
	payload := listingPayload(`[
		{"zpid": 1, "price": "From $450,000"},
		{"zpid": 2, "price": "$300,000"}
	]`, 2)

	table, err := New("").NormalizeListings(payload)
	if err != nil {
		t.Fatalf("NormalizeListings returned error: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %d, want ranged listing dropped", len(table.Rows))
	}
	if table.Rows[0].ID != "2" {
		t.Errorf("surviving row = %q, want listing 2", table.Rows[0].ID)
	}
}

func TestNormalizeListingsColumnDivergence(t *testing.T) {
	// One record has rentZestimate, the other does not: both rows must
	// exist, with a nil rent estimate where absent.
	payload := listingPayload(`[
		{"zpid": 1, "price": 200000, "hdpData": {"homeInfo": {"rentZestimate": 2000}}},
		{"zpid": 2, "price": 300000}
	]`, 2)

	table, err := New("").NormalizeListings(payload)
	if err != nil {
		t.Fatalf("NormalizeListings returned error: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Rows[0].RentEstimate == nil || *table.Rows[0].RentEstimate != 2000 {
		t.Errorf("row 1 RentEstimate = %v, want 2000", deref(table.Rows[0].RentEstimate))
	}
	if table.Rows[1].RentEstimate != nil {
		t.Errorf("row 2 RentEstimate = %v, want nil", deref(table.Rows[1].RentEstimate))
	}
	if table.Rows[0].PriceToRentRatio == nil {
		t.Error("row 1 should have a ratio")
	}
	if table.Rows[1].PriceToRentRatio != nil {
		t.Error("row 2 ratio must be nil without a rent estimate")
	}
}

func TestNormalizeListingsNoData(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"unsuccessful request", `{"is_success": false, "data": {}}`},
		{"missing results array", `{"is_success": true, "data": {"cat1": {}}}`},
		{"missing data section", `{"is_success": true}`},
		{"not json", `<html>blocked</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := New("").NormalizeListings([]byte(tt.payload))
			if err == nil {
				t.Fatalf("expected NoDataError, got table with %d rows", len(table.Rows))
			}
			if !IsNoData(err) {
				t.Errorf("error is not a NoDataError: %v", err)
			}
		})
	}
}

func TestNormalizeListingsZeroMatchesIsNotNoData(t *testing.T) {
	table, err := New("").NormalizeListings(listingPayload(`[]`, 0))
	if err != nil {
		t.Fatalf("zero matches must be a successful empty table, got %v", err)
	}
	if len(table.Rows) != 0 || table.TotalResults != 0 {
		t.Errorf("want empty table, got %d rows / %d total", len(table.Rows), table.TotalResults)
	}
}

func TestNormalizeProperty(t *testing.T) {
	payload := []byte(`{
		"is_success": true,
		"data": {
			"zpid": 2078133107,
			"streetAddress": "110 1st St",
			"zipcode": "07302",
			"city": "Jersey City",
			"state": "NJ",
			"country": "USA",
			"latitude": 40.72,
			"longitude": -74.03,
			"price": 450000,
			"currency": "USD",
			"bedrooms": 3,
			"bathrooms": 2,
			"livingArea": 1250,
			"yearBuilt": 1997,
			"homeType": "CONDO",
			"homeStatus": "FOR_SALE",
			"zestimate": 460000,
			"rentZestimate": 2000,
			"hdpUrl": "/homedetails/110-1st-St/2078133107_zpid/",
			"hiResImageLink": "https://photos.example.com/hires.jpg",
			"description": "Bright corner unit.",
			"taxHistory": "[{'time': 2023, 'taxPaid': 8500}, {'time': 2022, 'taxPaid': 8100}]",
			"priceHistory": [{"date": "2021-06-01", "price": 415000}],
			"nearbyCities": [{"name": "Hoboken"}, {"name": "Newark"}],
			"nearbyZipcodes": [{"name": "07030"}]
		}
	}`)

	prop, err := New("").NormalizeProperty(payload)
	if err != nil {
		t.Fatalf("NormalizeProperty returned error: %v", err)
	}

	if prop.ID != "2078133107" || prop.ZipCode != "07302" {
		t.Errorf("identifiers wrong: id=%q zip=%q", prop.ID, prop.ZipCode)
	}
	if prop.YearBuilt == nil || *prop.YearBuilt != 1997 {
		t.Errorf("YearBuilt = %v, want 1997", prop.YearBuilt)
	}

	if len(prop.TaxHistory) != 2 {
		t.Fatalf("TaxHistory length = %d, want 2 (repaired quasi-JSON)", len(prop.TaxHistory))
	}
	if prop.TaxHistory[0].Date != "2023" || *prop.TaxHistory[0].Value != 8500 {
		t.Errorf("TaxHistory[0] = %+v", prop.TaxHistory[0])
	}

	if len(prop.PriceHistory) != 1 || prop.PriceHistory[0].Date != "2021-06-01" {
		t.Errorf("PriceHistory = %+v", prop.PriceHistory)
	}

	if len(prop.NearbyCities) != 2 || prop.NearbyCities[0] != "Hoboken" {
		t.Errorf("NearbyCities = %v", prop.NearbyCities)
	}

	if prop.DetailPageURL != "https://www.zillow.com/homedetails/110-1st-St/2078133107_zpid/" {
		t.Errorf("DetailPageURL = %q", prop.DetailPageURL)
	}
}

func TestNormalizePropertyMalformedHistoryIsSoft(t *testing.T) {
	payload := []byte(`{
		"is_success": true,
		"data": {
			"zpid": 1,
			"taxHistory": "{{{ not repairable",
			"priceHistory": ""
		}
	}`)

	prop, err := New("").NormalizeProperty(payload)
	if err != nil {
		t.Fatalf("malformed history must not be fatal: %v", err)
	}
	if len(prop.TaxHistory) != 0 || len(prop.PriceHistory) != 0 {
		t.Errorf("histories should be empty, got tax=%v price=%v", prop.TaxHistory, prop.PriceHistory)
	}
}

func TestNormalizePropertyNoData(t *testing.T) {
	_, err := New("").NormalizeProperty([]byte(`{"is_success": false}`))
	if !IsNoData(err) {
		t.Errorf("want NoDataError, got %v", err)
	}

	_, err = New("").NormalizeProperty([]byte(`{"is_success": true}`))
	if !IsNoData(err) {
		t.Errorf("missing detail object: want NoDataError, got %v", err)
	}
}
