// Package archive serializes canonical datasets to flat CSV files and
// stores them under deterministic, date-addressed keys.
package archive

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"real-estate-dashboard/internal/models"
)

// EncodeListings serializes a canonical listing table to CSV with the fixed
// canonical header. Nil values become empty cells; identifier fields are
// emitted as-is so leading zeros survive.
func EncodeListings(rows []models.Listing) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(models.ListingColumns); err != nil {
		return nil, fmt.Errorf("archive: write header: %w", err)
	}

	for i, row := range rows {
		if err := w.Write(listingCells(row)); err != nil {
			return nil, fmt.Errorf("archive: write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("archive: flush: %w", err)
	}
	return buf.Bytes(), nil
}

func listingCells(l models.Listing) []string {
	return []string{
		l.ID,
		l.ImageURL,
		l.DetailURL,
		l.StreetAddress,
		l.StreetName,
		l.ZipCode,
		l.City,
		l.State,
		l.Country,
		floatCell(l.Latitude),
		floatCell(l.Longitude),
		floatCell(l.Price),
		l.OriginalPrice,
		floatCell(l.Bathrooms),
		floatCell(l.Bedrooms),
		l.HomeType,
		l.HomeStatus,
		intCell(l.DaysOnMarket),
		strconv.FormatBool(l.IsFeatured),
		boolCell(l.IsFSBA),
		floatCell(l.LotAreaValue),
		l.LotAreaUnit,
		l.Currency,
		floatCell(l.TaxAssessedValue),
		floatCell(l.RentEstimate),
		floatCell(l.ValueEstimate),
		floatCell(l.LivingArea),
		floatCell(l.PriceChange),
		floatCell(l.PriceToRentRatio),
		l.DetailPageURL,
	}
}

// DecodeListings parses a previously archived listing CSV back into
// canonical rows. The header row drives column lookup, so older archives
// with a narrower column set still load.
func DecodeListings(data []byte) ([]models.Listing, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("archive: parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("archive: csv has no header row")
	}

	idx := columnIndex(records[0])
	cell := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	rows := make([]models.Listing, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, models.Listing{
			ID:               cell(rec, "id"),
			ImageURL:         cell(rec, "image_url"),
			DetailURL:        cell(rec, "detail_url"),
			StreetAddress:    cell(rec, "street_address"),
			StreetName:       cell(rec, "street_name"),
			ZipCode:          cell(rec, "zip_code"),
			City:             cell(rec, "city"),
			State:            cell(rec, "state"),
			Country:          cell(rec, "country"),
			Latitude:         parseFloatCell(cell(rec, "latitude")),
			Longitude:        parseFloatCell(cell(rec, "longitude")),
			Price:            parseFloatCell(cell(rec, "price")),
			OriginalPrice:    cell(rec, "original_price"),
			Bathrooms:        parseFloatCell(cell(rec, "bathrooms")),
			Bedrooms:         parseFloatCell(cell(rec, "bedrooms")),
			HomeType:         cell(rec, "home_type"),
			HomeStatus:       cell(rec, "home_status"),
			DaysOnMarket:     parseIntCell(cell(rec, "days_on_market")),
			IsFeatured:       cell(rec, "is_featured") == "true",
			IsFSBA:           parseBoolCell(cell(rec, "is_for_sale_by_agent")),
			LotAreaValue:     parseFloatCell(cell(rec, "lot_area_value")),
			LotAreaUnit:      cell(rec, "lot_area_unit"),
			Currency:         cell(rec, "currency"),
			TaxAssessedValue: parseFloatCell(cell(rec, "tax_assessed_value")),
			RentEstimate:     parseFloatCell(cell(rec, "rent_estimate")),
			ValueEstimate:    parseFloatCell(cell(rec, "value_estimate")),
			LivingArea:       parseFloatCell(cell(rec, "living_area")),
			PriceChange:      parseFloatCell(cell(rec, "price_change")),
			PriceToRentRatio: parseFloatCell(cell(rec, "price_to_rent_ratio")),
			DetailPageURL:    cell(rec, "detail_page_url"),
		})
	}
	return rows, nil
}

// EncodeProperty serializes a canonical property row to a one-row CSV.
// History sequences and related-area sets are stored as strict-JSON cells.
func EncodeProperty(p *models.Property) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(models.PropertyColumns); err != nil {
		return nil, fmt.Errorf("archive: write header: %w", err)
	}

	row := []string{
		p.ID,
		p.StreetAddress,
		p.ZipCode,
		p.City,
		p.State,
		p.Country,
		floatCell(p.Latitude),
		floatCell(p.Longitude),
		floatCell(p.Price),
		p.OriginalPrice,
		floatCell(p.Bathrooms),
		floatCell(p.Bedrooms),
		floatCell(p.LivingArea),
		p.HomeType,
		p.HomeStatus,
		intCell(p.YearBuilt),
		p.Description,
		p.HighResImageURL,
		floatCell(p.LotAreaValue),
		p.LotAreaUnit,
		p.Currency,
		floatCell(p.TaxAssessedValue),
		floatCell(p.RentEstimate),
		floatCell(p.ValueEstimate),
		floatCell(p.PriceChange),
		floatCell(p.PriceToRentRatio),
		jsonCell(p.TaxHistory),
		jsonCell(p.PriceHistory),
		jsonCell(p.NearbyCities),
		jsonCell(p.NearbyNeighborhoods),
		jsonCell(p.NearbyZipcodes),
		p.ComparableProperties,
		p.DetailPageURL,
	}
	if err := w.Write(row); err != nil {
		return nil, fmt.Errorf("archive: write row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("archive: flush: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeProperty parses an archived property CSV back into a canonical row.
func DecodeProperty(data []byte) (*models.Property, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("archive: parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("archive: property csv has no data row")
	}

	idx := columnIndex(records[0])
	rec := records[1]
	cell := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	p := &models.Property{
		ID:                   cell("id"),
		StreetAddress:        cell("street_address"),
		ZipCode:              cell("zip_code"),
		City:                 cell("city"),
		State:                cell("state"),
		Country:              cell("country"),
		Latitude:             parseFloatCell(cell("latitude")),
		Longitude:            parseFloatCell(cell("longitude")),
		Price:                parseFloatCell(cell("price")),
		OriginalPrice:        cell("original_price"),
		Bathrooms:            parseFloatCell(cell("bathrooms")),
		Bedrooms:             parseFloatCell(cell("bedrooms")),
		LivingArea:           parseFloatCell(cell("living_area")),
		HomeType:             cell("home_type"),
		HomeStatus:           cell("home_status"),
		YearBuilt:            parseIntCell(cell("year_built")),
		Description:          cell("description"),
		HighResImageURL:      cell("high_res_image_url"),
		LotAreaValue:         parseFloatCell(cell("lot_area_value")),
		LotAreaUnit:          cell("lot_area_unit"),
		Currency:             cell("currency"),
		TaxAssessedValue:     parseFloatCell(cell("tax_assessed_value")),
		RentEstimate:         parseFloatCell(cell("rent_estimate")),
		ValueEstimate:        parseFloatCell(cell("value_estimate")),
		PriceChange:          parseFloatCell(cell("price_change")),
		PriceToRentRatio:     parseFloatCell(cell("price_to_rent_ratio")),
		ComparableProperties: cell("comparable_properties"),
		DetailPageURL:        cell("detail_page_url"),
	}

	p.TaxHistory = historyCell(cell("tax_history"))
	p.PriceHistory = historyCell(cell("price_history"))
	p.NearbyCities = stringListCell(cell("nearby_cities"))
	p.NearbyNeighborhoods = stringListCell(cell("nearby_neighborhoods"))
	p.NearbyZipcodes = stringListCell(cell("nearby_zipcodes"))

	return p, nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}

func floatCell(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func intCell(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func boolCell(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func jsonCell(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func parseFloatCell(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseIntCell(s string) *int {
	if s == "" {
		return nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &i
}

func parseBoolCell(s string) *bool {
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &b
}

func historyCell(s string) []models.HistoryEntry {
	entries := []models.HistoryEntry{}
	if s == "" {
		return entries
	}
	_ = json.Unmarshal([]byte(s), &entries)
	return entries
}

func stringListCell(s string) []string {
	list := []string{}
	if s == "" {
		return list
	}
	_ = json.Unmarshal([]byte(s), &list)
	return list
}
