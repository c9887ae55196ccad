// Package normalize turns raw provider payloads into canonical tabular
// datasets with a stable schema.
package normalize

import (
	"bytes"
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"real-estate-dashboard/internal/models"
)

// DefaultOrigin is the absolute origin prepended to relative detail paths.
const DefaultOrigin = "https://www.zillow.com"

// rawListingFields is the source-key projection for listing searches, in
// canonical order. Keys already have the home-info prefix stripped.
var rawListingFields = []string{
	"zpid",
	"imgSrc",
	"detailUrl",
	"streetAddress",
	"streetName",
	"zipcode",
	"city",
	"state",
	"country",
	"latitude",
	"longitude",
	"price",
	"bathrooms",
	"bedrooms",
	"homeType",
	"homeStatus",
	"daysOnZillow",
	"isFeatured",
	"listing_sub_type.is_FSBA",
	"lotAreaValue",
	"lotAreaUnit",
	"currency",
	"taxAssessedValue",
	"rentZestimate",
	"zestimate",
	"livingArea",
	"priceChange",
	"homeDetailUrl",
}

// rawPropertyFields is the source-key projection for property detail
// payloads.
var rawPropertyFields = []string{
	"zpid",
	"streetAddress",
	"zipcode",
	"city",
	"state",
	"country",
	"latitude",
	"longitude",
	"price",
	"currency",
	"bedrooms",
	"bathrooms",
	"livingArea",
	"yearBuilt",
	"homeType",
	"homeStatus",
	"zestimate",
	"rentZestimate",
	"taxAssessedValue",
	"priceChange",
	"lotAreaValue",
	"lotAreaUnits",
	"hdpUrl",
	"hiResImageLink",
	"description",
	"taxHistory",
	"priceHistory",
	"nearbyCities",
	"nearbyNeighborhoods",
	"nearbyZipcodes",
	"comps",
}

// ListingTable is the canonical output of a listing search: the normalized
// rows plus the provider-reported total match count. Rows may legitimately
// be empty while TotalResults is zero — that is "zero matches", not a
// failed request.
type ListingTable struct {
	Rows         []models.Listing
	TotalResults int
}

// Normalizer converts raw search payloads into canonical rows. The site
// origin is injected at construction; the core never reads ambient state.
type Normalizer struct {
	origin string
}

// New creates a Normalizer that absolutizes detail paths against origin.
func New(origin string) *Normalizer {
	if origin == "" {
		origin = DefaultOrigin
	}
	return &Normalizer{origin: strings.TrimSuffix(origin, "/")}
}

// NormalizeListings runs the full pipeline over a raw search payload:
// flatten, project, derive, clean, filter ranged rows, and reorder onto the
// canonical schema. Per-value failures degrade to nil and never abort the
// batch; a missing results section is fatal for the request and surfaces as
// a *NoDataError.
func (n *Normalizer) NormalizeListings(payload []byte) (*ListingTable, error) {
	root, err := decodePayload(payload)
	if err != nil {
		return nil, &NoDataError{Reason: "payload is not valid JSON: " + err.Error()}
	}
	if !isSuccess(root) {
		return nil, &NoDataError{Reason: "provider reported an unsuccessful request"}
	}

	rawResults, ok := dig(root, "data", "cat1", "searchResults", "mapResults").([]any)
	if !ok {
		return nil, &NoDataError{Reason: "search results array is absent from the payload"}
	}

	records := make([]Record, 0, len(rawResults))
	for _, item := range rawResults {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, StripHomeInfoPrefix(Flatten(obj)))
	}

	projected, _ := Project(records, rawListingFields)

	rows := make([]models.Listing, 0, len(projected))
	ranged := 0
	for _, rec := range projected {
		// Ranged listings ("From $450,000") cannot be meaningfully
		// priced; the whole row is dropped, not nulled.
		if s, ok := rec["price"].(string); ok && strings.Contains(s, "From") {
			ranged++
			continue
		}
		rows = append(rows, n.buildListing(rec))
	}

	total := len(rows)
	if c := asInt(dig(root, "data", "categoryTotals", "cat1", "totalResultCount")); c != nil {
		total = *c
	}

	log.Printf("[normalize] listings: %d raw records -> %d rows (%d ranged dropped, %d total matches)",
		len(rawResults), len(rows), ranged, total)

	return &ListingTable{Rows: rows, TotalResults: total}, nil
}

func (n *Normalizer) buildListing(rec Record) models.Listing {
	price := CleanPrice(rec["price"])
	priceChange := asFloat(rec["priceChange"])
	rent := asFloat(rec["rentZestimate"])

	streetAddress := asText(rec["streetAddress"])

	return models.Listing{
		ID:            CanonicalID(rec["zpid"]),
		ZipCode:       CanonicalID(rec["zipcode"]),
		ImageURL:      asText(rec["imgSrc"]),
		DetailURL:     asText(rec["detailUrl"]),
		StreetAddress: streetAddress,
		// street_name is a straight copy of the address today; the raw
		// streetName column is not trusted across API versions.
		StreetName: streetAddress,
		City:       asText(rec["city"]),
		State:      asText(rec["state"]),
		Country:    asText(rec["country"]),
		Latitude:   asFloat(rec["latitude"]),
		Longitude:  asFloat(rec["longitude"]),

		Price:         price,
		OriginalPrice: asText(rec["price"]),
		Currency:      asText(rec["currency"]),

		Bathrooms: asFloat(rec["bathrooms"]),
		Bedrooms:  asFloat(rec["bedrooms"]),

		HomeType:   asText(rec["homeType"]),
		HomeStatus: asText(rec["homeStatus"]),

		DaysOnMarket: asInt(rec["daysOnZillow"]),
		IsFeatured:   boolOr(rec["isFeatured"], false),
		IsFSBA:       asBool(rec["listing_sub_type.is_FSBA"]),

		LotAreaValue: asFloat(rec["lotAreaValue"]),
		LotAreaUnit:  asText(rec["lotAreaUnit"]),

		TaxAssessedValue: asFloat(rec["taxAssessedValue"]),
		RentEstimate:     rent,
		ValueEstimate:    asFloat(rec["zestimate"]),
		LivingArea:       asFloat(rec["livingArea"]),
		PriceChange:      priceChange,

		PriceToRentRatio: PriceToRentRatio(price, priceChange, rent),

		DetailPageURL: n.absolutize(asText(rec["homeDetailUrl"])),
	}
}

// NormalizeProperty converts a raw property detail payload into one
// canonical property row. Embedded history strings are repaired and parsed;
// an unparsable history degrades to an empty sequence with a soft warning.
func (n *Normalizer) NormalizeProperty(payload []byte) (*models.Property, error) {
	root, err := decodePayload(payload)
	if err != nil {
		return nil, &NoDataError{Reason: "payload is not valid JSON: " + err.Error()}
	}
	if !isSuccess(root) {
		return nil, &NoDataError{Reason: "provider reported an unsuccessful request"}
	}

	data, ok := root["data"].(map[string]any)
	if !ok || len(data) == 0 {
		return nil, &NoDataError{Reason: "property detail object is absent from the payload"}
	}

	records, _ := Project([]Record{StripHomeInfoPrefix(Flatten(data))}, rawPropertyFields)
	rec := records[0]

	price := CleanPrice(rec["price"])
	priceChange := asFloat(rec["priceChange"])
	rent := asFloat(rec["rentZestimate"])

	prop := &models.Property{
		ID:            CanonicalID(rec["zpid"]),
		ZipCode:       CanonicalID(rec["zipcode"]),
		StreetAddress: asText(rec["streetAddress"]),
		City:          asText(rec["city"]),
		State:         asText(rec["state"]),
		Country:       asText(rec["country"]),
		Latitude:      asFloat(rec["latitude"]),
		Longitude:     asFloat(rec["longitude"]),

		Price:         price,
		OriginalPrice: asText(rec["price"]),
		Currency:      asText(rec["currency"]),

		Bathrooms:  asFloat(rec["bathrooms"]),
		Bedrooms:   asFloat(rec["bedrooms"]),
		LivingArea: asFloat(rec["livingArea"]),

		HomeType:   asText(rec["homeType"]),
		HomeStatus: asText(rec["homeStatus"]),

		YearBuilt:   asInt(rec["yearBuilt"]),
		Description: asText(rec["description"]),

		HighResImageURL: asText(rec["hiResImageLink"]),
		DetailPageURL:   n.absolutize(asText(rec["hdpUrl"])),

		LotAreaValue: asFloat(rec["lotAreaValue"]),
		LotAreaUnit:  asText(rec["lotAreaUnits"]),

		TaxAssessedValue: asFloat(rec["taxAssessedValue"]),
		RentEstimate:     rent,
		ValueEstimate:    asFloat(rec["zestimate"]),
		PriceChange:      priceChange,
		PriceToRentRatio: PriceToRentRatio(price, priceChange, rent),

		TaxHistory:   parseHistory("taxHistory", rec["taxHistory"], "time", "taxPaid"),
		PriceHistory: parseHistory("priceHistory", rec["priceHistory"], "date", "price"),

		NearbyCities:        nameList(rec["nearbyCities"]),
		NearbyNeighborhoods: nameList(rec["nearbyNeighborhoods"]),
		NearbyZipcodes:      nameList(rec["nearbyZipcodes"]),

		ComparableProperties: repairedJSONText(rec["comps"]),
	}

	return prop, nil
}

func (n *Normalizer) absolutize(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "/") {
		return n.origin + path
	}
	return path
}

// parseHistory repairs and parses an embedded history field into ordered
// entries. The field arrives either as a nested array (fresh payloads) or
// as a quasi-JSON string (archived ones).
func parseHistory(field string, raw any, dateKey, valueKey string) []models.HistoryEntry {
	items, ok := raw.([]any)
	if !ok {
		s, isStr := raw.(string)
		if !isStr || strings.TrimSpace(s) == "" {
			return []models.HistoryEntry{}
		}
		if err := json.Unmarshal([]byte(RepairQuasiJSON(s)), &items); err != nil {
			log.Printf("[normalize] warning: %s could not be repaired into JSON: %v", field, err)
			return []models.HistoryEntry{}
		}
	}

	entries := make([]models.HistoryEntry, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entries = append(entries, models.HistoryEntry{
			Date:  CanonicalID(obj[dateKey]),
			Value: asFloat(obj[valueKey]),
		})
	}
	return entries
}

// nameList extracts area names out of a related-areas field: either a list
// of {name: ...} objects or a list of plain strings.
func nameList(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return []string{}
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			names = append(names, v)
		case map[string]any:
			if name, ok := v["name"].(string); ok {
				names = append(names, name)
			}
		}
	}
	return names
}

// repairedJSONText keeps a structured field as strict-JSON text.
func repairedJSONText(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return RepairQuasiJSON(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func decodePayload(payload []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	return root, nil
}

func isSuccess(root map[string]any) bool {
	ok, _ := root["is_success"].(bool)
	return ok
}

// dig walks a nested map by key path, returning nil when any level is
// missing.
func dig(m map[string]any, path ...string) any {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[key]
	}
	return cur
}

// asText renders a raw value as display text; nil becomes "".
func asText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func asFloat(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return &f
		}
	case int:
		f := float64(t)
		return &f
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return &f
		}
	}
	return nil
}

func asInt(v any) *int {
	f := asFloat(v)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

func asBool(v any) *bool {
	switch t := v.(type) {
	case bool:
		return &t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return &b
		}
	}
	return nil
}

func boolOr(v any, fallback bool) bool {
	if b := asBool(v); b != nil {
		return *b
	}
	return fallback
}
