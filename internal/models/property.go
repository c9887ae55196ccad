package models

// HistoryEntry is one point of an embedded tax or price history sequence.
// The provider ships these as quasi-JSON strings; the normalizer repairs
// and parses them into ordered entries.
type HistoryEntry struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// Property describes a single property's full detail payload in canonical
// form. It is a superset of the listing fields plus detail-only data.
type Property struct {
	ID      string `json:"id"`
	ZipCode string `json:"zip_code"`

	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Country       string `json:"country"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Price         *float64 `json:"price"`
	OriginalPrice string   `json:"original_price"`
	Currency      string   `json:"currency"`

	Bathrooms  *float64 `json:"bathrooms"`
	Bedrooms   *float64 `json:"bedrooms"`
	LivingArea *float64 `json:"living_area"`

	HomeType   string `json:"home_type"`
	HomeStatus string `json:"home_status"`

	YearBuilt   *int   `json:"year_built"`
	Description string `json:"description"`

	HighResImageURL string `json:"high_res_image_url"`
	DetailPageURL   string `json:"detail_page_url"`

	LotAreaValue *float64 `json:"lot_area_value"`
	LotAreaUnit  string   `json:"lot_area_unit"`

	TaxAssessedValue *float64 `json:"tax_assessed_value"`
	RentEstimate     *float64 `json:"rent_estimate"`
	ValueEstimate    *float64 `json:"value_estimate"`
	PriceChange      *float64 `json:"price_change"`
	PriceToRentRatio *float64 `json:"price_to_rent_ratio"`

	TaxHistory   []HistoryEntry `json:"tax_history"`
	PriceHistory []HistoryEntry `json:"price_history"`

	NearbyCities        []string `json:"nearby_cities"`
	NearbyNeighborhoods []string `json:"nearby_neighborhoods"`
	NearbyZipcodes      []string `json:"nearby_zipcodes"`

	// ComparableProperties keeps the provider's comps payload as repaired
	// JSON text; the dashboard renders it as-is.
	ComparableProperties string `json:"comparable_properties"`
}

// PropertyColumns is the canonical column order for serialized property
// rows.
var PropertyColumns = []string{
	"id",
	"street_address",
	"zip_code",
	"city",
	"state",
	"country",
	"latitude",
	"longitude",
	"price",
	"original_price",
	"bathrooms",
	"bedrooms",
	"living_area",
	"home_type",
	"home_status",
	"year_built",
	"description",
	"high_res_image_url",
	"lot_area_value",
	"lot_area_unit",
	"currency",
	"tax_assessed_value",
	"rent_estimate",
	"value_estimate",
	"price_change",
	"price_to_rent_ratio",
	"tax_history",
	"price_history",
	"nearby_cities",
	"nearby_neighborhoods",
	"nearby_zipcodes",
	"comparable_properties",
	"detail_page_url",
}
