package models

// Listing is one row of the canonical listing dataset produced by the
// normalizer. Every field is always present after normalization; missing
// source data becomes a nil pointer (serialized as an empty CSV cell),
// never an absent column.
type Listing struct {
	// Identifier fields are always text so leading zeros survive
	// serialization (zpid "02078", zipcode "00830").
	ID      string `json:"id"`
	ZipCode string `json:"zip_code"`

	ImageURL      string `json:"image_url"`
	DetailURL     string `json:"detail_url"`
	StreetAddress string `json:"street_address"`
	StreetName    string `json:"street_name"`
	City          string `json:"city"`
	State         string `json:"state"`
	Country       string `json:"country"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// Price is the cleaned numeric price; OriginalPrice keeps the raw
	// string exactly as the provider sent it, for audit.
	Price         *float64 `json:"price"`
	OriginalPrice string   `json:"original_price"`
	Currency      string   `json:"currency"`

	Bathrooms *float64 `json:"bathrooms"`
	Bedrooms  *float64 `json:"bedrooms"`

	HomeType   string `json:"home_type"`
	HomeStatus string `json:"home_status"`

	DaysOnMarket *int  `json:"days_on_market"`
	IsFeatured   bool  `json:"is_featured"`
	IsFSBA       *bool `json:"is_for_sale_by_agent"`

	LotAreaValue *float64 `json:"lot_area_value"`
	LotAreaUnit  string   `json:"lot_area_unit"`

	TaxAssessedValue *float64 `json:"tax_assessed_value"`
	RentEstimate     *float64 `json:"rent_estimate"`
	ValueEstimate    *float64 `json:"value_estimate"`
	LivingArea       *float64 `json:"living_area"`
	PriceChange      *float64 `json:"price_change"`

	PriceToRentRatio *float64 `json:"price_to_rent_ratio"`

	// DetailPageURL is the absolute detail page URL (site origin plus the
	// relative path the provider returns).
	DetailPageURL string `json:"detail_page_url"`
}

// ListingColumns is the canonical column order for serialized listing
// tables. The CSV header, the column projector and the analytics layer all
// share this order.
var ListingColumns = []string{
	"id",
	"image_url",
	"detail_url",
	"street_address",
	"street_name",
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
	"home_type",
	"home_status",
	"days_on_market",
	"is_featured",
	"is_for_sale_by_agent",
	"lot_area_value",
	"lot_area_unit",
	"currency",
	"tax_assessed_value",
	"rent_estimate",
	"value_estimate",
	"living_area",
	"price_change",
	"price_to_rent_ratio",
	"detail_page_url",
}
