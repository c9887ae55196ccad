package provider

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// mapBoundsDelta is the half-width of the search viewport in degrees.
// Roughly a city-sized box at mid US latitudes.
const mapBoundsDelta = 0.25

type searchQueryState struct {
	UsersSearchTerm string    `json:"usersSearchTerm"`
	MapBounds       mapBounds `json:"mapBounds"`
	IsMapVisible    bool      `json:"isMapVisible"`
	IsListVisible   bool      `json:"isListVisible"`
}

type mapBounds struct {
	West  float64 `json:"west"`
	East  float64 `json:"east"`
	South float64 `json:"south"`
	North float64 `json:"north"`
}

// SearchURL builds the Zillow for-sale search URL the listing scraper
// consumes, centered on a city. regionID is the state or province code
// (e.g. "NJ", "BC").
func SearchURL(city, regionID string, lat, lng float64) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(city), " ", "-"))
	region := strings.ToLower(strings.TrimSpace(regionID))

	state := searchQueryState{
		UsersSearchTerm: fmt.Sprintf("%s, %s", city, strings.ToUpper(regionID)),
		MapBounds: mapBounds{
			West:  lng - mapBoundsDelta,
			East:  lng + mapBoundsDelta,
			South: lat - mapBoundsDelta,
			North: lat + mapBoundsDelta,
		},
		IsMapVisible:  true,
		IsListVisible: true,
	}

	// Marshal of a plain struct cannot fail.
	encoded, _ := json.Marshal(state)

	return fmt.Sprintf("https://www.zillow.com/%s-%s/?searchQueryState=%s",
		slug, region, url.QueryEscape(string(encoded)))
}
