package search

import (
	"fmt"
	"strconv"
	"strings"
)

// ListingFilter holds the browse filters the API accepts. Zero values
// mean "not filtered".
type ListingFilter struct {
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *float64
	MinBathrooms *float64
	HomeType     string
	HomeStatus   string
	City         string
	State        string
	ZipCode      string
}

// BuildFilters converts the filter into Meilisearch filter expressions.
func (f ListingFilter) BuildFilters() []string {
	var filters []string

	if f.MinPrice != nil {
		filters = append(filters, fmt.Sprintf("price >= %s", formatNumber(*f.MinPrice)))
	}
	if f.MaxPrice != nil {
		filters = append(filters, fmt.Sprintf("price <= %s", formatNumber(*f.MaxPrice)))
	}
	if f.MinBedrooms != nil {
		filters = append(filters, fmt.Sprintf("bedrooms >= %s", formatNumber(*f.MinBedrooms)))
	}
	if f.MinBathrooms != nil {
		filters = append(filters, fmt.Sprintf("bathrooms >= %s", formatNumber(*f.MinBathrooms)))
	}
	if f.HomeType != "" {
		filters = append(filters, fmt.Sprintf("home_type = %q", f.HomeType))
	}
	if f.HomeStatus != "" {
		filters = append(filters, fmt.Sprintf("home_status = %q", f.HomeStatus))
	}
	if f.City != "" {
		filters = append(filters, fmt.Sprintf("city = %q", f.City))
	}
	if f.State != "" {
		filters = append(filters, fmt.Sprintf("state = %q", f.State))
	}
	if f.ZipCode != "" {
		filters = append(filters, fmt.Sprintf("zip_code = %q", f.ZipCode))
	}

	return filters
}

// CombineFilters joins filter expressions with AND.
func CombineFilters(filters []string) string {
	return strings.Join(filters, " AND ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
