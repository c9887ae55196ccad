package locations

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"real-estate-dashboard/internal/archive"
)

// Country location files archived under the locations/ prefix.
const (
	FileUSCities     = "uscities_selected.csv"
	FileCanadaCities = "canadacities_selected.csv"
)

const (
	CountryUSA    = "usa"
	CountryCanada = "canada"
)

// City is one row of a country location file.
type City struct {
	Name       string  `json:"city"`
	RegionID   string  `json:"region_id"`
	RegionName string  `json:"region_name"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// Catalog serves city lookups for the supported countries, backed by
// CSV files in the archive store.
type Catalog struct {
	store *archive.Store
}

func NewCatalog(store *archive.Store) *Catalog {
	return &Catalog{store: store}
}

// Countries lists the supported country keys.
func (c *Catalog) Countries() []string {
	return []string{CountryUSA, CountryCanada}
}

// Regions returns the sorted distinct states or provinces of a country.
func (c *Catalog) Regions(country string) ([]string, error) {
	cities, err := c.load(country)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var regions []string
	for _, city := range cities {
		if city.RegionName != "" && !seen[city.RegionName] {
			seen[city.RegionName] = true
			regions = append(regions, city.RegionName)
		}
	}
	sort.Strings(regions)
	return regions, nil
}

// Cities returns the sorted city names within a state or province.
func (c *Catalog) Cities(country, region string) ([]string, error) {
	cities, err := c.load(country)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, city := range cities {
		if strings.EqualFold(city.RegionName, region) || strings.EqualFold(city.RegionID, region) {
			names = append(names, city.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Lookup finds a city by name, first match wins.
func (c *Catalog) Lookup(country, name string) (*City, error) {
	cities, err := c.load(country)
	if err != nil {
		return nil, err
	}

	for i := range cities {
		if strings.EqualFold(cities[i].Name, name) {
			return &cities[i], nil
		}
	}
	return nil, fmt.Errorf("locations: city %q not found in %s", name, country)
}

func (c *Catalog) load(country string) ([]City, error) {
	var file string
	switch strings.ToLower(country) {
	case CountryUSA, "us", "united states":
		file = FileUSCities
	case CountryCanada, "ca":
		file = FileCanadaCities
	default:
		return nil, fmt.Errorf("locations: unsupported country %q", country)
	}

	data, err := c.store.Download(archive.PrefixLocations, file)
	if err != nil {
		return nil, fmt.Errorf("locations: loading %s: %w", file, err)
	}
	return parseCities(data)
}

// parseCities reads a location CSV. The US file carries state_id and
// state_name columns, the Canada file province_id and province_name;
// either pair maps onto the region fields.
func parseCities(data []byte) ([]City, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("locations: empty file")
	}

	col := map[string]int{}
	for i, name := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	cell := func(row []string, names ...string) string {
		for _, name := range names {
			if i, ok := col[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}

	var cities []City
	for _, row := range rows[1:] {
		name := cell(row, "city")
		if name == "" {
			continue
		}
		lat, _ := strconv.ParseFloat(cell(row, "lat"), 64)
		lng, _ := strconv.ParseFloat(cell(row, "lng"), 64)
		cities = append(cities, City{
			Name:       name,
			RegionID:   cell(row, "state_id", "province_id"),
			RegionName: cell(row, "state_name", "province_name"),
			Lat:        lat,
			Lng:        lng,
		})
	}
	return cities, nil
}
