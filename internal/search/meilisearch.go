package search

import (
	"github.com/meilisearch/meilisearch-go"

	"real-estate-dashboard/internal/models"
)

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "listings",
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"street_address",
		"city",
		"state",
		"zip_code",
		"home_type",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"price",
		"bedrooms",
		"bathrooms",
		"home_type",
		"home_status",
		"zip_code",
		"city",
		"state",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"price",
		"rent_estimate",
		"price_to_rent_ratio",
		"days_on_market",
	})
	return err
}

// IndexListings indexes a normalized listing batch
func (s *SearchClient) IndexListings(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).AddDocuments(listings)
	return err
}

// SearchRequest represents advanced search parameters
type SearchRequest struct {
	Query                string
	Limit                int64
	Offset               int64
	Filter               []string
	Sort                 []string
	FacetsFilter         []string
	AttributesToRetrieve []string
}

// SearchResult represents search results with facets
type SearchResult struct {
	Hits           []models.Listing
	TotalHits      int64
	Facets         map[string]interface{}
	ProcessingTime int64
}

// Search searches for listings with basic options
func (s *SearchClient) Search(query string, limit int64) ([]models.Listing, error) {
	result, err := s.AdvancedSearch(SearchRequest{
		Query: query,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	return result.Hits, nil
}

// AdvancedSearch performs advanced search with facets and filters
func (s *SearchClient) AdvancedSearch(req SearchRequest) (*SearchResult, error) {
	if req.Limit == 0 {
		req.Limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	if len(req.Filter) > 0 {
		searchReq.Filter = CombineFilters(req.Filter)
	}
	if len(req.Sort) > 0 {
		searchReq.Sort = req.Sort
	}
	if len(req.FacetsFilter) > 0 {
		searchReq.Facets = req.FacetsFilter
	}
	if len(req.AttributesToRetrieve) > 0 {
		searchReq.AttributesToRetrieve = req.AttributesToRetrieve
	}

	searchRes, err := s.client.Index(s.index).Search(req.Query, searchReq)
	if err != nil {
		return nil, err
	}

	listings := make([]models.Listing, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		listings = append(listings, parseListingFromHit(hit))
	}

	var facets map[string]interface{}
	if searchRes.FacetDistribution != nil {
		facets, _ = searchRes.FacetDistribution.(map[string]interface{})
	}

	return &SearchResult{
		Hits:           listings,
		TotalHits:      searchRes.EstimatedTotalHits,
		Facets:         facets,
		ProcessingTime: searchRes.ProcessingTimeMs,
	}, nil
}

// parseListingFromHit converts a search hit to a Listing
func parseListingFromHit(hit interface{}) models.Listing {
	hitMap, ok := hit.(map[string]interface{})
	if !ok {
		return models.Listing{}
	}

	listing := models.Listing{
		ID:            getString(hitMap, "id"),
		ZipCode:       getString(hitMap, "zip_code"),
		ImageURL:      getString(hitMap, "image_url"),
		DetailURL:     getString(hitMap, "detail_url"),
		StreetAddress: getString(hitMap, "street_address"),
		StreetName:    getString(hitMap, "street_name"),
		City:          getString(hitMap, "city"),
		State:         getString(hitMap, "state"),
		Country:       getString(hitMap, "country"),
		OriginalPrice: getString(hitMap, "original_price"),
		Currency:      getString(hitMap, "currency"),
		HomeType:      getString(hitMap, "home_type"),
		HomeStatus:    getString(hitMap, "home_status"),
		LotAreaUnit:   getString(hitMap, "lot_area_unit"),
		DetailPageURL: getString(hitMap, "detail_page_url"),
	}

	listing.Latitude = getFloat(hitMap, "latitude")
	listing.Longitude = getFloat(hitMap, "longitude")
	listing.Price = getFloat(hitMap, "price")
	listing.Bathrooms = getFloat(hitMap, "bathrooms")
	listing.Bedrooms = getFloat(hitMap, "bedrooms")
	listing.LotAreaValue = getFloat(hitMap, "lot_area_value")
	listing.TaxAssessedValue = getFloat(hitMap, "tax_assessed_value")
	listing.RentEstimate = getFloat(hitMap, "rent_estimate")
	listing.ValueEstimate = getFloat(hitMap, "value_estimate")
	listing.LivingArea = getFloat(hitMap, "living_area")
	listing.PriceChange = getFloat(hitMap, "price_change")
	listing.PriceToRentRatio = getFloat(hitMap, "price_to_rent_ratio")

	if days, ok := hitMap["days_on_market"].(float64); ok {
		d := int(days)
		listing.DaysOnMarket = &d
	}
	if featured, ok := hitMap["is_featured"].(bool); ok {
		listing.IsFeatured = featured
	}
	if fsba, ok := hitMap["is_for_sale_by_agent"].(bool); ok {
		listing.IsFSBA = &fsba
	}

	return listing
}

func getString(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

func getFloat(m map[string]interface{}, key string) *float64 {
	if val, ok := m[key].(float64); ok {
		return &val
	}
	return nil
}

// GetFacets retrieves facet distribution for specified fields
func (s *SearchClient) GetFacets(facets []string) (map[string]interface{}, error) {
	searchRes, err := s.client.Index(s.index).Search("", &meilisearch.SearchRequest{
		Limit:  0,
		Facets: facets,
	})
	if err != nil {
		return nil, err
	}

	if searchRes.FacetDistribution != nil {
		if facetMap, ok := searchRes.FacetDistribution.(map[string]interface{}); ok {
			return facetMap, nil
		}
	}
	return map[string]interface{}{}, nil
}
