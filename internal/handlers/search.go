package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"real-estate-dashboard/internal/analytics"
	"real-estate-dashboard/internal/archive"
	"real-estate-dashboard/internal/database"
	"real-estate-dashboard/internal/locations"
	"real-estate-dashboard/internal/models"
	"real-estate-dashboard/internal/normalize"
	"real-estate-dashboard/internal/provider"
	"real-estate-dashboard/internal/ratelimit"
	"real-estate-dashboard/internal/search"
)

// SearchHandler runs provider searches end to end: fetch, normalize,
// archive, record, index.
type SearchHandler struct {
	client     *provider.Client
	normalizer *normalize.Normalizer
	files      *archive.Store
	db         database.Store
	searcher   *search.SearchClient
	limiter    *ratelimit.QuotaLimiter
	catalog    *locations.Catalog
}

func NewSearchHandler(
	client *provider.Client,
	normalizer *normalize.Normalizer,
	files *archive.Store,
	db database.Store,
	searcher *search.SearchClient,
	limiter *ratelimit.QuotaLimiter,
	catalog *locations.Catalog,
) *SearchHandler {
	return &SearchHandler{
		client:     client,
		normalizer: normalizer,
		files:      files,
		db:         db,
		searcher:   searcher,
		limiter:    limiter,
		catalog:    catalog,
	}
}

// ListingSearchRequest selects a city to search. URL, when set, bypasses
// the location lookup and is passed to the provider as-is.
type ListingSearchRequest struct {
	Country     string `json:"country"`
	City        string `json:"city"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// RunListingSearch handles POST /api/search/listings
func (h *SearchHandler) RunListingSearch(c *gin.Context) {
	var req ListingSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	searchURL := req.URL
	if searchURL == "" {
		if req.Country == "" || req.City == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "country and city (or url) are required"})
			return
		}
		city, err := h.catalog.Lookup(req.Country, req.City)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		searchURL = provider.SearchURL(city.Name, city.RegionID, city.Lat, city.Lng)
	}

	if !h.limiter.AllowRequest() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "upstream request quota exceeded"})
		return
	}

	payload, err := h.client.Listings(c.Request.Context(), searchURL)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	table, err := h.normalizer.NormalizeListings(payload)
	if err != nil {
		h.normalizeError(c, err)
		return
	}

	now := time.Now()
	searchID := archive.NewSearchID()
	file := archive.ListingKey(now, searchID)

	csvData, err := archive.EncodeListings(table.Rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode dataset"})
		return
	}
	if err := h.files.Upload(archive.PrefixListings, file, csvData); err != nil {
		log.Printf("[api] archive upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to archive dataset"})
		return
	}

	description := req.Description
	if description == "" {
		description = req.City
	}
	rec := &models.SearchRecord{
		SearchID:    searchID,
		Description: description,
		File:        file,
		ResultCount: table.TotalResults,
	}
	if err := h.db.SaveListingSearch(rec); err != nil {
		log.Printf("[api] saving search record failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record search"})
		return
	}

	if h.searcher != nil {
		if err := h.searcher.IndexListings(table.Rows); err != nil {
			// Browsing still works from the archive; log and move on.
			log.Printf("[api] search indexing failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"search_id":     searchID,
		"file":          file,
		"rows":          len(table.Rows),
		"total_results": table.TotalResults,
		"report":        analytics.BuildListingReport(table.Rows),
	})
}

// PropertySearchRequest identifies a single property by external id or
// street address.
type PropertySearchRequest struct {
	PropertyID  string `json:"property_id"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// RunPropertySearch handles POST /api/search/property
func (h *SearchHandler) RunPropertySearch(c *gin.Context) {
	var req PropertySearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.PropertyID == "" && req.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "property_id or address is required"})
		return
	}

	if !h.limiter.AllowRequest() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "upstream request quota exceeded"})
		return
	}

	payload, err := h.client.Property(c.Request.Context(), req.PropertyID, req.Address)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	property, err := h.normalizer.NormalizeProperty(payload)
	if err != nil {
		h.normalizeError(c, err)
		return
	}

	now := time.Now()
	file := archive.PropertyKey(now, property.ID)

	csvData, err := archive.EncodeProperty(property)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode dataset"})
		return
	}
	if err := h.files.Upload(archive.PrefixProperties, file, csvData); err != nil {
		log.Printf("[api] archive upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to archive dataset"})
		return
	}

	description := req.Description
	if description == "" {
		description = property.StreetAddress
	}
	rec := &models.SearchRecord{
		SearchID:    archive.NewSearchID(),
		Description: description,
		File:        file,
		PropertyID:  property.ID,
		ResultCount: 1,
	}
	if err := h.db.SavePropertySearch(rec); err != nil {
		log.Printf("[api] saving search record failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record search"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"search_id": rec.SearchID,
		"file":      file,
		"property":  property,
		"report":    analytics.BuildPropertyReport(property),
	})
}

// upstreamError maps provider failures onto API status codes.
func (h *SearchHandler) upstreamError(c *gin.Context, err error) {
	if errors.Is(err, provider.ErrCircuitOpen) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "upstream temporarily paused after repeated failures"})
		return
	}
	log.Printf("[api] provider request failed: %v", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
}

// normalizeError distinguishes "provider answered but had no data" from
// real failures. A zero-row success never lands here.
func (h *SearchHandler) normalizeError(c *gin.Context, err error) {
	if normalize.IsNoData(err) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "no_data",
			"message": err.Error(),
		})
		return
	}
	log.Printf("[api] normalization failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to normalize dataset"})
}
