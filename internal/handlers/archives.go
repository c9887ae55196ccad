package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"real-estate-dashboard/internal/analytics"
	"real-estate-dashboard/internal/archive"
	"real-estate-dashboard/internal/database"
	"real-estate-dashboard/internal/locations"
	"real-estate-dashboard/internal/models"
	"real-estate-dashboard/internal/search"
)

// ArchiveHandler serves the archived datasets and their reports.
type ArchiveHandler struct {
	files    *archive.Store
	db       database.Store
	searcher *search.SearchClient
	catalog  *locations.Catalog
}

func NewArchiveHandler(files *archive.Store, db database.Store, searcher *search.SearchClient, catalog *locations.Catalog) *ArchiveHandler {
	return &ArchiveHandler{files: files, db: db, searcher: searcher, catalog: catalog}
}

// ListArchives handles GET /api/archives?kind=listings|property
func (h *ArchiveHandler) ListArchives(c *gin.Context) {
	kind := models.SearchKind(c.Query("kind"))
	if kind != "" && kind != models.SearchKindListings && kind != models.SearchKindProperty {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be listings or property"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.db.ListRecords(kind, limit)
	if err != nil {
		log.Printf("[api] listing archives failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list archives"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"archives": records,
		"count":    len(records),
	})
}

// GetArchive handles GET /api/archives/:file
func (h *ArchiveHandler) GetArchive(c *gin.Context) {
	file := c.Param("file")

	rec, err := h.db.FindByFile(file)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "archive not found"})
		return
	}

	switch rec.Kind {
	case models.SearchKindProperty:
		property, err := h.loadProperty(file)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "archived file missing or unreadable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"record": rec, "property": property})
	default:
		rows, err := h.loadListings(file)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "archived file missing or unreadable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"record": rec, "listings": rows, "count": len(rows)})
	}
}

// GetArchiveAnalytics handles GET /api/archives/:file/analytics
func (h *ArchiveHandler) GetArchiveAnalytics(c *gin.Context) {
	file := c.Param("file")

	rec, err := h.db.FindByFile(file)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "archive not found"})
		return
	}

	switch rec.Kind {
	case models.SearchKindProperty:
		property, err := h.loadProperty(file)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "archived file missing or unreadable"})
			return
		}
		c.JSON(http.StatusOK, analytics.BuildPropertyReport(property))
	default:
		rows, err := h.loadListings(file)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "archived file missing or unreadable"})
			return
		}
		c.JSON(http.StatusOK, analytics.BuildListingReport(rows))
	}
}

func (h *ArchiveHandler) loadListings(file string) ([]models.Listing, error) {
	data, err := h.files.Download(archive.PrefixListings, file)
	if err != nil {
		return nil, err
	}
	return archive.DecodeListings(data)
}

func (h *ArchiveHandler) loadProperty(file string) (*models.Property, error) {
	data, err := h.files.Download(archive.PrefixProperties, file)
	if err != nil {
		return nil, err
	}
	return archive.DecodeProperty(data)
}

// SearchListings handles GET /api/listings/search
func (h *ArchiveHandler) SearchListings(c *gin.Context) {
	if h.searcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search engine not configured"})
		return
	}

	filter := search.ListingFilter{
		HomeType:   c.Query("home_type"),
		HomeStatus: c.Query("home_status"),
		City:       c.Query("city"),
		State:      c.Query("state"),
		ZipCode:    c.Query("zip_code"),
	}
	if v := c.Query("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := c.Query("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}
	if v := c.Query("min_bedrooms"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinBedrooms = &f
		}
	}
	if v := c.Query("min_bathrooms"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinBathrooms = &f
		}
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)

	var sort []string
	if v := c.Query("sort"); v != "" {
		sort = []string{v}
	}

	result, err := h.searcher.AdvancedSearch(search.SearchRequest{
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
		Filter: filter.BuildFilters(),
		Sort:   sort,
	})
	if err != nil {
		log.Printf("[api] listing search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings":           result.Hits,
		"total":              result.TotalHits,
		"processing_time_ms": result.ProcessingTime,
	})
}

// GetCountries handles GET /api/locations/countries
func (h *ArchiveHandler) GetCountries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"countries": h.catalog.Countries()})
}

// GetRegions handles GET /api/locations/:country/regions
func (h *ArchiveHandler) GetRegions(c *gin.Context) {
	regions, err := h.catalog.Regions(c.Param("country"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"regions": regions})
}

// GetCities handles GET /api/locations/:country/regions/:region/cities
func (h *ArchiveHandler) GetCities(c *gin.Context) {
	cities, err := h.catalog.Cities(c.Param("country"), c.Param("region"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities})
}
