// Package analytics computes summary reports over archived datasets:
// headline metrics, distribution stats for charts, and map points.
package analytics

import (
	"math"
	"sort"

	"real-estate-dashboard/internal/models"
)

// BoxStats are the five-number summary backing a box chart.
type BoxStats struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// HistogramBucket is one bar of a value distribution.
type HistogramBucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// MapPoint locates one listing on the dashboard map.
type MapPoint struct {
	ID        string   `json:"id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Price     *float64 `json:"price"`
}

// ListingReport summarizes a normalized listing batch. Averages are nil
// when no row carries the field.
type ListingReport struct {
	Total            int               `json:"total"`
	AvgPrice         *float64          `json:"avg_price"`
	AvgValueEstimate *float64          `json:"avg_value_estimate"`
	AvgRentEstimate  *float64          `json:"avg_rent_estimate"`
	PriceBox         *BoxStats         `json:"price_box"`
	RatioBox         *BoxStats         `json:"price_to_rent_ratio_box"`
	ValueHistogram   []HistogramBucket `json:"value_histogram"`
	RentHistogram    []HistogramBucket `json:"rent_histogram"`
	MapPoints        []MapPoint        `json:"map_points"`
}

const histogramBuckets = 10

// BuildListingReport computes the dashboard report for a listing batch.
// Rows without a price are excluded from the count and the price stats,
// matching how the dashboard has always reported totals.
func BuildListingReport(listings []models.Listing) *ListingReport {
	var priced []models.Listing
	for _, l := range listings {
		if l.Price != nil {
			priced = append(priced, l)
		}
	}

	report := &ListingReport{Total: len(priced)}

	report.AvgPrice = mean(collect(priced, func(l models.Listing) *float64 { return l.Price }))
	values := collect(listings, func(l models.Listing) *float64 { return l.ValueEstimate })
	rents := collect(listings, func(l models.Listing) *float64 { return l.RentEstimate })
	report.AvgValueEstimate = mean(values)
	report.AvgRentEstimate = mean(rents)

	report.PriceBox = box(collect(priced, func(l models.Listing) *float64 { return l.Price }))
	report.RatioBox = box(collect(listings, func(l models.Listing) *float64 { return l.PriceToRentRatio }))
	report.ValueHistogram = histogram(values, histogramBuckets)
	report.RentHistogram = histogram(rents, histogramBuckets)

	for _, l := range listings {
		if l.Latitude == nil || l.Longitude == nil {
			continue
		}
		report.MapPoints = append(report.MapPoints, MapPoint{
			ID:        l.ID,
			Latitude:  *l.Latitude,
			Longitude: *l.Longitude,
			Price:     l.Price,
		})
	}

	return report
}

// PropertyReport summarizes a single archived property.
type PropertyReport struct {
	Address       string   `json:"street_address"`
	ValueEstimate *float64 `json:"value_estimate"`
	RentEstimate  *float64 `json:"rent_estimate"`

	// PriceToBookRatio is value over a year of estimated rent.
	PriceToBookRatio *float64 `json:"price_to_book_ratio"`
	PricePerSqft     *float64 `json:"price_per_sqft"`

	TaxHistory   []models.HistoryEntry `json:"tax_history"`
	PriceHistory []models.HistoryEntry `json:"price_history"`
}

// BuildPropertyReport computes the detail-page report. Ratios degrade
// to nil instead of dividing by zero.
func BuildPropertyReport(p *models.Property) *PropertyReport {
	report := &PropertyReport{
		Address:       p.StreetAddress,
		ValueEstimate: p.ValueEstimate,
		RentEstimate:  p.RentEstimate,
		TaxHistory:    p.TaxHistory,
		PriceHistory:  p.PriceHistory,
	}

	if p.ValueEstimate != nil && p.RentEstimate != nil && *p.RentEstimate != 0 {
		annualRent := *p.RentEstimate * 12
		ratio := *p.ValueEstimate / annualRent
		if !math.IsInf(ratio, 0) && !math.IsNaN(ratio) {
			report.PriceToBookRatio = &ratio
		}
	}

	if p.ValueEstimate != nil && p.LivingArea != nil && *p.LivingArea != 0 {
		ppsf := *p.ValueEstimate / *p.LivingArea
		if !math.IsInf(ppsf, 0) && !math.IsNaN(ppsf) {
			report.PricePerSqft = &ppsf
		}
	}

	return report
}

func collect(listings []models.Listing, pick func(models.Listing) *float64) []float64 {
	var out []float64
	for _, l := range listings {
		if v := pick(l); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}

func box(values []float64) *BoxStats {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return &BoxStats{
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
		Count:  len(sorted),
	}
}

// quantile linearly interpolates over a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func histogram(values []float64, buckets int) []HistogramBucket {
	if len(values) == 0 || buckets <= 0 {
		return nil
	}

	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	if minV == maxV {
		return []HistogramBucket{{Low: minV, High: maxV, Count: len(values)}}
	}

	width := (maxV - minV) / float64(buckets)
	out := make([]HistogramBucket, buckets)
	for i := range out {
		out[i].Low = minV + float64(i)*width
		out[i].High = out[i].Low + width
	}
	for _, v := range values {
		idx := int((v - minV) / width)
		if idx >= buckets {
			idx = buckets - 1
		}
		out[idx].Count++
	}
	return out
}
