package models

import "time"

// SearchKind distinguishes archived listing searches from property detail
// lookups.
type SearchKind string

const (
	SearchKindListings SearchKind = "listings"
	SearchKindProperty SearchKind = "property"
)

// SearchRecord is the document-store entry written for every successful
// search. It carries the archive key of the CSV the normalizer produced,
// plus a TTL so stale searches can be purged.
type SearchRecord struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	SearchID    string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"search_id"`
	Kind        SearchKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	Description string     `gorm:"type:text" json:"description,omitempty"`

	// File is the archive key of the canonical CSV (e.g.
	// "2026-08-31-a1b2c3.csv"). Property lookups upsert on this key so a
	// re-run of the same property on the same day replaces the record.
	File string `gorm:"type:varchar(255);not null;index" json:"file"`

	// PropertyID is set for property lookups only (the external zpid).
	PropertyID string `gorm:"type:varchar(32);index" json:"property_id,omitempty"`

	// ResultCount is the provider-reported number of matching properties.
	ResultCount int `gorm:"not null;default:0" json:"result_count"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	ExpireAt  time.Time `gorm:"not null;index" json:"expire_at"`
}

// TableName specifies the table name
func (SearchRecord) TableName() string {
	return "search_records"
}

// Expired reports whether the record's retention window has passed.
func (r *SearchRecord) Expired(now time.Time) bool {
	return now.After(r.ExpireAt)
}
