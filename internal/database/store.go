package database

import (
	"time"

	"real-estate-dashboard/internal/models"
)

// Store is the document-store contract for search metadata. Two backends
// implement it: GORM/MySQL (primary) and plain PostgreSQL (fallback).
type Store interface {
	// SaveListingSearch always inserts: every listing search is a new
	// document with a freshly generated search id.
	SaveListingSearch(rec *models.SearchRecord) error

	// SavePropertySearch upserts by archive file name: re-running the
	// same property on the same day replaces the existing record.
	SavePropertySearch(rec *models.SearchRecord) error

	ListRecords(kind models.SearchKind, limit int) ([]models.SearchRecord, error)
	FindByFile(file string) (*models.SearchRecord, error)

	// FindExpired returns records whose TTL has passed; the cleanup
	// service purges them together with their archive files.
	FindExpired(now time.Time) ([]models.SearchRecord, error)
	DeleteRecord(id uint) error
	LogDeletion(entry *models.DeleteLog) error

	Close() error
}
