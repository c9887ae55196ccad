// Package cleanup purges archived searches past their TTL: the CSV in
// the archive store and the metadata record both go, with an audit log
// entry per deletion.
package cleanup

import (
	"fmt"
	"log"
	"time"

	"real-estate-dashboard/internal/archive"
	"real-estate-dashboard/internal/database"
	"real-estate-dashboard/internal/models"
)

type Service struct {
	db    database.Store
	files *archive.Store
	now   func() time.Time
}

func NewService(db database.Store, files *archive.Store) *Service {
	return &Service{db: db, files: files, now: time.Now}
}

// Config holds configuration for cleanup operations
type Config struct {
	MaxDeletionCount int  // Maximum number of records to delete in one run (safety limit)
	DryRun           bool // If true, only log what would be deleted without actually deleting
}

func DefaultConfig() Config {
	return Config{
		MaxDeletionCount: 1000,
		DryRun:           false,
	}
}

// Result holds the result of a cleanup operation
type Result struct {
	TargetCount  int       `json:"target_count"`
	DeletedCount int       `json:"deleted_count"`
	ErrorCount   int       `json:"error_count"`
	DryRun       bool      `json:"dry_run"`
	ExecutedAt   time.Time `json:"executed_at"`
	DeletedFiles []string  `json:"deleted_files"`
	Errors       []string  `json:"errors,omitempty"`
}

// Run deletes every search record whose TTL has passed, along with its
// archived CSV. Aborts before touching anything if the target count
// exceeds the safety limit.
func (s *Service) Run(config Config) (*Result, error) {
	result := &Result{
		DryRun:     config.DryRun,
		ExecutedAt: s.now(),
	}

	expired, err := s.db.FindExpired(result.ExecutedAt)
	if err != nil {
		return nil, fmt.Errorf("cleanup: finding expired records: %w", err)
	}

	result.TargetCount = len(expired)
	if result.TargetCount == 0 {
		log.Println("[cleanup] no expired searches found")
		return result, nil
	}

	if config.MaxDeletionCount > 0 && result.TargetCount > config.MaxDeletionCount {
		return nil, fmt.Errorf("cleanup: safety check failed: %d expired records exceed max deletion limit of %d",
			result.TargetCount, config.MaxDeletionCount)
	}

	log.Printf("[cleanup] starting: %d expired searches (dry-run: %v)", result.TargetCount, config.DryRun)

	for _, rec := range expired {
		if config.DryRun {
			log.Printf("[cleanup] dry-run: would delete %s (kind: %s, expired: %s)",
				rec.File, rec.Kind, rec.ExpireAt.Format("2006-01-02 15:04"))
			result.DeletedFiles = append(result.DeletedFiles, rec.File)
			result.DeletedCount++
			continue
		}

		if err := s.deleteOne(rec); err != nil {
			log.Printf("[cleanup] ERROR: %v", err)
			result.Errors = append(result.Errors, err.Error())
			result.ErrorCount++
			continue
		}

		result.DeletedFiles = append(result.DeletedFiles, rec.File)
		result.DeletedCount++
	}

	log.Printf("[cleanup] completed: %d/%d deleted, %d errors (dry-run: %v)",
		result.DeletedCount, result.TargetCount, result.ErrorCount, config.DryRun)

	return result, nil
}

func (s *Service) deleteOne(rec models.SearchRecord) error {
	prefix := archive.PrefixListings
	if rec.Kind == models.SearchKindProperty {
		prefix = archive.PrefixProperties
	}

	// Deleting an already-missing object is a no-op in the store.
	if err := s.files.Delete(prefix, rec.File); err != nil {
		return fmt.Errorf("cleanup: deleting file %s: %w", rec.File, err)
	}

	if err := s.db.DeleteRecord(rec.ID); err != nil {
		return fmt.Errorf("cleanup: deleting record %s: %w", rec.SearchID, err)
	}

	entry := &models.DeleteLog{
		SearchID:  rec.SearchID,
		Kind:      rec.Kind,
		File:      rec.File,
		ExpiredAt: rec.ExpireAt,
		DeletedAt: s.now(),
		Reason:    models.DeleteReasonExpired,
	}
	if err := s.db.LogDeletion(entry); err != nil {
		// The deletion itself succeeded; a failed audit entry should
		// not resurrect the record.
		log.Printf("[cleanup] WARNING: delete log for %s failed: %v", rec.SearchID, err)
	}

	log.Printf("[cleanup] deleted %s (kind: %s)", rec.File, rec.Kind)
	return nil
}
