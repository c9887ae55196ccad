package archive

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Archive keys are deterministic given a date and an identifier, so a
// re-run of the same property lookup on the same day lands on the same
// file.

// ListingKey builds the archive key for a listing search:
// "2026-08-31-<searchID>.csv".
func ListingKey(t time.Time, searchID string) string {
	return fmt.Sprintf("%s-%s.csv", t.Format("2006-01-02"), searchID)
}

// PropertyKey builds the archive key for a property detail lookup:
// "2026-08-31_<zpid>.csv".
func PropertyKey(t time.Time, propertyID string) string {
	return fmt.Sprintf("%s_%s.csv", t.Format("2006-01-02"), propertyID)
}

// NewSearchID generates a fresh tracking id for a listing search.
func NewSearchID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to a time-derived id; uniqueness per day is enough
		// for archive keys.
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
