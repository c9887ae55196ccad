package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when the requested archive key does not exist.
var ErrNotFound = errors.New("archive: file not found")

// Object-store prefixes: one folder per dataset kind, matching the layout
// the dashboard browses.
const (
	PrefixListings   = "listings"
	PrefixProperties = "properties"
	PrefixLocations  = "locations"
)

// Store is a prefix-addressed flat-file store backed by a bucket directory
// on disk. Keys are plain file names; prefixes are folders.
type Store struct {
	root string
}

// NewStore opens (or creates) the bucket directory.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("archive: bucket path is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("archive: create bucket %q: %w", root, err)
	}
	return &Store{root: root}, nil
}

// Upload writes data under prefix/name, replacing any previous object.
func (s *Store) Upload(prefix, name string, data []byte) error {
	dir := filepath.Join(s.root, cleanSegment(prefix))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("archive: create prefix %q: %w", prefix, err)
	}
	path := filepath.Join(dir, cleanSegment(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("archive: upload %s/%s: %w", prefix, name, err)
	}
	return nil
}

// Download reads the object stored under prefix/name.
func (s *Store) Download(prefix, name string) ([]byte, error) {
	path := filepath.Join(s.root, cleanSegment(prefix), cleanSegment(name))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("archive: download %s/%s: %w", prefix, name, err)
	}
	return data, nil
}

// List returns the object names under a prefix, sorted lexically (the
// date-stamped keys make that chronological).
func (s *Store) List(prefix string) ([]string, error) {
	dir := filepath.Join(s.root, cleanSegment(prefix))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("archive: list %s: %w", prefix, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the object under prefix/name. Deleting a missing object is
// not an error.
func (s *Store) Delete(prefix, name string) error {
	path := filepath.Join(s.root, cleanSegment(prefix), cleanSegment(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("archive: delete %s/%s: %w", prefix, name, err)
	}
	return nil
}

// Exists reports whether an object is present under prefix/name.
func (s *Store) Exists(prefix, name string) bool {
	path := filepath.Join(s.root, cleanSegment(prefix), cleanSegment(name))
	_, err := os.Stat(path)
	return err == nil
}

// cleanSegment keeps keys inside the bucket: no path separators, no
// traversal.
func cleanSegment(segment string) string {
	segment = strings.ReplaceAll(segment, "\\", "/")
	return filepath.Base("/" + segment)
}
