package loader

import (
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofhir/schemavalidator/pkg/logger"
)

// Store holds decoded schema documents indexed by loading URI.
type Store struct {
	mu   sync.RWMutex
	docs map[string]any
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{docs: make(map[string]any)}
}

// Add stores doc under uri, replacing any previous document.
func (s *Store) Add(uri string, doc any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[normalizeURI(uri)] = doc
}

// Get returns the document stored under uri. An empty fragment is ignored.
func (s *Store) Get(uri string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[normalizeURI(uri)]
	return doc, ok
}

// Count returns the number of stored documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// URIs returns the loading URIs of all documents, sorted.
func (s *Store) URIs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// Clear removes all documents.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]any)
}

// LoadFile decodes the file at path and stores it under its file URI,
// which is returned.
func (s *Store) LoadFile(path string) (string, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return "", err
	}
	uri, err := FileURI(path)
	if err != nil {
		return "", err
	}
	s.Add(uri, doc)
	return uri, nil
}

// LoadDirectory loads every .json, .yaml and .yml file directly inside dir.
// Files that fail to decode are skipped and logged.
func (s *Store) LoadDirectory(dir string) (int, error) {
	total := 0
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		files, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return total, fmt.Errorf("failed to glob directory: %w", err)
		}
		for _, file := range files {
			if _, err := s.LoadFile(file); err != nil {
				logger.For("loader").Warn("skipping %s: %v", file, err)
				continue
			}
			total++
		}
	}
	return total, nil
}

// FileURI returns the file URI of path, used as a schema loading URI.
func FileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String() + "#", nil
}

func normalizeURI(uri string) string {
	return strings.TrimSuffix(uri, "#") + "#"
}
