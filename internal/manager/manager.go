package manager

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"sansls/internal/document"
)

var ErrNotOpen = errors.New("document not open")

// Entry is the analysis state of one open document.
type Entry struct {
	URI     string
	Version int32
	Text    string
	Doc     *document.Document
}

// DocumentManager holds the built document for each open URI.
type DocumentManager struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewDocumentManager creates an initialized DocumentManager.
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		entries: make(map[string]*Entry),
	}
}

// Update rebuilds the document for uri from text and replaces the stored
// entry. The build runs outside the lock.
func (dm *DocumentManager) Update(uri string, version int32, text string) *Entry {
	e := &Entry{
		URI:     uri,
		Version: version,
		Text:    text,
		Doc:     document.Build(text),
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.entries[uri] = e
	return e
}

// Get returns the current entry for a URI.
func (dm *DocumentManager) Get(uri string) (*Entry, error) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	e, ok := dm.entries[uri]
	if !ok {
		return nil, fmt.Errorf("%s: %w", uri, ErrNotOpen)
	}
	return e, nil
}

// Document returns the built document for a URI.
func (dm *DocumentManager) Document(uri string) (*document.Document, error) {
	e, err := dm.Get(uri)
	if err != nil {
		return nil, err
	}
	return e.Doc, nil
}

// URIs lists the open documents, sorted.
func (dm *DocumentManager) URIs() []string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	uris := make([]string, 0, len(dm.entries))
	for uri := range dm.entries {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// Release forgets the document for a URI.
func (dm *DocumentManager) Release(uri string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	delete(dm.entries, uri)
}

// CloseAll forgets every document.
func (dm *DocumentManager) CloseAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.entries = make(map[string]*Entry)
}
