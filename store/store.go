// Package store is the template-library collaborator: a small file-backed
// key/value store of template documents, keyed by opaque ids, with listable
// metadata. One JSON file per template under a root directory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/superlaser97/label-craft/template"
)

// ErrNotFound reports a lookup for an id the library does not hold.
var ErrNotFound = errors.New("template not found")

// Meta is the listing entry for one stored template.
type Meta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Library stores template documents under a directory.
type Library struct {
	dir string
}

// Open prepares a library rooted at dir, creating it if needed.
func Open(dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open template library: %w", err)
	}
	return &Library{dir: dir}, nil
}

// entry is the on-disk wrapper: metadata plus the interchange document.
type entry struct {
	Meta     Meta            `json:"meta"`
	Document json.RawMessage `json:"document"`
}

// Save stores a document under a fresh id and returns it.
func (l *Library) Save(doc *template.Document) (string, error) {
	id := uuid.NewString()
	if err := l.write(id, doc); err != nil {
		return "", err
	}
	return id, nil
}

// Update overwrites the document stored under an existing id.
func (l *Library) Update(id string, doc *template.Document) error {
	if _, err := os.Stat(l.path(id)); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return l.write(id, doc)
}

func (l *Library) write(id string, doc *template.Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	e := entry{
		Meta:     Meta{ID: id, Name: doc.TemplateName, UpdatedAt: time.Now().UTC()},
		Document: data,
	}
	blob, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("encode template entry: %w", err)
	}
	if err := os.WriteFile(l.path(id), blob, 0o644); err != nil {
		return fmt.Errorf("write template %s: %w", id, err)
	}
	return nil
}

// Load retrieves and decodes the document stored under id.
func (l *Library) Load(id string) (*template.Document, error) {
	e, err := l.read(id)
	if err != nil {
		return nil, err
	}
	return template.DecodeDocument(e.Document)
}

// Delete removes a stored template; deleting an unknown id is an error.
func (l *Library) Delete(id string) error {
	err := os.Remove(l.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

// List returns metadata for every stored template, most recently updated
// first.
func (l *Library) List() ([]Meta, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("list template library: %w", err)
	}
	metas := make([]Meta, 0, len(entries))
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		e, err := l.read(strings.TrimSuffix(de.Name(), ".json"))
		if err != nil {
			// Skip unreadable entries rather than failing the whole listing.
			continue
		}
		metas = append(metas, e.Meta)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].UpdatedAt.After(metas[j].UpdatedAt) })
	return metas, nil
}

func (l *Library) read(id string) (*entry, error) {
	data, err := os.ReadFile(l.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", id, err)
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode template %s: %w", id, err)
	}
	return &e, nil
}

func (l *Library) path(id string) string {
	return filepath.Join(l.dir, id+".json")
}
