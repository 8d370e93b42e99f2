// Package gallery keeps an index of captured screenshots and GIFs on disk
// and provides a terminal browser for them.
package gallery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ArtifactKind distinguishes the capture types stored in the gallery.
type ArtifactKind string

const (
	KindScreenshot ArtifactKind = "screenshot"
	KindGIF        ArtifactKind = "gif"
	KindPDF        ArtifactKind = "pdf"
)

// Artifact is one saved capture.
type Artifact struct {
	ID        string       `json:"id"`
	FileName  string       `json:"file_name"`
	Kind      ArtifactKind `json:"kind"`
	Caption   string       `json:"caption,omitempty"`
	Folder    string       `json:"folder,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

const indexFile = "gallery.json"

// Store is the on-disk gallery index. Artifacts live as regular files next
// to the index so users can browse the directory with any file manager.
type Store struct {
	dir   string
	items []Artifact
}

// Open loads the gallery index from dir, creating dir if needed. A missing
// index is an empty gallery, not an error.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create gallery dir: %w", err)
	}
	s := &Store{dir: dir}
	data, err := os.ReadFile(filepath.Join(dir, indexFile))
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read gallery index: %w", err)
	}
	if err := json.Unmarshal(data, &s.items); err != nil {
		return nil, fmt.Errorf("parse gallery index: %w", err)
	}
	return s, nil
}

// Dir returns the gallery directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the absolute path of a stored artifact file.
func (s *Store) Path(a Artifact) string {
	return filepath.Join(s.dir, a.FileName)
}

// Items returns artifacts newest first.
func (s *Store) Items() []Artifact {
	out := make([]Artifact, len(s.items))
	copy(out, s.items)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Folders returns the distinct folder names in use, sorted.
func (s *Store) Folders() []string {
	seen := map[string]bool{}
	for _, a := range s.items {
		if a.Folder != "" {
			seen[a.Folder] = true
		}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Find returns the artifact with the given id.
func (s *Store) Find(id string) (Artifact, bool) {
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return Artifact{}, false
}

// Add registers fileName (already written under the gallery dir) and saves
// the index.
func (s *Store) Add(fileName string, kind ArtifactKind) (Artifact, error) {
	a := Artifact{
		ID:        uuid.NewString(),
		FileName:  fileName,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	s.items = append(s.items, a)
	if err := s.save(); err != nil {
		return Artifact{}, err
	}
	return a, nil
}

// SetCaption updates an artifact's caption.
func (s *Store) SetCaption(id, caption string) error {
	return s.update(id, func(a *Artifact) { a.Caption = caption })
}

// SetFolder moves an artifact to a folder. An empty folder name files it
// at the top level.
func (s *Store) SetFolder(id, folder string) error {
	return s.update(id, func(a *Artifact) { a.Folder = folder })
}

func (s *Store) update(id string, mutate func(*Artifact)) error {
	for i := range s.items {
		if s.items[i].ID == id {
			mutate(&s.items[i])
			return s.save()
		}
	}
	return fmt.Errorf("gallery: no artifact %s", id)
}

// Remove deletes the artifact file and drops it from the index.
func (s *Store) Remove(id string) error {
	for i, a := range s.items {
		if a.ID != id {
			continue
		}
		if err := os.Remove(s.Path(a)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove artifact file: %w", err)
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		return s.save()
	}
	return fmt.Errorf("gallery: no artifact %s", id)
}

// save writes the index atomically so a crash never truncates it.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode gallery index: %w", err)
	}
	dst := filepath.Join(s.dir, indexFile)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write gallery index: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("replace gallery index: %w", err)
	}
	return nil
}
