// Package annotation holds the editable shape document used during an
// annotation session: an ordered shape list versioned through a bounded,
// linear undo history.
package annotation

// MaxHistory bounds the number of retained snapshots. When a mutation would
// exceed it the oldest snapshot is evicted so the live state stays reachable.
const MaxHistory = 50

// Store is the history-backed shape document for one editing session. It is
// not safe for concurrent use; all transitions happen on the UI event loop.
type Store struct {
	history  [][]Shape
	index    int
	selected string
}

// NewStore returns an empty document with a single empty snapshot.
func NewStore() *Store {
	return &Store{history: [][]Shape{nil}}
}

// Annotations returns the live snapshot. Callers must treat the returned
// slice as read-only; it is shared with the history.
func (s *Store) Annotations() []Shape {
	return s.history[s.index]
}

// Len reports the number of shapes in the live snapshot.
func (s *Store) Len() int { return len(s.history[s.index]) }

// Find returns the shape with the given id from the live snapshot.
func (s *Store) Find(id string) (Shape, bool) {
	for _, sh := range s.history[s.index] {
		if sh.ID() == id {
			return sh, true
		}
	}
	return nil, false
}

// push appends next as a new snapshot, discarding any redo branch beyond the
// cursor first. Linear history only: there is no branching.
func (s *Store) push(next []Shape) {
	s.history = append(s.history[:s.index+1:s.index+1], next)
	if len(s.history) > MaxHistory {
		drop := len(s.history) - MaxHistory
		s.history = s.history[drop:]
	}
	s.index = len(s.history) - 1
}

// Add appends shape and pushes a new snapshot. Selection is unchanged.
func (s *Store) Add(shape Shape) {
	cur := s.history[s.index]
	next := make([]Shape, len(cur), len(cur)+1)
	copy(next, cur)
	s.push(append(next, shape))
}

// Update replaces the shape with the given id by the result of mutate. An
// unknown id is a silent no-op on the shape list, but a snapshot is still
// pushed so the operation count matches the caller's expectation.
func (s *Store) Update(id string, mutate func(Shape) Shape) {
	cur := s.history[s.index]
	next := make([]Shape, len(cur))
	for i, sh := range cur {
		if sh.ID() == id {
			next[i] = mutate(sh)
		} else {
			next[i] = sh
		}
	}
	s.push(next)
}

// Remove filters the shape with the given id out of the list and pushes a
// snapshot. Removing the selected shape clears the selection.
func (s *Store) Remove(id string) {
	cur := s.history[s.index]
	next := make([]Shape, 0, len(cur))
	for _, sh := range cur {
		if sh.ID() != id {
			next = append(next, sh)
		}
	}
	s.push(next)
	if s.selected == id {
		s.selected = ""
	}
}

// Undo steps the cursor back one snapshot and clears the selection. It
// reports whether a step was taken; at the earliest snapshot it is a no-op.
func (s *Store) Undo() bool {
	if s.index == 0 {
		return false
	}
	s.index--
	s.selected = ""
	return true
}

// Redo steps the cursor forward one snapshot and clears the selection. It
// reports whether a step was taken; at the latest snapshot it is a no-op.
func (s *Store) Redo() bool {
	if s.index >= len(s.history)-1 {
		return false
	}
	s.index++
	s.selected = ""
	return true
}

// CanUndo reports whether an earlier snapshot exists.
func (s *Store) CanUndo() bool { return s.index > 0 }

// CanRedo reports whether a later snapshot exists.
func (s *Store) CanRedo() bool { return s.index < len(s.history)-1 }

// Reset drops all shapes, selection and history, leaving a single empty
// snapshot. Used when an editing session ends.
func (s *Store) Reset() {
	s.history = [][]Shape{nil}
	s.index = 0
	s.selected = ""
}

// Select marks the shape with the given id as selected. At most one shape is
// selected at a time; an empty id clears the selection. Selecting an id that
// is not in the live snapshot clears the selection as well.
func (s *Store) Select(id string) {
	if id == "" {
		s.selected = ""
		return
	}
	if _, ok := s.Find(id); !ok {
		s.selected = ""
		return
	}
	s.selected = id
}

// Selected returns the selected shape id, or "" when nothing is selected.
func (s *Store) Selected() string { return s.selected }
