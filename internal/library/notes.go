package library

import (
	"slices"

	"github.com/justestif/go-books-proxy/internal/apperr"
)

// ListNotes returns the notes for a book in the order they were added.
func (s *Store) ListNotes(userID, bookID string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.lookup(userID)
	if u == nil {
		return []Note{}
	}
	return append([]Note{}, u.notes[bookID]...)
}

// AddNote appends a note to a book and returns it.
func (s *Store) AddNote(userID, bookID, text string) (Note, error) {
	if text == "" {
		return Note{}, apperr.Validation("Note text is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	note := Note{
		ID:        s.newID(),
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	u := s.user(userID)
	u.notes[bookID] = append(u.notes[bookID], note)
	return note, nil
}

// UpdateNote replaces the text of a note. CreatedAt and ID are kept.
func (s *Store) UpdateNote(userID, bookID, noteID, text string) (Note, error) {
	if text == "" {
		return Note{}, apperr.Validation("Note text is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.lookup(userID)
	if u == nil {
		return Note{}, apperr.NotFound("Note not found")
	}
	notes, ok := u.notes[bookID]
	if !ok {
		return Note{}, apperr.NotFound("Note not found")
	}

	i := slices.IndexFunc(notes, func(n Note) bool { return n.ID == noteID })
	if i < 0 {
		return Note{}, apperr.NotFound("Note not found")
	}
	notes[i].Text = text
	notes[i].UpdatedAt = s.now()
	return notes[i], nil
}

// DeleteNote removes a note from a book.
//
// The book must have a note collection; removing an id that is not in it
// is a successful no-op.
func (s *Store) DeleteNote(userID, bookID, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.lookup(userID)
	if u == nil {
		return apperr.NotFound("Note not found")
	}
	notes, ok := u.notes[bookID]
	if !ok {
		return apperr.NotFound("Note not found")
	}

	u.notes[bookID] = slices.DeleteFunc(notes, func(n Note) bool { return n.ID == noteID })
	return nil
}
