package library

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/justestif/go-books-proxy/internal/apperr"
)

// AddToReadingList puts a book on the reading list, replacing any existing entry.
// An empty status means StatusToRead. Progress always restarts at 0.
func (s *Store) AddToReadingList(userID, bookID string, volume json.RawMessage, status string) (ReadingListEntry, error) {
	if bookID == "" {
		return ReadingListEntry{}, apperr.Validation("Book ID is required")
	}
	if status == "" {
		status = StatusToRead
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &ReadingListEntry{
		BookID:     bookID,
		AddedAt:    s.now(),
		Status:     status,
		Progress:   0,
		VolumeInfo: snapshot(volume),
	}
	s.user(userID).readingList[bookID] = entry
	return *entry, nil
}

// UpdateReadingStatus changes the status and/or progress of a reading list entry.
// An empty status or nil progress leaves that field unchanged.
func (s *Store) UpdateReadingStatus(userID, bookID, status string, progress *int) (ReadingListEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.lookup(userID)
	if u == nil {
		return ReadingListEntry{}, apperr.NotFound("Book not found in reading list")
	}
	entry, ok := u.readingList[bookID]
	if !ok {
		return ReadingListEntry{}, apperr.NotFound("Book not found in reading list")
	}

	if status != "" {
		entry.Status = status
	}
	if progress != nil {
		entry.Progress = *progress
	}
	return *entry, nil
}

// RemoveFromReadingList removes a book from the reading list.
func (s *Store) RemoveFromReadingList(userID, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.lookup(userID)
	if u == nil {
		return apperr.NotFound("Book not found in reading list")
	}
	if _, ok := u.readingList[bookID]; !ok {
		return apperr.NotFound("Book not found in reading list")
	}
	delete(u.readingList, bookID)
	return nil
}

// ListReadingList returns the reading list, oldest first.
func (s *Store) ListReadingList(userID string) []ReadingListEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []ReadingListEntry{}
	u := s.lookup(userID)
	if u == nil {
		return items
	}
	for _, entry := range u.readingList {
		items = append(items, *entry)
	}
	slices.SortFunc(items, func(a, b ReadingListEntry) int {
		if c := a.AddedAt.Compare(b.AddedAt); c != 0 {
			return c
		}
		return strings.Compare(a.BookID, b.BookID)
	})
	return items
}
