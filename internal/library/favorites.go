package library

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/justestif/go-books-proxy/internal/apperr"
)

// AddFavorite marks a book as a favorite. Re-adding replaces the snapshot and timestamp.
func (s *Store) AddFavorite(userID, bookID string, volume json.RawMessage) (FavoriteEntry, error) {
	if bookID == "" {
		return FavoriteEntry{}, apperr.Validation("Book ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &FavoriteEntry{
		BookID:     bookID,
		AddedAt:    s.now(),
		VolumeInfo: snapshot(volume),
	}
	s.user(userID).favorites[bookID] = entry
	return *entry, nil
}

// RemoveFavorite removes a book from the user's favorites.
func (s *Store) RemoveFavorite(userID, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.lookup(userID)
	if u == nil {
		return apperr.NotFound("Book not found in favorites")
	}
	if _, ok := u.favorites[bookID]; !ok {
		return apperr.NotFound("Book not found in favorites")
	}
	delete(u.favorites, bookID)
	return nil
}

// ListFavorites returns the user's favorites, oldest first.
func (s *Store) ListFavorites(userID string) []FavoriteEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []FavoriteEntry{}
	u := s.lookup(userID)
	if u == nil {
		return items
	}
	for _, entry := range u.favorites {
		items = append(items, *entry)
	}
	slices.SortFunc(items, func(a, b FavoriteEntry) int {
		if c := a.AddedAt.Compare(b.AddedAt); c != 0 {
			return c
		}
		return strings.Compare(a.BookID, b.BookID)
	})
	return items
}
