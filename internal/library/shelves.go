package library

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/justestif/go-books-proxy/internal/apperr"
)

// CustomShelfBase splits the shelf id space. Ids below it belong to the
// protected default shelves; custom shelves are always numbered above it.
const CustomShelfBase = 1000

// Default shelf ids.
const (
	ShelfFavorites  = 0
	ShelfPurchased  = 1
	ShelfToRead     = 2
	ShelfReadingNow = 3
	ShelfHaveRead   = 4
)

var defaultShelves = []struct {
	id   int
	name string
}{
	{ShelfFavorites, "Favorites"},
	{ShelfPurchased, "Purchased"},
	{ShelfToRead, "To Read"},
	{ShelfReadingNow, "Reading Now"},
	{ShelfHaveRead, "Have Read"},
}

// IsDefaultShelf reports whether id is in the protected default range.
func IsDefaultShelf(id int) bool {
	return id < CustomShelfBase
}

// shelvesFor returns the user's shelves, seeding the defaults on first use.
// Callers must hold the write lock.
func (s *Store) shelvesFor(userID string) *userLibrary {
	u := s.user(userID)
	if u.shelves == nil {
		u.shelves = make(map[int]*shelf, len(defaultShelves))
		for _, d := range defaultShelves {
			u.shelves[d.id] = &shelf{id: d.id, name: d.name, books: make(map[string]ShelfBook)}
		}
	}
	return u
}

// ListShelves returns the user's shelves ordered by id.
func (s *Store) ListShelves(userID string) []ShelfSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.shelvesFor(userID)
	shelves := make([]ShelfSummary, 0, len(u.shelves))
	for _, sh := range u.shelves {
		shelves = append(shelves, ShelfSummary{ID: sh.id, Name: sh.name, BookCount: len(sh.books)})
	}
	slices.SortFunc(shelves, func(a, b ShelfSummary) int { return a.ID - b.ID })
	return shelves
}

// CreateShelf adds a custom shelf and returns it.
//
// Ids are allocated above CustomShelfBase and are never reused, even after
// the shelf that held them is deleted.
func (s *Store) CreateShelf(userID, name string) (ShelfSummary, error) {
	if name == "" {
		return ShelfSummary{}, apperr.Validation("Shelf name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.shelvesFor(userID)
	next := max(CustomShelfBase, u.lastShelfID)
	for id := range u.shelves {
		next = max(next, id)
	}
	next++
	u.lastShelfID = next

	u.shelves[next] = &shelf{id: next, name: name, books: make(map[string]ShelfBook)}
	return ShelfSummary{ID: next, Name: name, BookCount: 0}, nil
}

// RenameShelf changes the name of a custom shelf.
func (s *Store) RenameShelf(userID string, shelfID int, name string) (ShelfSummary, error) {
	if name == "" {
		return ShelfSummary{}, apperr.Validation("Shelf name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.shelvesFor(userID)
	if IsDefaultShelf(shelfID) {
		return ShelfSummary{}, apperr.Forbidden("Cannot rename default bookshelves")
	}
	sh, ok := u.shelves[shelfID]
	if !ok {
		return ShelfSummary{}, apperr.NotFound("Bookshelf not found")
	}
	sh.name = name
	return ShelfSummary{ID: sh.id, Name: sh.name, BookCount: len(sh.books)}, nil
}

// DeleteShelf removes a custom shelf and its books.
func (s *Store) DeleteShelf(userID string, shelfID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.shelvesFor(userID)
	if IsDefaultShelf(shelfID) {
		return apperr.Forbidden("Cannot delete default bookshelves")
	}
	if _, ok := u.shelves[shelfID]; !ok {
		return apperr.NotFound("Bookshelf not found")
	}
	delete(u.shelves, shelfID)
	return nil
}

// ListShelfBooks returns a shelf and its books, oldest first.
func (s *Store) ListShelfBooks(userID string, shelfID int) (ShelfContents, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.shelvesFor(userID)
	sh, ok := u.shelves[shelfID]
	if !ok {
		return ShelfContents{}, apperr.NotFound("Bookshelf not found")
	}

	books := make([]ShelfBook, 0, len(sh.books))
	for _, b := range sh.books {
		books = append(books, b)
	}
	slices.SortFunc(books, func(a, b ShelfBook) int {
		if c := a.AddedAt.Compare(b.AddedAt); c != 0 {
			return c
		}
		return strings.Compare(a.BookID, b.BookID)
	})

	return ShelfContents{
		Shelf: ShelfRef{ID: sh.id, Name: sh.name},
		Books: books,
	}, nil
}

// AddBookToShelf places a book on a shelf, replacing any existing placement.
// A non-zero addedAt is kept so that exported shelves can be re-imported
// without changing their timestamps.
func (s *Store) AddBookToShelf(userID string, shelfID int, bookID string, volume json.RawMessage, addedAt time.Time) (ShelfBook, error) {
	if bookID == "" {
		return ShelfBook{}, apperr.Validation("Book ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.shelvesFor(userID)
	sh, ok := u.shelves[shelfID]
	if !ok {
		return ShelfBook{}, apperr.NotFound("Bookshelf not found")
	}

	if addedAt.IsZero() {
		addedAt = s.now()
	}
	book := ShelfBook{
		BookID:     bookID,
		AddedAt:    addedAt,
		VolumeInfo: snapshot(volume),
	}
	sh.books[bookID] = book
	return book, nil
}

// RemoveBookFromShelf takes a book off a shelf.
func (s *Store) RemoveBookFromShelf(userID string, shelfID int, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.shelvesFor(userID)
	sh, ok := u.shelves[shelfID]
	if !ok {
		return apperr.NotFound("Bookshelf not found")
	}
	if _, ok := sh.books[bookID]; !ok {
		return apperr.NotFound("Book not found in shelf")
	}
	delete(sh.books, bookID)
	return nil
}
