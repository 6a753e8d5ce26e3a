package library

import (
	"encoding/json"
	"time"
)

// Reading statuses used by the frontend. Status is an open string; these are
// the values the UI knows about.
const (
	StatusToRead   = "to-read"
	StatusReading  = "reading"
	StatusFinished = "finished"
)

// FavoriteEntry is a book the user marked as a favorite.
type FavoriteEntry struct {
	BookID     string          `json:"id"`
	AddedAt    time.Time       `json:"addedAt"`
	VolumeInfo json.RawMessage `json:"volumeInfo"`
}

// ReadingListEntry is a book on the user's reading list.
type ReadingListEntry struct {
	BookID     string          `json:"id"`
	AddedAt    time.Time       `json:"addedAt"`
	Status     string          `json:"status"`
	Progress   int             `json:"progress"`
	VolumeInfo json.RawMessage `json:"volumeInfo"`
}

// Note is a free-text note attached to a book.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Review is the user's rating and review of a book.
type Review struct {
	Rating    float64   `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ShelfSummary describes a bookshelf without its books.
type ShelfSummary struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	BookCount int    `json:"bookCount"`
}

// ShelfBook is a book placed on a shelf.
type ShelfBook struct {
	BookID     string          `json:"id"`
	AddedAt    time.Time       `json:"addedAt"`
	VolumeInfo json.RawMessage `json:"volumeInfo"`
}

// ShelfRef identifies a shelf in a books listing.
type ShelfRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ShelfContents is a shelf together with its books.
type ShelfContents struct {
	Shelf ShelfRef    `json:"shelf"`
	Books []ShelfBook `json:"books"`
}

// Annotations is everything the user has recorded locally about one book.
type Annotations struct {
	Favorite    bool
	ReadingList *ReadingListEntry
	Notes       []Note
	Review      *Review
}

// Empty reports whether there is nothing to annotate.
func (a Annotations) Empty() bool {
	return !a.Favorite && a.ReadingList == nil && len(a.Notes) == 0 && a.Review == nil
}
