// Package library holds the per-user personal library: favorites, reading
// list, notes, reviews and bookshelves. All state lives in process memory.
package library

import (
	"bytes"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AnonymousUser is the user id applied when a caller does not supply one.
const AnonymousUser = "anonymous"

// Store is the in-memory library shared by all requests.
//
// A single lock guards every user's collections so that read-modify-write
// sequences (id allocation, upsert branching, default seeding) are atomic.
type Store struct {
	mu    sync.RWMutex
	users map[string]*userLibrary

	now   func() time.Time
	newID func() string
}

// userLibrary is one user's collections.
type userLibrary struct {
	favorites   map[string]*FavoriteEntry
	readingList map[string]*ReadingListEntry
	notes       map[string][]Note
	reviews     map[string]*Review

	// shelves is nil until first shelf access seeds the defaults.
	shelves map[int]*shelf
	// lastShelfID is the highest custom shelf id ever issued.
	lastShelfID int
}

type shelf struct {
	id    int
	name  string
	books map[string]ShelfBook
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the note id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewStore creates an empty library store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		users: make(map[string]*userLibrary),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeUser returns userID, or AnonymousUser when it is empty.
func NormalizeUser(userID string) string {
	if userID == "" {
		return AnonymousUser
	}
	return userID
}

// user returns the user's library, creating it if needed.
// Callers must hold the write lock.
func (s *Store) user(userID string) *userLibrary {
	userID = NormalizeUser(userID)
	u, ok := s.users[userID]
	if !ok {
		u = &userLibrary{
			favorites:   make(map[string]*FavoriteEntry),
			readingList: make(map[string]*ReadingListEntry),
			notes:       make(map[string][]Note),
			reviews:     make(map[string]*Review),
		}
		s.users[userID] = u
	}
	return u
}

// lookup returns the user's library or nil. Callers must hold a lock.
func (s *Store) lookup(userID string) *userLibrary {
	return s.users[NormalizeUser(userID)]
}

// Annotations returns a consistent snapshot of the user's local data for one book.
func (s *Store) Annotations(userID, bookID string) Annotations {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var a Annotations
	u := s.lookup(userID)
	if u == nil {
		return a
	}

	_, a.Favorite = u.favorites[bookID]
	if entry, ok := u.readingList[bookID]; ok {
		e := *entry
		a.ReadingList = &e
	}
	if notes := u.notes[bookID]; len(notes) > 0 {
		a.Notes = append([]Note(nil), notes...)
	}
	if review, ok := u.reviews[bookID]; ok {
		r := *review
		a.Review = &r
	}
	return a
}

// snapshot copies a caller-supplied volume blob, defaulting to an empty object.
func snapshot(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}")
	}
	return json.RawMessage(bytes.Clone(trimmed))
}
