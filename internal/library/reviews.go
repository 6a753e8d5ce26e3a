package library

import "github.com/justestif/go-books-proxy/internal/apperr"

// GetReview returns the user's review of a book, if any.
func (s *Store) GetReview(userID, bookID string) (Review, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.lookup(userID)
	if u == nil {
		return Review{}, false
	}
	review, ok := u.reviews[bookID]
	if !ok {
		return Review{}, false
	}
	return *review, true
}

// UpsertReview creates or replaces the review of a book.
// CreatedAt is set on the first write and kept afterwards; UpdatedAt is
// refreshed on every write. The boolean reports whether the review is new.
func (s *Store) UpsertReview(userID, bookID string, rating *float64, text string) (Review, bool, error) {
	if rating == nil {
		return Review{}, false, apperr.Validation("Rating is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	now := s.now()
	existing, ok := u.reviews[bookID]

	review := &Review{
		Rating:    *rating,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ok {
		review.CreatedAt = existing.CreatedAt
	}
	u.reviews[bookID] = review
	return *review, !ok, nil
}

// DeleteReview removes the review of a book.
func (s *Store) DeleteReview(userID, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.lookup(userID)
	if u == nil {
		return apperr.NotFound("Review not found")
	}
	if _, ok := u.reviews[bookID]; !ok {
		return apperr.NotFound("Review not found")
	}
	delete(u.reviews, bookID)
	return nil
}
