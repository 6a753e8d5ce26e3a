package library

import "maps"

// Merger overlays a user's local annotations onto upstream volume records.
type Merger struct {
	store *Store
}

// NewMerger creates a Merger reading from store.
func NewMerger(store *Store) *Merger {
	return &Merger{store: store}
}

// Enrich returns volume with a "userInfo" object describing the user's local
// data for the volume's "id". Only keys that apply are present. When the user
// has nothing recorded the volume is returned as is. The input map is never
// modified.
func (m *Merger) Enrich(userID string, volume map[string]any) map[string]any {
	bookID, _ := volume["id"].(string)
	if bookID == "" {
		return volume
	}

	a := m.store.Annotations(userID, bookID)
	if a.Empty() {
		return volume
	}

	info := make(map[string]any, 5)
	if a.Favorite {
		info["isFavorite"] = true
	}
	if a.ReadingList != nil {
		info["inReadingList"] = true
		info["readingStatus"] = a.ReadingList.Status
	}
	if len(a.Notes) > 0 {
		info["notes"] = a.Notes
	}
	if a.Review != nil {
		info["review"] = *a.Review
	}

	enriched := maps.Clone(volume)
	enriched["userInfo"] = info
	return enriched
}
