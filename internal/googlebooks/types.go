package googlebooks

import "net/url"

// Volume is a Books API volume record. It is passed through untouched apart
// from the "id" field, which callers use to look up local annotations.
type Volume map[string]any

// Search defaults applied when the caller leaves a parameter empty.
const (
	defaultStartIndex = "0"
	defaultMaxResults = "10"
	defaultOrderBy    = "relevance"
)

// SearchParams are the supported volume search parameters.
type SearchParams struct {
	Query      string
	StartIndex string
	MaxResults string
	OrderBy    string
	Filter     string
	PrintType  string
	Projection string
}

// values encodes the parameters for the volumes endpoint.
func (p SearchParams) values() url.Values {
	v := url.Values{
		"q":          {p.Query},
		"startIndex": {valueOr(p.StartIndex, defaultStartIndex)},
		"maxResults": {valueOr(p.MaxResults, defaultMaxResults)},
		"orderBy":    {valueOr(p.OrderBy, defaultOrderBy)},
	}
	if p.Filter != "" {
		v.Set("filter", p.Filter)
	}
	if p.PrintType != "" {
		v.Set("printType", p.PrintType)
	}
	if p.Projection != "" {
		v.Set("projection", p.Projection)
	}
	return v
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// apiError is the Google API error envelope.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
