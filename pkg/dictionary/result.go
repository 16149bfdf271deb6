package dictionary

import "encoding/json"

// SearchResult is the envelope returned by Searchable.Search. It is either
// paginated (counts come from the data source) or not (counts are derived
// from the returned values).
type SearchResult struct {
	values    []Value
	paginated bool
	page      int
	perPage   int
	total     int
}

// NewSearchResult returns an empty, non-paginated result.
func NewSearchResult() *SearchResult {
	return &SearchResult{values: []Value{}}
}

// SetPaginated marks the result as one page of total matches.
// page and perPage are clamped to at least 1, total to at least 0.
func (r *SearchResult) SetPaginated(page, perPage, total int) *SearchResult {
	r.paginated = true
	r.page = max(1, page)
	r.perPage = max(1, perPage)
	r.total = max(0, total)
	return r
}

// SetNotPaginated clears pagination state.
func (r *SearchResult) SetNotPaginated() *SearchResult {
	r.paginated = false
	r.page = 0
	r.perPage = 0
	r.total = 0
	return r
}

// SetValues replaces the values.
func (r *SearchResult) SetValues(values []Value) *SearchResult {
	r.values = make([]Value, 0, len(values))
	r.values = append(r.values, values...)
	return r
}

// Append adds one value.
func (r *SearchResult) Append(v Value) *SearchResult {
	r.values = append(r.values, v)
	return r
}

// Values returns the values on this page.
func (r *SearchResult) Values() []Value {
	out := make([]Value, len(r.values))
	copy(out, r.values)
	return out
}

// Len returns the number of values on this page.
func (r *SearchResult) Len() int { return len(r.values) }

// Paginated reports whether the result is one page of a larger set.
func (r *SearchResult) Paginated() bool { return r.paginated }

// Page returns the 1-based page number.
func (r *SearchResult) Page() int {
	if !r.paginated {
		return 1
	}
	return r.page
}

// PerPage returns the page size.
func (r *SearchResult) PerPage() int {
	if !r.paginated {
		return max(1, len(r.values))
	}
	return r.perPage
}

// Total returns the number of matches across all pages.
func (r *SearchResult) Total() int {
	if !r.paginated {
		return len(r.values)
	}
	return r.total
}

// NumPages returns ceil(total / perPage). Non-paginated results have one page.
func (r *SearchResult) NumPages() int {
	if !r.paginated {
		return 1
	}
	return (r.total + r.perPage - 1) / r.perPage
}

// HasMore reports whether pages after the current one exist.
func (r *SearchResult) HasMore() bool {
	return r.paginated && r.page < r.NumPages()
}

// Counts is the counters block of the JSON form.
type Counts struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	NumPerPage int `json:"num_per_page"`
	NumPages   int `json:"num_pages"`
}

type searchResultJSON struct {
	Items     []Value `json:"items"`
	Paginated bool    `json:"paginated"`
	HasMore   bool    `json:"has_more"`
	Counts    Counts  `json:"counts"`
}

// Counts returns the counters as reported in JSON.
func (r *SearchResult) Counts() Counts {
	return Counts{
		Total:      r.Total(),
		Page:       r.Page(),
		NumPerPage: r.PerPage(),
		NumPages:   r.NumPages(),
	}
}

// MarshalJSON implements json.Marshaler.
func (r *SearchResult) MarshalJSON() ([]byte, error) {
	items := r.values
	if items == nil {
		items = []Value{}
	}
	return json.Marshal(searchResultJSON{
		Items:     items,
		Paginated: r.paginated,
		HasMore:   r.HasMore(),
		Counts:    r.Counts(),
	})
}
