// Package listing is the one implementation of the browse-page pattern the
// site repeats everywhere: free-text search over declared fields, a
// single-select category filter, a stable sort and fixed-size pagination.
// Staff directories, news, testimonials and the events list all go through
// it instead of carrying their own copy.
package listing

import (
	"sort"
	"strings"
)

// AllCategories is the sentinel that disables the category filter.
const AllCategories = "All"

// DefaultPageSize applies when a caller passes a non-positive page size.
const DefaultPageSize = 10

// Params configures one filter/paginate pass over a record list.
type Params[T any] struct {
	// Query is matched case-insensitively as a substring against the
	// concatenation of the SearchFields values. Empty matches everything.
	Query string

	// Category filters records whose normalized category equals the
	// normalized value. AllCategories (or empty) disables the filter.
	Category string

	// CategoryOf extracts a record's category. Required when Category is
	// set to anything but the sentinel.
	CategoryOf func(T) string

	// SearchFields extract the strings the query searches across.
	SearchFields []func(T) string

	// SortKey sorts ascending by string compare when set. Less, when set,
	// wins over SortKey and declares the full ordering (e.g. newest-first
	// by date with undated records at the end).
	SortKey func(T) string
	Less    func(a, b T) bool

	PageSize int
	Page     int
}

// Result is one page of the filtered list.
type Result[T any] struct {
	PageItems   []T
	Total       int
	TotalPages  int
	ClampedPage int
}

// NormalizeCategory trims and title-cases a category value so editorial
// variants ("primary", " PRIMARY ") compare equal.
func NormalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// FilterAndPaginate runs search, category filter, sort and pagination over
// items. The page is clamped to [1, totalPages]; an out-of-range request
// is never an error. Concatenating every page reproduces the filtered set
// exactly once.
func FilterAndPaginate[T any](items []T, p Params[T]) Result[T] {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}

	filtered := make([]T, 0, len(items))
	query := strings.ToLower(strings.TrimSpace(p.Query))
	category := NormalizeCategory(p.Category)
	for _, item := range items {
		if category != "" && category != AllCategories && p.CategoryOf != nil {
			if NormalizeCategory(p.CategoryOf(item)) != category {
				continue
			}
		}
		if query != "" && !matchesQuery(item, query, p.SearchFields) {
			continue
		}
		filtered = append(filtered, item)
	}

	switch {
	case p.Less != nil:
		sort.SliceStable(filtered, func(i, j int) bool { return p.Less(filtered[i], filtered[j]) })
	case p.SortKey != nil:
		sort.SliceStable(filtered, func(i, j int) bool { return p.SortKey(filtered[i]) < p.SortKey(filtered[j]) })
	}

	total := len(filtered)
	totalPages := (total + p.PageSize - 1) / p.PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * p.PageSize
	end := start + p.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result[T]{
		PageItems:   filtered[start:end],
		Total:       total,
		TotalPages:  totalPages,
		ClampedPage: page,
	}
}

func matchesQuery[T any](item T, query string, fields []func(T) string) bool {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(strings.ToLower(f(item)))
		b.WriteByte(' ')
	}
	return strings.Contains(b.String(), query)
}
