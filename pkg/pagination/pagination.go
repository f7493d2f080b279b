// Package pagination provides page-slicing helpers for list endpoints.
//
// Parsing is deliberately permissive: malformed page or size parameters fall
// back to the first default page instead of producing a client error. List
// endpoints are best-effort reads and callers include scripts and dashboards
// that should never be broken by a bad query string.
package pagination

import "strconv"

const (
	DefaultPage = 1
	DefaultSize = 10
)

// Paginate slices items down to the requested page. page and size arrive as
// raw query strings; anything that does not parse as a positive integer
// yields the first DefaultSize items.
func Paginate[T any](items []T, page, size string) []T {
	p, errP := parsePositive(page, DefaultPage)
	s, errS := parsePositive(size, DefaultSize)
	if errP != nil || errS != nil {
		if len(items) > DefaultSize {
			return items[:DefaultSize]
		}
		return items
	}

	start := (p - 1) * s
	if start >= len(items) {
		return []T{}
	}
	end := start + s
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// FilterByStatus keeps items whose status matches. An empty status is an
// identity pass-through.
func FilterByStatus[T any](items []T, status string, statusOf func(T) string) []T {
	if status == "" {
		return items
	}
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if statusOf(item) == status {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func parsePositive(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
