package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sequence(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i + 1
	}
	return items
}

func TestPaginateDefaults(t *testing.T) {
	items := sequence(25)

	page := Paginate(items, "", "")
	assert.Len(t, page, 10)
	assert.Equal(t, 1, page[0])
}

func TestPaginateSecondPage(t *testing.T) {
	items := sequence(25)

	page := Paginate(items, "2", "10")
	assert.Len(t, page, 10)
	assert.Equal(t, 11, page[0])
	assert.Equal(t, 20, page[9])
}

func TestPaginateLastPartialPage(t *testing.T) {
	items := sequence(25)

	page := Paginate(items, "3", "10")
	assert.Len(t, page, 5)
	assert.Equal(t, 21, page[0])
}

func TestPaginateBeyondEnd(t *testing.T) {
	items := sequence(5)

	assert.Empty(t, Paginate(items, "4", "10"))
}

func TestPaginateMalformedInputFallsBack(t *testing.T) {
	items := sequence(25)

	page := Paginate(items, "abc", "xyz")
	assert.Len(t, page, 10)
	assert.Equal(t, 1, page[0])

	short := Paginate(sequence(4), "abc", "xyz")
	assert.Len(t, short, 4)
}

func TestPaginateNonPositiveFallsBack(t *testing.T) {
	items := sequence(25)

	assert.Len(t, Paginate(items, "0", "10"), 10)
	assert.Len(t, Paginate(items, "-1", "-5"), 10)
}

func TestFilterByStatus(t *testing.T) {
	type record struct{ status string }
	items := []record{{"ENROLLED"}, {"CANCELLED"}, {"ENROLLED"}}
	statusOf := func(r record) string { return r.status }

	assert.Len(t, FilterByStatus(items, "ENROLLED", statusOf), 2)
	assert.Len(t, FilterByStatus(items, "REJECTED", statusOf), 0)
	assert.Len(t, FilterByStatus(items, "", statusOf), 3)
}
