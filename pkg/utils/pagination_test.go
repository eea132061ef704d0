package utils

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaginationParams(t *testing.T) {
	cases := []struct {
		name   string
		query  url.Values
		limit  uint64
		offset uint64
		page   uint64
	}{
		{"defaults", url.Values{}, DefaultLimit, 0, 1},
		{"explicit", url.Values{"limit": {"10"}, "page": {"3"}}, 10, 20, 3},
		{"limit capped", url.Values{"limit": {"9999"}}, MaxLimit, 0, 1},
		{"garbage ignored", url.Values{"limit": {"-1"}, "page": {"x"}}, DefaultLimit, 0, 1},
		{"huge page clamped", url.Values{"limit": {"500"}, "page": {"18446744073709551615"}}, MaxLimit, (MaxPage - 1) * MaxLimit, MaxPage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			limit, offset, page := ParsePaginationParams(tc.query)
			assert.Equal(t, tc.limit, limit)
			assert.Equal(t, tc.offset, offset)
			assert.Equal(t, tc.page, page)
		})
	}
}

func TestParsePaginationParams_OffsetNeverWraps(t *testing.T) {
	for _, limit := range []uint64{1, 7, DefaultLimit, MaxLimit} {
		query := url.Values{"limit": {strconv.FormatUint(limit, 10)}, "page": {"18446744073709551615"}}
		_, offset, page := ParsePaginationParams(query)
		assert.Equal(t, (page-1)*limit, offset)
		assert.GreaterOrEqual(t, offset, (MaxPage-1)*limit)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, Paginate(items, 2, 2))
	assert.Equal(t, []int{5}, Paginate(items, 2, 4))
	assert.Empty(t, Paginate(items, 2, 5))
	_, offset, _ := ParsePaginationParams(url.Values{"limit": {"500"}, "page": {"18446744073709551615"}})
	assert.Empty(t, Paginate(items, MaxLimit, offset))
}
