package utils

import (
	"math"
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
	// MaxPage keeps (page-1)*limit within uint64.
	MaxPage = math.MaxUint64 / MaxLimit
)

func ParsePaginationParams(values url.Values) (limit uint64, offset uint64, page uint64) {
	limit = DefaultLimit
	page = 1

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.ParseUint(limitStr, 10, 64); err == nil && l > 0 {
			limit = min(l, MaxLimit)
		}
	}
	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.ParseUint(pageStr, 10, 64); err == nil && p > 0 {
			page = min(p, MaxPage)
		}
	}

	offset = (page - 1) * limit
	return
}

// Paginate returns the window of items selected by limit and offset.
func Paginate[T any](items []T, limit, offset uint64) []T {
	total := uint64(len(items))
	if offset >= total {
		return []T{}
	}
	return items[offset:min(offset+limit, total)]
}
