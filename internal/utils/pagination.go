// Package utils provides small, generic helpers for query-string handling
// and list windowing shared by the HTTP layer.
package utils

import "strconv"

// AtoiDefault converts s with strconv.Atoi, returning def when s is empty
// or not an integer.
//
//	n := utils.AtoiDefault("42", 0) // 42
//	n = utils.AtoiDefault("x", 5)   // 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// PageBounds returns the [start, end) window of a 1-based page over total
// items, and the page count. Pages past the end yield an empty window.
// pageSize must be positive.
func PageBounds(total, page, pageSize int) (start, end, pages int) {
	if page < 1 {
		page = 1
	}
	pages = (total + pageSize - 1) / pageSize
	start = min((page-1)*pageSize, total)
	end = min(start+pageSize, total)
	return start, end, pages
}
