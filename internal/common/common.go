package common

import (
	mathUtil "github.com/pkg/math"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// Pagination normalizes client-provided offset/limit to safe values.
func Pagination(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	return offset, mathUtil.MinInt(limit, MaxLimit)
}
