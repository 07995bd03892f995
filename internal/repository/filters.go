package repository

import "github.com/google/uuid"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Filters carries the common list parameters: pagination, search, ordering
// and an optional id restriction.
type Filters struct {
	Limit   int
	Offset  int
	Search  string
	OrderBy string
	IDs     []uuid.UUID
}

// Normalized clamps pagination values into their allowed ranges.
func (f Filters) Normalized() Filters {
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
