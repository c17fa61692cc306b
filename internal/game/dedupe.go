package game

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
)

// DedupeIDs sorts ids and drops adjacent duplicates in place, so a user who
// holds several invited roles is invited once.
func DedupeIDs(ids []uuid.UUID) []uuid.UUID {
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return slices.Compact(ids)
}
