package reorder

import (
	"fmt"
	"sort"
)

// Item is one entry of an ordered list. Position is the item's dense, zero-based rank.
type Item struct {
	ID       string
	Position int
}

// SortByPosition sorts items in place by position, then ID.
func SortByPosition(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].ID < items[j].ID
	})
}

// IDs returns the item IDs in slice order.
func IDs(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

// Renumber builds items from an ordered ID list, assigning positions 0..N-1.
func Renumber(ids []string) []Item {
	out := make([]Item, 0, len(ids))
	for i, id := range ids {
		out = append(out, Item{ID: id, Position: i})
	}
	return out
}

// CheckDense returns an error unless positions are exactly 0..N-1 with no duplicates.
func CheckDense(items []Item) error {
	seen := make([]bool, len(items))
	for _, it := range items {
		if it.Position < 0 || it.Position >= len(items) {
			return fmt.Errorf("position %d of %s out of range [0,%d)", it.Position, it.ID, len(items))
		}
		if seen[it.Position] {
			return fmt.Errorf("duplicate position %d (%s)", it.Position, it.ID)
		}
		seen[it.Position] = true
	}
	return nil
}

func indexOf(ids []string, id string) int {
	for i := range ids {
		if ids[i] == id {
			return i
		}
	}
	return -1
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneItems(items []Item) []Item {
	return append([]Item(nil), items...)
}
