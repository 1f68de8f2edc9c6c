// Package validator checks allocation snapshots against the membership
// rules every committed operation must preserve.
//
// Uniqueness is hard: an item lives in at most one of the themed
// collections and the pool, and the custom collection only repeats an item
// when the snapshot lists it as a shared copy. Window and size deviations
// are soft: operations may commit them with a warning, so they are
// reported but do not make a snapshot invalid.
package validator

import (
	"fmt"
	"slices"

	"github.com/eshaffer321/bundlebuilder/internal/domain/engine"
)

// SnapshotValidation contains the result of validating a snapshot.
type SnapshotValidation struct {
	// Valid is true if no item is held twice
	Valid bool

	// Duplicates lists items held by more than one container
	Duplicates []string

	// OutOfWindow lists themed collections whose total is outside the window
	OutOfWindow []string

	// SizeViolations lists themed collections outside the item count limits
	SizeViolations []string

	// Reason explains why validation failed (empty if valid)
	Reason string
}

// Clean reports whether the snapshot has neither hard nor soft issues.
func (v SnapshotValidation) Clean() bool {
	return v.Valid && len(v.OutOfWindow) == 0 && len(v.SizeViolations) == 0
}

// ValidateSnapshot checks membership and window rules of s.
func ValidateSnapshot(s engine.Snapshot) SnapshotValidation {
	result := SnapshotValidation{Valid: true}
	holder := make(map[string]string)

	claim := func(container, id string) {
		if prev, ok := holder[id]; ok {
			result.Duplicates = append(result.Duplicates, id)
			if result.Reason == "" {
				result.Reason = fmt.Sprintf("item %s is held by both %s and %s", id, prev, container)
			}
			return
		}
		holder[id] = container
	}

	for _, col := range s.Collections {
		for _, it := range col.Items {
			claim(col.ID, it.ID)
		}
		if !col.InWindow {
			result.OutOfWindow = append(result.OutOfWindow, col.ID)
		}
		if col.Count < s.Window.MinItems || (s.Window.MaxItems > 0 && col.Count > s.Window.MaxItems) {
			result.SizeViolations = append(result.SizeViolations, col.ID)
		}
	}
	for _, it := range s.Pool {
		claim("pool", it.ID)
	}
	for _, it := range s.Custom.Items {
		if _, held := holder[it.ID]; held && slices.Contains(s.Deviations, it.ID) {
			continue
		}
		claim(s.Custom.ID, it.ID)
	}

	result.Valid = len(result.Duplicates) == 0
	return result
}
