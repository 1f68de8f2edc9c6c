package engine

import (
	"fmt"

	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
)

// Status summarizes how an accepted operation went.
type Status string

const (
	// StatusApplied means the change was committed and every invariant holds.
	StatusApplied Status = "applied"
	// StatusWarning means the change was committed but left a deviation that
	// callers should surface.
	StatusWarning Status = "warning"
	// StatusInfeasible means no compensating change exists; nothing was committed.
	StatusInfeasible Status = "infeasible"
)

// WarningCode classifies a deviation.
type WarningCode string

const (
	WarnOutOfWindow      WarningCode = "out_of_window"
	WarnBelowMinItems    WarningCode = "below_min_items"
	WarnOverBudget       WarningCode = "over_budget"
	WarnSharedMembership WarningCode = "shared_membership"
	WarnRebalanceFailed  WarningCode = "rebalance_failed"
	WarnNoReplacement    WarningCode = "no_replacement"
)

// Warning describes a deviation left by a committed operation.
type Warning struct {
	Code         WarningCode   `json:"code"`
	CollectionID string        `json:"collection_id"`
	Total        catalog.Cents `json:"total"`
	Message      string        `json:"message"`
}

// Outcome is the result of an accepted operation.
type Outcome struct {
	Status   Status    `json:"status"`
	Warnings []Warning `json:"warnings,omitempty"`
	// Changed lists the ids of containers the operation modified.
	Changed []string `json:"changed,omitempty"`
}

func applied() Outcome {
	return Outcome{Status: StatusApplied}
}

func (o *Outcome) warn(code WarningCode, collectionID string, total catalog.Cents, format string, args ...any) {
	o.Warnings = append(o.Warnings, Warning{
		Code:         code,
		CollectionID: collectionID,
		Total:        total,
		Message:      fmt.Sprintf(format, args...),
	})
	if o.Status == StatusApplied {
		o.Status = StatusWarning
	}
}

// HasWarning reports whether a warning with code was raised.
func (o Outcome) HasWarning(code WarningCode) bool {
	for _, w := range o.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
