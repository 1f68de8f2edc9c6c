package engine

import "errors"

// Rejections. A rejected operation leaves the Context unchanged.
var (
	ErrUnknownItem       = errors.New("engine: unknown item")
	ErrUnknownCollection = errors.New("engine: unknown collection")
	ErrNotThemed         = errors.New("engine: collection is not themed")
	ErrNotMember         = errors.New("engine: item is not in collection")
	ErrDuplicate         = errors.New("engine: item already in collection")
	ErrSameItem          = errors.New("engine: item cannot replace itself")
	ErrMinItems          = errors.New("engine: collection is at its minimum item count")
	ErrOverBudget        = errors.New("engine: custom budget exceeded")
)
