package enum

import "strings"

// ItemStatus is the uppercased status of a ticket line as reported by the order service
type ItemStatus string

const (
	ItemStatusActive    ItemStatus = "ACTIVE"
	ItemStatusVoid      ItemStatus = "VOID"
	ItemStatusCancelled ItemStatus = "CANCELLED"
	ItemStatusDeleted   ItemStatus = "DELETED"
)

// NormalizeItemStatus uppercases and trims a raw status string
func NormalizeItemStatus(raw string) ItemStatus {
	return ItemStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

// IsInactive reports whether lines with this status are excluded from a ticket
func (s ItemStatus) IsInactive() bool {
	switch s {
	case ItemStatusVoid, ItemStatusCancelled, ItemStatusDeleted:
		return true
	}
	return false
}
