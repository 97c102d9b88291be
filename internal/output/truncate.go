package output

import "fmt"

// TruncationWarning describes a result set that was cut to fit the limit.
type TruncationWarning struct {
	Shown   int    `json:"shown"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// Truncate cuts items to maxItems. A zero or negative limit falls back to
// DefaultMaxItems and any limit is capped at AbsoluteMaxItems. The warning
// is nil when nothing was dropped.
func Truncate[T any](items []T, maxItems int) ([]T, *TruncationWarning) {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if maxItems > AbsoluteMaxItems {
		maxItems = AbsoluteMaxItems
	}

	total := len(items)
	if total <= maxItems {
		return items, nil
	}

	return items[:maxItems], &TruncationWarning{
		Shown:   maxItems,
		Total:   total,
		Message: fmt.Sprintf("Output truncated. Showing %d of %d items. Refine the query with namespace or label filters for complete results.", maxItems, total),
	}
}
