package command

import (
	"fmt"
	"strings"
	"time"
)

// minColumnWidth is the floor applied to every table column.
const minColumnWidth = 8

// FormatTable renders rows in kubectl-style columns. Each column is as
// wide as the larger of the header, the widest cell and the fixed
// minimum; cells are left-aligned and columns are separated by two
// spaces. Padding after the final column is dropped, so no line ends
// in whitespace.
func FormatTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(len(h), minColumnWidth)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow(&b, headers, widths)
	for _, row := range rows {
		writeRow(&b, row, widths)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	line := make([]string, len(cells))
	for i, cell := range cells {
		if i < len(widths) {
			line[i] = fmt.Sprintf("%-*s", widths[i], cell)
		} else {
			line[i] = cell
		}
	}
	b.WriteString(strings.TrimRight(strings.Join(line, "  "), " "))
	b.WriteByte('\n')
}

// FormatAge renders the elapsed time since creation the way kubectl
// does: whole minutes under an hour, whole hours under a day, whole
// days beyond. Always floored, never rounded.
func FormatAge(created, now time.Time) string {
	elapsed := now.Sub(created)
	if elapsed < 0 {
		elapsed = 0
	}
	switch {
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd", int(elapsed.Hours())/24)
	}
}
