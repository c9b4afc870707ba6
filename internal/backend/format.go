package backend

import (
	"fmt"
	"sort"
	"strings"
)

// DisplayCap is the fixed cap on listed records. Longer sequences are
// truncated to the first DisplayCap in their original order with a count hint;
// no pagination state is retained across calls.
const DisplayCap = 10

// FormatItems renders a sequence of key/value records as numbered lines,
// truncated to DisplayCap with a "showing 10 of N" hint when longer.
// Keys within a record are sorted for stable output.
func FormatItems(items []map[string]any) string {
	total := len(items)
	display := items
	if total > DisplayCap {
		display = items[:DisplayCap]
	}

	lines := make([]string, 0, len(display))
	for i, item := range display {
		keys := make([]string, 0, len(item))
		for k := range item {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s: %v", k, item[k]))
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, strings.Join(pairs, ", ")))
	}

	out := strings.Join(lines, "\n")
	if total > DisplayCap {
		out += TruncationHint(total)
	}
	return out
}

// TruncationHint is the standard "more records exist" footer.
func TruncationHint(total int) string {
	return fmt.Sprintf("\n\nShowing first %d of %d records. Be more specific to narrow results.", DisplayCap, total)
}
