package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// SortedMessages returns the messages of m in output order.
//
// Messages are ordered case-insensitively; ties between messages that only
// differ in case fall back to byte order so the order is total. When
// emptiesFirst is set, every untranslated message is placed before every
// translated one, each group keeping the case-insensitive order.
//
// m itself is not modified.
func SortedMessages(m MessageMap, emptiesFirst bool) []string {
	fold := cases.Fold()

	type item struct {
		message string
		folded  string
		empty   bool
	}
	items := make([]item, 0, len(m))
	for message, translation := range m {
		items = append(items, item{
			message: message,
			folded:  fold.String(message),
			empty:   translation == "",
		})
	}

	slices.SortStableFunc(items, func(a, b item) int {
		if emptiesFirst && a.empty != b.empty {
			if a.empty {
				return -1
			}
			return 1
		}
		if c := strings.Compare(a.folded, b.folded); c != 0 {
			return c
		}
		return strings.Compare(a.message, b.message)
	})

	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.message
	}
	return out
}
