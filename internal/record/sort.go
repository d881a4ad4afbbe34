package record

import "sort"

// SortByDateTimeDesc orders records newest first. Records without a
// timestamp sort last. The minute-precision local timestamps compare
// correctly as strings.
func SortByDateTimeDesc(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].DateTime, records[j].DateTime
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a > b
	})
}
