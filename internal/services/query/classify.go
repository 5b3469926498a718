package query

import "strings"

// Category is the bucket a roster shift code falls into.
type Category int

const (
	CategoryWFO Category = iota
	CategoryWFH
	CategoryWO
	CategoryPL
	CategoryUncategorized
)

// Fixed shift-code sets; comparison is case-insensitive.
var (
	wfoShifts = map[string]struct{}{
		"WFO-M": {}, "WFO-G": {}, "WFO-G2": {}, "WFO-S": {}, "WFO-N": {},
	}
	wfhShifts = map[string]struct{}{
		"WFH-M": {}, "WFH-G": {}, "WFH-G2": {}, "WFH-S": {}, "WFH-N": {},
	}
)

// ClassifyShift buckets one shift code. Codes outside the WFO, WFH, WO and
// PL sets are uncategorized and count toward none of the four totals.
func ClassifyShift(code string) Category {
	c := strings.ToUpper(strings.TrimSpace(code))
	if _, ok := wfoShifts[c]; ok {
		return CategoryWFO
	}
	if _, ok := wfhShifts[c]; ok {
		return CategoryWFH
	}
	switch c {
	case "WO":
		return CategoryWO
	case "PL":
		return CategoryPL
	}
	return CategoryUncategorized
}
