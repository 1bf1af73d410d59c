package core

const (
	SortDateDesc   SortOrder = "date-desc"
	SortDateAsc    SortOrder = "date-asc"
	SortAmountDesc SortOrder = "amount-desc"
	SortAmountAsc  SortOrder = "amount-asc"
)

// SortOrder selects how transaction listings are ordered.
type SortOrder string

// ParseSortOrder maps a request parameter onto a known sort order. Unknown
// values fall back to newest-first, mirroring the permissive period handling.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortDateAsc, SortAmountDesc, SortAmountAsc:
		return SortOrder(s)
	default:
		return SortDateDesc
	}
}
