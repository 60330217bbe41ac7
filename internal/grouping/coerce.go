package grouping

// Coerce resolves a desired selection index to the nearest Item row.
// Out-of-range indices clamp to the list bounds rather than wrap. When the
// clamped row is a header, the scan looks forward first, then backward from
// the clamped position. Returns false when rows is empty or holds no items.
func Coerce(rows []Row, desired int) (int, bool) {
	if len(rows) == 0 {
		return 0, false
	}

	ix := desired
	if ix < 0 {
		ix = 0
	}
	if ix >= len(rows) {
		ix = len(rows) - 1
	}

	if rows[ix].Kind == RowItem {
		return ix, true
	}
	for j := ix + 1; j < len(rows); j++ {
		if rows[j].Kind == RowItem {
			return j, true
		}
	}
	for j := ix - 1; j >= 0; j-- {
		if rows[j].Kind == RowItem {
			return j, true
		}
	}
	return 0, false
}

// InitialSelection returns the first selectable row index, or 0 when the
// list holds no items at all.
func InitialSelection(rows []Row) int {
	if ix, ok := Coerce(rows, 0); ok {
		return ix
	}
	return 0
}
