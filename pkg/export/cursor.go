package export

// Cursor is the forward-pagination position: the sort key of the last
// document of the previous page, passed back verbatim as search_after.
// Values are backend-defined and monotonically non-decreasing within one
// snapshot's total order; they are opaque beyond "pass back as received".
type Cursor struct {
	value uint64
}

// Value returns the raw sort-key value.
func (c *Cursor) Value() uint64 {
	return c.value
}

// nextCursor derives the cursor for the fetch following page. It returns
// nil for an empty page, and also for the defensive edge case of a
// non-empty page whose last document carries no sort key; the caller must
// treat the latter as a data anomaly rather than refetch without a cursor.
func nextCursor(page *Page) *Cursor {
	if page.Empty() {
		return nil
	}
	last := page.Documents[len(page.Documents)-1]
	if len(last.Sort) == 0 {
		return nil
	}
	return &Cursor{value: last.Sort[0]}
}
