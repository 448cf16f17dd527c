// Package virtual computes the visible row window for large scrollable
// tables. Only the rows inside the window are rendered; everything
// above and below is represented by spacer height.
package virtual

// Range is an inclusive row index range. Hi < Lo means the range is
// empty, which only happens when the table has no rows.
type Range struct {
	Lo int
	Hi int
}

// Empty reports whether the range contains no rows.
func (r Range) Empty() bool {
	return r.Hi < r.Lo
}

// Len returns the number of rows in the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.Hi - r.Lo + 1
}

// Window computes the rows to render for a table of n rows of uniform
// rowHeight, given the viewport height, the current scroll offset and
// an overscan margin in rows. The result is clamped to [0, n-1].
func Window(n, rowHeight, viewportHeight, scroll, overscan int) Range {
	if n <= 0 {
		return Range{Lo: 0, Hi: -1}
	}
	if rowHeight <= 0 {
		rowHeight = 1
	}
	if scroll < 0 {
		scroll = 0
	}
	if overscan < 0 {
		overscan = 0
	}

	first := scroll / rowHeight
	visible := (viewportHeight + rowHeight - 1) / rowHeight
	last := first + visible

	first -= overscan
	last += overscan

	if first < 0 {
		first = 0
	}
	if last > n-1 {
		last = n - 1
	}
	if first > n-1 {
		first = n - 1
	}

	return Range{Lo: first, Hi: last}
}

// TotalHeight returns the full scrollable height of the table.
func TotalHeight(n, rowHeight int) int {
	if n <= 0 || rowHeight <= 0 {
		return 0
	}
	return n * rowHeight
}

// MaxScroll returns the largest useful scroll offset. Scrolling past it
// shows blank space below the last row.
func MaxScroll(n, rowHeight, viewportHeight int) int {
	max := TotalHeight(n, rowHeight) - viewportHeight
	if max < 0 {
		return 0
	}
	return max
}
