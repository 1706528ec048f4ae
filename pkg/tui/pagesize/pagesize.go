// Package pagesize computes how many table rows fit in the available
// viewport and derives a consistent set of selectable page sizes.
// It does NOT render and holds no ambient state - the hosting screen
// pushes every viewport change in.
package pagesize

import "sort"

// Config holds the fixed layout heights around a table, in pixels for a
// browser-style host or rows for a terminal host. All values are caller
// contract: positive heights, MinRows <= MaxRows.
type Config struct {
	RowHeight        int
	HeaderHeight     int
	PaginationHeight int
	ReservedHeight   int
	MinRows          int
	MaxRows          int
}

// Result is the derived page sizing for one viewport height.
type Result struct {
	OptimalRows int
	Options     []int // ascending, duplicate-free, always contains OptimalRows
}

// Compute derives the optimal row count and page-size options for the
// given viewport height. It is a pure, total function: there is no error
// condition, only clamping.
func Compute(cfg Config, viewportHeight int) Result {
	available := viewportHeight - cfg.ReservedHeight - cfg.HeaderHeight - cfg.PaginationHeight

	rows := 0
	if available > 0 {
		rows = available / cfg.RowHeight
	}
	optimal := clamp(rows, cfg.MinRows, cfg.MaxRows)

	options := map[int]bool{optimal: true}

	if half := optimal / 2; half >= cfg.MinRows {
		options[half] = true
	}

	// Stop multiplying once a multiple exceeds MaxRows
	for factor := 2; factor <= 4; factor++ {
		mult := optimal * factor
		if mult > cfg.MaxRows {
			break
		}
		options[mult] = true
	}

	if cfg.MinRows <= 5 {
		options[5] = true
	}
	for _, common := range []int{10, 25, 50} {
		if common <= cfg.MaxRows {
			options[common] = true
		}
	}

	sorted := make([]int, 0, len(options))
	for opt := range options {
		sorted = append(sorted, opt)
	}
	sort.Ints(sorted)

	return Result{OptimalRows: optimal, Options: sorted}
}

// MergeSelected merges an externally pinned page size into the option set
// and re-sorts. The caller's current selection must never silently reset
// to an unavailable value.
func MergeSelected(options []int, selected int) []int {
	for _, opt := range options {
		if opt == selected {
			return options
		}
	}
	merged := make([]int, 0, len(options)+1)
	merged = append(merged, options...)
	merged = append(merged, selected)
	sort.Ints(merged)
	return merged
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
