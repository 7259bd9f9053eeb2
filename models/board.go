package models

import "sort"

const (
	// BoardSize is the board dimension; the board holds BoardSize*BoardSize cells.
	BoardSize = 5
	// FreeSpaceIndex is the row-major index of the free cell every user starts with.
	FreeSpaceIndex = 12
)

// NormalizeEarnedIndices returns the canonical form of an earned-index set:
// deduplicated and ascending. This is the only form persisted, so stored sets
// compare and diff without order concerns.
func NormalizeEarnedIndices(indices []int) []int {
	seen := make(map[int]bool, len(indices))
	out := make([]int, 0, len(indices))
	for _, idx := range indices {
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}

// RowIndices returns the contiguous cell indices of one board row.
func RowIndices(row int) []int {
	out := make([]int, BoardSize)
	for i := range out {
		out[i] = row*BoardSize + i
	}
	return out
}

// CompletedRows returns every row whose cells are all earned, ascending.
func CompletedRows(earnedIndices []int) []int {
	earned := make(map[int]bool, len(earnedIndices))
	for _, idx := range earnedIndices {
		earned[idx] = true
	}
	var completed []int
	for row := 0; row < BoardSize; row++ {
		full := true
		for _, idx := range RowIndices(row) {
			if !earned[idx] {
				full = false
				break
			}
		}
		if full {
			completed = append(completed, row)
		}
	}
	return completed
}

// IsBoardComplete reports whether every cell on the board is earned.
func IsBoardComplete(earnedIndices []int) bool {
	return len(earnedIndices) >= BoardSize*BoardSize
}
