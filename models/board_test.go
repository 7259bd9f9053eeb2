package models

import (
	"reflect"
	"testing"
)

func TestNormalizeEarnedIndices(t *testing.T) {
	got := NormalizeEarnedIndices([]int{12, 3, 3, 0, 12, 7})
	want := []int{0, 3, 7, 12}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalize = %v, want %v", got, want)
	}

	// Normalizing a normalized set changes nothing.
	again := NormalizeEarnedIndices(got)
	if !reflect.DeepEqual(again, got) {
		t.Fatalf("normalize not idempotent: %v != %v", again, got)
	}
}

func TestNormalizeEarnedIndicesEmpty(t *testing.T) {
	got := NormalizeEarnedIndices(nil)
	if len(got) != 0 {
		t.Fatalf("normalize(nil) = %v, want empty", got)
	}
}

func TestRowIndices(t *testing.T) {
	got := RowIndices(2)
	want := []int{10, 11, 12, 13, 14}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("RowIndices(2) = %v, want %v", got, want)
	}
}

func TestCompletedRows(t *testing.T) {
	tests := []struct {
		name   string
		earned []int
		want   []int
	}{
		{"first row plus free cell", []int{0, 1, 2, 3, 4, FreeSpaceIndex}, []int{0}},
		{"partial row", []int{0, 1, 2, 3, FreeSpaceIndex}, nil},
		{"full board", fullBoard(), []int{0, 1, 2, 3, 4}},
		{"middle row through free cell", []int{10, 11, 12, 13, 14}, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompletedRows(tt.earned)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("CompletedRows(%v) = %v, want %v", tt.earned, got, tt.want)
			}
		})
	}
}

func TestIsBoardComplete(t *testing.T) {
	if IsBoardComplete([]int{0, 1, 2}) {
		t.Fatal("partial board reported complete")
	}
	if !IsBoardComplete(fullBoard()) {
		t.Fatal("full board not reported complete")
	}
}

func fullBoard() []int {
	out := make([]int, BoardSize*BoardSize)
	for i := range out {
		out[i] = i
	}
	return out
}
