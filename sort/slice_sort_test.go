package sort

import (
	"reflect"
	"testing"

	"github.com/go-test/deep"
)

func TestSortComparableSlice(t *testing.T) {
	tests := []struct {
		name     string
		unsorted []string
		expected []string
	}{
		{
			name:     "nil slice",
			unsorted: nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			unsorted: []string{},
			expected: []string{},
		},
		{
			name:     "valid slice with 1 element",
			unsorted: []string{"A"},
			expected: []string{"A"},
		},
		{
			name:     "valid slice with 2 elements",
			unsorted: []string{"B", "A"},
			expected: []string{"A", "B"},
		},
		{
			name:     "valid slice with 3 elements",
			unsorted: []string{"A", "C", "B"},
			expected: []string{"A", "B", "C"},
		},
		{
			name:     "valid slice with 4 elements",
			unsorted: []string{"D", "A", "C", "B"},
			expected: []string{"A", "B", "C", "D"},
		},
		{
			name:     "valid slice with duplicates",
			unsorted: []string{"B", "A", "B", "A", "C"},
			expected: []string{"A", "A", "B", "B", "C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted := SortMergeComparableSlice(tt.unsorted)
			if !reflect.DeepEqual(sorted, tt.expected) {
				t.Logf("Diffs: %+v", deep.Equal(sorted, tt.expected))
				t.Fatal("expected and computed result do not match")
			}
		})
	}
}

func TestSortSequentialStable(t *testing.T) {
	in := []record{{3, 0}, {1, 1}, {3, 2}, {2, 3}, {1, 4}, {3, 5}}
	expected := []record{{1, 1}, {1, 4}, {2, 3}, {3, 0}, {3, 2}, {3, 5}}
	SortSequential(in, byKey)
	if diff := deep.Equal(in, expected); diff != nil {
		t.Errorf("%+v", diff)
	}
}

func TestOrdered(t *testing.T) {
	cmp := Ordered[float64]()
	if cmp(1, 2) >= 0 {
		t.Errorf("1 supposed to sort before 2")
	}
	if cmp(2, 1) <= 0 {
		t.Errorf("2 supposed to sort after 1")
	}
	if cmp(2, 2) != 0 {
		t.Errorf("2 supposed to be equal to 2")
	}
}
