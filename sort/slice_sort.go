package sort

import "golang.org/x/exp/constraints"

// Comparable is satisfied by any type with a natural order.
type Comparable interface {
	constraints.Ordered
}

// CompareFunc returns a negative number when a sorts before b, a positive number
// when b sorts before a and 0 when a and b are equal.
type CompareFunc[T any] func(a, b T) int

// Ordered returns the natural ascending order of T.
func Ordered[T Comparable]() CompareFunc[T] {
	return func(a, b T) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
}

func merge[T any](s []T, low, mid, high int, temp []T, cmp CompareFunc[T]) {
	for k := low; k <= high; k++ {
		temp[k] = s[k]
	}
	i := low
	j := mid + 1
	for k := low; k <= high; k++ {
		if i > mid {
			s[k] = temp[j]
			j++
		} else if j > high {
			s[k] = temp[i]
			i++
		} else if cmp(temp[j], temp[i]) < 0 {
			s[k] = temp[j]
			j++
		} else {
			s[k] = temp[i]
			i++
		}
	}
}

func sort[T any](s []T, low, high int, temp []T, cmp CompareFunc[T]) {
	if high <= low {
		return
	}
	mid := low + (high-low)/2
	sort(s, low, mid, temp, cmp)
	sort(s, mid+1, high, temp, cmp)
	if cmp(s[mid], s[mid+1]) <= 0 {
		return
	}
	merge(s, low, mid, high, temp, cmp)
}

// SortSequential sorts s in place on the calling goroutine. The sort is stable.
func SortSequential[T any](s []T, cmp CompareFunc[T]) {
	if len(s) <= 1 {
		return
	}
	temp := make([]T, len(s))
	sort(s, 0, len(s)-1, temp, cmp)
}

// SortMergeComparableSlice sorts s in ascending order and returns it.
func SortMergeComparableSlice[T Comparable](s []T) []T {
	SortSequential(s, Ordered[T]())
	return s
}
