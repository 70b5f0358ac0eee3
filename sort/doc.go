// Package sort provides a stable merge sort over slices of any type with a
// caller supplied comparator, and a parallel variant bounded by a thread budget.
//
// # Thread budget
//
// The budget is the number of additional worker goroutines a call may start.
// At every split where the budget is greater than 2 it is divided between the
// two halves, the left half getting the larger share, and no worker is started.
// Where it is 2 both halves are sorted by workers, where it is 1 the left half
// is sorted by a worker and the right one by the caller, and where it is 0 or
// less both halves are sorted by the caller. The halves are always merged by
// the caller after every worker has finished.
//
// Workers take their slot from a Pool. When no slot is free the work runs on
// the calling goroutine, so a pool only changes how much runs in parallel,
// never the result.
//
// # Example Usage
//
//	pool := sort.NewPool(runtime.GOMAXPROCS(0))
//	s := sort.New(func(a, b loan) int {
//	    return a.Due.Compare(b.Due)
//	}, sort.WithPool(pool))
//	s.Sort(loans, 3)
package sort
