// Package msort implements a stable, iterative bottom-up merge sort.
//
// Runs of width 1, 2, 4, ... are merged pass by pass into a scratch buffer,
// so the worst case stays O(n log n) with no recursion.
package msort

// Sort sorts s in place so that for i < j, less(s[j], s[i]) is false.
// Equal elements keep their input order.
func Sort[T any](s []T, less func(a, b T) bool) {
	n := len(s)
	if n < 2 {
		return
	}
	src := s
	dst := make([]T, n)
	for width := 1; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			merge(dst[lo:hi], src[lo:mid], src[mid:hi], less)
		}
		src, dst = dst, src
	}
	// after an odd number of passes the result sits in the scratch buffer
	if &src[0] != &s[0] {
		copy(s, src)
	}
}

func merge[T any](out, left, right []T, less func(a, b T) bool) {
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		// take from right only when strictly less, keeps the sort stable
		if less(right[j], left[i]) {
			out[k] = right[j]
			j++
		} else {
			out[k] = left[i]
			i++
		}
		k++
	}
	k += copy(out[k:], left[i:])
	copy(out[k:], right[j:])
}
