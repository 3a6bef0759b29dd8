package pure_utils

// Map returns a new slice with the same length as src, but with values transformed by f
func Map[T, U any](src []T, f func(T) U) []U {
	us := make([]U, len(src))
	for i := range src {
		us[i] = f(src[i])
	}
	return us
}

// Filter returns the elements of src for which keep returns true, in order.
func Filter[T any](src []T, keep func(T) bool) []T {
	out := make([]T, 0, len(src))
	for _, item := range src {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Last returns the n last elements of src, or src itself when it is shorter.
func Last[T any](src []T, n int) []T {
	if n <= 0 {
		return []T{}
	}
	if len(src) <= n {
		return src
	}
	return src[len(src)-n:]
}
