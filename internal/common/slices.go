package common

// Last returns the last element of the slice and true, or the zero value and false if empty.
func Last[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[len(s)-1], true
}

// Prepend returns a new slice holding head followed by tail.
// Neither input is modified.
func Prepend[S ~[]E, E any](head, tail S) S {
	out := make(S, 0, len(head)+len(tail))
	out = append(out, head...)

	return append(out, tail...)
}
