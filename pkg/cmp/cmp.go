package cmp

// SliceEq reports whether a and b have the same elements in the same order.
func SliceEq[T comparable](a []T, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for nth, va := range a {
		if va != b[nth] {
			return false
		}
	}
	return true
}

// SliceEqWith reports whether a and b are elementwise equivalent under pred.
func SliceEqWith[T any, U any](a []T, b []U, pred func(a T, b U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for nth := range a {
		if !pred(a[nth], b[nth]) {
			return false
		}
	}
	return true
}

// SliceContentEq reports whether a and b have the same elements,
// ignoring ordering (and multiplicities of equal elements).
func SliceContentEq[T comparable](a []T, b []T) bool {
	am := map[T]struct{}{}
	for _, v := range a {
		am[v] = struct{}{}
	}
	bm := map[T]struct{}{}
	for _, v := range b {
		bm[v] = struct{}{}
	}
	return MapEq(am, bm)
}

// MapEq reports whether a and b have the same key-value pairs.
func MapEq[K comparable, V comparable](a map[K]V, b map[K]V) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || va != vb {
			return false
		}
	}
	return true
}
