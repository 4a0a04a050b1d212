package compare

// NilCheck performs a nil check on two pointers and returns whether they are equal
// and whether more comparison checks are needed.
//
// Returns (equal, needsMoreChecks) where:
//   - equal: true if both are nil, false if only one is nil
//   - needsMoreChecks: true if both pointers are non-nil and further comparison is needed
//
// Example:
//
//	func (c *ColumnType) Equal(other *ColumnType) bool {
//	    if eq, needsMoreChecks := compare.NilCheck(c, other); !needsMoreChecks {
//	        return eq
//	    }
//	    // Continue with field comparisons...
//	}
func NilCheck[T any](a, b *T) (equal bool, needsMoreChecks bool) {
	if a == nil && b == nil {
		return true, false
	}
	if a == nil || b == nil {
		return false, false
	}
	return false, true
}

// PointersWithEqual compares two pointers using a custom equality function.
// Returns true if both are nil, or both are non-nil and the equality function returns true.
//
// Example:
//
//	compare.PointersWithEqual(a.big, b.big, func(x, y *big.Int) bool { return x.Cmp(y) == 0 })
func PointersWithEqual[T any](a, b *T, equalFunc func(*T, *T) bool) bool {
	if eq, more := NilCheck(a, b); !more {
		return eq
	}
	return equalFunc(a, b)
}

// Slices compares two slices for equality using an equality function for elements.
// Returns true if both slices have the same length and all corresponding elements are equal.
//
// Example:
//
//	compare.Slices(a.Children(), b.Children(), (*parser.ColumnType).Equal)
func Slices[T any](a, b []T, equalFunc func(T, T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalFunc(a[i], b[i]) {
			return false
		}
	}
	return true
}
