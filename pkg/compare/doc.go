// Package compare provides generic comparison helpers for implementing Equal methods.
//
// It covers the two shapes that come up repeatedly when comparing type trees and values:
// optional pointers and ordered slices of nested nodes.
//
//	func (c *ColumnType) Equal(other *ColumnType) bool {
//	    if eq, more := compare.NilCheck(c, other); !more {
//	        return eq
//	    }
//
//	    return c.name == other.name &&
//	        compare.Slices(c.children, other.children, (*ColumnType).Equal)
//	}
package compare
