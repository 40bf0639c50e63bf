// Package subpkg is a nested module used to exercise recursive resolution.
package subpkg

// Double returns twice the given value.
//
// Args:
//     v (int): Value to double.
//
// Returns:
//     int: The doubled value.
func Double(v int) int {
	return v * 2
}
