// Package ptrs provides a quick way to take the address of short-lived values.
package ptrs

// Ptr is the address of the given value, easing the pain of taking addresses of literals.
func Ptr[T any](val T) *T {
	return &val
}
