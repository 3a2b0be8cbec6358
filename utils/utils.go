// Package utils implements various helper functions.
package utils

import (
	"golang.org/x/exp/constraints"
)

// Min returns the minimum of x and y.
func Min[T constraints.Ordered](x, y T) T {
	if x < y {
		return x
	}
	return y
}

// Max returns the maximum of x and y.
func Max[T constraints.Ordered](x, y T) T {
	if x > y {
		return x
	}
	return y
}

// NextPow2 returns the smallest power of two greater than or equal to x.
// The result is undefined for x > 2^62.
func NextPow2[T constraints.Integer](x T) T {
	n := T(1)
	for n < x {
		n <<= 1
	}
	return n
}
