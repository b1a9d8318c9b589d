package utils

import "golang.org/x/exp/constraints"

// Number is any type with a sign: the signed integers and the floats.
type Number interface {
	constraints.Signed | constraints.Float
}

// Min is the least of its arguments.
func Min[T constraints.Ordered](first T, rest ...T) T {
	m := first
	for _, v := range rest {
		if v < m {
			m = v
		}
	}
	return m
}

// Max is the greatest of its arguments.
func Max[T constraints.Ordered](first T, rest ...T) T {
	m := first
	for _, v := range rest {
		if v > m {
			m = v
		}
	}
	return m
}

// Abs drops the sign of x.
func Abs[T Number](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp pins x into [lo, hi]; lo wins when the bounds cross.
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	return Max(lo, Min(x, hi))
}
