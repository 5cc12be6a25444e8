// Package value defines the literal values recognized inside combinator
// programs.
//
// A [Value] is one of unit, a left or right sum injection, a product of two
// values, or a packed bit string carried by a word literal. Values are
// immutable, compare structurally with [Value.Equal], and serialize to the
// compact bit form with [Value.ToBytesLen]: each sum contributes one tag bit,
// products serialize left before right, unit contributes nothing.
//
// Every walk over a value uses an explicit stack, so arbitrarily deep literals
// cannot overflow the goroutine stack.
package value
