// Package radixfloat implements the ECMAScript Number::toString(radix)
// algorithm for IEEE 754 double-precision floating-point values.
//
// For a radix other than 10, ECMA-262 leaves the digit string
// implementation-defined beyond requiring it to be a generalization of the
// radix 10 algorithm. This package reproduces the procedure used by V8
// (DoubleToRadixCString), so the output of FormatFloat is byte-identical to
// JavaScript's (x).toString(base) for every double and every base in [2, 36].
//
// All arithmetic is performed in native float64. No multiprecision arithmetic
// is used; the rounding behavior of the algorithm depends on that.
package radixfloat

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MinBase is the smallest base accepted by FormatFloat.
	MinBase = 2
	// MaxBase is the largest base accepted by FormatFloat.
	MaxBase = 36
)

// ErrInvalidBase matches every InvalidBaseError under errors.Is.
var ErrInvalidBase = errors.New("radixfloat: invalid base")

// InvalidBaseError reports a base outside [MinBase, MaxBase].
type InvalidBaseError struct {
	Base int
}

func (e *InvalidBaseError) Error() string {
	return fmt.Sprintf("radixfloat: invalid base %d: must be between %d and %d", e.Base, MinBase, MaxBase)
}

// Is reports whether target is ErrInvalidBase.
func (e *InvalidBaseError) Is(target error) bool {
	return target == ErrInvalidBase
}

const digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// bufferSize bounds the working buffer. Integer digits grow left from the
// midpoint and fractional digits grow right. 1024 characters for the
// exponent and 52 for the mantissa either way, plus sign and decimal point,
// fit with room to spare.
const bufferSize = 2200

// ValidBase reports whether base is within [MinBase, MaxBase].
func ValidBase(base int) bool {
	return base >= MinBase && base <= MaxBase
}

// FormatFloat returns the base-radix string of f exactly as ECMAScript
// Number.prototype.toString(base) produces it.
//
// Special cases:
//   - NaN returns "NaN".
//   - +0 and -0 return "0".
//   - +Inf returns "Infinity" and -Inf returns "-Infinity".
//
// The only error is *InvalidBaseError, returned before f is inspected.
func FormatFloat(f float64, base int) (string, error) {
	b, err := AppendFloat(nil, f, base)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FormatFloat32 is FormatFloat for a float32 widened to float64.
func FormatFloat32(f float32, base int) (string, error) {
	return FormatFloat(float64(f), base)
}

// AppendFloat appends the base-radix string of f, as produced by FormatFloat,
// to dst and returns the extended buffer.
func AppendFloat(dst []byte, f float64, base int) ([]byte, error) {
	if !ValidBase(base) {
		return dst, &InvalidBaseError{Base: base}
	}

	switch {
	case math.IsNaN(f):
		return append(dst, "NaN"...), nil
	case f == 0:
		return append(dst, '0'), nil
	case math.IsInf(f, 1):
		return append(dst, "Infinity"...), nil
	case math.IsInf(f, -1):
		return append(dst, "-Infinity"...), nil
	}

	return appendRadix(dst, f, base), nil
}

// appendRadix converts a finite nonzero f. base must already be valid.
func appendRadix(dst []byte, f float64, base int) []byte {
	var buf [bufferSize]byte
	const mid = bufferSize / 2
	intCursor := mid
	fracCursor := mid

	radix := float64(base)
	value := math.Abs(f)

	integer := math.Floor(value)
	fraction := value - integer
	// Fractional digits are only computed up to the input's precision.
	delta := 0.5 * (nextFloat(value) - value)
	delta = math.Max(nextFloat(0), delta)

	if fraction >= delta {
		buf[fracCursor] = '.'
		fracCursor++
		for {
			fraction *= radix
			delta *= radix

			digit := int(fraction)
			buf[fracCursor] = digits[digit]
			fracCursor++
			fraction -= float64(digit)

			// Round to even.
			if (fraction > 0.5 || (fraction == 0.5 && digit&1 == 1)) && fraction+delta > 1 {
				fracCursor, integer = roundUp(&buf, fracCursor, integer, base)
				break
			}
			if fraction < delta {
				break
			}
		}
	}

	// Digits below the precision of integer are unrepresented; fill with zero.
	for exponent(integer/radix) > 0 {
		integer /= radix
		intCursor--
		buf[intCursor] = '0'
	}

	for {
		remainder := math.Mod(integer, radix)
		intCursor--
		buf[intCursor] = digits[int(remainder)]
		integer = (integer - remainder) / radix
		if integer <= 0 {
			break
		}
	}

	if f < 0 {
		intCursor--
		buf[intCursor] = '-'
	}

	return append(dst, buf[intCursor:fracCursor]...)
}

// roundUp increments the fractional digits ending just before fracCursor,
// carrying leftward. A digit at base-1 wraps and is dropped from the output.
// If the carry passes the decimal point, integer is incremented and the
// point itself is dropped. It returns the new fractional cursor and integer.
func roundUp(buf *[bufferSize]byte, fracCursor int, integer float64, base int) (int, float64) {
	const mid = bufferSize / 2
	for {
		fracCursor--
		if fracCursor == mid {
			return fracCursor, integer + 1
		}
		d := digitValue(buf[fracCursor])
		if d+1 < base {
			buf[fracCursor] = digits[d+1]
			return fracCursor + 1, integer
		}
	}
}

func digitValue(c byte) int {
	if c > '9' {
		return int(c-'a') + 10
	}
	return int(c - '0')
}
