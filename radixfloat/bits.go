package radixfloat

import "math"

// IEEE 754 binary64 layout, following the V8 double.h conventions: the
// exponent bias folds in the 52 physical significand bits so that
// value = significand * 2^exponent.
const (
	signMask        uint64 = 0x8000_0000_0000_0000
	exponentMask    uint64 = 0x7FF0_0000_0000_0000
	significandMask uint64 = 0x000F_FFFF_FFFF_FFFF
	hiddenBit       uint64 = 0x0010_0000_0000_0000
	infinityBits    uint64 = 0x7FF0_0000_0000_0000

	physicalSignificandSize = 52 // excludes hidden bit
	exponentBias            = 0x3FF + physicalSignificandSize
	denormalExponent        = 1 - exponentBias
)

// isDenormal reports whether the exponent field of bits is all zero.
func isDenormal(bits uint64) bool {
	return bits&exponentMask == 0
}

// significand returns the significand of bits with the hidden bit restored
// for normal values.
func significand(bits uint64) uint64 {
	s := bits & significandMask
	if isDenormal(bits) {
		return s
	}
	return s + hiddenBit
}

func isPositive(bits uint64) bool {
	return bits&signMask == 0
}

// exponent returns the unbiased binary exponent of f such that
// f = significand * 2^exponent. Subnormals report denormalExponent.
func exponent(f float64) int {
	bits := math.Float64bits(f)
	if isDenormal(bits) {
		return denormalExponent
	}
	biased := int((bits & exponentMask) >> physicalSignificandSize)
	return biased - exponentBias
}

// nextFloat returns the smallest float64 strictly greater than f.
// +Inf maps to itself. Negative values step toward zero; -0 and the
// smallest negative subnormal both map to +0.
func nextFloat(f float64) float64 {
	bits := math.Float64bits(f)
	if bits == infinityBits {
		return f
	}
	if !isPositive(bits) {
		if significand(bits) <= 1 {
			return 0
		}
		return math.Float64frombits(bits - 1)
	}
	return math.Float64frombits(bits + 1)
}
