package rdpcalc

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Format renders v in fixed-point notation with places digits after the
// point, like the C format %.*f: the exact binary value is rounded, and exact
// ties go to the even digit, so 0.0078125 at six places is 0.007812. NaN and
// infinities are written as nan, inf and -inf.
func Format(v float64, places int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if places < 0 {
		places = 0
	}
	return exact(v).RoundBank(int32(places)).StringFixed(int32(places))
}

// exact converts a finite float64 to the decimal with exactly its value.
// Every binary fraction m/2**k is m*5**k/10**k.
func exact(v float64) decimal.Decimal {
	var mant big.Float
	exp := big.NewFloat(v).MantExp(&mant)
	// v = m * 2**(exp-53) with m an integer of at most 53 bits.
	m, _ := mant.SetMantExp(&mant, 53).Int(nil)
	k := 53 - exp
	if k <= 0 {
		return decimal.NewFromBigInt(m.Lsh(m, uint(-k)), 0)
	}
	five := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(k)), nil)
	return decimal.NewFromBigInt(m.Mul(m, five), int32(-k))
}
