package rdpcalc

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a builtin function of one real argument.
type Func func(x float64) float64

// globalfuncs are the builtin functions by token kind. The reciprocal
// functions follow IEEE division, so csc(0) is +Inf rather than an error.
var globalfuncs = map[Kind]Func{
	KindSin:   math.Sin,
	KindCos:   math.Cos,
	KindTan:   math.Tan,
	KindCsc:   func(x float64) float64 { return 1 / math.Sin(x) },
	KindSec:   func(x float64) float64 { return 1 / math.Cos(x) },
	KindCot:   func(x float64) float64 { return 1 / math.Tan(x) },
	KindFloor: math.Floor,
	KindCeil:  math.Ceil,
	KindSqrt:  math.Sqrt,
	KindCbrt:  math.Cbrt,
	KindLog10: math.Log10,
	KindLog2:  math.Log2,
}

// funcwords maps reserved function names to their token kinds.
var funcwords = func() map[string]Kind {
	m := make(map[string]Kind, len(globalfuncs))
	for k := range globalfuncs {
		m[k.String()] = k
	}
	return m
}()

// constants are the names which lex as numbers. They are computed once at
// a higher precision and rounded.
var constants = bigconstants(64)

func bigconstants(prec uint) map[string]float64 {
	var one, e, pi big.Float
	one.SetPrec(prec).SetFloat64(1)
	e.SetPrec(prec)
	bigfloat.Exp(&e, &one)
	pi.SetPrec(prec)
	bigfloat.Pi(&pi)
	ef, _ := e.Float64()
	pf, _ := pi.Float64()
	return map[string]float64{
		"e":  ef,
		"pi": pf,
	}
}

// bigfuncs are the builtins which can be computed at a higher precision
// before rounding. Each is called only with positive finite arguments.
var bigfuncs = map[Kind]func(z, x *big.Float) *big.Float{
	KindCbrt: func(z, x *big.Float) *big.Float {
		var third big.Float
		third.SetPrec(z.Prec()).SetInt64(1)
		third.Quo(&third, big.NewFloat(3))
		return bigfloat.Pow(z, x, &third)
	},
	KindLog10: biglog(10),
	KindLog2:  biglog(2),
}

// biglog returns a logarithm to the given base.
func biglog(base int64) func(z, x *big.Float) *big.Float {
	return func(z, x *big.Float) *big.Float {
		bigfloat.Log(z, x)
		var b big.Float
		b.SetPrec(z.Prec()).SetInt64(base)
		bigfloat.Log(&b, &b)
		return z.Quo(z, &b)
	}
}

// call applies the builtin of kind k to x. With a nonzero prec, functions
// in bigfuncs are computed with prec bits of mantissa and then rounded.
func call(k Kind, x float64, prec uint) float64 {
	if bf := bigfuncs[k]; prec > 0 && bf != nil && x > 0 && !math.IsInf(x, 1) {
		var z, in big.Float
		z.SetPrec(prec)
		in.SetPrec(prec).SetFloat64(x)
		r, _ := bf(&z, &in).Float64()
		return r
	}
	return globalfuncs[k](x)
}

// pow raises x to y. With a nonzero prec, a positive base is raised with
// prec bits of mantissa when the float64 result is finite and nonzero.
func pow(x, y float64, prec uint) float64 {
	r := math.Pow(x, y)
	if prec == 0 || !(x > 0) || math.IsInf(x, 1) || math.IsInf(y, 0) || math.IsNaN(r) || math.IsInf(r, 0) || r == 0 {
		return r
	}
	var z, bx, by big.Float
	z.SetPrec(prec)
	bx.SetPrec(prec).SetFloat64(x)
	by.SetPrec(prec).SetFloat64(y)
	r, _ = bigfloat.Pow(&z, &bx, &by).Float64()
	return r
}

// factorialPrec is factorial, but with a nonzero prec the product is
// accumulated with prec bits of mantissa and rounded once.
func factorialPrec(x float64, prec uint) float64 {
	if prec == 0 || !(x >= 2) || x >= 171 {
		return factorial(x)
	}
	var f, i big.Float
	f.SetPrec(prec).SetInt64(1)
	i.SetPrec(prec)
	for n := int64(2); float64(n) <= x; n++ {
		f.Mul(&f, i.SetInt64(n))
	}
	r, _ := f.Float64()
	return r
}

// factorial multiplies 1·2·…·n for every n <= x. Non-integers stop at the
// largest integer below x, and anything below 2 gives 1.
func factorial(x float64) float64 {
	f := 1.0
	for i := 1.0; i <= x; i++ {
		f *= i
		if math.IsInf(f, 1) {
			// Nothing changes past 170!.
			break
		}
	}
	return f
}
