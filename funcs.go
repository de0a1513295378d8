package calculator

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// unary is a function of one real variable.
type unary struct {
	// f computes the function in binary floating point.
	f func(float64) float64
	// big computes the function to the precision of out and returns out, or
	// nil if the argument is outside the function's domain. big is nil if the
	// function is only computed in float64.
	big func(out, in *big.Float) *big.Float
}

var funcs = map[string]unary{
	// trig, not implemented in bigfloat
	"sin": {f: math.Sin},
	"cos": {f: math.Cos},
	"tan": {f: math.Tan},

	"sqrt": {f: math.Sqrt, big: bigSqrt},
	"ln":   {f: math.Log, big: bigLn},
	"log":  {f: log10, big: bigLog10},
}

// log10 is math.Log10, but exact at powers of ten.
func log10(x float64) float64 {
	r := math.Log10(x)
	if p := math.Round(r); p != r && math.Pow(10, p) == x {
		return p
	}
	return r
}

func bigSqrt(out, in *big.Float) *big.Float {
	switch in.Sign() {
	case -1:
		return nil
	case 0:
		return out.SetInt64(0)
	}
	return out.Sqrt(in)
}

func bigLn(out, in *big.Float) *big.Float {
	switch in.Sign() {
	case -1:
		return nil
	case 0:
		return out.SetInf(true)
	}
	if in.Cmp(one) == 0 {
		return out.SetInt64(0)
	}
	return bigfloat.Log(out, in)
}

func bigLog10(out, in *big.Float) *big.Float {
	if bigLn(out, in) == nil {
		return nil
	}
	if out.IsInf() {
		return out
	}
	ten := new(big.Float).SetPrec(out.Prec()).SetInt64(10)
	bigfloat.Log(ten, ten)
	return out.Quo(out, ten)
}

var one = big.NewFloat(1)

// powMag estimates log10 |x^y| for nonzero x.
func powMag(x, y *big.Float) float64 {
	l := bigLn(new(big.Float).SetPrec(x.Prec()), new(big.Float).Abs(x))
	l.Mul(l, y)
	f, _ := l.Float64()
	return f / math.Ln10
}

// maxIntExp is the largest exponent magnitude computed by repeated squaring.
const maxIntExp = 1 << 20

// bigPow sets out to x^y with the same special cases as math.Pow for finite
// arguments. A negative base requires an integer exponent.
func bigPow(out, x, y *big.Float) *big.Float {
	switch {
	case y.Sign() == 0:
		return out.SetInt64(1)
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return out.SetInf(false)
		}
		return out.SetInt64(0)
	}
	if y.IsInt() {
		if n, acc := y.Int64(); acc == big.Exact && -maxIntExp <= n && n <= maxIntExp {
			return powInt(out, x, n)
		}
	}
	if x.Sign() > 0 {
		if x.Cmp(one) == 0 {
			return out.SetInt64(1)
		}
		return bigfloat.Pow(out, x, y)
	}
	if !y.IsInt() {
		return nil
	}
	bigPow(out, new(big.Float).Abs(x), y)
	if n, _ := y.Int(nil); n.Bit(0) == 1 {
		out.Neg(out)
	}
	return out
}

// powInt sets out to x^n by repeated squaring.
func powInt(out, x *big.Float, n int64) *big.Float {
	neg := n < 0
	if neg {
		n = -n
	}
	b := new(big.Float).SetPrec(out.Prec()).Set(x)
	out.SetInt64(1)
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			out.Mul(out, b)
		}
		b.Mul(b, b)
	}
	if neg {
		out.Quo(new(big.Float).SetPrec(out.Prec()).SetInt64(1), out)
	}
	return out
}
