package calculator

import (
	"math"
	"math/big"
	"testing"
)

func TestLog10Exact(t *testing.T) {
	for _, p := range []int{0, 1, 2, 3, 6, 15, 22} {
		if got := log10(math.Pow(10, float64(p))); got != float64(p) {
			t.Errorf("log10(1e%d) = %v", p, got)
		}
	}
	if got := log10(2); got != math.Log10(2) {
		t.Errorf("log10(2) = %v, want %v", got, math.Log10(2))
	}
	if got := log10(-1); !math.IsNaN(got) {
		t.Errorf("log10(-1) = %v", got)
	}
	if got := log10(0); !math.IsInf(got, -1) {
		t.Errorf("log10(0) = %v", got)
	}
}

func TestBigPow(t *testing.T) {
	const prec = 128
	cases := []struct {
		name string
		x, y float64
		want string // "" for NaN
	}{
		{"zero-exp", 7, 0, "1"},
		{"zero-base", 0, 3, "0"},
		{"zero-base-neg", 0, -3, "+Inf"},
		{"int", 2, 10, "1024"},
		{"int-neg", 2, -2, "0.25"},
		{"neg-base-odd", -2, 3, "-8"},
		{"neg-base-even", -3, 2, "9"},
		{"neg-base-frac", -8, 1.0 / 3, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			x := new(big.Float).SetPrec(prec).SetFloat64(c.x)
			y := new(big.Float).SetPrec(prec).SetFloat64(c.y)
			r := bigPow(new(big.Float).SetPrec(prec), x, y)
			if c.want == "" {
				if r != nil {
					t.Errorf("%v^%v = %v, want NaN", c.x, c.y, r)
				}
				return
			}
			if r == nil {
				t.Fatalf("%v^%v gave NaN", c.x, c.y)
			}
			if got := r.Text('g', 30); got != c.want {
				t.Errorf("%v^%v: want %s, got %s", c.x, c.y, c.want, got)
			}
		})
	}
}

func TestBigFuncsDomain(t *testing.T) {
	neg := big.NewFloat(-1)
	for name, f := range funcs {
		if f.big == nil {
			continue
		}
		out := new(big.Float).SetPrec(64)
		if r := f.big(out, neg); r != nil {
			t.Errorf("%s(-1) = %v, want NaN", name, r)
		}
	}
	if r := bigLn(new(big.Float).SetPrec(64), big.NewFloat(1)); r.Sign() != 0 {
		t.Errorf("ln(1) = %v", r)
	}
	if r := bigSqrt(new(big.Float).SetPrec(64), big.NewFloat(0)); r.Sign() != 0 {
		t.Errorf("sqrt(0) = %v", r)
	}
	if r := bigLog10(new(big.Float).SetPrec(64), big.NewFloat(0)); !r.IsInf() || !r.Signbit() {
		t.Errorf("log(0) = %v", r)
	}
}

func TestFuncsHaveFloat(t *testing.T) {
	for name, f := range funcs {
		if f.f == nil {
			t.Errorf("%s has no float64 implementation", name)
		}
	}
}
