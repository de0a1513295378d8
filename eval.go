package calculator

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"
)

// DefaultPrec is the default number of significant decimal digits, the
// precision of IEEE 754 decimal64.
const DefaultPrec = 16

// exactDigits is enough digits after the point to write any float64 exactly.
const exactDigits = 767

// guardBits is the number of extra bits carried by arbitrary-precision
// functions beyond the decimal precision.
const guardBits = 16

// errExponentRange is the error for a power whose magnitude is outside the
// decimal exponent range.
var errExponentRange = errors.New("exponent out of range")

// Context is the numeric configuration for evaluating expressions: the
// precision and rounding applied after every operation, and how functions and
// exponentiation are computed. A Context is immutable, so it is safe to use
// concurrently.
type Context struct {
	dec apd.Context
	// bits is the binary precision for arbitrary-precision functions, or 0 to
	// compute them in float64.
	bits uint
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	precopt  uint32
	roundopt apd.Rounder
	arbopt   struct{}
)

func (precopt) ctxOption()  {}
func (roundopt) ctxOption() {}
func (arbopt) ctxOption()   {}

// Prec sets the number of significant decimal digits kept after each
// operation. Panics if digits is 0.
func Prec(digits uint32) ContextOption {
	if digits == 0 {
		panic("calculator: precision must be positive")
	}
	return precopt(digits)
}

// Rounding sets the rounding mode applied after each operation.
func Rounding(r apd.Rounder) ContextOption {
	return roundopt(r)
}

// ArbitraryFuncs computes exponentiation, sqrt, ln, and log at a binary
// precision matching the decimal precision instead of in float64. The
// trigonometric functions are always computed in float64.
func ArbitraryFuncs() ContextOption {
	return arbopt{}
}

// NewContext creates a new evaluation context. Without options, results are
// rounded half-even to 16 significant digits and functions and
// exponentiation are computed in float64.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{dec: *apd.BaseContext.WithPrecision(DefaultPrec)}
	ctx.dec.Rounding = apd.RoundHalfEven
	arb := false
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case precopt:
			ctx.dec.Precision = uint32(opt)
		case roundopt:
			ctx.dec.Rounding = apd.Rounder(opt)
		case arbopt:
			arb = true
		default:
			panic("calculator: unknown option type")
		}
	}
	if arb {
		ctx.bits = uint(math.Ceil(float64(ctx.dec.Precision)*math.Log2(10))) + guardBits
	}
	return &ctx
}

// Prec returns the number of significant digits to which values are
// computed in the context.
func (ctx *Context) Prec() uint32 {
	return ctx.dec.Precision
}

// Rounding returns the rounding mode of the context.
func (ctx *Context) Rounding() apd.Rounder {
	return ctx.dec.Rounding
}

// Arbitrary returns whether the context computes functions and
// exponentiation in arbitrary precision.
func (ctx *Context) Arbitrary() bool {
	return ctx.bits != 0
}

var defaultContext = NewContext()

// Evaluate tokenizes, converts, and evaluates an expression using the default
// context.
func Evaluate(expr string) (*apd.Decimal, error) {
	return defaultContext.Evaluate(expr)
}

// EvalPostfix evaluates a postfix token sequence using the default context.
func EvalPostfix(tokens []Token) (*apd.Decimal, error) {
	return defaultContext.EvalPostfix(tokens)
}

// Evaluate tokenizes, converts, and evaluates an expression.
func (ctx *Context) Evaluate(expr string) (*apd.Decimal, error) {
	toks, err := Tokenize(expr)
	if err != nil {
		return nil, err
	}
	rpn, err := ToPostfix(toks)
	if err != nil {
		return nil, err
	}
	return ctx.EvalPostfix(rpn)
}

// EvalPostfix evaluates a sequence of tokens in postfix order, as produced by
// ToPostfix. Operators pop their right operand first. The sequence must leave
// exactly one value.
func (ctx *Context) EvalPostfix(tokens []Token) (*apd.Decimal, error) {
	stack := make([]*apd.Decimal, 0, len(tokens))
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenNum:
			d, err := ctx.num(tok)
			if err != nil {
				return nil, err
			}
			stack = append(stack, d)
		case TokenOp:
			if len(stack) < 2 {
				return nil, &OperandError{Col: tok.Pos, Op: tok.Text, Want: 2, Have: len(stack)}
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			r, err := ctx.binary(tok, a, b)
			if err != nil {
				return nil, err
			}
			stack = append(stack, r)
		case TokenFunc:
			if len(stack) < 1 {
				return nil, &OperandError{Col: tok.Pos, Op: tok.Text, Want: 1, Have: 0}
			}
			a := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			r, err := ctx.call(tok, a)
			if err != nil {
				return nil, err
			}
			stack = append(stack, r)
		default:
			return nil, &TokenError{Token: tok}
		}
	}
	if len(stack) != 1 {
		return nil, &ExpressionError{Col: end(tokens), Values: len(stack)}
	}
	return stack[0], nil
}

// end gets the column just past the rightmost token.
func end(tokens []Token) int {
	col := 1
	for _, tok := range tokens {
		if c := tok.Pos + utf8.RuneCountInString(tok.Text); c > col {
			col = c
		}
	}
	return col
}

// num parses a number token. A trailing decimal point is allowed and ignored.
func (ctx *Context) num(tok Token) (*apd.Decimal, error) {
	s := strings.TrimSuffix(tok.Text, ".")
	if !isLiteral(s) {
		return nil, &TokenError{Token: tok}
	}
	return ctx.decimal(tok, s)
}

// isLiteral checks that s is an optionally negative run of digits with at
// most one decimal point not at the end.
func isLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	dig, dot := false, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '.':
			if dot || i == len(s)-1 {
				return false
			}
			dot = true
		case '0' <= c && c <= '9':
			dig = true
		default:
			return false
		}
	}
	return dig
}

// decimal parses s and rounds it to the context precision.
func (ctx *Context) decimal(tok Token, s string) (*apd.Decimal, error) {
	d, _, err := ctx.dec.SetString(new(apd.Decimal), s)
	if err != nil {
		return nil, &DecimalError{Col: tok.Pos, Op: tok.Text, Err: err}
	}
	return norm(d), nil
}

func (ctx *Context) binary(tok Token, a, b *apd.Decimal) (*apd.Decimal, error) {
	d := new(apd.Decimal)
	var err error
	switch tok.Text {
	case "+":
		_, err = ctx.dec.Add(d, a, b)
	case "-":
		_, err = ctx.dec.Sub(d, a, b)
	case "*":
		_, err = ctx.dec.Mul(d, a, b)
	case "/":
		if b.IsZero() {
			return nil, &DivisionError{Col: tok.Pos, Op: tok.Text}
		}
		_, err = ctx.dec.Quo(d, a, b)
	case "%":
		if b.IsZero() {
			return nil, &DivisionError{Col: tok.Pos, Op: tok.Text}
		}
		_, err = ctx.dec.Rem(d, a, b)
	case "^":
		return ctx.pow(tok, a, b)
	default:
		return nil, &TokenError{Token: tok}
	}
	if err != nil {
		return nil, &DecimalError{Col: tok.Pos, Op: tok.Text, Err: err}
	}
	return norm(d), nil
}

// pow computes a^b through binary floating point rather than exact decimal
// arithmetic, so large or very precise bases lose digits that the other
// operators keep.
func (ctx *Context) pow(tok Token, a, b *apd.Decimal) (*apd.Decimal, error) {
	if ctx.bits == 0 {
		return ctx.fromFloat(tok, math.Pow(toFloat(a), toFloat(b)), a, b)
	}
	if !ctx.powInRange(a, b) {
		return nil, &DecimalError{Col: tok.Pos, Op: tok.Text, Err: errExponentRange}
	}
	r := bigPow(new(big.Float).SetPrec(ctx.bits), ctx.toBig(a), ctx.toBig(b))
	return ctx.fromBig(tok, r, a, b)
}

// powInRange reports whether the decimal exponent of a^b is within the
// context's exponent range. Zero bases and exponents are always in range.
func (ctx *Context) powInRange(a, b *apd.Decimal) bool {
	if a.IsZero() || b.IsZero() {
		return true
	}
	mag := powMag(ctx.toBig(a), ctx.toBig(b))
	lim := float64(ctx.dec.Precision) + 1
	return float64(ctx.dec.MinExponent)-lim <= mag && mag <= float64(ctx.dec.MaxExponent)+lim
}

func (ctx *Context) call(tok Token, a *apd.Decimal) (*apd.Decimal, error) {
	f, ok := funcs[tok.Text]
	if !ok {
		return nil, &FuncError{Col: tok.Pos, Name: tok.Text}
	}
	if ctx.bits != 0 && f.big != nil {
		r := f.big(new(big.Float).SetPrec(ctx.bits), ctx.toBig(a))
		return ctx.fromBig(tok, r, a)
	}
	return ctx.fromFloat(tok, f.f(toFloat(a)), a)
}

// fromFloat converts the exact binary value of r to a decimal rounded to the
// context precision.
func (ctx *Context) fromFloat(tok Token, r float64, args ...*apd.Decimal) (*apd.Decimal, error) {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, &DomainError{Col: tok.Pos, Func: tok.Text, Args: args, Result: strconv.FormatFloat(r, 'g', -1, 64)}
	}
	return ctx.decimal(tok, strconv.FormatFloat(r, 'e', exactDigits, 64))
}

// fromBig converts r to a decimal rounded to the context precision. A nil r
// stands for NaN.
func (ctx *Context) fromBig(tok Token, r *big.Float, args ...*apd.Decimal) (*apd.Decimal, error) {
	switch {
	case r == nil:
		return nil, &DomainError{Col: tok.Pos, Func: tok.Text, Args: args, Result: "NaN"}
	case r.IsInf():
		s := "+Inf"
		if r.Signbit() {
			s = "-Inf"
		}
		return nil, &DomainError{Col: tok.Pos, Func: tok.Text, Args: args, Result: s}
	}
	d := exactBig(r)
	if _, err := ctx.dec.Round(d, d); err != nil {
		return nil, &DecimalError{Col: tok.Pos, Op: tok.Text, Err: err}
	}
	return norm(d), nil
}

// exactBig converts a finite r to the decimal with exactly its value.
func exactBig(r *big.Float) *apd.Decimal {
	if r.Sign() == 0 {
		return new(apd.Decimal)
	}
	bits := int(r.MinPrec())
	e := r.MantExp(nil)
	// r is m * 2^k for the integer m below.
	m, _ := new(big.Float).SetMantExp(r, bits-e).Int(nil)
	k := e - bits
	m.Abs(m)
	if k >= 0 {
		m.Lsh(m, uint(k))
		k = 0
	} else {
		// m / 2^-k == m * 5^-k / 10^-k
		m.Mul(m, new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-k)), nil))
	}
	d := apd.NewWithBigInt(new(apd.BigInt).SetMathBigInt(m), int32(k))
	d.Negative = r.Signbit()
	return d
}

func (ctx *Context) toBig(d *apd.Decimal) *big.Float {
	// Decimal strings are always valid big.Float input.
	x, _ := new(big.Float).SetPrec(ctx.bits).SetString(d.String())
	return x
}

// toFloat converts d to the nearest float64. Values beyond the float64 range
// become infinities.
func toFloat(d *apd.Decimal) float64 {
	f, _ := strconv.ParseFloat(d.String(), 64)
	return f
}

// norm clears the sign of a zero result.
func norm(d *apd.Decimal) *apd.Decimal {
	if d.IsZero() {
		d.Negative = false
	}
	return d
}

// Format renders d as plain decimal text with no exponent and no trailing
// fractional zeros.
func Format(d *apd.Decimal) string {
	if d.IsZero() {
		return "0"
	}
	var r apd.Decimal
	r.Reduce(d)
	return r.Text('f')
}
