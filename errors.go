package calculator

import (
	"errors"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Error kinds. Every error returned by Tokenize, ToPostfix, and evaluation
// matches exactly one of these under errors.Is.
var (
	// ErrLex is the kind of errors from scanning characters that cannot
	// begin or continue a token.
	ErrLex = errors.New("lexical error")
	// ErrSyntax is the kind of errors from structurally invalid token
	// sequences, such as mismatched parentheses or missing operands.
	ErrSyntax = errors.New("syntax error")
	// ErrArithmetic is the kind of errors from well-formed expressions that
	// are numerically undefined, such as division by zero.
	ErrArithmetic = errors.New("arithmetic error")
)

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This is "number" for
	// a literal with no digits, or the empty string if a token kind hadn't
	// been decided.
	Kind string
	// Col is the column of the start of the invalid token.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Is(target error) bool {
	return target == ErrLex
}

func (err *LexError) Pos() int {
	return err.Col
}

// BracketError is an error indicating mismatched parentheses in the input.
// It implements InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis.
	Col int
	// Left is "(" when an open parenthesis was never closed.
	Left string
	// Right is ")" when a close parenthesis had no open parenthesis.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Is(target error) bool {
	return target == ErrSyntax
}

func (err *BracketError) Pos() int {
	return err.Col
}

// TokenError is an error indicating a token that cannot appear where it
// does, e.g. a parenthesis in a postfix sequence or a number token whose text
// is not a decimal literal. It implements InputError.
type TokenError struct {
	Token Token
}

func (err *TokenError) Error() string {
	return errpos(err.Token.Pos, "unexpected "+err.Token.Kind.String()+" token "+strconv.Quote(err.Token.Text))
}

func (err *TokenError) Is(target error) bool {
	return target == ErrSyntax
}

func (err *TokenError) Pos() int {
	return err.Token.Pos
}

// OperandError is an error indicating an operator or function applied to
// fewer values than it takes. It implements InputError.
type OperandError struct {
	// Col is the position of the operator or function.
	Col int
	// Op is the operator or function name.
	Op string
	// Want is the number of operands Op takes, and Have is the number that
	// were available.
	Want, Have int
}

func (err *OperandError) Error() string {
	return errpos(err.Col, strconv.Quote(err.Op)+" needs "+strconv.Itoa(err.Want)+" operands but has "+strconv.Itoa(err.Have))
}

func (err *OperandError) Is(target error) bool {
	return target == ErrSyntax
}

func (err *OperandError) Pos() int {
	return err.Col
}

// FuncError is an error indicating a call to a function that does not exist.
// It implements InputError.
type FuncError struct {
	// Col is the position of the function name.
	Col int
	// Name is the unknown function name.
	Name string
}

func (err *FuncError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Name))
}

func (err *FuncError) Is(target error) bool {
	return target == ErrSyntax
}

func (err *FuncError) Pos() int {
	return err.Col
}

// ExpressionError is an error indicating that evaluation did not end with
// exactly one value. It implements InputError.
type ExpressionError struct {
	// Col is the position just past the last token.
	Col int
	// Values is the number of values left on the stack.
	Values int
}

func (err *ExpressionError) Error() string {
	if err.Values == 0 {
		return errpos(err.Col, "invalid expression: no expression")
	}
	return errpos(err.Col, "invalid expression: "+strconv.Itoa(err.Values)+" values without operators")
}

func (err *ExpressionError) Is(target error) bool {
	return target == ErrSyntax
}

func (err *ExpressionError) Pos() int {
	return err.Col
}

// DivisionError is an error from dividing by zero or taking a remainder
// modulo zero. It implements InputError.
type DivisionError struct {
	// Col is the position of the operator.
	Col int
	// Op is "/" or "%".
	Op string
}

func (err *DivisionError) Error() string {
	if err.Op == "%" {
		return errpos(err.Col, "modulo by zero")
	}
	return errpos(err.Col, "division by zero")
}

func (err *DivisionError) Is(target error) bool {
	return target == ErrArithmetic
}

func (err *DivisionError) Pos() int {
	return err.Col
}

// DomainError is an error returned when an operator or function computed in
// binary floating point has no finite result, e.g. sqrt(-1) or ln(0). It
// implements InputError.
type DomainError struct {
	// Col is the position of the operator or function.
	Col int
	// Func is the operator or function name.
	Func string
	// Args are the arguments, in source order.
	Args []*apd.Decimal
	// Result is the non-finite result, one of "NaN", "+Inf", or "-Inf".
	Result string
}

func (err *DomainError) Error() string {
	var s string
	if len(err.Args) == 2 {
		s = err.Args[0].String() + err.Func + err.Args[1].String()
	} else {
		s = err.Func + "("
		for i, x := range err.Args {
			if i > 0 {
				s += ", "
			}
			s += x.String()
		}
		s += ")"
	}
	return errpos(err.Col, s+" is not finite ("+err.Result+")")
}

func (err *DomainError) Is(target error) bool {
	return target == ErrArithmetic
}

func (err *DomainError) Pos() int {
	return err.Col
}

// DecimalError is an error raised by the decimal context, e.g. an exponent
// overflow or a remainder whose integer quotient needs more digits than the
// precision. It implements InputError and unwraps to the decimal error.
type DecimalError struct {
	// Col is the position of the operator or function.
	Col int
	// Op is the operator or function name.
	Op string
	// Err is the error from the decimal context.
	Err error
}

func (err *DecimalError) Error() string {
	return errpos(err.Col, err.Op+": "+err.Err.Error())
}

func (err *DecimalError) Is(target error) bool {
	return target == ErrArithmetic
}

func (err *DecimalError) Unwrap() error {
	return err.Err
}

func (err *DecimalError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the 1-based rune column of
	// the token that caused it.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*FuncError)(nil)
	_ InputError = (*ExpressionError)(nil)
	_ InputError = (*DivisionError)(nil)
	_ InputError = (*DomainError)(nil)
	_ InputError = (*DecimalError)(nil)
)
