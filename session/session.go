// Package session models an interactive calculator: an input buffer edited a
// fragment at a time, evaluated on demand, with a bounded history of results.
//
// A Session is not safe for concurrent use.
package session

import (
	"strings"
	"unicode/utf8"

	"github.com/zephyrtronium/calculator"
	"github.com/zephyrtronium/calculator/internal/logger"
)

// DefaultHistorySize is the number of evaluations a session remembers by
// default.
const DefaultHistorySize = 10

// ErrorDisplay is shown after an evaluation fails.
const ErrorDisplay = "Error"

// Session is an input buffer with evaluation history.
type Session struct {
	ctx     *calculator.Context
	log     *logger.Logger
	input   strings.Builder
	history []string
	size    int
	failed  bool
}

// Option is an option used when creating a session.
type Option func(*Session)

// WithContext sets the context used to evaluate the buffer.
func WithContext(ctx *calculator.Context) Option {
	return func(s *Session) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithHistorySize sets the number of evaluations kept. Sizes below 1 are
// treated as 1.
func WithHistorySize(n int) Option {
	return func(s *Session) {
		if n < 1 {
			n = 1
		}
		s.size = n
	}
}

// WithLogger sets the logger for evaluations.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		ctx:  calculator.NewContext(),
		log:  logger.Global(),
		size: DefaultHistorySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithPrefix("session")
	return s
}

// Append appends a fragment of an expression, e.g. a digit, an operator, or
// "sqrt(", to the buffer.
func (s *Session) Append(frag string) {
	s.failed = false
	s.input.WriteString(frag)
}

// Clear empties the buffer.
func (s *Session) Clear() {
	s.failed = false
	s.input.Reset()
}

// Backspace removes the last rune of the buffer, if any.
func (s *Session) Backspace() {
	s.failed = false
	in := s.input.String()
	if in == "" {
		return
	}
	_, n := utf8.DecodeLastRuneInString(in)
	s.set(in[:len(in)-n])
}

// Negate toggles the sign of the number at the end of the buffer. A plain
// number n becomes (-n), and (-n) or a leading -n becomes n. Negate does
// nothing if the buffer does not end with a number.
func (s *Session) Negate() {
	s.failed = false
	in := s.input.String()
	if strings.HasSuffix(in, ")") {
		body := in[:len(in)-1]
		k := trailingNumber(body)
		if k < len(body) && strings.HasSuffix(body[:k], "(-") {
			s.set(body[:k-2] + body[k:])
		}
		return
	}
	k := trailingNumber(in)
	if k == len(in) {
		return
	}
	before, num := in[:k], in[k:]
	if strings.HasSuffix(before, "-") && unaryAt(before[:len(before)-1]) {
		s.set(before[:len(before)-1] + num)
		return
	}
	s.set(before + "(-" + num + ")")
}

// trailingNumber returns the index where the run of digits and decimal points
// at the end of s begins.
func trailingNumber(s string) int {
	k := len(s)
	for k > 0 && (s[k-1] == '.' || '0' <= s[k-1] && s[k-1] <= '9') {
		k--
	}
	return k
}

// unaryAt reports whether a minus sign following prefix negates rather than
// subtracts.
func unaryAt(prefix string) bool {
	prefix = strings.TrimRight(prefix, " \t")
	if prefix == "" {
		return true
	}
	return strings.ContainsRune(calculator.Operators+"(", rune(prefix[len(prefix)-1]))
}

func (s *Session) set(in string) {
	s.input.Reset()
	s.input.WriteString(in)
}

// Evaluate evaluates the buffer. On success, the formatted result replaces
// the buffer and is recorded in the history as "expr = result". On failure,
// the buffer is cleared and the display shows ErrorDisplay.
func (s *Session) Evaluate() (string, error) {
	expr := s.input.String()
	s.input.Reset()
	r, err := s.ctx.Evaluate(expr)
	if err != nil {
		s.failed = true
		s.log.Warn("evaluating %q: %v", expr, err)
		return "", err
	}
	out := calculator.Format(r)
	s.failed = false
	s.input.WriteString(out)
	s.history = append(s.history, expr+" = "+out)
	if len(s.history) > s.size {
		s.history = append(s.history[:0], s.history[len(s.history)-s.size:]...)
	}
	s.log.Debug("%s = %s", expr, out)
	return out, nil
}

// Input returns the current buffer.
func (s *Session) Input() string {
	return s.input.String()
}

// Display returns the text a calculator screen would show: ErrorDisplay after
// a failed evaluation, "0" for an empty buffer, and otherwise the buffer.
func (s *Session) Display() string {
	switch {
	case s.failed:
		return ErrorDisplay
	case s.input.Len() == 0:
		return "0"
	default:
		return s.input.String()
	}
}

// History returns the recorded evaluations, oldest first.
func (s *Session) History() []string {
	return append([]string(nil), s.history...)
}
