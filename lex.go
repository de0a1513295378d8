package calculator

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a lexical token of an expression.
type Token struct {
	// Kind is the category of the token.
	Kind TokenKind
	// Text is the source text of the token. Numbers keep their digits exactly
	// as written, including a folded leading minus sign.
	Text string
	// Pos is the 1-based rune column of the first rune of the token.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the category of a token.
type TokenKind int8

const (
	// TokenNone is the zero TokenKind. The lexer never produces it.
	TokenNone TokenKind = iota
	// TokenNum is a decimal literal, possibly negative.
	TokenNum
	// TokenOp is a binary operator.
	TokenOp
	// TokenFunc is a run of letters, naming a function.
	TokenFunc
	// TokenOpen is an open parenthesis.
	TokenOpen
	// TokenClose is a close parenthesis.
	TokenClose
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=TokenKind -trimprefix=Token

// Operators contains the runes which are binary operators.
const Operators = "+-*/%^"

func byteidcs(s string) []string {
	v := make([]string, len(s))
	for i, r := range s {
		v[i] = string(r)
	}
	return v
}

var operstrs = byteidcs(Operators)

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	// prev is the kind of the last token scanned, or TokenNone before the
	// first. It decides whether a minus sign is folded into a number.
	prev TokenKind
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// Tokenize splits src into tokens. A minus sign at the start of the input or
// following an operator or open parenthesis is folded into the number after
// it, so the result never contains a unary operator.
func Tokenize(src string) ([]Token, error) {
	l := lex(strings.NewReader(src))
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return toks, nil
			}
			return nil, err
		}
		toks = append(toks, tok)
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// unary reports whether a minus sign scanned now negates a number rather
// than subtracting.
func (l *lexer) unary() bool {
	return l.prev == TokenNone || l.prev == TokenOp || l.prev == TokenOpen
}

// next scans the next token from the input. At the end of the input, the
// error is io.EOF.
func (l *lexer) next() (Token, error) {
	tok, err := l.scan()
	if err == nil {
		l.prev = tok.Kind
	}
	return tok, err
}

func (l *lexer) scan() (Token, error) {
	defer l.buf.Reset()
	for {
		tok := Token{Pos: l.rune}
		r, err := l.readRune()
		if err != nil {
			return Token{}, err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case isDigit(r), r == '.':
			l.unreadRune()
			return l.scanNum(tok)
		case r == '-' && l.unary():
			l.buf.WriteRune(r)
			return l.scanNum(tok)
		case unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanFunc(); err != nil {
				return tok, err
			}
			tok.Text = l.buf.String()
			tok.Kind = TokenFunc
			return tok, nil
		case r == '(':
			tok.Text = "("
			tok.Kind = TokenOpen
			return tok, nil
		case r == ')':
			tok.Text = ")"
			tok.Kind = TokenClose
			return tok, nil
		default:
			if k := strings.IndexRune(Operators, r); k >= 0 {
				tok.Text = operstrs[k]
				tok.Kind = TokenOp
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("", tok.Pos)
		}
	}
}

// scanNum scans digits and at most one decimal point onto whatever is already
// buffered. A second decimal point ends the literal and is discarded.
func (l *lexer) scanNum(tok Token) (Token, error) {
	var dig, dot bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return tok, err
		}
		if r == '.' {
			if dot {
				break
			}
			dot = true
			l.buf.WriteRune(r)
			continue
		}
		if !isDigit(r) {
			l.unreadRune()
			break
		}
		dig = true
		l.buf.WriteRune(r)
	}
	if !dig {
		return tok, l.error("number", tok.Pos)
	}
	tok.Text = l.buf.String()
	tok.Kind = TokenNum
	return tok, nil
}

func (l *lexer) scanFunc() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// scan unreads the first letter before calling scanFunc, so
				// we have scanned at least one rune.
				return nil
			}
			return err
		}
		if !unicode.IsLetter(r) {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func (l *lexer) error(kind string, col int) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  col,
	}
}
