package calculator

import (
	"errors"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	num := func(text string, pos int) Token { return Token{Kind: TokenNum, Text: text, Pos: pos} }
	op := func(text string, pos int) Token { return Token{Kind: TokenOp, Text: text, Pos: pos} }
	fn := func(text string, pos int) Token { return Token{Kind: TokenFunc, Text: text, Pos: pos} }
	lparen := func(pos int) Token { return Token{Kind: TokenOpen, Text: "(", Pos: pos} }
	rparen := func(pos int) Token { return Token{Kind: TokenClose, Text: ")", Pos: pos} }
	cases := []struct {
		name   string
		src    string
		tokens []Token
	}{
		// spaces
		{"empty", "", nil},
		{"spaces", " \t \r\n ", nil},
		// numbers
		{"zero", "0", []Token{num("0", 1)}},
		{"digits", "9876543210", []Token{num("9876543210", 1)}},
		{"sep", "1 0", []Token{num("1", 1), num("0", 3)}},
		{"point", "1.0", []Token{num("1.0", 1)}},
		{"lead-point", ".5", []Token{num(".5", 1)}},
		{"trail-point", "5.", []Token{num("5.", 1)}},
		{"second-point", "1.2.3", []Token{num("1.2", 1), num("3", 5)}},
		{"double-point", "1..2", []Token{num("1.", 1), num("2", 4)}},
		// minus folding
		{"neg-start", "-1", []Token{num("-1", 1)}},
		{"neg-point", "-.5", []Token{num("-.5", 1)}},
		{"sub", "2-1", []Token{num("2", 1), op("-", 2), num("1", 3)}},
		{"neg-after-op", "3*-2", []Token{num("3", 1), op("*", 2), num("-2", 3)}},
		{"neg-after-sub", "2--3", []Token{num("2", 1), op("-", 2), num("-3", 3)}},
		{"neg-after-space-op", "3 - -2", []Token{num("3", 1), op("-", 3), num("-2", 5)}},
		{"neg-after-open", "(-3)", []Token{lparen(1), num("-3", 2), rparen(4)}},
		{"sub-after-close", ") - 1", []Token{rparen(1), op("-", 3), num("1", 5)}},
		{"sub-after-func", "sin-1", []Token{fn("sin", 1), op("-", 4), num("1", 5)}},
		// operators
		{"ops", "1+2-3*4/5%6^7", []Token{
			num("1", 1), op("+", 2), num("2", 3), op("-", 4), num("3", 5), op("*", 6),
			num("4", 7), op("/", 8), num("5", 9), op("%", 10), num("6", 11), op("^", 12), num("7", 13),
		}},
		{"plus-start", "+2", []Token{op("+", 1), num("2", 2)}},
		// functions
		{"call", "sin(0)", []Token{fn("sin", 1), lparen(4), num("0", 5), rparen(6)}},
		{"unknown-func", "foo", []Token{fn("foo", 1)}},
		{"func-digits", "log10", []Token{fn("log", 1), num("10", 4)}},
		{"unicode-letters", "π(1)", []Token{fn("π", 1), lparen(2), num("1", 3), rparen(4)}},
		{"parens", "()", []Token{lparen(1), rparen(2)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Tokenize(c.src)
			if err != nil {
				t.Fatalf("scanning %q: unexpected error %v", c.src, err)
			}
			if !reflect.DeepEqual(toks, c.tokens) {
				t.Errorf("scanning %q:\n\twant %v\n\tgot  %v", c.src, c.tokens, toks)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		text string
		kind string
		col  int
	}{
		{"symbol", "2+@", "@", "", 3},
		{"dollar", "$", "$", "", 1},
		{"underscore", "1_", "_", "", 2},
		{"comma", "1,2", ",", "", 2},
		{"other-digit", "٣", "٣", "", 1},
		{"point", ".", ".", "number", 1},
		{"minus", "-", "-", "number", 1},
		{"minus-point", "-.", "-.", "number", 1},
		{"neg-group", "-(2)", "-", "number", 1},
		{"neg-func", "2*-sin(1)", "-", "number", 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Tokenize(c.src)
			if err == nil {
				t.Fatalf("scanning %q gave no error, tokens %v", c.src, toks)
			}
			if toks != nil {
				t.Errorf("scanning %q gave tokens %v with error", c.src, toks)
			}
			if !errors.Is(err, ErrLex) {
				t.Errorf("%v is not ErrLex", err)
			}
			if errors.Is(err, ErrSyntax) || errors.Is(err, ErrArithmetic) {
				t.Errorf("%v has more than one kind", err)
			}
			var le *LexError
			if !errors.As(err, &le) {
				t.Fatalf("%#v is not *LexError", err)
			}
			if le.Text != c.text || le.Kind != c.kind || le.Pos() != c.col {
				t.Errorf("wrong error: want text %q kind %q col %d, got %+v", c.text, c.kind, c.col, le)
			}
		})
	}
}

func TestTokenString(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: TokenNum, Text: "-1.5", Pos: 3}, "Num:-1.5@3"},
		{Token{Kind: TokenOp, Text: "^", Pos: 1}, "Op:^@1"},
		{Token{Kind: TokenFunc, Text: "sqrt", Pos: 2}, "Func:sqrt@2"},
		{Token{Kind: TokenOpen, Text: "(", Pos: 4}, "Open:(@4"},
		{Token{Kind: TokenClose, Text: ")", Pos: 5}, "Close:)@5"},
		{Token{}, "None:@0"},
		{Token{Kind: 99}, "TokenKind(99):@0"},
	}
	for _, c := range cases {
		if got := c.tok.String(); got != c.want {
			t.Errorf("wrong string for %#v: want %q, got %q", c.tok, c.want, got)
		}
	}
}
