package calculator

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
}

// yields reports whether an operator already on the stack must be output
// before pushing next. On equal precedence, next's associativity decides.
func (p operator) yields(next operator) bool {
	if p.prec != next.prec {
		return p.prec > next.prec
	}
	return !next.right
}

// binop gets the binary operator for a token string. ok is false if there is
// no such operator.
func binop(text string) (op operator, ok bool) {
	switch text {
	case "+", "-":
		return operator{1, false}, true
	case "*", "/", "%":
		return operator{2, false}, true
	case "^":
		return operator{3, true}, true
	default:
		return operator{}, false
	}
}

// ToPostfix reorders infix tokens into postfix order using the shunting-yard
// algorithm. Parentheses do not appear in the result. A function is output
// immediately after the close parenthesis that ends the group following it.
func ToPostfix(tokens []Token) ([]Token, error) {
	out := make([]Token, 0, len(tokens))
	var stack []Token
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenNum:
			out = append(out, tok)
		case TokenOp:
			op, ok := binop(tok.Text)
			if !ok {
				return nil, &TokenError{Token: tok}
			}
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.Kind != TokenOp {
					break
				}
				// Operators on the stack were checked when pushed.
				p, _ := binop(top.Text)
				if !p.yields(op) {
					break
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		case TokenFunc, TokenOpen:
			stack = append(stack, tok)
		case TokenClose:
			for {
				if len(stack) == 0 {
					return nil, &BracketError{Col: tok.Pos, Right: tok.Text}
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.Kind == TokenOpen {
					break
				}
				out = append(out, top)
			}
			if len(stack) > 0 && stack[len(stack)-1].Kind == TokenFunc {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
		default:
			return nil, &TokenError{Token: tok}
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.Kind == TokenOpen {
			return nil, &BracketError{Col: top.Pos, Left: top.Text}
		}
		out = append(out, top)
	}
	return out, nil
}
