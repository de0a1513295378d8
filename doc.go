// Package calculator implements a decimal calculator for infix expressions.
//
// Expressions contain decimal numbers, the binary operators + - * / % and ^,
// parentheses, and the functions sin, cos, tan, sqrt, ln, and log (base 10),
// each applied to the parenthesized group that follows it, as in "sqrt(9)".
// A minus sign at the start of an expression or after an operator or open
// parenthesis negates the number after it, so "3*-2" is -6. "2^3^2" is
// "2^(3^2)".
//
// Evaluation happens in three passes: Tokenize, ToPostfix, and EvalPostfix.
// Arithmetic is decimal, rounded after every operation to the precision of a
// Context, 16 significant digits with round-half-even by default. The
// exception is exponentiation, which along with the functions is computed in
// binary floating point and converted back, unless the Context is created with
// ArbitraryFuncs.
//
package calculator
