// Package rdpcalc implements a small calculator language which evaluates
// expressions as it parses them.
//
// A program is zero or more assignments followed by one expression:
//
//	$r = 2;
//	$area: = pi * r ** 2;   # ':=' binds a constant
//	area / [3]
//
// Operators are + - * / and ** for powers, which associate to the left, so
// "2**3**2" is 64. [x] is the factorial of x, |x| is its absolute value, and
// sin cos tan csc sec cot floor ceil sqrt cbrt log10 log2 take one
// parenthesized argument. The names e and pi are constants. A sign may only
// precede a number, so "-(1)" and "-x" are syntax errors.
//
// Evaluation stops at the first lexical, syntax or name error. A Context keeps
// the names bound by one program available to the programs after it.
package rdpcalc
