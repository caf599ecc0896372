package rdpcalc

import (
	"math"

	"fortio.org/log"
)

// Program = { '$' ident [':'] '=' Expr ';' } Expr
// Expr    = Term { ('+' | '-') Term }
// Term    = Base { ('*' | '/') Base }
// Base    = Factor { '**' Factor }
// Factor  = num | '+' num | '-' num | '(' Expr ')' | '[' Expr ']' | '|' Expr '|'
//         | ident | funcname '(' Expr ')'
//
// Every rule returns its value as soon as it is parsed. Nothing is kept
// except the bindings made by assignments.

// parser holds one token of lookahead over a lexer.
type parser struct {
	scan *lexer
	tok  Token
	syms *SymbolTable
	// prec is the mantissa size for extended precision operations, or 0 to
	// use float64 throughout.
	prec uint
}

// factorStarts are the token kinds which can begin a factor, other than
// function names.
var factorStarts = []Kind{KindNumber, KindPlus, KindMinus, KindLParen, KindLBracket, KindPipe, KindIdent}

// run primes the lookahead, parses a whole program, and requires that it end
// at EOF.
func (p *parser) run() (float64, error) {
	if err := p.advance(); err != nil {
		return 0, err
	}
	v, err := p.program()
	if err != nil {
		return 0, err
	}
	if err := p.match(KindEOF); err != nil {
		return 0, err
	}
	return v, nil
}

func (p *parser) advance() error {
	tok, err := p.scan.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// match consumes the lookahead if it is of kind k.
func (p *parser) match(k Kind) error {
	if p.tok.Kind != k {
		return &SyntaxError{Got: p.tok, Want: []Kind{k}}
	}
	return p.advance()
}

func (p *parser) program() (float64, error) {
	for p.tok.Kind == KindDollar {
		if err := p.assignment(); err != nil {
			return 0, err
		}
	}
	return p.expr()
}

// assignment parses '$' ident [':'] '=' Expr ';' and binds the result. An
// existing binding is updated in place unless it is read-only, which is
// checked before the right-hand side is evaluated.
func (p *parser) assignment() error {
	if err := p.match(KindDollar); err != nil {
		return err
	}
	name := p.tok
	if err := p.match(KindIdent); err != nil {
		return err
	}
	d := p.syms.Find(name.Text)
	if d != nil && d.IsConst() {
		return &ConstError{Col: name.Pos, Name: name.Text}
	}
	var flags Flags
	if p.tok.Kind == KindColon {
		if err := p.match(KindColon); err != nil {
			return err
		}
		flags = ReadOnly
	}
	if err := p.match(KindEquals); err != nil {
		return err
	}
	v, err := p.expr()
	if err != nil {
		return err
	}
	if err := p.match(KindSemicolon); err != nil {
		return err
	}
	log.LogVf("bind %s = %g (read-only %t)", name.Text, v, flags&ReadOnly != 0)
	if d != nil {
		d.Value, d.Flags = v, flags
		return nil
	}
	return p.syms.Insert(name.Text, Descriptor{Value: v, Flags: flags})
}

func (p *parser) expr() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.tok.Kind {
		case KindPlus:
			if err := p.match(KindPlus); err != nil {
				return 0, err
			}
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v += r
		case KindMinus:
			if err := p.match(KindMinus); err != nil {
				return 0, err
			}
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v -= r
		default:
			return v, nil
		}
	}
}

func (p *parser) term() (float64, error) {
	v, err := p.base()
	if err != nil {
		return 0, err
	}
	for {
		switch p.tok.Kind {
		case KindMultiply:
			if err := p.match(KindMultiply); err != nil {
				return 0, err
			}
			r, err := p.base()
			if err != nil {
				return 0, err
			}
			v *= r
		case KindDivide:
			if err := p.match(KindDivide); err != nil {
				return 0, err
			}
			r, err := p.base()
			if err != nil {
				return 0, err
			}
			v /= r
		default:
			return v, nil
		}
	}
}

// base parses exponentiation, which associates to the left: 2**3**2 is 64.
func (p *parser) base() (float64, error) {
	v, err := p.factor()
	if err != nil {
		return 0, err
	}
	for p.tok.Kind == KindPow {
		if err := p.match(KindPow); err != nil {
			return 0, err
		}
		r, err := p.factor()
		if err != nil {
			return 0, err
		}
		v = pow(v, r, p.prec)
	}
	return v, nil
}

func (p *parser) factor() (float64, error) {
	switch k := p.tok.Kind; k {
	case KindNumber:
		v := p.tok.Num
		return v, p.match(KindNumber)
	case KindPlus, KindMinus:
		// A sign applies only to a number literal.
		if err := p.match(k); err != nil {
			return 0, err
		}
		v := p.tok.Num
		if err := p.match(KindNumber); err != nil {
			return 0, err
		}
		if k == KindMinus {
			v = -v
		}
		return v, nil
	case KindLParen:
		return p.enclosed(KindLParen, KindRParen)
	case KindLBracket:
		v, err := p.enclosed(KindLBracket, KindRBracket)
		if err != nil {
			return 0, err
		}
		return factorialPrec(v, p.prec), nil
	case KindPipe:
		v, err := p.enclosed(KindPipe, KindPipe)
		if err != nil {
			return 0, err
		}
		return math.Abs(v), nil
	case KindIdent:
		d := p.syms.Find(p.tok.Text)
		if d == nil {
			return 0, &NameError{Col: p.tok.Pos, Name: p.tok.Text}
		}
		v := d.Value
		return v, p.match(KindIdent)
	default:
		if k.IsFunc() {
			if err := p.match(k); err != nil {
				return 0, err
			}
			v, err := p.enclosed(KindLParen, KindRParen)
			if err != nil {
				return 0, err
			}
			return call(k, v, p.prec), nil
		}
		return 0, &SyntaxError{Got: p.tok, Want: factorStarts}
	}
}

// enclosed parses open Expr end.
func (p *parser) enclosed(open, end Kind) (float64, error) {
	if err := p.match(open); err != nil {
		return 0, err
	}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	return v, p.match(end)
}
