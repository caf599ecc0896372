package rdpcalc

import "strconv"

// Kind is the kind of a lexical token.
type Kind int

const (
	// KindEOF indicates the end of the input.
	KindEOF Kind = iota
	KindPlus
	KindMinus
	KindMultiply
	KindDivide
	// KindPow is the two-character operator **.
	KindPow
	// KindNumber is a numeric literal or one of the constants e and pi.
	KindNumber
	KindLParen
	KindRParen
	KindLBracket
	KindRBracket
	KindPipe
	// KindIdent is a variable or constant name.
	KindIdent
	KindEquals
	KindDollar
	KindSemicolon
	KindColon

	// Function names. Each builtin function has its own kind so that the
	// parser can dispatch on the lookahead alone.
	KindSin
	KindCos
	KindTan
	KindCsc
	KindSec
	KindCot
	KindFloor
	KindCeil
	KindSqrt
	KindCbrt
	KindLog10
	KindLog2

	kindCount
)

var kindNames = [kindCount]string{
	KindEOF:       "EOF",
	KindPlus:      "'+'",
	KindMinus:     "'-'",
	KindMultiply:  "'*'",
	KindDivide:    "'/'",
	KindPow:       "'**'",
	KindNumber:    "number",
	KindLParen:    "'('",
	KindRParen:    "')'",
	KindLBracket:  "'['",
	KindRBracket:  "']'",
	KindPipe:      "'|'",
	KindIdent:     "identifier",
	KindEquals:    "'='",
	KindDollar:    "'$'",
	KindSemicolon: "';'",
	KindColon:     "':'",
	KindSin:       "sin",
	KindCos:       "cos",
	KindTan:       "tan",
	KindCsc:       "csc",
	KindSec:       "sec",
	KindCot:       "cot",
	KindFloor:     "floor",
	KindCeil:      "ceil",
	KindSqrt:      "sqrt",
	KindCbrt:      "cbrt",
	KindLog10:     "log10",
	KindLog2:      "log2",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// IsFunc reports whether k is the kind of a builtin function name.
func (k Kind) IsFunc() bool {
	return k >= KindSin && k < kindCount
}

// Token is a single lexical unit. Num is set for KindNumber and Text for
// KindIdent; function tokens carry their name in Text as well.
type Token struct {
	Kind Kind
	Num  float64
	Text string
	// Pos is the 1-based byte column where the token starts.
	Pos int
}

func (t Token) String() string {
	switch t.Kind {
	case KindNumber:
		return t.Kind.String() + ":" + strconv.FormatFloat(t.Num, 'g', -1, 64) + "@" + strconv.Itoa(t.Pos)
	case KindIdent:
		return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
	default:
		return t.Kind.String() + "@" + strconv.Itoa(t.Pos)
	}
}
