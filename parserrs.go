package rdpcalc

import (
	"strconv"
	"strings"
)

// LexError indicates a character that cannot start any token. It implements
// InputError.
type LexError struct {
	// Text is the offending character, or the literal being scanned.
	Text string
	// Kind is the type of token the lexer was scanning, "number" or the empty
	// string if no token kind had been decided.
	Kind string
	// Col is the 1-based byte column of the error.
	Col int
}

func (err *LexError) Error() string {
	if err.Kind == "" {
		return "lexer: " + errpos(err.Col, "unexpected character "+strconv.Quote(err.Text))
	}
	return "lexer: " + errpos(err.Col, "invalid "+err.Kind+" "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}

// SyntaxError indicates a token that the grammar does not allow where it
// appeared. It implements InputError.
type SyntaxError struct {
	// Got is the offending lookahead token.
	Got Token
	// Want lists the token kinds that would have been accepted.
	Want []Kind
}

func (err *SyntaxError) Error() string {
	want := make([]string, len(err.Want))
	for i, k := range err.Want {
		want[i] = k.String()
	}
	got := err.Got.Kind.String()
	if err.Got.Kind == KindIdent {
		got += " " + strconv.Quote(err.Got.Text)
	}
	return "parser: " + errpos(err.Got.Pos, "syntax error: expected "+strings.Join(want, " or ")+", got "+got)
}

func (err *SyntaxError) Pos() int {
	return err.Got.Pos
}

// NameError is an error from a reference to a name that has not been bound by
// an assignment. It implements InputError.
type NameError struct {
	// Col is the position of the reference.
	Col int
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "parser: " + errpos(err.Col, "undeclared variable "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

// ConstError is an error from an assignment to a name bound as a constant. It
// implements InputError.
type ConstError struct {
	// Col is the position of the name in the assignment.
	Col int
	// Name is the constant's name.
	Name string
}

func (err *ConstError) Error() string {
	return "parser: " + errpos(err.Col, "cannot re-assign constant "+strconv.Quote(err.Name))
}

func (err *ConstError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return "column " + strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based byte column of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*ConstError)(nil)
)
