package rdpcalc

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// DefaultInputLimit is the number of bytes of program text read from the
// input stream unless InputLimit says otherwise. Anything past the limit is
// ignored.
const DefaultInputLimit = 256

// ErrNoInput is returned when an evaluation is started without an input
// stream.
var ErrNoInput = errors.New("lexer: a stream must be specified to initialize the lexer")

type lexer struct {
	// buf holds the whole program text. The end of buf, or a NUL byte within
	// it, terminates the input.
	buf []byte
	// pos is the cursor. It never moves backward.
	pos int
	// mark is the start of the number or word being scanned. mark <= pos.
	mark int
	// words maps reserved function names to their token kinds.
	words map[string]Kind
}

// newLexer reads up to limit bytes from src once and prepares to scan them.
func newLexer(src io.Reader, limit int, words map[string]Kind) (*lexer, error) {
	if src == nil {
		return nil, ErrNoInput
	}
	if limit <= 0 {
		limit = DefaultInputLimit
	}
	buf := make([]byte, limit)
	n, err := io.ReadFull(src, buf)
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
	default:
		return nil, fmt.Errorf("lexer: reading input: %w", err)
	}
	return &lexer{buf: buf[:n], words: words}, nil
}

// peek returns the byte under the cursor, or 0 at the end of the input.
func (l *lexer) peek() byte {
	if l.pos >= len(l.buf) {
		return 0
	}
	return l.buf[l.pos]
}

// skip advances past whitespace and # comments. A comment runs up to and
// including the next newline.
func (l *lexer) skip() {
	for {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.pos++
		case '#':
			for c := l.peek(); c != 0 && c != '\n'; c = l.peek() {
				l.pos++
			}
			if l.peek() == '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

// next scans the next token. Once the input is exhausted, every call returns
// an EOF token at the same position.
func (l *lexer) next() (Token, error) {
	l.skip()
	c := l.peek()
	tok := Token{Pos: l.pos + 1}
	switch {
	case c == 0:
		tok.Kind = KindEOF
		return tok, nil
	case isDigit(c):
		return l.scanNum(tok)
	case isLetter(c):
		return l.scanWord(tok), nil
	}
	l.pos++
	switch c {
	case '+':
		tok.Kind = KindPlus
	case '-':
		tok.Kind = KindMinus
	case '*':
		tok.Kind = KindMultiply
		if l.peek() == '*' {
			l.pos++
			tok.Kind = KindPow
		}
	case '/':
		tok.Kind = KindDivide
	case '(':
		tok.Kind = KindLParen
	case ')':
		tok.Kind = KindRParen
	case '[':
		tok.Kind = KindLBracket
	case ']':
		tok.Kind = KindRBracket
	case '|':
		tok.Kind = KindPipe
	case '=':
		tok.Kind = KindEquals
	case '$':
		tok.Kind = KindDollar
	case ';':
		tok.Kind = KindSemicolon
	case ':':
		tok.Kind = KindColon
	default:
		return tok, &LexError{Text: string([]byte{c}), Col: tok.Pos}
	}
	return tok, nil
}

// scanNum scans digits, optionally followed by a dot and more digits.
func (l *lexer) scanNum(tok Token) (Token, error) {
	l.mark = l.pos
	for isDigit(l.peek()) {
		l.pos++
	}
	if l.peek() == '.' {
		l.pos++
		for isDigit(l.peek()) {
			l.pos++
		}
	}
	text := string(l.buf[l.mark:l.pos])
	// "12." is a complete literal.
	if text[len(text)-1] == '.' {
		text = text[:len(text)-1]
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return tok, &LexError{Text: text, Kind: "number", Col: tok.Pos}
	}
	tok.Kind = KindNumber
	tok.Num = v
	return tok, nil
}

// scanWord scans the longest run of letters and digits and classifies it as a
// function name, a constant, or an identifier.
func (l *lexer) scanWord(tok Token) Token {
	l.mark = l.pos
	for c := l.peek(); isLetter(c) || isDigit(c); c = l.peek() {
		l.pos++
	}
	tok.Text = string(l.buf[l.mark:l.pos])
	if k, ok := l.words[tok.Text]; ok {
		tok.Kind = k
		return tok
	}
	if v, ok := constants[tok.Text]; ok {
		tok.Kind = KindNumber
		tok.Num = v
		return tok
	}
	tok.Kind = KindIdent
	return tok
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
