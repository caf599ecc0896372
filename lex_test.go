package rdpcalc

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestLex(t *testing.T) {
	num := func(v float64, pos int) Token { return Token{Kind: KindNumber, Num: v, Pos: pos} }
	op := func(k Kind, pos int) Token { return Token{Kind: k, Pos: pos} }
	word := func(k Kind, text string, pos int) Token { return Token{Kind: k, Text: text, Pos: pos} }
	cases := []struct {
		src    string
		tokens []Token
		// err is whether scanning ends with a LexError instead of EOF.
		err bool
	}{
		// spaces
		{"", nil, false},
		{" \t \r\n ", nil, false},
		// numbers
		{"0", []Token{num(0, 1)}, false},
		{"9876543210", []Token{num(9876543210, 1)}, false},
		{"1 0", []Token{num(1, 1), num(0, 3)}, false},
		{"1.5", []Token{num(1.5, 1)}, false},
		{"007", []Token{num(7, 1)}, false},
		{"12.", []Token{num(12, 1)}, false},
		{"1.2.3", []Token{num(1.2, 1)}, true},
		{".5", nil, true},
		{"-1", []Token{op(KindMinus, 1), num(1, 2)}, false},
		{"1e1", []Token{num(1, 1), word(KindIdent, "e1", 2)}, false},
		// constants
		{"e", []Token{{Kind: KindNumber, Num: constants["e"], Text: "e", Pos: 1}}, false},
		{"pi", []Token{{Kind: KindNumber, Num: constants["pi"], Text: "pi", Pos: 1}}, false},
		{"2pi", []Token{num(2, 1), {Kind: KindNumber, Num: constants["pi"], Text: "pi", Pos: 2}}, false},
		// identifiers
		{"x", []Token{word(KindIdent, "x", 1)}, false},
		{"exp", []Token{word(KindIdent, "exp", 1)}, false},
		{"pix", []Token{word(KindIdent, "pix", 1)}, false},
		{"p", []Token{word(KindIdent, "p", 1)}, false},
		{"e2", []Token{word(KindIdent, "e2", 1)}, false},
		{"Ab12c", []Token{word(KindIdent, "Ab12c", 1)}, false},
		{"log", []Token{word(KindIdent, "log", 1)}, false},
		// functions
		{"sin", []Token{word(KindSin, "sin", 1)}, false},
		{"log10(", []Token{word(KindLog10, "log10", 1), op(KindLParen, 6)}, false},
		{"log2", []Token{word(KindLog2, "log2", 1)}, false},
		{"sqrtx", []Token{word(KindIdent, "sqrtx", 1)}, false},
		// operators
		{"+-*/", []Token{op(KindPlus, 1), op(KindMinus, 2), op(KindMultiply, 3), op(KindDivide, 4)}, false},
		{"**", []Token{op(KindPow, 1)}, false},
		{"***", []Token{op(KindPow, 1), op(KindMultiply, 3)}, false},
		{"****", []Token{op(KindPow, 1), op(KindPow, 3)}, false},
		{"* *", []Token{op(KindMultiply, 1), op(KindMultiply, 3)}, false},
		{"2**-3", []Token{num(2, 1), op(KindPow, 2), op(KindMinus, 4), num(3, 5)}, false},
		{"([|])", []Token{op(KindLParen, 1), op(KindLBracket, 2), op(KindPipe, 3), op(KindRBracket, 4), op(KindRParen, 5)}, false},
		{"$x:=1;", []Token{op(KindDollar, 1), word(KindIdent, "x", 2), op(KindColon, 3), op(KindEquals, 4), num(1, 5), op(KindSemicolon, 6)}, false},
		// comments
		{"# comment\n4", []Token{num(4, 11)}, false},
		{"# a\n# b\n5", []Token{num(5, 9)}, false},
		{"1 # one\n+ 2", []Token{num(1, 1), op(KindPlus, 9), num(2, 11)}, false},
		{"# trailing", nil, false},
		// terminators
		{"1\x002", []Token{num(1, 1)}, false},
		// erroneous characters
		{"@", nil, true},
		{"1 @", []Token{num(1, 1)}, true},
		{"_x", nil, true},
		{"1,2", []Token{num(1, 1)}, true},
	}

	for _, c := range cases {
		scan, err := newLexer(strings.NewReader(c.src), 0, funcwords)
		if err != nil {
			t.Fatalf("creating lexer for %q: %v", c.src, err)
		}
		for _, want := range c.tokens {
			got, err := scan.next()
			if err != nil {
				t.Errorf("scanning %q: expected token %v but got error %v", c.src, want, err)
				continue
			}
			if got != want {
				t.Errorf("scanning %q: want %v, got %v", c.src, want, got)
			}
		}
		got, err := scan.next()
		if c.err {
			var lerr *LexError
			if !errors.As(err, &lerr) {
				t.Errorf("scanning %q: want LexError, got token %v with error %v", c.src, got, err)
			}
			continue
		}
		if err != nil || got.Kind != KindEOF {
			t.Errorf("scanning %q: want EOF, got token %v with error %v", c.src, got, err)
		}
	}
}

func TestLexEOFIsStable(t *testing.T) {
	scan, err := newLexer(strings.NewReader("1  "), 0, funcwords)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := scan.next(); err != nil {
		t.Fatal(err)
	}
	first, err := scan.next()
	if err != nil || first.Kind != KindEOF {
		t.Fatalf("want EOF, got %v with error %v", first, err)
	}
	pos := scan.pos
	for i := 0; i < 3; i++ {
		tok, err := scan.next()
		if err != nil || tok != first {
			t.Errorf("EOF #%d: want %v, got %v with error %v", i+2, first, tok, err)
		}
		if scan.pos != pos {
			t.Errorf("EOF #%d moved cursor from %d to %d", i+2, pos, scan.pos)
		}
	}
}

func TestLexCursor(t *testing.T) {
	scan, err := newLexer(strings.NewReader("  123.5 + abc ** 2"), 0, funcwords)
	if err != nil {
		t.Fatal(err)
	}
	last := 0
	for {
		tok, err := scan.next()
		if err != nil {
			t.Fatal(err)
		}
		if scan.pos < last {
			t.Errorf("cursor moved backward from %d to %d at %v", last, scan.pos, tok)
		}
		if scan.mark > scan.pos {
			t.Errorf("mark %d is past cursor %d at %v", scan.mark, scan.pos, tok)
		}
		if tok.Kind == KindNumber && tok.Num == 123.5 && (scan.mark != 2 || scan.pos != 7) {
			t.Errorf("number spans [%d, %d), want [2, 7)", scan.mark, scan.pos)
		}
		last = scan.pos
		if tok.Kind == KindEOF {
			break
		}
	}
}

func TestLexNoFuncs(t *testing.T) {
	scan, err := newLexer(strings.NewReader("sin cos"), 0, map[string]Kind{})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"sin", "cos"} {
		tok, err := scan.next()
		if err != nil {
			t.Fatal(err)
		}
		if tok.Kind != KindIdent || tok.Text != want {
			t.Errorf("want identifier %q, got %v", want, tok)
		}
	}
}

func TestLexInput(t *testing.T) {
	if _, err := newLexer(nil, 0, funcwords); !errors.Is(err, ErrNoInput) {
		t.Errorf("nil stream: want ErrNoInput, got %v", err)
	}
	boom := errors.New("boom")
	if _, err := newLexer(iotest.ErrReader(boom), 0, funcwords); !errors.Is(err, boom) {
		t.Errorf("failing stream: want wrapped %v, got %v", boom, err)
	}
	scan, err := newLexer(strings.NewReader("123456"), 4, funcwords)
	if err != nil {
		t.Fatal(err)
	}
	if tok, err := scan.next(); err != nil || tok.Num != 1234 {
		t.Errorf("limit 4: want 1234, got %v with error %v", tok, err)
	}
	scan, err = newLexer(iotest.OneByteReader(strings.NewReader("42")), 0, funcwords)
	if err != nil {
		t.Fatal(err)
	}
	if tok, err := scan.next(); err != nil || tok.Num != 42 {
		t.Errorf("short reads: want 42, got %v with error %v", tok, err)
	}
}

func TestLexErrorMessage(t *testing.T) {
	scan, err := newLexer(strings.NewReader("1 ? 2"), 0, funcwords)
	if err != nil {
		t.Fatal(err)
	}
	scan.next()
	_, err = scan.next()
	var lerr *LexError
	if !errors.As(err, &lerr) {
		t.Fatalf("want LexError, got %#v", err)
	}
	if lerr.Pos() != 3 {
		t.Errorf("want column 3, got %d", lerr.Pos())
	}
	if msg := err.Error(); !strings.HasPrefix(msg, "lexer: ") || !strings.Contains(msg, `"?"`) {
		t.Errorf("message %q should name the phase and the character", msg)
	}
}

func TestLexErrorNonASCII(t *testing.T) {
	scan, err := newLexer(strings.NewReader("1 + \u00e9"), 0, funcwords)
	if err != nil {
		t.Fatal(err)
	}
	scan.next()
	scan.next()
	_, err = scan.next()
	var lerr *LexError
	if !errors.As(err, &lerr) {
		t.Fatalf("want LexError, got %#v", err)
	}
	if lerr.Text != "\xc3" || lerr.Pos() != 5 {
		t.Errorf("want byte 0xc3 at column 5, got %q at %d", lerr.Text, lerr.Pos())
	}
	if msg := err.Error(); !strings.HasSuffix(msg, `unexpected character "\xc3"`) {
		t.Errorf("message %q should quote the raw byte", msg)
	}
}
