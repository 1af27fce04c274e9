package imapresp

import (
	"fmt"
	"strings"
	"testing"
)

type tok struct {
	kind TokenKind
	val  string
	num  uint64
}

func (t tok) String() string {
	return fmt.Sprintf("{%s %q %d}", t.kind, t.val, t.num)
}

func lexAll(t *testing.T, input string, mode Mode) ([]tok, error) {
	t.Helper()
	s := NewScanner([]byte(input))
	var got []tok
	for {
		tk, err := s.Next(mode)
		if err != nil {
			return got, err
		}
		got = append(got, tok{kind: tk.Kind, val: string(tk.Value), num: tk.Number})
		if tk.Kind == TokenEOF {
			return got, nil
		}
	}
}

func TestScannerExprBeg(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   []tok
		errstr string
	}{
		{
			name:  "tagged ok",
			input: "a1 OK COMPLETED\r\n",
			want: []tok{
				{kind: TokenAtom, val: "a1"},
				{kind: TokenSpace, val: " "},
				{kind: TokenAtom, val: "OK"},
				{kind: TokenSpace, val: " "},
				{kind: TokenAtom, val: "COMPLETED"},
				{kind: TokenCRLF},
				{kind: TokenEOF},
			},
		},
		{
			name:  "sequence set is a single atom",
			input: "5:10,12,*\r\n",
			want: []tok{
				{kind: TokenAtom, val: "5:10,12,"},
				{kind: TokenStar},
				{kind: TokenCRLF},
				{kind: TokenEOF},
			},
		},
		{
			name:  "nil number plus reclassification",
			input: "NIL 99 +\r\n",
			want: []tok{
				{kind: TokenNIL, val: "NIL"},
				{kind: TokenSpace, val: " "},
				{kind: TokenNumber, val: "99", num: 99},
				{kind: TokenSpace, val: " "},
				{kind: TokenPlus, val: "+"},
				{kind: TokenCRLF},
				{kind: TokenEOF},
			},
		},
		{
			name:  "bracket and flag punctuation",
			input: `[UIDVALIDITY 1] (\Seen \*)` + "\r\n",
			want: []tok{
				{kind: TokenLBra},
				{kind: TokenAtom, val: "UIDVALIDITY"},
				{kind: TokenSpace, val: " "},
				{kind: TokenNumber, val: "1", num: 1},
				{kind: TokenRBra},
				{kind: TokenSpace, val: " "},
				{kind: TokenLPar},
				{kind: TokenBSlash},
				{kind: TokenAtom, val: "Seen"},
				{kind: TokenSpace, val: " "},
				{kind: TokenBSlash},
				{kind: TokenStar},
				{kind: TokenRPar},
				{kind: TokenCRLF},
				{kind: TokenEOF},
			},
		},
		{
			name:  "quoted string with escapes",
			input: `"a \"b\" c"` + "\r\n",
			want: []tok{
				{kind: TokenQuoted, val: `a "b" c`},
				{kind: TokenCRLF},
				{kind: TokenEOF},
			},
		},
		{
			name:  "literal",
			input: "{3}\r\nabc\r\n",
			want: []tok{
				{kind: TokenLiteral, val: "abc"},
				{kind: TokenCRLF},
				{kind: TokenEOF},
			},
		},
		{
			name:   "unterminated quoted string",
			input:  `"abc`,
			errstr: "unterminated quoted string",
		},
		{
			name:   "literal declares more bytes than remain",
			input:  "{10}\r\nabc",
			errstr: "only",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := lexAll(t, test.input, ExprBeg)
			if test.errstr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got tokens %v", test.errstr, got)
				}
				if !strings.Contains(err.Error(), test.errstr) {
					t.Fatalf("got error %q, want it to contain %q", err, test.errstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(test.want) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(test.want), test.want)
			}
			for i := range got {
				if got[i] != test.want[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], test.want[i])
				}
			}
		})
	}
}

func TestScannerLookaheadCache(t *testing.T) {
	s := NewScanner([]byte("OK\r\n"))
	first, err := s.Peek(ExprBeg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Peek(ExprBeg)
	if err != nil {
		t.Fatal(err)
	}
	if first.Kind != second.Kind || string(first.Value) != string(second.Value) {
		t.Fatalf("repeated Peek returned different tokens: %v vs %v", first, second)
	}
	consumed, err := s.Next(ExprBeg)
	if err != nil {
		t.Fatal(err)
	}
	if consumed.Kind != TokenAtom || string(consumed.Value) != "OK" {
		t.Fatalf("Next returned %v, want atom OK", consumed)
	}
}

func TestScannerExprDataParens(t *testing.T) {
	got, err := lexAll(t, "(NIL)\r\n", ExprData)
	if err != nil {
		t.Fatal(err)
	}
	want := []tok{
		{kind: TokenLPar},
		{kind: TokenNIL, val: "NIL"},
		{kind: TokenRPar},
		{kind: TokenCRLF},
		{kind: TokenEOF},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
