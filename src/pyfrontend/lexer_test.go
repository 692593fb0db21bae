package pyfrontend

import "testing"

func types(toks []token) []tokenType {
	ts := make([]tokenType, len(toks))
	for i, tok := range toks {
		ts[i] = tok.typ
	}
	return ts
}

func assertTypes(t *testing.T, toks []token, want []tokenType) {
	t.Helper()
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %d %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLexSimpleBlock(t *testing.T) {
	toks, err := lex("def one():\n    return 1\n")
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	assertTypes(t, toks, []tokenType{
		tokDef, tokIdent, tokOp, tokOp, tokOp, tokNewline,
		tokIndent, tokReturn, tokInt, tokNewline,
		tokDedent, tokEOF,
	})
}

func TestLexIndentDedentNesting(t *testing.T) {
	src := "def f(a, n):\n" +
		"    total = 0\n" +
		"    for i in range(n):\n" +
		"        total += a\n" +
		"    return total\n"
	toks, err := lex(src)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	var indents, dedents int
	for _, tok := range toks {
		switch tok.typ {
		case tokIndent:
			indents++
		case tokDedent:
			dedents++
		}
	}
	if indents != 2 {
		t.Fatalf("expected 2 INDENTs (function body, loop body), got %d", indents)
	}
	if dedents != 2 {
		t.Fatalf("expected 2 DEDENTs balancing the INDENTs, got %d", dedents)
	}
}

func TestLexSkipsBlankAndCommentLines(t *testing.T) {
	src := "def f():\n" +
		"    # a comment\n" +
		"\n" +
		"    return 1\n"
	toks, err := lex(src)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	assertTypes(t, toks, []tokenType{
		tokDef, tokIdent, tokOp, tokOp, tokOp, tokNewline,
		tokIndent, tokReturn, tokInt, tokNewline,
		tokDedent, tokEOF,
	})
}

func TestLexAugAssignOperators(t *testing.T) {
	toks, err := lex("x += 1\n")
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	if toks[1].typ != tokOp || toks[1].val != "+=" {
		t.Fatalf("expected a single '+=' operator token, got %#v", toks[1])
	}
}

func TestLexFloatLiteral(t *testing.T) {
	toks, err := lex("x = 1.5\n")
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	found := false
	for _, tok := range toks {
		if tok.typ == tokFloat {
			found = true
			if tok.val != "1.5" {
				t.Fatalf("expected float literal '1.5', got %q", tok.val)
			}
		}
	}
	if !found {
		t.Fatalf("expected a tokFloat in %v", types(toks))
	}
}

func TestLexRejectsUnknownCharacter(t *testing.T) {
	if _, err := lex("x = 1 @ 2\n"); err == nil {
		t.Fatalf("expected an error for an unsupported character")
	}
}

func TestLexKeywordsNotIdentifiers(t *testing.T) {
	toks, err := lex("for i in range(1): pass\n")
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	assertTypes(t, toks, []tokenType{
		tokFor, tokIdent, tokIn, tokIdent, tokOp, tokInt, tokOp, tokOp,
		tokPass, tokNewline, tokEOF,
	})
}
