// Package pyfrontend is a small lexer and recursive-descent parser for
// exactly the Python syntactic subset that lowering knows how to handle: a
// single function definition, assignment/augmented-assignment, return,
// `for x in range(...)`, `.shape`, subscript load, `pass`, and `+`/`*`
// binary expressions. It stands in for the real (external, out of scope)
// host-language parser so this repository's own tests, benchmarks and demo
// CLI have something to drive the pipeline with.
//
// The lexer is a single loop: a lexer struct advances through a rune
// stream and a switch on the next rune decides which token to emit.
// Tokens are appended to a slice rather than sent on a channel, since
// pyfrontend has no parallel compilation to feed.
package pyfrontend

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tartavull/fastpy/src/hostast"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokNewline
	tokIndent
	tokDedent
	tokIdent
	tokInt
	tokFloat
	tokDef
	tokReturn
	tokFor
	tokIn
	tokPass
	tokOp // punctuation/operators: stored verbatim in val
)

type token struct {
	typ  tokenType
	val  string
	pos  hostast.Pos
}

var keywords = map[string]tokenType{
	"def":    tokDef,
	"return": tokReturn,
	"for":    tokFor,
	"in":     tokIn,
	"pass":   tokPass,
}

type lexer struct {
	src    string
	pos    int
	line   int
	col    int
	indent []int // indentation-column stack; indent[0] == 0
	toks   []token
	atBOL  bool // at beginning of logical line, looking for indentation
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src, line: 1, col: 1, indent: []int{0}, atBOL: true}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.toks, nil
}

func (l *lexer) run() error {
	for {
		if l.atBOL {
			if err := l.handleIndentation(); err != nil {
				return err
			}
			l.atBOL = false
			if l.pos >= len(l.src) {
				break
			}
		}
		r, w := l.peekRune()
		if w == 0 {
			break
		}
		switch {
		case r == '\n':
			l.advance(w)
			l.emit(tokNewline, "\n")
			l.line++
			l.col = 1
			l.atBOL = true
		case r == '#':
			l.skipLineComment()
		case unicode.IsSpace(r):
			l.advance(w)
		case unicode.IsDigit(r):
			l.lexNumber()
		case unicode.IsLetter(r) || r == '_':
			l.lexIdent()
		default:
			if err := l.lexOperator(); err != nil {
				return err
			}
		}
	}
	// Final NEWLINE + DEDENTs to close any open blocks, mirroring CPython's
	// tokenizer behavior at EOF.
	if len(l.toks) > 0 && l.toks[len(l.toks)-1].typ != tokNewline {
		l.emit(tokNewline, "\n")
	}
	for len(l.indent) > 1 {
		l.indent = l.indent[:len(l.indent)-1]
		l.emit(tokDedent, "")
	}
	l.emit(tokEOF, "")
	return nil
}

// handleIndentation consumes leading whitespace of a new logical line and
// emits INDENT/DEDENT tokens by comparing it against the indent stack. It
// skips over blank and comment-only lines entirely.
func (l *lexer) handleIndentation() error {
	for {
		start := l.pos
		col := 0
		for {
			r, w := l.peekRune()
			if r == ' ' {
				col++
				l.advance(w)
			} else if r == '\t' {
				col += 8 - (col % 8)
				l.advance(w)
			} else {
				break
			}
		}
		r, _ := l.peekRune()
		if r == '\n' || r == '#' || r == 0 {
			// Blank or comment-only line: consume it and keep looking for
			// the next line's indentation.
			if r == '#' {
				l.skipLineComment()
			}
			if r2, w2 := l.peekRune(); r2 == '\n' {
				l.advance(w2)
				l.line++
				l.col = 1
				continue
			}
			if l.pos >= len(l.src) {
				return nil
			}
			continue
		}
		_ = start
		top := l.indent[len(l.indent)-1]
		switch {
		case col > top:
			l.indent = append(l.indent, col)
			l.emit(tokIndent, "")
		case col < top:
			for len(l.indent) > 1 && l.indent[len(l.indent)-1] > col {
				l.indent = l.indent[:len(l.indent)-1]
				l.emit(tokDedent, "")
			}
			if l.indent[len(l.indent)-1] != col {
				return fmt.Errorf("line %d: inconsistent indentation", l.line)
			}
		}
		return nil
	}
}

func (l *lexer) peekRune() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	r, w := utf8.DecodeRuneInString(l.src[l.pos:])
	return r, w
}

func (l *lexer) advance(w int) {
	l.pos += w
	l.col++
}

func (l *lexer) skipLineComment() {
	for {
		r, w := l.peekRune()
		if r == 0 || r == '\n' {
			return
		}
		l.advance(w)
	}
}

func (l *lexer) lexNumber() {
	start := l.pos
	startCol := l.col
	isFloat := false
	for {
		r, w := l.peekRune()
		if unicode.IsDigit(r) {
			l.advance(w)
		} else if r == '.' && !isFloat {
			isFloat = true
			l.advance(w)
		} else {
			break
		}
	}
	lit := l.src[start:l.pos]
	if isFloat {
		l.emitAt(tokFloat, lit, startCol)
	} else {
		l.emitAt(tokInt, lit, startCol)
	}
}

func (l *lexer) lexIdent() {
	start := l.pos
	startCol := l.col
	for {
		r, w := l.peekRune()
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			l.advance(w)
		} else {
			break
		}
	}
	lit := l.src[start:l.pos]
	if kw, ok := keywords[lit]; ok {
		l.emitAt(kw, lit, startCol)
		return
	}
	l.emitAt(tokIdent, lit, startCol)
}

func (l *lexer) lexOperator() error {
	two := ""
	if l.pos+1 < len(l.src) {
		two = l.src[l.pos : l.pos+2]
	}
	startCol := l.col
	switch two {
	case "+=", "*=", "==":
		l.advance(1)
		l.advance(1)
		l.emitAt(tokOp, two, startCol)
		return nil
	}
	r, w := l.peekRune()
	switch r {
	case '(', ')', ':', ',', '.', '[', ']', '+', '-', '*', '=':
		l.advance(w)
		l.emitAt(tokOp, string(r), startCol)
		return nil
	}
	return fmt.Errorf("line %d: unexpected character %q", l.line, r)
}

func (l *lexer) emit(typ tokenType, val string) {
	l.emitAt(typ, val, l.col)
}

func (l *lexer) emitAt(typ tokenType, val string, col int) {
	l.toks = append(l.toks, token{typ: typ, val: val, pos: hostast.Pos{Line: l.line, Col: col}})
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
