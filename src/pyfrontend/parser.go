package pyfrontend

import (
	"fmt"

	"github.com/tartavull/fastpy/src/hostast"
)

// Parse lexes and parses src, expecting exactly one top-level function
// definition: a single function definition is the supported unit of
// compilation.
func Parse(src string) (*hostast.Module, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseModule()
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance()    { p.pos++ }

func (p *parser) at(typ tokenType) bool { return p.cur().typ == typ }

func (p *parser) atOp(val string) bool {
	return p.cur().typ == tokOp && p.cur().val == val
}

func (p *parser) expect(typ tokenType, what string) (token, error) {
	if !p.at(typ) {
		return token{}, fmt.Errorf("line %d: expected %s, got %q", p.cur().pos.Line, what, p.cur().val)
	}
	t := p.cur()
	p.advance()
	return t, nil
}

func (p *parser) expectOp(val string) error {
	if !p.atOp(val) {
		return fmt.Errorf("line %d: expected %q, got %q", p.cur().pos.Line, val, p.cur().val)
	}
	p.advance()
	return nil
}

func (p *parser) skipNewlines() {
	for p.at(tokNewline) {
		p.advance()
	}
}

func (p *parser) parseModule() (*hostast.Module, error) {
	p.skipNewlines()
	fn, err := p.parseFunctionDef()
	if err != nil {
		return nil, err
	}
	return &hostast.Module{Body: []hostast.Node{fn}}, nil
}

func (p *parser) parseFunctionDef() (*hostast.FunctionDef, error) {
	defTok, err := p.expect(tokDef, "'def'")
	if err != nil {
		return nil, err
	}
	name, err := p.expect(tokIdent, "function name")
	if err != nil {
		return nil, err
	}
	if err := p.expectOp("("); err != nil {
		return nil, err
	}
	var args []string
	for !p.atOp(")") {
		a, err := p.expect(tokIdent, "parameter name")
		if err != nil {
			return nil, err
		}
		args = append(args, a.val)
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	if err := p.expectOp(":"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &hostast.FunctionDef{hostast.At(defTok.pos), name.val, args, body}, nil
}

// parseBlock parses the statement(s) following a ':'. If a NEWLINE follows
// immediately it expects an indented block terminated by DEDENT; otherwise
// it parses a single simple statement on the same line (the `def f(): pass`
// inline form Python also allows).
func (p *parser) parseBlock() ([]hostast.Node, error) {
	if p.at(tokNewline) {
		p.advance()
		if _, err := p.expect(tokIndent, "indented block"); err != nil {
			return nil, err
		}
		var stmts []hostast.Node
		for !p.at(tokDedent) {
			s, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, s)
			p.skipNewlines()
		}
		p.advance() // consume DEDENT
		return stmts, nil
	}
	s, err := p.parseSimpleStatement()
	if err != nil {
		return nil, err
	}
	return []hostast.Node{s}, nil
}

func (p *parser) parseStatement() (hostast.Node, error) {
	if p.at(tokFor) {
		return p.parseFor()
	}
	s, err := p.parseSimpleStatement()
	if err != nil {
		return nil, err
	}
	if p.at(tokNewline) {
		p.advance()
	}
	return s, nil
}

func (p *parser) parseSimpleStatement() (hostast.Node, error) {
	switch {
	case p.at(tokReturn):
		tok := p.cur()
		p.advance()
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &hostast.Return{hostast.At(tok.pos), v}, nil
	case p.at(tokPass):
		tok := p.cur()
		p.advance()
		return &hostast.Pass{hostast.At(tok.pos)}, nil
	case p.at(tokIdent):
		tok := p.cur()
		name := tok.val
		p.advance()
		switch {
		case p.atOp("="):
			p.advance()
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return &hostast.Assign{hostast.At(tok.pos), name, v}, nil
		case p.atOp("+="), p.atOp("*="):
			op := p.cur().val[:1]
			p.advance()
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return &hostast.AugAssign{hostast.At(tok.pos), op, name, v}, nil
		default:
			return nil, fmt.Errorf("line %d: expected assignment after identifier %q", tok.pos.Line, name)
		}
	}
	return nil, fmt.Errorf("line %d: unsupported statement starting with %q", p.cur().pos.Line, p.cur().val)
}

func (p *parser) parseFor() (hostast.Node, error) {
	forTok, _ := p.expect(tokFor, "'for'")
	target, err := p.expect(tokIdent, "loop variable")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokIn, "'in'"); err != nil {
		return nil, err
	}
	iterName, err := p.expect(tokIdent, "'range' or 'xrange'")
	if err != nil {
		return nil, err
	}
	if iterName.val != "range" && iterName.val != "xrange" {
		return nil, fmt.Errorf("line %d: unsupported iterator %q, only range/xrange", iterName.pos.Line, iterName.val)
	}
	if err := p.expectOp("("); err != nil {
		return nil, err
	}
	var rangeArgs []hostast.Node
	for !p.atOp(")") {
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		rangeArgs = append(rangeArgs, a)
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	if len(rangeArgs) != 1 && len(rangeArgs) != 2 {
		return nil, fmt.Errorf("line %d: range() takes 1 or 2 arguments", forTok.pos.Line)
	}
	if err := p.expectOp(":"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &hostast.For{hostast.At(forTok.pos), target.val, rangeArgs, body}, nil
}

// Expression grammar: expr := term (('+') term)* ; term := factor (('*') factor)*
func (p *parser) parseExpr() (hostast.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.atOp("+") {
		tok := p.cur()
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &hostast.BinOp{hostast.At(tok.pos), "+", left, right}
	}
	return left, nil
}

func (p *parser) parseTerm() (hostast.Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.atOp("*") {
		tok := p.cur()
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &hostast.BinOp{hostast.At(tok.pos), "*", left, right}
	}
	return left, nil
}

func (p *parser) parseFactor() (hostast.Node, error) {
	switch {
	case p.at(tokInt):
		tok := p.cur()
		p.advance()
		n, err := parseInt(tok.val)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", tok.pos.Line, err)
		}
		return &hostast.NumInt{hostast.At(tok.pos), n}, nil
	case p.at(tokFloat):
		tok := p.cur()
		p.advance()
		var f float64
		if _, err := fmt.Sscanf(tok.val, "%g", &f); err != nil {
			return nil, fmt.Errorf("line %d: invalid float %q", tok.pos.Line, tok.val)
		}
		return &hostast.NumFloat{hostast.At(tok.pos), f}, nil
	case p.atOp("("):
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return e, nil
	case p.at(tokIdent):
		tok := p.cur()
		p.advance()
		node := hostast.Node(&hostast.Name{hostast.At(tok.pos), tok.val})
		for {
			switch {
			case p.atOp("."):
				p.advance()
				attr, err := p.expect(tokIdent, "attribute name")
				if err != nil {
					return nil, err
				}
				node = &hostast.Attribute{hostast.At(tok.pos), node, attr.val}
			case p.atOp("["):
				p.advance()
				ix, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				if err := p.expectOp("]"); err != nil {
					return nil, err
				}
				node = &hostast.Subscript{hostast.At(tok.pos), node, ix}
			default:
				return node, nil
			}
		}
	}
	return nil, fmt.Errorf("line %d: unexpected token %q in expression", p.cur().pos.Line, p.cur().val)
}
