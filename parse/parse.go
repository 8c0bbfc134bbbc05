// Package parse implements the recursive-descent parser, turning a token
// stream from scan into an ast.Node tree.
//
// The function-per-precedence-level shape (expr -> addSub -> mulDiv ->
// implicit -> unary -> pow -> index -> atom) is the classic structure
// ivy's own parser uses for its operator chain (parse/parse.go), adapted
// here to the grammar's fixed, non-extensible operator set and explicit
// precedence table instead of ivy's runtime-extensible op tables.
//
// One resolved ambiguity: a strict reading of the precedence table would
// place unary "-" tighter than "^", but "−2^2 = −4" is a worked, testable
// example that only holds if unary "-" binds *looser* than "^". This
// parser follows the worked example (the authoritative, testable
// property) and places unary "-" between implicit multiplication and "^"
// in the precedence chain; see DESIGN.md.
package parse

import (
	"github.com/anthropics/mathexpr/ast"
	"github.com/anthropics/mathexpr/config"
	"github.com/anthropics/mathexpr/errs"
	"github.com/anthropics/mathexpr/scan"
)

// Parser holds the state of one parse.
type Parser struct {
	scanner *scan.Scanner
	cfg     *config.Config

	tok     scan.Token // current token
	havePeek bool
	peekTok scan.Token

	// lastClose is true when the token just consumed closed a group
	// (')', ']', '}') or was itself a number literal; these are the
	// only two left-hand triggers for implicit multiplication (spec
	// section 4.1).
	lastClose bool
}

// New returns a Parser reading from text under the given configuration
// (row-major affects only matrix-literal construction, done here).
func New(text string, cfg *config.Config) *Parser {
	return &Parser{scanner: scan.New(text), cfg: cfg}
}

func (p *Parser) next() scan.Token {
	if p.havePeek {
		p.tok = p.peekTok
		p.havePeek = false
	} else {
		p.tok = p.scanner.Next()
	}
	return p.tok
}

func (p *Parser) peek() scan.Token {
	if !p.havePeek {
		p.peekTok = p.scanner.Next()
		p.havePeek = true
	}
	return p.peekTok
}

// Parse parses a complete expression from text and returns its AST.
func Parse(text string, cfg *config.Config) (ast.Node, error) {
	p := New(text, cfg)
	p.next()
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.Type == scan.Assign {
		return nil, errs.New(errs.MisplacedEquals, int(p.tok.Pos), "'=' is only allowed as a direct argument of eq(...)")
	}
	if p.tok.Type != scan.EOF {
		return nil, errs.New(errs.UnexpectedToken, int(p.tok.Pos), "unexpected %s after expression", p.tok)
	}
	return n, nil
}

// parseExpr is the lowest-precedence level: "&" (plus-or-minus).
func (p *Parser) parseExpr() (ast.Node, error) {
	left, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == scan.Operator && p.tok.Text == "&" {
		pos := p.tok.Pos
		p.next()
		right, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{P: ast.Pos(pos), Op: "&", LHS: left, RHS: right}
	}
	return left, nil
}

func (p *Parser) parseAddSub() (ast.Node, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == scan.Operator && (p.tok.Text == "+" || p.tok.Text == "-") {
		op := p.tok.Text
		pos := p.tok.Pos
		p.next()
		right, err := p.parseMulDiv()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{P: ast.Pos(pos), Op: op, LHS: left, RHS: right}
	}
	return left, nil
}

func (p *Parser) parseMulDiv() (ast.Node, error) {
	left, err := p.parseImplicit()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == scan.Operator && (p.tok.Text == "*" || p.tok.Text == "/" || p.tok.Text == "#") {
		op := p.tok.Text
		pos := p.tok.Pos
		p.next()
		right, err := p.parseImplicit()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{P: ast.Pos(pos), Op: op, LHS: left, RHS: right}
	}
	return left, nil
}

// parseImplicit handles juxtaposition multiplication: a numeric literal
// or a closing ) ] } directly followed (no explicit operator) by an
// identifier or an opening ( [ { is parsed as "*".
func (p *Parser) parseImplicit() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.lastClose && isImplicitRHSStart(p.tok) {
		pos := p.tok.Pos
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{P: ast.Pos(pos), Op: "*", LHS: left, RHS: right}
	}
	return left, nil
}

func isImplicitRHSStart(tok scan.Token) bool {
	switch tok.Type {
	case scan.Identifier, scan.LeftParen, scan.LeftBrack, scan.LeftBrace:
		return true
	}
	return false
}

// parseUnary handles unary "-"; see the package doc comment for why this
// sits above "^" rather than below it.
func (p *Parser) parseUnary() (ast.Node, error) {
	if p.tok.Type == scan.Operator && p.tok.Text == "-" {
		pos := p.tok.Pos
		p.next()
		arg, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{P: ast.Pos(pos), Op: "-", Arg: arg}, nil
	}
	return p.parsePow()
}

// parsePow is right-associative "^".
func (p *Parser) parsePow() (ast.Node, error) {
	left, err := p.parseIndex()
	if err != nil {
		return nil, err
	}
	if p.tok.Type == scan.Operator && p.tok.Text == "^" {
		pos := p.tok.Pos
		p.next()
		right, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{P: ast.Pos(pos), Op: "^", LHS: left, RHS: right}, nil
	}
	return left, nil
}

// parseIndex is left-associative, 1-based "?".
func (p *Parser) parseIndex() (ast.Node, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == scan.Operator && p.tok.Text == "?" {
		pos := p.tok.Pos
		p.next()
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{P: ast.Pos(pos), Op: "?", LHS: left, RHS: right}
	}
	return left, nil
}

func (p *Parser) parseAtom() (ast.Node, error) {
	tok := p.tok
	switch tok.Type {
	case scan.Number:
		f, err := scan.ParseNumber(tok)
		if err != nil {
			return nil, err
		}
		p.next()
		p.lastClose = true
		return &ast.Number{P: ast.Pos(tok.Pos), Value: f}, nil
	case scan.Identifier:
		return p.parseIdentOrCall(tok)
	case scan.LeftParen:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(scan.RightParen); err != nil {
			return nil, err
		}
		p.lastClose = true
		return inner, nil
	case scan.LeftBrack:
		return p.parseBracket(tok)
	case scan.LeftBrace:
		return p.parseBrace(tok)
	case scan.Assign:
		return nil, errs.New(errs.MisplacedEquals, int(tok.Pos), "'=' is only allowed as a direct argument of eq(...)")
	case scan.EOF:
		return nil, errs.New(errs.UnexpectedToken, int(tok.Pos), "unexpected end of input")
	}
	return nil, errs.New(errs.UnexpectedToken, int(tok.Pos), "unexpected %s", tok)
}

func (p *Parser) parseIdentOrCall(tok scan.Token) (ast.Node, error) {
	p.next()
	if p.tok.Type != scan.LeftParen {
		p.lastClose = false
		return &ast.Var{P: ast.Pos(tok.Pos), Name: tok.Text}, nil
	}
	// Function call.
	p.next() // consume '('
	isEq := tok.Text == "eq"
	var args []ast.Node
	if p.tok.Type != scan.RightParen {
		for {
			arg, err := p.parseCallArg(isEq)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok.Type != scan.Comma {
				break
			}
			p.next()
		}
	}
	if err := p.expect(scan.RightParen); err != nil {
		return nil, err
	}
	p.lastClose = true
	return &ast.Call{P: ast.Pos(tok.Pos), Name: tok.Text, Args: args}, nil
}

// parseCallArg parses one argument of a call. Inside eq(...), an argument
// of the form "expr = expr" is an equation; everything else (including
// the plain identifiers naming unknowns) is an ordinary expression.
func (p *Parser) parseCallArg(isEq bool) (ast.Node, error) {
	pos := p.tok.Pos
	lhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if isEq && p.tok.Type == scan.Assign {
		p.next()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Eqn{P: ast.Pos(pos), LHS: lhs, RHS: rhs}, nil
	}
	return lhs, nil
}

// parseBracket parses a vector or matrix literal: "[" ... "]".
func (p *Parser) parseBracket(open scan.Token) (ast.Node, error) {
	p.next() // consume '['
	if p.tok.Type == scan.RightBrack {
		return nil, errs.New(errs.EmptyContainer, int(open.Pos), "empty vector literal")
	}
	if p.tok.Type == scan.LeftBrack {
		return p.parseMatrixBody(open)
	}
	var elems []ast.Node
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.tok.Type != scan.Comma {
			break
		}
		p.next()
	}
	if err := p.expect(scan.RightBrack); err != nil {
		return nil, err
	}
	p.lastClose = true
	return &ast.VectorExpr{P: ast.Pos(open.Pos), Elems: elems}, nil
}

func (p *Parser) parseMatrixBody(open scan.Token) (ast.Node, error) {
	var outer [][]ast.Node
	for {
		if err := p.expect(scan.LeftBrack); err != nil {
			return nil, err
		}
		if p.tok.Type == scan.RightBrack {
			return nil, errs.New(errs.EmptyContainer, int(p.tok.Pos), "empty matrix row")
		}
		var row []ast.Node
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			row = append(row, e)
			if p.tok.Type != scan.Comma {
				break
			}
			p.next()
		}
		if err := p.expect(scan.RightBrack); err != nil {
			return nil, err
		}
		outer = append(outer, row)
		if p.tok.Type != scan.Comma {
			break
		}
		p.next()
	}
	if err := p.expect(scan.RightBrack); err != nil {
		return nil, err
	}
	p.lastClose = true
	for _, r := range outer {
		if len(r) != len(outer[0]) {
			return nil, errs.New(errs.RaggedMatrix, int(open.Pos), "ragged matrix: rows of length %d and %d", len(outer[0]), len(r))
		}
	}
	rows := outer
	if !p.cfg.RowMajor() {
		// Literal outer sequence was columns; transpose to logical rows.
		nCols := len(outer)
		nRows := len(outer[0])
		rows = make([][]ast.Node, nRows)
		for r := 0; r < nRows; r++ {
			rows[r] = make([]ast.Node, nCols)
			for c := 0; c < nCols; c++ {
				rows[r][c] = outer[c][r]
			}
		}
	}
	return &ast.MatrixExpr{P: ast.Pos(open.Pos), Rows: rows}, nil
}

// parseBrace parses an explicit multi-value list literal: "{" ... "}".
func (p *Parser) parseBrace(open scan.Token) (ast.Node, error) {
	p.next() // consume '{'
	if p.tok.Type == scan.RightBrace {
		return nil, errs.New(errs.EmptyContainer, int(open.Pos), "empty list literal")
	}
	var elems []ast.Node
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.tok.Type != scan.Comma {
			break
		}
		p.next()
	}
	if err := p.expect(scan.RightBrace); err != nil {
		return nil, err
	}
	p.lastClose = true
	return &ast.ListExpr{P: ast.Pos(open.Pos), Elems: elems}, nil
}

func (p *Parser) expect(t scan.Type) error {
	if p.tok.Type != t {
		return errs.New(errs.UnbalancedBracket, int(p.tok.Pos), "expected %s, found %s", t, p.tok)
	}
	p.next()
	return nil
}
