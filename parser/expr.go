// Copyright 2024 The sqlfront Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"strings"

	"github.com/cardinalsql/sqlfront/ast"
	"github.com/cardinalsql/sqlfront/token"
)

// Precedence levels, highest binds tightest. BETWEEN/IN/LIKE/IS share a
// level with string concatenation, one below comparison and one above the
// bitwise/AND level — this mirrors the operator table verbatim; it is not
// the only defensible choice (concatenation usually sits with + -) but it
// is the one this module follows.
const (
	precTerminator  = 0
	precOr          = 1
	precAndBitwise  = 2
	precBetweenLike = 3
	precComparison  = 4
	precAdditive    = 5
	precMultiplicative = 6
	precInvalid     = -1
)

// parseExpression is the Pratt entry point: parse a primary, then repeatedly
// fold in infix operators whose precedence is at least minPrecedence.
func (p *Parser) parseExpression(minPrecedence int) (*ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parsePrimaryExpression()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()

		if tok.Is(token.NOT) && p.notVariantFollows() {
			if precBetweenLike < minPrecedence {
				break
			}
			left, err = p.parseNotVariantInfix(left)
			if err != nil {
				return nil, err
			}
			continue
		}

		prec := p.infixPrecedence(tok)
		if prec == precTerminator {
			break
		}
		if prec == precInvalid {
			if p.strictMode {
				return nil, newParseError(ErrStrictOperator, tok.Line, tok.Column,
					"operator %q not allowed in strict mode", tok.Text)
			}
			break // lax mode: treat as a terminator, don't consume
		}
		if prec < minPrecedence {
			break
		}

		switch {
		case tok.Kind == token.Operator:
			left, err = p.parseBinaryOperator(left, tok, prec)
		case tok.Is(token.BETWEEN):
			left, err = p.parseBetween(left, false)
		case tok.Is(token.IN):
			left, err = p.parseIn(left, false)
		case tok.Is(token.LIKE):
			left, err = p.parseLike(left, false)
		case tok.Is(token.IS):
			left, err = p.parseIsNull(left)
		case tok.Is(token.AND):
			left, err = p.parseLogical(left, tok, prec)
		case tok.Is(token.OR):
			left, err = p.parseLogical(left, tok, prec)
		default:
			return left, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

var comparisonOperators = map[string]bool{
	"=": true, "<": true, ">": true, "<=": true, ">=": true, "<>": true, "!=": true,
}

// infixPrecedence returns an operator token's binding power, or
// precTerminator if tok doesn't start a recognized infix production (this
// covers every terminator keyword/delimiter from the precedence table's
// level 0 without enumerating them).
func (p *Parser) infixPrecedence(tok token.Token) int {
	if tok.Kind == token.Operator {
		switch tok.Text {
		case "*", "/", "%":
			return precMultiplicative
		case "+", "-":
			return precAdditive
		case "=", "<", ">", "<=", ">=", "<>", "!=":
			return precComparison
		case "||":
			return precBetweenLike
		case "&", "|", "^", "<<", ">>":
			return precAndBitwise
		case "==", "===", "!==":
			return precInvalid
		}
		return precTerminator
	}
	if tok.Kind == token.Keyword {
		switch tok.Keyword {
		case token.BETWEEN, token.IN, token.LIKE, token.IS:
			return precBetweenLike
		case token.AND:
			return precAndBitwise
		case token.OR:
			return precOr
		}
	}
	return precTerminator
}

func (p *Parser) notVariantFollows() bool {
	nxt := p.peek()
	return nxt.Is(token.LIKE) || nxt.Is(token.IN) || nxt.Is(token.BETWEEN)
}

func (p *Parser) parseNotVariantInfix(left *ast.Node) (*ast.Node, error) {
	p.advance() // NOT
	switch {
	case p.current().Is(token.LIKE):
		return p.parseLike(left, true)
	case p.current().Is(token.IN):
		return p.parseIn(left, true)
	case p.current().Is(token.BETWEEN):
		return p.parseBetween(left, true)
	}
	return nil, p.unexpectedToken("NOT modifier")
}

// parsePrimaryExpression implements the five primary productions, tried in
// the order spec'd: keyword-led forms, unary +/-, literals, parenthesized/
// subquery, then identifier-like forms.
func (p *Parser) parsePrimaryExpression() (*ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.current()

	if tok.Kind == token.Keyword {
		switch tok.Keyword {
		case token.CASE:
			return p.parseCase()
		case token.CAST:
			return p.parseCast()
		case token.EXTRACT:
			return p.parseExtract()
		case token.NOT:
			return p.parseNotExpr()
		case token.EXISTS:
			return p.parseExists(false)
		case token.TRUE, token.FALSE:
			return p.parseBooleanLiteral()
		case token.NULL:
			return p.parseNullLiteral()
		}
	}

	if tok.Kind == token.Operator && (tok.Text == "+" || tok.Text == "-") {
		return p.parseUnary()
	}

	if tok.Kind == token.Number {
		return p.parseNumberLiteral()
	}

	if tok.Kind == token.String {
		return p.parseStringLiteral()
	}

	if tok.IsDelimiter("(") {
		return p.parseParenOrSubquery()
	}

	if tok.Kind == token.Identifier || tok.Kind == token.Keyword {
		return p.parseIdentifierLike()
	}

	return nil, p.unexpectedToken("expression")
}

func (p *Parser) parseNotExpr() (*ast.Node, error) {
	if p.peek().Is(token.EXISTS) {
		p.advance() // NOT
		return p.parseExists(true)
	}
	n, err := p.newNode(ast.UnaryExpr)
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText("NOT")
	if err != nil {
		return nil, err
	}
	p.advance() // NOT
	operand, err := p.parseExpression(precBetweenLike)
	if err != nil {
		return nil, err
	}
	n.AddChild(operand)
	return p.finishNode(n), nil
}

func (p *Parser) parseExists(negated bool) (*ast.Node, error) {
	n, err := p.newNode(ast.ExistsExpr)
	if err != nil {
		return nil, err
	}
	text := "EXISTS"
	if negated {
		text = "NOT EXISTS"
		n.SetSemanticFlag(ast.NotVariant)
	}
	n.PrimaryText, err = p.copyText(text)
	if err != nil {
		return nil, err
	}
	p.advance() // EXISTS
	if err := p.expectDelimiter("("); err != nil {
		return nil, err
	}
	p.openParen()
	sub, err := p.parseSelectStatement()
	if err != nil {
		return nil, err
	}
	if err := p.expectCloseParen("EXISTS subquery"); err != nil {
		return nil, err
	}
	n.AddChild(sub)
	return p.finishNode(n), nil
}

func (p *Parser) parseUnary() (*ast.Node, error) {
	opTok := p.current()
	if opTok.Text == "-" && p.peek().Kind == token.Number {
		p.advance() // '-'
		numTok := p.current()
		nodeType := ast.IntegerLiteral
		if strings.ContainsAny(numTok.Text, ".eE") {
			nodeType = ast.FloatLiteral
		}
		n, err := p.newNode(nodeType)
		if err != nil {
			return nil, err
		}
		n.PrimaryText, err = p.copyText("-" + numTok.Text)
		if err != nil {
			return nil, err
		}
		p.advance()
		return p.finishNode(n), nil
	}

	n, err := p.newNode(ast.UnaryExpr)
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(opTok.Text)
	if err != nil {
		return nil, err
	}
	p.advance()
	operand, err := p.parsePrimaryExpression()
	if err != nil {
		return nil, err
	}
	n.AddChild(operand)
	return p.finishNode(n), nil
}

func (p *Parser) parseNumberLiteral() (*ast.Node, error) {
	tok := p.current()
	nodeType := ast.IntegerLiteral
	if strings.ContainsAny(tok.Text, ".eE") {
		nodeType = ast.FloatLiteral
	}
	n, err := p.newNode(nodeType)
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(tok.Text)
	if err != nil {
		return nil, err
	}
	p.advance()
	return p.finishNode(n), nil
}

func (p *Parser) parseStringLiteral() (*ast.Node, error) {
	tok := p.current()
	n, err := p.newNode(ast.StringLiteral)
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(tok.Text) // verbatim, quotes included
	if err != nil {
		return nil, err
	}
	p.advance()
	return p.finishNode(n), nil
}

func (p *Parser) parseBooleanLiteral() (*ast.Node, error) {
	tok := p.current()
	n, err := p.newNode(ast.BooleanLiteral)
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(tok.Text)
	if err != nil {
		return nil, err
	}
	p.advance()
	return p.finishNode(n), nil
}

func (p *Parser) parseNullLiteral() (*ast.Node, error) {
	n, err := p.newNode(ast.NullLiteral)
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText("NULL")
	if err != nil {
		return nil, err
	}
	p.advance()
	return p.finishNode(n), nil
}

func (p *Parser) parseParenOrSubquery() (*ast.Node, error) {
	p.advance() // '('
	p.openParen()

	if tok := p.current(); tok.Kind == token.Keyword && (tok.Keyword == token.SELECT || tok.Keyword == token.VALUES) {
		n, err := p.newNode(ast.SubqueryExpr)
		if err != nil {
			return nil, err
		}
		inner, err := p.parseSelectStatement()
		if err != nil {
			return nil, err
		}
		if err := p.expectCloseParen("subquery"); err != nil {
			return nil, err
		}
		n.SetFlag(ast.IsSubquery)
		n.AddChild(inner)
		return p.finishNode(n), nil
	}

	inner, err := p.parseExpression(precTerminator)
	if err != nil {
		return nil, err
	}
	if err := p.expectCloseParen("parenthesized expression"); err != nil {
		return nil, err
	}
	return inner, nil
}

// parseIdentifierLike handles the final primary production: function
// calls, dotted column references, and plain identifiers/column refs,
// distinguished by one token of lookahead past the name.
func (p *Parser) parseIdentifierLike() (*ast.Node, error) {
	tok := p.current()
	if tok.Kind != token.Identifier && tok.Kind != token.Keyword {
		return nil, p.unexpectedToken("expression")
	}

	if p.peek().IsDelimiter("(") {
		return p.parseFunctionCall()
	}
	if p.peek().IsDelimiter(".") {
		return p.parseDottedReference()
	}

	nodeType := ast.Identifier
	switch p.currentContext() {
	case CtxSelectList, CtxWhereClause, CtxGroupByClause, CtxHavingClause,
		CtxOrderByClause, CtxJoinCondition, CtxCaseExpression, CtxFunctionArg:
		nodeType = ast.ColumnRef
	}

	n, err := p.newNode(nodeType)
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(tok.Text)
	if err != nil {
		return nil, err
	}
	n.SetSemanticFlags(n.SemanticFlags().WithParseContext(p.currentContext()))
	p.advance()
	return p.finishNode(n), nil
}

func (p *Parser) parseFunctionCall() (*ast.Node, error) {
	n, err := p.newNode(ast.FunctionCall)
	if err != nil {
		return nil, err
	}
	nameTok := p.current()
	n.PrimaryText, err = p.copyText(nameTok.Text)
	if err != nil {
		return nil, err
	}
	p.advance() // name
	p.advance() // '('
	p.openParen()

	if p.matchKeyword(token.DISTINCT) {
		n.SetFlag(ast.Distinct)
	} else if p.matchKeyword(token.ALL) {
		n.SetFlag(ast.All)
	}

	switch {
	case p.current().IsOperator("*"):
		star, err := p.newNode(ast.Star)
		if err != nil {
			return nil, err
		}
		p.advance()
		n.AddChild(p.finishNode(star))
	case !p.current().IsDelimiter(")"):
		p.pushContext(CtxFunctionArg)
		for {
			arg, err := p.parseExpression(precTerminator)
			if err != nil {
				p.popContext()
				return nil, err
			}
			n.AddChild(arg)
			if !p.matchDelimiter(",") {
				break
			}
		}
		p.popContext()
	}

	if err := p.expectCloseParen("function call"); err != nil {
		return nil, err
	}

	if p.current().Is(token.OVER) {
		win, err := p.parseWindowSpec()
		if err != nil {
			return nil, err
		}
		n.AddChild(win)
		n.SetSemanticFlag(ast.IsWindowFunction)
	}
	return p.finishNode(n), nil
}

// parseDottedReference accumulates dotted name parts into one qualified
// primary_text, or — if a '*' follows a dot — produces a Star node whose
// schema_name carries the qualifier chain (the `qualified.*` select-item
// form).
func (p *Parser) parseDottedReference() (*ast.Node, error) {
	n, err := p.newNode(ast.ColumnRef)
	if err != nil {
		return nil, err
	}
	parts := []string{p.current().Text}
	p.advance()

	for p.current().IsDelimiter(".") {
		p.advance()
		if p.current().IsOperator("*") {
			star, err := p.newNode(ast.Star)
			if err != nil {
				return nil, err
			}
			star.SourceStart = n.SourceStart
			star.SchemaName, err = p.copyText(strings.Join(parts, "."))
			if err != nil {
				return nil, err
			}
			p.advance()
			return p.finishNode(star), nil
		}
		part, err := p.nameToken("qualified name part")
		if err != nil {
			return nil, err
		}
		parts = append(parts, part.Text)
	}

	n.PrimaryText, err = p.copyText(strings.Join(parts, "."))
	if err != nil {
		return nil, err
	}
	n.SetSemanticFlags(n.SemanticFlags().WithParseContext(p.currentContext()))
	return p.finishNode(n), nil
}

func (p *Parser) parseBinaryOperator(left *ast.Node, tok token.Token, prec int) (*ast.Node, error) {
	n, err := p.newNodeFrom(ast.BinaryExpr, left)
	if err != nil {
		return nil, err
	}
	opText := tok.Text
	p.advance()

	if comparisonOperators[opText] {
		switch {
		case p.matchKeyword(token.ANY):
			opText += " ANY"
		case p.matchKeyword(token.SOME):
			opText += " SOME"
		case p.matchKeyword(token.ALL):
			opText += " ALL"
		}
	}

	n.PrimaryText, err = p.copyText(opText)
	if err != nil {
		return nil, err
	}
	right, err := p.parseExpression(prec + 1)
	if err != nil {
		return nil, err
	}
	n.AddChild(left)
	n.AddChild(right)
	return p.finishNode(n), nil
}

func (p *Parser) parseLogical(left *ast.Node, tok token.Token, prec int) (*ast.Node, error) {
	n, err := p.newNodeFrom(ast.BinaryExpr, left)
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(tok.Text)
	if err != nil {
		return nil, err
	}
	p.advance()
	right, err := p.parseExpression(prec + 1)
	if err != nil {
		return nil, err
	}
	n.AddChild(left)
	n.AddChild(right)
	return p.finishNode(n), nil
}

// parseBetween parses `lhs BETWEEN lo AND hi`, binding lo/hi at
// precedence+1 so a bare AND inside them cannot be mistaken for the
// BETWEEN...AND keyword.
func (p *Parser) parseBetween(left *ast.Node, notVariant bool) (*ast.Node, error) {
	n, err := p.newNodeFrom(ast.BetweenExpr, left)
	if err != nil {
		return nil, err
	}
	text := "BETWEEN"
	if notVariant {
		text = "NOT BETWEEN"
		n.SetSemanticFlag(ast.NotVariant)
	}
	n.PrimaryText, err = p.copyText(text)
	if err != nil {
		return nil, err
	}
	p.advance() // BETWEEN

	lo, err := p.parseExpression(precBetweenLike + 1)
	if err != nil {
		return nil, err
	}
	if !p.matchKeyword(token.AND) {
		return nil, p.unterminated("BETWEEN ... AND ...")
	}
	hi, err := p.parseExpression(precBetweenLike + 1)
	if err != nil {
		return nil, err
	}

	n.AddChild(left)
	n.AddChild(lo)
	n.AddChild(hi)
	return p.finishNode(n), nil
}

// parseIn parses `lhs IN (expr, ...)` or `lhs IN (SELECT ...)`, peeking
// past the opening paren to distinguish the two sub-forms.
func (p *Parser) parseIn(left *ast.Node, notVariant bool) (*ast.Node, error) {
	n, err := p.newNodeFrom(ast.InExpr, left)
	if err != nil {
		return nil, err
	}
	text := "IN"
	if notVariant {
		text = "NOT IN"
		n.SetSemanticFlag(ast.NotVariant)
	}
	n.PrimaryText, err = p.copyText(text)
	if err != nil {
		return nil, err
	}
	p.advance() // IN

	if err := p.expectDelimiter("("); err != nil {
		return nil, err
	}
	p.openParen()
	n.AddChild(left)

	if tok := p.current(); tok.Kind == token.Keyword && (tok.Keyword == token.SELECT || tok.Keyword == token.VALUES) {
		sub, err := p.parseSelectStatement()
		if err != nil {
			return nil, err
		}
		n.AddChild(sub)
	} else {
		for {
			item, err := p.parseExpression(precTerminator)
			if err != nil {
				return nil, err
			}
			n.AddChild(item)
			if !p.matchDelimiter(",") {
				break
			}
		}
	}

	if err := p.expectCloseParen("IN list"); err != nil {
		return nil, err
	}
	return p.finishNode(n), nil
}

func (p *Parser) parseLike(left *ast.Node, notVariant bool) (*ast.Node, error) {
	n, err := p.newNodeFrom(ast.LikeExpr, left)
	if err != nil {
		return nil, err
	}
	text := "LIKE"
	if notVariant {
		text = "NOT LIKE"
		n.SetSemanticFlag(ast.NotVariant)
	}
	n.PrimaryText, err = p.copyText(text)
	if err != nil {
		return nil, err
	}
	p.advance() // LIKE
	pattern, err := p.parseExpression(precBetweenLike + 1)
	if err != nil {
		return nil, err
	}
	n.AddChild(left)
	n.AddChild(pattern)
	return p.finishNode(n), nil
}

func (p *Parser) parseIsNull(left *ast.Node) (*ast.Node, error) {
	n, err := p.newNodeFrom(ast.IsNullExpr, left)
	if err != nil {
		return nil, err
	}
	p.advance() // IS
	notSet := p.matchKeyword(token.NOT)
	if err := p.expectKeyword(token.NULL, "NULL"); err != nil {
		return nil, err
	}
	text := "IS NULL"
	if notSet {
		text = "IS NOT NULL"
		n.SetSemanticFlag(ast.NotVariant)
	}
	n.PrimaryText, err = p.copyText(text)
	if err != nil {
		return nil, err
	}
	n.AddChild(left)
	return p.finishNode(n), nil
}

// parseCase implements both simple (`CASE expr WHEN v THEN r`) and
// searched (`CASE WHEN cond THEN r`) forms. Each WHEN becomes a
// BinaryExpr-shaped node with primary_text "WHEN" and [condition, result]
// children; a trailing ELSE is a direct extra child of the CASE node.
func (p *Parser) parseCase() (*ast.Node, error) {
	n, err := p.newNode(ast.CaseExpr)
	if err != nil {
		return nil, err
	}
	p.advance() // CASE
	p.pushContext(CtxCaseExpression)
	defer p.popContext()

	if !p.current().Is(token.WHEN) {
		operand, err := p.parseExpression(precTerminator)
		if err != nil {
			return nil, err
		}
		n.AddChild(operand)
	}

	sawWhen := false
	for p.current().Is(token.WHEN) {
		sawWhen = true
		p.advance()
		cond, err := p.parseExpression(precTerminator)
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword(token.THEN, "THEN"); err != nil {
			return nil, err
		}
		result, err := p.parseExpression(precTerminator)
		if err != nil {
			return nil, err
		}
		whenNode, err := p.newNodeFrom(ast.BinaryExpr, cond)
		if err != nil {
			return nil, err
		}
		whenNode.PrimaryText, err = p.copyText("WHEN")
		if err != nil {
			return nil, err
		}
		whenNode.AddChild(cond)
		whenNode.AddChild(result)
		n.AddChild(p.finishNode(whenNode))
	}
	if !sawWhen {
		return nil, p.unexpectedToken("CASE (expected WHEN)")
	}

	if p.matchKeyword(token.ELSE) {
		elseResult, err := p.parseExpression(precTerminator)
		if err != nil {
			return nil, err
		}
		n.AddChild(elseResult)
	}

	if !p.current().Is(token.END) {
		return nil, p.unterminated("CASE")
	}
	p.advance()
	return p.finishNode(n), nil
}

func (p *Parser) parseCast() (*ast.Node, error) {
	n, err := p.newNode(ast.CastExpr)
	if err != nil {
		return nil, err
	}
	p.advance() // CAST
	if err := p.expectDelimiter("("); err != nil {
		return nil, err
	}
	p.openParen()
	inner, err := p.parseExpression(precTerminator)
	if err != nil {
		return nil, err
	}
	n.AddChild(inner)
	if err := p.expectKeyword(token.AS, "AS"); err != nil {
		return nil, err
	}
	dt, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	n.AddChild(dt)
	if err := p.expectCloseParen("CAST"); err != nil {
		return nil, err
	}
	return p.finishNode(n), nil
}

func (p *Parser) parseExtract() (*ast.Node, error) {
	n, err := p.newNode(ast.ExtractExpr)
	if err != nil {
		return nil, err
	}
	p.advance() // EXTRACT
	if err := p.expectDelimiter("("); err != nil {
		return nil, err
	}
	p.openParen()
	fieldTok, err := p.nameToken("EXTRACT field")
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(fieldTok.Text)
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(token.FROM, "FROM"); err != nil {
		return nil, err
	}
	inner, err := p.parseExpression(precTerminator)
	if err != nil {
		return nil, err
	}
	n.AddChild(inner)
	if err := p.expectCloseParen("EXTRACT"); err != nil {
		return nil, err
	}
	return p.finishNode(n), nil
}

// parseWindowSpec parses the `OVER ( ... )` suffix of a window function
// call: optional PARTITION BY, optional ORDER BY, optional frame clause.
func (p *Parser) parseWindowSpec() (*ast.Node, error) {
	n, err := p.newNode(ast.WindowSpec)
	if err != nil {
		return nil, err
	}
	p.advance() // OVER
	if err := p.expectDelimiter("("); err != nil {
		return nil, err
	}
	p.openParen()

	if p.current().Is(token.PARTITION) {
		part, err := p.parsePartitionBy()
		if err != nil {
			return nil, err
		}
		n.AddChild(part)
	}
	if p.current().Is(token.ORDER) {
		ord, err := p.parseOrderByClause()
		if err != nil {
			return nil, err
		}
		n.AddChild(ord)
	}
	if p.current().Is(token.ROWS) || p.current().Is(token.RANGE) {
		frame, err := p.parseFrameClause()
		if err != nil {
			return nil, err
		}
		n.AddChild(frame)
	}

	if err := p.expectCloseParen("window spec"); err != nil {
		return nil, err
	}
	return p.finishNode(n), nil
}

func (p *Parser) parsePartitionBy() (*ast.Node, error) {
	n, err := p.newNode(ast.PartitionByClause)
	if err != nil {
		return nil, err
	}
	p.advance() // PARTITION
	if err := p.expectKeyword(token.BY, "BY"); err != nil {
		return nil, err
	}
	for {
		e, err := p.parseExpression(precTerminator)
		if err != nil {
			return nil, err
		}
		n.AddChild(e)
		if !p.matchDelimiter(",") {
			break
		}
	}
	return p.finishNode(n), nil
}

func (p *Parser) parseFrameClause() (*ast.Node, error) {
	n, err := p.newNode(ast.FrameClause)
	if err != nil {
		return nil, err
	}
	kindTok := p.current()
	n.PrimaryText, err = p.copyText(kindTok.Text)
	if err != nil {
		return nil, err
	}
	p.advance() // ROWS | RANGE
	if err := p.expectKeyword(token.BETWEEN, "BETWEEN"); err != nil {
		return nil, err
	}
	lo, err := p.parseFrameBound()
	if err != nil {
		return nil, err
	}
	n.AddChild(lo)
	if err := p.expectKeyword(token.AND, "AND"); err != nil {
		return nil, err
	}
	hi, err := p.parseFrameBound()
	if err != nil {
		return nil, err
	}
	n.AddChild(hi)
	return p.finishNode(n), nil
}

// parseFrameBound parses one of UNBOUNDED PRECEDING/FOLLOWING, CURRENT ROW,
// N PRECEDING/FOLLOWING, or INTERVAL 'n' unit PRECEDING/FOLLOWING, storing
// the bound's kind in primary_text and its direction in schema_name.
func (p *Parser) parseFrameBound() (*ast.Node, error) {
	n, err := p.newNode(ast.FrameBound)
	if err != nil {
		return nil, err
	}

	switch {
	case p.current().Is(token.UNBOUNDED):
		p.advance()
		n.PrimaryText, err = p.copyText("UNBOUNDED")
		if err != nil {
			return nil, err
		}
		dir, err := p.frameDirection()
		if err != nil {
			return nil, err
		}
		n.SchemaName, err = p.copyText(dir)
		if err != nil {
			return nil, err
		}

	case p.current().Is(token.CURRENT):
		p.advance()
		if err := p.expectKeyword(token.ROW, "ROW"); err != nil {
			return nil, err
		}
		n.PrimaryText, err = p.copyText("CURRENT ROW")
		if err != nil {
			return nil, err
		}

	case p.current().Is(token.INTERVAL):
		p.advance()
		if p.current().Kind != token.String {
			return nil, p.unexpectedToken("INTERVAL literal")
		}
		amount := p.current().Text
		p.advance()
		unitTok, err := p.nameToken("INTERVAL unit")
		if err != nil {
			return nil, err
		}
		n.PrimaryText, err = p.copyText("INTERVAL " + amount + " " + unitTok.Text)
		if err != nil {
			return nil, err
		}
		dir, err := p.frameDirection()
		if err != nil {
			return nil, err
		}
		n.SchemaName, err = p.copyText(dir)
		if err != nil {
			return nil, err
		}

	case p.current().Kind == token.Number:
		amount := p.current().Text
		p.advance()
		n.PrimaryText, err = p.copyText(amount)
		if err != nil {
			return nil, err
		}
		dir, err := p.frameDirection()
		if err != nil {
			return nil, err
		}
		n.SchemaName, err = p.copyText(dir)
		if err != nil {
			return nil, err
		}

	default:
		return nil, p.unexpectedToken("frame bound")
	}

	return p.finishNode(n), nil
}

func (p *Parser) frameDirection() (string, error) {
	switch {
	case p.current().Is(token.PRECEDING):
		p.advance()
		return "PRECEDING", nil
	case p.current().Is(token.FOLLOWING):
		p.advance()
		return "FOLLOWING", nil
	}
	return "", p.unexpectedToken("PRECEDING or FOLLOWING")
}
