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
	"github.com/cardinalsql/sqlfront/ast"
	"github.com/cardinalsql/sqlfront/token"
)

// parseSelectStatement parses one SELECT/VALUES statement, its clauses in
// source order, and folds in any trailing UNION/INTERSECT/EXCEPT set
// operations left-associatively.
func (p *Parser) parseSelectStatement() (*ast.Node, error) {
	p.trace("select")
	left, err := p.parseSelectCore()
	if err != nil {
		return nil, err
	}
	return p.parseSetOpTail(left)
}

// parseSetOpTail folds UNION/INTERSECT/EXCEPT [ALL] onto left, left to
// right. Per the design note this module carries the deviation of the
// original source: no explicit precedence lift for INTERSECT over UNION/
// EXCEPT is applied, so mixed chains associate strictly left to right.
func (p *Parser) parseSetOpTail(left *ast.Node) (*ast.Node, error) {
	for {
		tok := p.current()
		var nodeType ast.NodeType
		switch {
		case tok.Is(token.UNION):
			nodeType = ast.UnionStmt
		case tok.Is(token.INTERSECT):
			nodeType = ast.IntersectStmt
		case tok.Is(token.EXCEPT):
			nodeType = ast.ExceptStmt
		default:
			return left, nil
		}
		n, err := p.newNodeFrom(nodeType, left)
		if err != nil {
			return nil, err
		}
		p.advance() // UNION|INTERSECT|EXCEPT
		if p.matchKeyword(token.ALL) {
			n.SetFlag(ast.All)
		} else {
			p.matchKeyword(token.DISTINCT)
		}
		right, err := p.parseSelectCore()
		if err != nil {
			return nil, err
		}
		n.AddChild(left)
		n.AddChild(right)
		left = p.finishNode(n)
	}
}

// parseSelectCore parses a single SELECT/VALUES statement's clauses,
// without folding in any set operation.
func (p *Parser) parseSelectCore() (*ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if p.current().Is(token.VALUES) {
		return p.parseValuesStatement()
	}

	n, err := p.newNode(ast.SelectStmt)
	if err != nil {
		return nil, err
	}
	p.advance() // SELECT

	if p.matchKeyword(token.DISTINCT) {
		n.SetFlag(ast.Distinct)
	} else if p.matchKeyword(token.ALL) {
		n.SetFlag(ast.All)
	}

	selectList, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	n.AddChild(selectList)

	if p.current().Is(token.FROM) {
		from, err := p.parseFromClause()
		if err != nil {
			return nil, err
		}
		n.AddChild(from)
	}
	if p.current().Is(token.WHERE) {
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		n.AddChild(where)
	}
	if p.current().Is(token.GROUP) {
		groupBy, err := p.parseGroupByClause()
		if err != nil {
			return nil, err
		}
		n.AddChild(groupBy)
	}
	if p.current().Is(token.HAVING) {
		having, err := p.parseHavingClause()
		if err != nil {
			return nil, err
		}
		n.AddChild(having)
	}
	if p.current().Is(token.ORDER) {
		orderBy, err := p.parseOrderByClause()
		if err != nil {
			return nil, err
		}
		n.AddChild(orderBy)
	}
	if p.current().Is(token.LIMIT) {
		limit, err := p.parseLimitClause()
		if err != nil {
			return nil, err
		}
		n.AddChild(limit)
	}

	return p.finishNode(n), nil
}

// parseValuesStatement handles a bare `VALUES (row), (row), ...` used as a
// statement in its own right (e.g. an INSERT source or a standalone query).
func (p *Parser) parseValuesStatement() (*ast.Node, error) {
	n, err := p.newNode(ast.ValuesClause)
	if err != nil {
		return nil, err
	}
	rows, err := p.parseValuesRows()
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		n.AddChild(row)
	}
	return p.finishNode(n), nil
}

// parseValuesRows parses `VALUES (expr, ...), (expr, ...), ...`, one
// ValuesClause-less expression-list child per row (callers wrap rows as
// needed for their own parent node type).
func (p *Parser) parseValuesRows() ([]*ast.Node, error) {
	p.advance() // VALUES
	var rows []*ast.Node
	for {
		row, err := p.parseValuesRow()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		if !p.matchDelimiter(",") {
			break
		}
	}
	return rows, nil
}

func (p *Parser) parseValuesRow() (*ast.Node, error) {
	row, err := p.newNode(ast.ColumnList)
	if err != nil {
		return nil, err
	}
	if err := p.expectDelimiter("("); err != nil {
		return nil, err
	}
	p.openParen()
	for {
		e, err := p.parseExpression(precTerminator)
		if err != nil {
			return nil, err
		}
		row.AddChild(e)
		if !p.matchDelimiter(",") {
			break
		}
	}
	if err := p.expectCloseParen("VALUES row"); err != nil {
		return nil, err
	}
	return p.finishNode(row), nil
}

// parseSelectList parses the comma-separated select-item list: Star,
// qualified.*, or expr [AS] alias. An immediate clause-terminating keyword
// is a MissingSelectList failure.
func (p *Parser) parseSelectList() (*ast.Node, error) {
	n, err := p.newNode(ast.SelectList)
	if err != nil {
		return nil, err
	}
	if p.isSelectListTerminator() {
		tok := p.current()
		return nil, newParseError(ErrMissingSelectList, tok.Line, tok.Column, "missing select list")
	}

	p.pushContext(CtxSelectList)
	defer p.popContext()

	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		n.AddChild(item)
		if !p.matchDelimiter(",") {
			break
		}
	}
	return p.finishNode(n), nil
}

func (p *Parser) isSelectListTerminator() bool {
	tok := p.current()
	if tok.Kind == token.EOF || tok.IsDelimiter(";") {
		return true
	}
	switch tok.Keyword {
	case token.FROM, token.WHERE, token.GROUP, token.HAVING, token.ORDER,
		token.LIMIT, token.UNION, token.INTERSECT, token.EXCEPT:
		return true
	}
	return false
}

// parseSelectItem parses one select-list entry, then checks for an
// implicit or explicit alias: a trailing identifier not itself a clause
// keyword becomes the item's schema_name (alias) with HasAlias set.
func (p *Parser) parseSelectItem() (*ast.Node, error) {
	if p.current().IsOperator("*") {
		n, err := p.newNode(ast.Star)
		if err != nil {
			return nil, err
		}
		p.advance()
		return p.finishNode(n), nil
	}

	item, err := p.parseExpression(precTerminator)
	if err != nil {
		return nil, err
	}
	if item.Type() == ast.Star {
		return item, nil
	}

	hasAs := p.matchKeyword(token.AS)
	if hasAs {
		aliasTok, err := p.nameToken("select item alias")
		if err != nil {
			return nil, err
		}
		item.SchemaName, err = p.copyText(aliasTok.Text)
		if err != nil {
			return nil, err
		}
		item.SetFlag(ast.HasAlias)
	} else if p.current().Kind == token.Identifier {
		aliasTok := p.current()
		p.advance()
		item.SchemaName, err = p.copyText(aliasTok.Text)
		if err != nil {
			return nil, err
		}
		item.SetFlag(ast.HasAlias)
	}
	return item, nil
}

// parseFromClause parses FROM followed by a comma-joined table-ref list,
// each element possibly chained with JOINs.
func (p *Parser) parseFromClause() (*ast.Node, error) {
	n, err := p.newNode(ast.FromClause)
	if err != nil {
		return nil, err
	}
	p.advance() // FROM
	p.pushContext(CtxFromClause)
	defer p.popContext()

	for {
		ref, err := p.parseTableRefChain()
		if err != nil {
			return nil, err
		}
		n.AddChild(ref)
		if !p.matchDelimiter(",") {
			break
		}
	}
	return p.finishNode(n), nil
}

// parseTableRefChain parses one table-ref/subquery, then zero or more
// JOIN clauses folded onto it left-associatively: each join node's
// children are, in order, [left, joined-table, condition-or-using?].
func (p *Parser) parseTableRefChain() (*ast.Node, error) {
	left, err := p.parseTableRefOrSubquery()
	if err != nil {
		return nil, err
	}
	for p.isJoinLead() {
		left, err = p.parseJoinClause(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) isJoinLead() bool {
	tok := p.current()
	switch tok.Keyword {
	case token.JOIN, token.LEFT, token.RIGHT, token.FULL, token.INNER, token.CROSS:
		return true
	}
	return false
}

// parseJoinClause parses `[LEFT|RIGHT|FULL|INNER|CROSS] [OUTER] JOIN
// table-ref { ON expr | USING (cols) }` and returns a join node, typed
// InnerJoin/LeftJoin/RightJoin/FullJoin/CrossJoin by the join kind,
// whose children are [left, joined-table-ref, condition-or-using?].
func (p *Parser) parseJoinClause(left *ast.Node) (*ast.Node, error) {
	n, err := p.newNodeFrom(ast.JoinClause, left)
	if err != nil {
		return nil, err
	}
	joinType := "INNER"
	switch {
	case p.matchKeyword(token.LEFT):
		joinType = "LEFT"
		n.SetType(ast.LeftJoin)
	case p.matchKeyword(token.RIGHT):
		joinType = "RIGHT"
		n.SetType(ast.RightJoin)
	case p.matchKeyword(token.FULL):
		joinType = "FULL"
		n.SetType(ast.FullJoin)
	case p.matchKeyword(token.INNER):
		n.SetType(ast.InnerJoin)
	case p.matchKeyword(token.CROSS):
		joinType = "CROSS"
		n.SetType(ast.CrossJoin)
	default:
		n.SetType(ast.InnerJoin)
	}
	p.matchKeyword(token.OUTER)
	if err := p.expectKeyword(token.JOIN, "JOIN"); err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(joinType)
	if err != nil {
		return nil, err
	}

	table, err := p.parseTableRefOrSubquery()
	if err != nil {
		return nil, err
	}
	n.AddChild(left)
	n.AddChild(table)

	if n.Type() != ast.CrossJoin {
		p.pushContext(CtxJoinCondition)
		switch {
		case p.matchKeyword(token.ON):
			cond, err := p.parseExpression(precTerminator)
			if err != nil {
				p.popContext()
				return nil, err
			}
			n.AddChild(cond)
		case p.matchKeyword(token.USING):
			using, err := p.parseUsingClause()
			if err != nil {
				p.popContext()
				return nil, err
			}
			n.AddChild(using)
		}
		p.popContext()
	}
	return p.finishNode(n), nil
}

// parseUsingClause parses the parenthesized column list of `USING (cols)`.
func (p *Parser) parseUsingClause() (*ast.Node, error) {
	n, err := p.newNode(ast.UsingClause)
	if err != nil {
		return nil, err
	}
	if err := p.expectDelimiter("("); err != nil {
		return nil, err
	}
	p.openParen()
	for {
		colTok, err := p.nameToken("USING column")
		if err != nil {
			return nil, err
		}
		col, err := p.newNode(ast.Identifier)
		if err != nil {
			return nil, err
		}
		col.PrimaryText, err = p.copyText(colTok.Text)
		if err != nil {
			return nil, err
		}
		n.AddChild(p.finishNode(col))
		if !p.matchDelimiter(",") {
			break
		}
	}
	if err := p.expectCloseParen("USING list"); err != nil {
		return nil, err
	}
	return p.finishNode(n), nil
}

// parseTableRefOrSubquery parses a plain table-ref (possibly qualified),
// or a parenthesized subquery, either optionally followed by an [AS]
// alias.
func (p *Parser) parseTableRefOrSubquery() (*ast.Node, error) {
	if p.current().IsDelimiter("(") {
		p.advance()
		p.openParen()
		n, err := p.newNode(ast.SubqueryExpr)
		if err != nil {
			return nil, err
		}
		inner, err := p.parseSelectStatement()
		if err != nil {
			return nil, err
		}
		if err := p.expectCloseParen("derived table"); err != nil {
			return nil, err
		}
		n.SetFlag(ast.IsSubquery)
		n.AddChild(inner)
		p.attachOptionalAlias(n)
		return p.finishNode(n), nil
	}

	nameTok, err := p.nameToken("table reference")
	if err != nil {
		return nil, err
	}
	n, err := p.newNode(ast.TableRef)
	if err != nil {
		return nil, err
	}
	name := nameTok.Text
	if p.matchDelimiter(".") {
		part, err := p.nameToken("table reference")
		if err != nil {
			return nil, err
		}
		n.SchemaName, err = p.copyText(name)
		if err != nil {
			return nil, err
		}
		name = part.Text
	}
	n.PrimaryText, err = p.copyText(name)
	if err != nil {
		return nil, err
	}
	p.attachOptionalAlias(n)
	return p.finishNode(n), nil
}

func (p *Parser) attachOptionalAlias(n *ast.Node) {
	if p.matchKeyword(token.AS) {
		aliasTok, err := p.nameToken("table alias")
		if err == nil {
			if alias, cerr := p.copyText(aliasTok.Text); cerr == nil {
				n.CatalogName = alias
				n.SetFlag(ast.HasAlias)
			}
		}
		return
	}
	if p.current().Kind == token.Identifier {
		aliasTok := p.current()
		p.advance()
		if alias, cerr := p.copyText(aliasTok.Text); cerr == nil {
			n.CatalogName = alias
			n.SetFlag(ast.HasAlias)
		}
	}
}

func (p *Parser) parseWhereClause() (*ast.Node, error) {
	n, err := p.newNode(ast.WhereClause)
	if err != nil {
		return nil, err
	}
	p.advance() // WHERE
	p.pushContext(CtxWhereClause)
	defer p.popContext()
	cond, err := p.parseExpression(precTerminator)
	if err != nil {
		return nil, err
	}
	n.AddChild(cond)
	return p.finishNode(n), nil
}

// parseGroupByClause parses GROUP BY items: plain expressions, positional
// integers, or GROUPING SETS/CUBE/ROLLUP wrapped in a GroupingElement
// child naming the variant in primary_text.
func (p *Parser) parseGroupByClause() (*ast.Node, error) {
	n, err := p.newNode(ast.GroupByClause)
	if err != nil {
		return nil, err
	}
	p.advance() // GROUP
	if err := p.expectKeyword(token.BY, "BY"); err != nil {
		return nil, err
	}
	p.pushContext(CtxGroupByClause)
	defer p.popContext()

	for {
		item, err := p.parseGroupByItem()
		if err != nil {
			return nil, err
		}
		n.AddChild(item)
		if !p.matchDelimiter(",") {
			break
		}
	}
	return p.finishNode(n), nil
}

func (p *Parser) parseGroupByItem() (*ast.Node, error) {
	tok := p.current()
	if tok.Is(token.GROUPING) {
		return p.parseGroupingVariant("GROUPING SETS", func() error {
			p.advance() // GROUPING
			return p.expectKeyword(token.SETS, "SETS")
		})
	}
	if tok.Is(token.CUBE) {
		return p.parseGroupingVariant("CUBE", func() error { p.advance(); return nil })
	}
	if tok.Is(token.ROLLUP) {
		return p.parseGroupingVariant("ROLLUP", func() error { p.advance(); return nil })
	}
	return p.parseExpression(precTerminator)
}

func (p *Parser) parseGroupingVariant(name string, consumeLead func() error) (*ast.Node, error) {
	n, err := p.newNode(ast.GroupingElement)
	if err != nil {
		return nil, err
	}
	if err := consumeLead(); err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(name)
	if err != nil {
		return nil, err
	}
	if err := p.expectDelimiter("("); err != nil {
		return nil, err
	}
	p.openParen()
	if !p.current().IsDelimiter(")") {
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
	}
	if err := p.expectCloseParen(name); err != nil {
		return nil, err
	}
	return p.finishNode(n), nil
}

func (p *Parser) parseHavingClause() (*ast.Node, error) {
	n, err := p.newNode(ast.HavingClause)
	if err != nil {
		return nil, err
	}
	p.advance() // HAVING
	p.pushContext(CtxHavingClause)
	defer p.popContext()
	cond, err := p.parseExpression(precTerminator)
	if err != nil {
		return nil, err
	}
	n.AddChild(cond)
	return p.finishNode(n), nil
}

// parseOrderByClause parses `ORDER BY expr [ASC|DESC] [NULLS FIRST|LAST]
// (, ...)`. Used both at the top level and inside a window spec (whose
// node type is the same OrderByClause).
func (p *Parser) parseOrderByClause() (*ast.Node, error) {
	n, err := p.newNode(ast.OrderByClause)
	if err != nil {
		return nil, err
	}
	p.advance() // ORDER
	if err := p.expectKeyword(token.BY, "BY"); err != nil {
		return nil, err
	}
	p.pushContext(CtxOrderByClause)
	defer p.popContext()

	for {
		item, err := p.parseOrderItem()
		if err != nil {
			return nil, err
		}
		n.AddChild(item)
		if !p.matchDelimiter(",") {
			break
		}
	}
	return p.finishNode(n), nil
}

func (p *Parser) parseOrderItem() (*ast.Node, error) {
	n, err := p.newNode(ast.OrderItem)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression(precTerminator)
	if err != nil {
		return nil, err
	}
	n.AddChild(expr)

	switch {
	case p.matchKeyword(token.ASC):
	case p.matchKeyword(token.DESC):
		n.SetSemanticFlag(ast.OrderDesc)
	}

	if p.matchKeyword(token.NULLS) {
		n.SetSemanticFlag(ast.OrderNullsExplicit)
		switch {
		case p.matchKeyword(token.FIRST):
			n.SetSemanticFlag(ast.OrderNullsFirst)
		case p.matchKeyword(token.LAST):
		default:
			return nil, p.unexpectedToken("expected FIRST or LAST")
		}
	}
	return p.finishNode(n), nil
}

// parseLimitClause parses `LIMIT n [OFFSET m]`, both numeric-literal
// children.
func (p *Parser) parseLimitClause() (*ast.Node, error) {
	n, err := p.newNode(ast.LimitClause)
	if err != nil {
		return nil, err
	}
	p.advance() // LIMIT
	limitExpr, err := p.parseExpression(precTerminator)
	if err != nil {
		return nil, err
	}
	n.AddChild(limitExpr)

	if p.matchKeyword(token.OFFSET) {
		offsetExpr, err := p.parseExpression(precTerminator)
		if err != nil {
			return nil, err
		}
		n.AddChild(offsetExpr)
	}
	return p.finishNode(n), nil
}

// parseWith parses `WITH [RECURSIVE] cte (, cte)*` then the following
// statement, attaching the WithClause as that statement's first child.
func (p *Parser) parseWith() (*ast.Node, error) {
	p.trace("with")
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	withNode, err := p.newNode(ast.WithClause)
	if err != nil {
		return nil, err
	}
	p.advance() // WITH
	if p.matchKeyword(token.RECURSIVE) {
		withNode.SetSemanticFlag(ast.Recursive)
	}

	for {
		cte, err := p.parseCTEDefinition()
		if err != nil {
			return nil, err
		}
		withNode.AddChild(cte)
		if !p.matchDelimiter(",") {
			break
		}
	}
	finishedWith := p.finishNode(withNode)

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	body.PrependChild(finishedWith)
	return body, nil
}

func (p *Parser) parseCTEDefinition() (*ast.Node, error) {
	n, err := p.newNode(ast.CTEDefinition)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.nameToken("CTE name")
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(nameTok.Text)
	if err != nil {
		return nil, err
	}

	if p.current().IsDelimiter("(") {
		cols, err := p.parseColumnNameList()
		if err != nil {
			return nil, err
		}
		n.AddChild(cols)
	}

	if err := p.expectKeyword(token.AS, "AS"); err != nil {
		return nil, err
	}
	if err := p.expectDelimiter("("); err != nil {
		return nil, err
	}
	p.openParen()

	var inner *ast.Node
	if p.current().Is(token.WITH) {
		inner, err = p.parseWith()
	} else {
		inner, err = p.parseSelectStatement()
	}
	if err != nil {
		return nil, err
	}
	n.AddChild(inner)

	if err := p.expectCloseParen("CTE body"); err != nil {
		return nil, err
	}
	return p.finishNode(n), nil
}

// parseColumnNameList parses a parenthesized, comma-separated list of bare
// column names (CTE column aliases, INSERT column lists).
func (p *Parser) parseColumnNameList() (*ast.Node, error) {
	n, err := p.newNode(ast.ColumnList)
	if err != nil {
		return nil, err
	}
	if err := p.expectDelimiter("("); err != nil {
		return nil, err
	}
	p.openParen()
	for {
		colTok, err := p.nameToken("column name")
		if err != nil {
			return nil, err
		}
		col, err := p.newNode(ast.Identifier)
		if err != nil {
			return nil, err
		}
		col.PrimaryText, err = p.copyText(colTok.Text)
		if err != nil {
			return nil, err
		}
		n.AddChild(p.finishNode(col))
		if !p.matchDelimiter(",") {
			break
		}
	}
	if err := p.expectCloseParen("column list"); err != nil {
		return nil, err
	}
	return p.finishNode(n), nil
}
