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

// parseInsert parses `INSERT INTO table-ref [(col-list)] { VALUES (row),
// ... | <SELECT> | DEFAULT VALUES } [ON CONFLICT ...]`. The column-list
// vs first-VALUES-row ambiguity after `(` is resolved with one token of
// lookahead plus a bounded backtrack via the cursor's SetPosition.
func (p *Parser) parseInsert() (*ast.Node, error) {
	n, err := p.newNode(ast.InsertStmt)
	if err != nil {
		return nil, err
	}
	p.advance() // INSERT
	if err := p.expectKeyword(token.INTO, "INTO"); err != nil {
		return nil, err
	}

	table, err := p.parseTableRefOrSubquery()
	if err != nil {
		return nil, err
	}
	n.AddChild(table)

	if p.current().IsDelimiter("(") && p.looksLikeColumnList() {
		cols, err := p.parseColumnNameList()
		if err != nil {
			return nil, err
		}
		n.AddChild(cols)
	}

	switch {
	case p.matchKeyword(token.DEFAULT):
		if err := p.expectKeyword(token.VALUES, "VALUES"); err != nil {
			return nil, err
		}
		dv, err := p.newNode(ast.ValuesClause)
		if err != nil {
			return nil, err
		}
		n.AddChild(p.finishNode(dv))
	case p.current().Is(token.VALUES):
		rows, err := p.parseValuesRows()
		if err != nil {
			return nil, err
		}
		values, err := p.newNode(ast.ValuesClause)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			values.AddChild(row)
		}
		n.AddChild(p.finishNode(values))
	case p.current().Is(token.SELECT):
		sel, err := p.parseSelectStatement()
		if err != nil {
			return nil, err
		}
		n.AddChild(sel)
	default:
		return nil, p.unexpectedToken("VALUES, SELECT, or DEFAULT VALUES")
	}

	if p.current().Is(token.ON) {
		onConflict, err := p.parseOnConflict()
		if err != nil {
			return nil, err
		}
		n.AddChild(onConflict)
	}

	if p.matchKeyword(token.RETURNING) {
		ret, err := p.parseReturningClause()
		if err != nil {
			return nil, err
		}
		n.AddChild(ret)
	}
	return p.finishNode(n), nil
}

// looksLikeColumnList peeks past a '(' to decide whether it opens a
// column list (name followed by ',' or ')') or the first VALUES row
// (anything else, e.g. a literal). The cursor position is saved and
// restored so this is a pure lookahead with no consumed tokens.
func (p *Parser) looksLikeColumnList() bool {
	save := p.cursor.Position()
	defer p.cursor.SetPosition(save)

	p.cursor.Advance() // past '('
	nameTok := p.cursor.Current()
	if nameTok.Kind != token.Identifier && nameTok.Kind != token.Keyword {
		return false
	}
	p.cursor.Advance()
	next := p.cursor.Current()
	return next.IsDelimiter(",") || next.IsDelimiter(")")
}

func (p *Parser) parseOnConflict() (*ast.Node, error) {
	n, err := p.newNode(ast.OnConflictClause)
	if err != nil {
		return nil, err
	}
	p.advance() // ON
	if err := p.expectKeyword(token.CONFLICT, "CONFLICT"); err != nil {
		return nil, err
	}

	if p.current().IsDelimiter("(") {
		cols, err := p.parseColumnNameList()
		if err != nil {
			return nil, err
		}
		n.AddChild(cols)
	}

	if err := p.expectKeyword(token.DO, "DO"); err != nil {
		return nil, err
	}
	switch {
	case p.matchKeyword(token.NOTHING):
		n.SetSemanticFlag(ast.ConflictDoNothing)
	case p.matchKeyword(token.UPDATE):
		n.SetSemanticFlag(ast.ConflictDoUpdate)
		if err := p.expectKeyword(token.SET, "SET"); err != nil {
			return nil, err
		}
		for {
			assign, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			n.AddChild(assign)
			if !p.matchDelimiter(",") {
				break
			}
		}
	default:
		return nil, p.unexpectedToken("DO NOTHING or DO UPDATE")
	}
	return p.finishNode(n), nil
}

// parseAssignment parses `col = expr`, encoded as a binary-expression-
// shaped node: primary_text is the column name, child 0 is the value
// expression, and the IsAssignment bit is set.
func (p *Parser) parseAssignment() (*ast.Node, error) {
	n, err := p.newNode(ast.Assignment)
	if err != nil {
		return nil, err
	}
	colTok, err := p.nameToken("assignment target column")
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(colTok.Text)
	if err != nil {
		return nil, err
	}
	if !p.current().IsOperator("=") {
		return nil, p.unexpectedToken("=")
	}
	p.advance()
	value, err := p.parseExpression(precTerminator)
	if err != nil {
		return nil, err
	}
	n.AddChild(value)
	n.SetSemanticFlag(ast.IsAssignment)
	return p.finishNode(n), nil
}

// parseUpdate parses `UPDATE table-ref SET col = expr (, col = expr)*
// [FROM ...] [WHERE expr] [RETURNING ...]`.
func (p *Parser) parseUpdate() (*ast.Node, error) {
	n, err := p.newNode(ast.UpdateStmt)
	if err != nil {
		return nil, err
	}
	p.advance() // UPDATE
	table, err := p.parseTableRefOrSubquery()
	if err != nil {
		return nil, err
	}
	n.AddChild(table)

	if err := p.expectKeyword(token.SET, "SET"); err != nil {
		return nil, err
	}
	for {
		assign, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		n.AddChild(assign)
		if !p.matchDelimiter(",") {
			break
		}
	}

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
	if p.matchKeyword(token.RETURNING) {
		ret, err := p.parseReturningClause()
		if err != nil {
			return nil, err
		}
		n.AddChild(ret)
	}
	return p.finishNode(n), nil
}

// parseDelete parses `DELETE FROM table-ref [USING table-refs] [WHERE
// expr] [RETURNING ...]`.
func (p *Parser) parseDelete() (*ast.Node, error) {
	n, err := p.newNode(ast.DeleteStmt)
	if err != nil {
		return nil, err
	}
	p.advance() // DELETE
	if err := p.expectKeyword(token.FROM, "FROM"); err != nil {
		return nil, err
	}
	table, err := p.parseTableRefOrSubquery()
	if err != nil {
		return nil, err
	}
	n.AddChild(table)

	if p.matchKeyword(token.USING) {
		using, err := p.parseUsingTableRefs()
		if err != nil {
			return nil, err
		}
		n.AddChild(using)
	}
	if p.current().Is(token.WHERE) {
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		n.AddChild(where)
	}
	if p.matchKeyword(token.RETURNING) {
		ret, err := p.parseReturningClause()
		if err != nil {
			return nil, err
		}
		n.AddChild(ret)
	}
	return p.finishNode(n), nil
}

// parseUsingTableRefs parses DELETE/UPDATE's `USING table-ref (, …)`,
// where each ref may itself be JOIN-chained.
func (p *Parser) parseUsingTableRefs() (*ast.Node, error) {
	n, err := p.newNode(ast.UsingClause)
	if err != nil {
		return nil, err
	}
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

// parseReturningClause parses `RETURNING * | expr [AS alias], ...`,
// already past the RETURNING keyword.
func (p *Parser) parseReturningClause() (*ast.Node, error) {
	n, err := p.newNode(ast.ReturningClause)
	if err != nil {
		return nil, err
	}
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
