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

// parseStatement dispatches on the leading keyword, per the statement
// table: SELECT/VALUES, WITH, INSERT, UPDATE, DELETE, CREATE family, DROP,
// ALTER, TRUNCATE, transaction keywords, EXPLAIN, and the utility-statement
// keywords. An unrecognized leading keyword or a non-keyword lead fails.
func (p *Parser) parseStatement() (*ast.Node, error) {
	p.trace("statement")
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.current()
	if tok.Kind != token.Keyword {
		return nil, p.unexpectedToken("statement")
	}

	switch tok.Keyword {
	case token.SELECT, token.VALUES:
		return p.parseSelectStatement()
	case token.WITH:
		return p.parseWith()
	case token.INSERT:
		return p.parseInsert()
	case token.UPDATE:
		return p.parseUpdate()
	case token.DELETE:
		return p.parseDelete()
	case token.CREATE:
		return p.parseCreate()
	case token.DROP:
		return p.parseDrop()
	case token.ALTER:
		return p.parseAlterTable()
	case token.TRUNCATE:
		return p.parseTruncate()
	case token.BEGIN, token.START, token.COMMIT, token.ROLLBACK, token.SAVEPOINT, token.RELEASE:
		return p.parseTransaction()
	case token.EXPLAIN:
		return p.parseExplain()
	case token.SET, token.VACUUM, token.ANALYZE, token.ATTACH, token.DETACH, token.REINDEX, token.PRAGMA:
		return p.parseUtility()
	default:
		return nil, p.unexpectedToken("statement")
	}
}

// parseTransaction consumes one of BEGIN/START/COMMIT/ROLLBACK/SAVEPOINT/
// RELEASE, optionally followed by the TRANSACTION noise word and, for
// SAVEPOINT/RELEASE, a name, producing a TransactionStmt whose
// primary_text is the leading verb.
func (p *Parser) parseTransaction() (*ast.Node, error) {
	n, err := p.newNode(ast.TransactionStmt)
	if err != nil {
		return nil, err
	}
	verb := p.current()
	n.PrimaryText, err = p.copyText(verb.Text)
	if err != nil {
		return nil, err
	}
	p.advance()

	p.matchKeyword(token.TRANSACTION)

	if verb.Is(token.SAVEPOINT) || verb.Is(token.RELEASE) {
		if p.current().Kind == token.Identifier || p.current().Kind == token.Keyword {
			nameTok, err := p.nameToken("savepoint name")
			if err != nil {
				return nil, err
			}
			n.SchemaName, err = p.copyText(nameTok.Text)
			if err != nil {
				return nil, err
			}
		}
	}
	return p.finishNode(n), nil
}

// parseExplain wraps a following statement, per spec.md's "EXPLAIN ->
// wraps a following statement".
func (p *Parser) parseExplain() (*ast.Node, error) {
	n, err := p.newNode(ast.ExplainStmt)
	if err != nil {
		return nil, err
	}
	p.advance() // EXPLAIN

	inner, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	n.AddChild(inner)
	return p.finishNode(n), nil
}

// parseUtility handles SET/VACUUM/ANALYZE/ATTACH/DETACH/REINDEX/PRAGMA:
// these have no semantic structure in this front-end beyond their leading
// verb, so what follows it is parsed as a comma-separated expression list,
// each expression added as a direct child of the UtilityStmt; parsing
// stops at the first expression not followed by a comma.
func (p *Parser) parseUtility() (*ast.Node, error) {
	n, err := p.newNode(ast.UtilityStmt)
	if err != nil {
		return nil, err
	}
	verb := p.current()
	n.PrimaryText, err = p.copyText(verb.Text)
	if err != nil {
		return nil, err
	}
	p.advance()

	for !p.atEnd() && !p.current().IsDelimiter(";") {
		arg, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		n.AddChild(arg)
		if !p.matchDelimiter(",") {
			break
		}
	}
	return p.finishNode(n), nil
}
