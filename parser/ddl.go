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
	"strconv"
	"strings"

	"github.com/cardinalsql/sqlfront/ast"
	"github.com/cardinalsql/sqlfront/token"
)

var baseDataTypes = map[string]ast.DataType{
	"BOOLEAN": ast.DataTypeBoolean, "BOOL": ast.DataTypeBoolean,
	"TINYINT": ast.DataTypeTinyInt,
	"SMALLINT": ast.DataTypeSmallInt,
	"INT": ast.DataTypeInteger, "INTEGER": ast.DataTypeInteger,
	"BIGINT": ast.DataTypeBigInt,
	"DECIMAL": ast.DataTypeDecimal, "NUMERIC": ast.DataTypeDecimal,
	"REAL": ast.DataTypeReal, "FLOAT": ast.DataTypeReal,
	"DOUBLE": ast.DataTypeDouble,
	"CHAR": ast.DataTypeChar, "CHARACTER": ast.DataTypeChar,
	"VARCHAR": ast.DataTypeVarChar,
	"TEXT": ast.DataTypeText,
	"DATE": ast.DataTypeDate,
	"TIME": ast.DataTypeTime,
	"TIMESTAMP": ast.DataTypeTimestamp,
	"INTERVAL": ast.DataTypeInterval,
	"BLOB": ast.DataTypeBlob, "BYTEA": ast.DataTypeBlob,
	"JSON": ast.DataTypeJSON, "JSONB": ast.DataTypeJSON,
}

// parseDataType parses a base type name, an optional (precision[, scale])
// group, and an optional T[] / T[n] array suffix, producing a
// DataTypeNode with the packed info set via ast.Node.SetTypeInfo.
func (p *Parser) parseDataType() (*ast.Node, error) {
	n, err := p.newNode(ast.DataTypeNode)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.nameToken("data type name")
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(nameTok.Text)
	if err != nil {
		return nil, err
	}
	base, ok := baseDataTypes[strings.ToUpper(nameTok.Text)]
	if !ok {
		base = ast.DataTypeAny
	}

	var precision, scale uint16
	if p.current().IsDelimiter("(") {
		p.advance()
		p.openParen()
		precision, err = p.parseUintLiteral("type precision")
		if err != nil {
			return nil, err
		}
		if p.matchDelimiter(",") {
			scale, err = p.parseUintLiteral("type scale")
			if err != nil {
				return nil, err
			}
		}
		if err := p.expectCloseParen("data type"); err != nil {
			return nil, err
		}
	}

	isArray := false
	if p.matchDelimiter("[") {
		isArray = true
		if !p.current().IsDelimiter("]") {
			if _, err := p.parseUintLiteral("array size"); err != nil {
				return nil, err
			}
		}
		if err := p.expectDelimiter("]"); err != nil {
			return nil, err
		}
	}

	n.SetTypeInfo(base, precision, scale, isArray)
	return p.finishNode(n), nil
}

func (p *Parser) parseUintLiteral(what string) (uint16, error) {
	tok := p.current()
	if tok.Kind != token.Number {
		return 0, p.unexpectedToken(what)
	}
	v, err := strconv.ParseUint(tok.Text, 10, 16)
	if err != nil {
		return 0, p.unexpectedToken(what)
	}
	p.advance()
	return uint16(v), nil
}

// parseCreate dispatches CREATE's optional modifiers (TEMP/TEMPORARY,
// UNIQUE, OR REPLACE) to the object-kind-specific parser.
func (p *Parser) parseCreate() (*ast.Node, error) {
	p.advance() // CREATE

	isTemp := p.matchKeyword(token.TEMP) || p.matchKeyword(token.TEMPORARY)
	isUnique := p.matchKeyword(token.UNIQUE)
	orReplace := false
	if p.current().Is(token.OR) {
		p.advance()
		if err := p.expectKeyword(token.REPLACE, "REPLACE"); err != nil {
			return nil, err
		}
		orReplace = true
	}

	switch {
	case p.current().Is(token.TABLE):
		return p.parseCreateTable(isTemp)
	case p.current().Is(token.INDEX):
		return p.parseCreateIndex(isUnique)
	case p.current().Is(token.VIEW):
		return p.parseCreateView(orReplace)
	case p.current().Is(token.TRIGGER):
		return p.parseCreateTrigger()
	case p.current().Is(token.SCHEMA):
		return p.parseCreateSchema()
	}
	return nil, p.unexpectedToken("CREATE object kind")
}

func (p *Parser) parseIfNotExists() bool {
	if !p.current().Is(token.IF) {
		return false
	}
	p.advance()
	p.matchKeyword(token.NOT)
	p.matchKeyword(token.EXISTS)
	return true
}

// parseQualifiedName parses `[schema.]name`, returning the parts.
func (p *Parser) parseQualifiedName(context string) (schema, name string, err error) {
	firstTok, err := p.nameToken(context)
	if err != nil {
		return "", "", err
	}
	name = firstTok.Text
	if p.matchDelimiter(".") {
		schema = name
		secondTok, err := p.nameToken(context)
		if err != nil {
			return "", "", err
		}
		name = secondTok.Text
	}
	return schema, name, nil
}

func (p *Parser) parseCreateTable(isTemp bool) (*ast.Node, error) {
	n, err := p.newNode(ast.CreateTableStmt)
	if err != nil {
		return nil, err
	}
	p.advance() // TABLE
	if isTemp {
		n.SetSemanticFlag(ast.TemporaryOrRestrict)
	}
	if p.parseIfNotExists() {
		n.SetSemanticFlag(ast.IfExists)
	}

	schema, name, err := p.parseQualifiedName("table name")
	if err != nil {
		return nil, err
	}
	n.SchemaName = schema
	n.PrimaryText, err = p.copyText(name)
	if err != nil {
		return nil, err
	}

	if err := p.expectDelimiter("("); err != nil {
		return nil, err
	}
	p.openParen()
	for {
		elem, err := p.parseTableElement()
		if err != nil {
			return nil, err
		}
		n.AddChild(elem)
		if !p.matchDelimiter(",") {
			break
		}
	}
	if err := p.expectCloseParen("CREATE TABLE"); err != nil {
		return nil, err
	}

	// Trailing table options (engine clauses, WITHOUT ROWID, ...) are
	// skipped to the statement terminator: this front-end has no semantic
	// use for them.
	for !p.atEnd() && !p.current().IsDelimiter(";") {
		p.advance()
	}
	return p.finishNode(n), nil
}

// parseTableElement parses one CREATE TABLE element: a column definition,
// or (if led by CONSTRAINT/PRIMARY/FOREIGN/UNIQUE/CHECK) a table
// constraint.
func (p *Parser) parseTableElement() (*ast.Node, error) {
	tok := p.current()
	if tok.Is(token.CONSTRAINT) || tok.Is(token.PRIMARY) || tok.Is(token.FOREIGN) ||
		tok.Is(token.UNIQUE) || tok.Is(token.CHECK) {
		return p.parseTableConstraint()
	}
	return p.parseColumnDefinition()
}

func (p *Parser) parseColumnDefinition() (*ast.Node, error) {
	n, err := p.newNode(ast.ColumnDefinition)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.nameToken("column name")
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(nameTok.Text)
	if err != nil {
		return nil, err
	}
	dt, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	n.AddChild(dt)

	for p.isColumnConstraintLead() {
		constraint, err := p.parseColumnConstraint()
		if err != nil {
			return nil, err
		}
		n.AddChild(constraint)
	}
	return p.finishNode(n), nil
}

func (p *Parser) isColumnConstraintLead() bool {
	tok := p.current()
	switch tok.Keyword {
	case token.NOT, token.PRIMARY, token.UNIQUE, token.CHECK, token.DEFAULT, token.REFERENCES:
		return true
	}
	return false
}

func (p *Parser) parseColumnConstraint() (*ast.Node, error) {
	n, err := p.newNode(ast.ColumnConstraint)
	if err != nil {
		return nil, err
	}
	tok := p.current()
	switch {
	case tok.Is(token.NOT):
		p.advance()
		if err := p.expectKeyword(token.NULL, "NULL"); err != nil {
			return nil, err
		}
		n.PrimaryText, err = p.copyText("NOT NULL")
	case tok.Is(token.PRIMARY):
		p.advance()
		if err := p.expectKeyword(token.KEY, "KEY"); err != nil {
			return nil, err
		}
		n.PrimaryText, err = p.copyText("PRIMARY KEY")
	case tok.Is(token.UNIQUE):
		p.advance()
		n.PrimaryText, err = p.copyText("UNIQUE")
	case tok.Is(token.CHECK):
		p.advance()
		if e := p.expectDelimiter("("); e != nil {
			return nil, e
		}
		p.openParen()
		cond, cerr := p.parseExpression(precTerminator)
		if cerr != nil {
			return nil, cerr
		}
		if e := p.expectCloseParen("CHECK"); e != nil {
			return nil, e
		}
		n.AddChild(cond)
		n.PrimaryText, err = p.copyText("CHECK")
	case tok.Is(token.DEFAULT):
		p.advance()
		def, derr := p.parseExpression(precTerminator)
		if derr != nil {
			return nil, derr
		}
		n.AddChild(def)
		n.PrimaryText, err = p.copyText("DEFAULT")
	case tok.Is(token.REFERENCES):
		p.advance()
		return p.finishReferencesConstraint(n)
	default:
		return nil, p.unexpectedToken("column constraint")
	}
	if err != nil {
		return nil, err
	}
	return p.finishNode(n), nil
}

// finishReferencesConstraint parses `t[(cols)]` after REFERENCES has
// already been consumed, attaching an optional ColumnList child.
func (p *Parser) finishReferencesConstraint(n *ast.Node) (*ast.Node, error) {
	var err error
	nameTok, err := p.nameToken("referenced table")
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText("REFERENCES " + nameTok.Text)
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
	return p.finishNode(n), nil
}

// parseTableConstraint parses `[CONSTRAINT name] { PRIMARY KEY (cols) |
// FOREIGN KEY (cols) REFERENCES t(cols) | UNIQUE (cols) | CHECK (expr) }`.
func (p *Parser) parseTableConstraint() (*ast.Node, error) {
	n, err := p.newNode(ast.TableConstraint)
	if err != nil {
		return nil, err
	}
	if p.matchKeyword(token.CONSTRAINT) {
		nameTok, err := p.nameToken("constraint name")
		if err != nil {
			return nil, err
		}
		n.SchemaName, err = p.copyText(nameTok.Text)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case p.matchKeyword(token.PRIMARY):
		if err := p.expectKeyword(token.KEY, "KEY"); err != nil {
			return nil, err
		}
		n.PrimaryText, err = p.copyText("PRIMARY KEY")
		if err != nil {
			return nil, err
		}
		cols, cerr := p.parseColumnNameList()
		if cerr != nil {
			return nil, cerr
		}
		n.AddChild(cols)

	case p.matchKeyword(token.FOREIGN):
		if err := p.expectKeyword(token.KEY, "KEY"); err != nil {
			return nil, err
		}
		n.PrimaryText, err = p.copyText("FOREIGN KEY")
		if err != nil {
			return nil, err
		}
		cols, cerr := p.parseColumnNameList()
		if cerr != nil {
			return nil, cerr
		}
		n.AddChild(cols)
		if err := p.expectKeyword(token.REFERENCES, "REFERENCES"); err != nil {
			return nil, err
		}
		refTok, rerr := p.nameToken("referenced table")
		if rerr != nil {
			return nil, rerr
		}
		n.CatalogName, err = p.copyText(refTok.Text)
		if err != nil {
			return nil, err
		}
		if p.current().IsDelimiter("(") {
			refCols, rcerr := p.parseColumnNameList()
			if rcerr != nil {
				return nil, rcerr
			}
			n.AddChild(refCols)
		}

	case p.matchKeyword(token.UNIQUE):
		n.PrimaryText, err = p.copyText("UNIQUE")
		if err != nil {
			return nil, err
		}
		cols, cerr := p.parseColumnNameList()
		if cerr != nil {
			return nil, cerr
		}
		n.AddChild(cols)

	case p.matchKeyword(token.CHECK):
		n.PrimaryText, err = p.copyText("CHECK")
		if err != nil {
			return nil, err
		}
		if err := p.expectDelimiter("("); err != nil {
			return nil, err
		}
		p.openParen()
		cond, cerr := p.parseExpression(precTerminator)
		if cerr != nil {
			return nil, cerr
		}
		if err := p.expectCloseParen("CHECK"); err != nil {
			return nil, err
		}
		n.AddChild(cond)

	default:
		return nil, p.unexpectedToken("table constraint")
	}
	return p.finishNode(n), nil
}

func (p *Parser) parseCreateIndex(isUnique bool) (*ast.Node, error) {
	n, err := p.newNode(ast.CreateIndexStmt)
	if err != nil {
		return nil, err
	}
	p.advance() // INDEX
	if isUnique {
		n.SetSemanticFlag(ast.Unique)
	}
	if p.parseIfNotExists() {
		n.SetSemanticFlag(ast.IfExists)
	}

	nameTok, err := p.nameToken("index name")
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(nameTok.Text)
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(token.ON, "ON"); err != nil {
		return nil, err
	}
	tableTok, err := p.nameToken("index table")
	if err != nil {
		return nil, err
	}
	n.SchemaName, err = p.copyText(tableTok.Text)
	if err != nil {
		return nil, err
	}

	if err := p.expectDelimiter("("); err != nil {
		return nil, err
	}
	p.openParen()
	for {
		col, err := p.parseIndexedColumn()
		if err != nil {
			return nil, err
		}
		n.AddChild(col)
		if !p.matchDelimiter(",") {
			break
		}
	}
	if err := p.expectCloseParen("CREATE INDEX"); err != nil {
		return nil, err
	}

	if p.matchKeyword(token.WHERE) {
		pred, err := p.parseExpression(precTerminator)
		if err != nil {
			return nil, err
		}
		n.AddChild(pred)
	}
	return p.finishNode(n), nil
}

func (p *Parser) parseIndexedColumn() (*ast.Node, error) {
	n, err := p.newNode(ast.IndexColumn)
	if err != nil {
		return nil, err
	}
	if p.current().IsDelimiter("(") {
		p.advance()
		p.openParen()
		expr, eerr := p.parseExpression(precTerminator)
		if eerr != nil {
			return nil, eerr
		}
		if cerr := p.expectCloseParen("indexed expression"); cerr != nil {
			return nil, cerr
		}
		n.AddChild(expr)
	} else {
		nameTok, nerr := p.nameToken("indexed column")
		if nerr != nil {
			return nil, nerr
		}
		n.PrimaryText, err = p.copyText(nameTok.Text)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case p.matchKeyword(token.ASC):
	case p.matchKeyword(token.DESC):
		n.SetSemanticFlag(ast.OrderDesc)
	}
	return p.finishNode(n), nil
}

func (p *Parser) parseCreateView(orReplace bool) (*ast.Node, error) {
	n, err := p.newNode(ast.CreateViewStmt)
	if err != nil {
		return nil, err
	}
	p.advance() // VIEW
	if orReplace {
		n.SetSemanticFlag(ast.OrReplaceOrCascade)
	}
	nameTok, err := p.nameToken("view name")
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
	body, err := p.parseSelectStatement()
	if err != nil {
		return nil, err
	}
	n.AddChild(body)
	return p.finishNode(n), nil
}

// parseCreateTrigger parses BEFORE/AFTER/INSTEAD OF x INSERT/UPDATE[ OF
// cols]/DELETE x ON table x FOR EACH ROW|STATEMENT x WHEN expr x (BEGIN
// ... END | single-stmt). Events and FOR EACH granularity are set in
// semantic_flags; timing has no semantic_flags bits and is stored as text
// ("BEFORE", "AFTER" or "INSTEAD OF") in schema_name, with the target
// table in catalog_name.
func (p *Parser) parseCreateTrigger() (*ast.Node, error) {
	n, err := p.newNode(ast.CreateTriggerStmt)
	if err != nil {
		return nil, err
	}
	p.advance() // TRIGGER
	nameTok, err := p.nameToken("trigger name")
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(nameTok.Text)
	if err != nil {
		return nil, err
	}

	timing := ""
	switch {
	case p.matchKeyword(token.BEFORE):
		timing = "BEFORE"
	case p.matchKeyword(token.AFTER):
		timing = "AFTER"
	case p.matchKeyword(token.INSTEAD):
		if err := p.expectKeyword(token.OF, "OF"); err != nil {
			return nil, err
		}
		timing = "INSTEAD OF"
	default:
		return nil, p.unexpectedToken("trigger timing")
	}

	for {
		switch {
		case p.matchKeyword(token.INSERT):
			n.SetSemanticFlag(ast.TriggerInsert)
		case p.matchKeyword(token.DELETE):
			n.SetSemanticFlag(ast.TriggerDelete)
		case p.matchKeyword(token.UPDATE):
			n.SetSemanticFlag(ast.TriggerUpdate)
			if p.matchKeyword(token.OF) {
				cols, err := p.parseBareColumnNameCommaList()
				if err != nil {
					return nil, err
				}
				n.AddChild(cols)
			}
		default:
			return nil, p.unexpectedToken("trigger event")
		}
		if !p.matchKeyword(token.OR) {
			break
		}
	}

	n.SchemaName, err = p.copyText(timing)
	if err != nil {
		return nil, err
	}

	if err := p.expectKeyword(token.ON, "ON"); err != nil {
		return nil, err
	}
	tableTok, err := p.nameToken("trigger table")
	if err != nil {
		return nil, err
	}
	n.CatalogName, err = p.copyText(tableTok.Text)
	if err != nil {
		return nil, err
	}

	if p.matchKeyword(token.FOR) {
		p.matchKeyword(token.EACH)
		switch {
		case p.matchKeyword(token.ROW):
			n.SetSemanticFlag(ast.TriggerForEachRow)
		case p.matchKeyword(token.STATEMENT):
			n.SetSemanticFlag(ast.TriggerForEachStmt)
		default:
			return nil, p.unexpectedToken("FOR EACH ROW|STATEMENT")
		}
	}

	if p.matchKeyword(token.WHEN) {
		cond, err := p.parseExpression(precTerminator)
		if err != nil {
			return nil, err
		}
		n.AddChild(cond)
	}

	if p.matchKeyword(token.BEGIN) {
		for !p.current().Is(token.END) {
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			n.AddChild(stmt)
			p.matchDelimiter(";")
		}
		p.advance() // END
	} else {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		n.AddChild(stmt)
	}
	return p.finishNode(n), nil
}

// parseBareColumnNameCommaList parses a non-parenthesized comma-separated
// name list, for `UPDATE OF col, col2`.
func (p *Parser) parseBareColumnNameCommaList() (*ast.Node, error) {
	n, err := p.newNode(ast.ColumnList)
	if err != nil {
		return nil, err
	}
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
	return p.finishNode(n), nil
}

func (p *Parser) parseCreateSchema() (*ast.Node, error) {
	n, err := p.newNode(ast.CreateSchemaStmt)
	if err != nil {
		return nil, err
	}
	p.advance() // SCHEMA
	if p.parseIfNotExists() {
		n.SetSemanticFlag(ast.IfExists)
	}
	nameTok, err := p.nameToken("schema name")
	if err != nil {
		return nil, err
	}
	n.PrimaryText, err = p.copyText(nameTok.Text)
	if err != nil {
		return nil, err
	}
	if p.matchKeyword(token.AUTHORIZATION) {
		ownerTok, err := p.nameToken("schema owner")
		if err != nil {
			return nil, err
		}
		n.SchemaName, err = p.copyText(ownerTok.Text)
		if err != nil {
			return nil, err
		}
	}
	return p.finishNode(n), nil
}

// parseAlterTable parses `ALTER TABLE name <action>`, wrapping the one
// action in a single AlterTableAction child whose primary_text is the
// action verb.
func (p *Parser) parseAlterTable() (*ast.Node, error) {
	n, err := p.newNode(ast.AlterTableStmt)
	if err != nil {
		return nil, err
	}
	p.advance() // ALTER
	if err := p.expectKeyword(token.TABLE, "TABLE"); err != nil {
		return nil, err
	}
	schema, name, err := p.parseQualifiedName("table name")
	if err != nil {
		return nil, err
	}
	n.SchemaName = schema
	n.PrimaryText, err = p.copyText(name)
	if err != nil {
		return nil, err
	}

	action, err := p.parseAlterTableAction()
	if err != nil {
		return nil, err
	}
	n.AddChild(action)
	return p.finishNode(n), nil
}

func (p *Parser) parseAlterTableAction() (*ast.Node, error) {
	n, err := p.newNode(ast.AlterTableAction)
	if err != nil {
		return nil, err
	}
	switch {
	case p.matchKeyword(token.ADD):
		p.matchKeyword(token.COLUMN)
		n.PrimaryText, err = p.copyText("ADD COLUMN")
		if err != nil {
			return nil, err
		}
		col, cerr := p.parseColumnDefinition()
		if cerr != nil {
			return nil, cerr
		}
		n.AddChild(col)

	case p.matchKeyword(token.DROP):
		p.matchKeyword(token.COLUMN)
		n.PrimaryText, err = p.copyText("DROP COLUMN")
		if err != nil {
			return nil, err
		}
		nameTok, nerr := p.nameToken("column name")
		if nerr != nil {
			return nil, nerr
		}
		n.SchemaName, err = p.copyText(nameTok.Text)
		if err != nil {
			return nil, err
		}
		p.parseOptionalCascadeRestrict(n)

	case p.matchKeyword(token.ALTER):
		p.matchKeyword(token.COLUMN)
		nameTok, nerr := p.nameToken("column name")
		if nerr != nil {
			return nil, nerr
		}
		n.SchemaName, err = p.copyText(nameTok.Text)
		if err != nil {
			return nil, err
		}
		switch {
		case p.matchKeyword(token.SET):
			if err := p.expectKeyword(token.DEFAULT, "DEFAULT"); err != nil {
				return nil, err
			}
			n.PrimaryText, err = p.copyText("ALTER COLUMN SET DEFAULT")
			if err != nil {
				return nil, err
			}
			def, derr := p.parseExpression(precTerminator)
			if derr != nil {
				return nil, derr
			}
			n.AddChild(def)
		case p.matchKeyword(token.DROP):
			if err := p.expectKeyword(token.DEFAULT, "DEFAULT"); err != nil {
				return nil, err
			}
			n.PrimaryText, err = p.copyText("ALTER COLUMN DROP DEFAULT")
			if err != nil {
				return nil, err
			}
		case p.matchKeyword(token.TYPE):
			n.PrimaryText, err = p.copyText("ALTER COLUMN TYPE")
			if err != nil {
				return nil, err
			}
			dt, derr := p.parseDataType()
			if derr != nil {
				return nil, derr
			}
			n.AddChild(dt)
		default:
			return nil, p.unexpectedToken("ALTER COLUMN action")
		}

	case p.matchKeyword(token.RENAME):
		p.matchKeyword(token.TO)
		n.PrimaryText, err = p.copyText("RENAME")
		if err != nil {
			return nil, err
		}
		nameTok, nerr := p.nameToken("new table name")
		if nerr != nil {
			return nil, nerr
		}
		n.SchemaName, err = p.copyText(nameTok.Text)
		if err != nil {
			return nil, err
		}

	default:
		return nil, p.unexpectedToken("ALTER TABLE action")
	}
	return p.finishNode(n), nil
}

func (p *Parser) parseOptionalCascadeRestrict(n *ast.Node) {
	switch {
	case p.matchKeyword(token.CASCADE):
		n.SetSemanticFlag(ast.OrReplaceOrCascade)
	case p.matchKeyword(token.RESTRICT):
		n.SetSemanticFlag(ast.TemporaryOrRestrict)
	}
}

// parseDrop parses `DROP { TABLE|INDEX|VIEW } [IF EXISTS] name
// [CASCADE|RESTRICT]`, recording the object kind in the object-kind subtag
// of semantic_flags.
func (p *Parser) parseDrop() (*ast.Node, error) {
	n, err := p.newNode(ast.DropStmt)
	if err != nil {
		return nil, err
	}
	p.advance() // DROP

	switch {
	case p.matchKeyword(token.TABLE):
		n.SetSemanticFlag(ast.ObjectKindTable)
	case p.matchKeyword(token.INDEX):
		n.SetSemanticFlag(ast.ObjectKindIndex)
	case p.matchKeyword(token.VIEW):
		n.SetSemanticFlag(ast.ObjectKindView)
	default:
		return nil, p.unexpectedToken("DROP object kind")
	}

	if p.parseIfNotExists() {
		n.SetSemanticFlag(ast.IfExists)
	}
	schema, name, err := p.parseQualifiedName("object name")
	if err != nil {
		return nil, err
	}
	n.SchemaName = schema
	n.PrimaryText, err = p.copyText(name)
	if err != nil {
		return nil, err
	}
	p.parseOptionalCascadeRestrict(n)
	return p.finishNode(n), nil
}

// parseTruncate parses `TRUNCATE [TABLE] name [CASCADE|RESTRICT]`.
func (p *Parser) parseTruncate() (*ast.Node, error) {
	n, err := p.newNode(ast.TruncateStmt)
	if err != nil {
		return nil, err
	}
	p.advance() // TRUNCATE
	p.matchKeyword(token.TABLE)
	schema, name, err := p.parseQualifiedName("table name")
	if err != nil {
		return nil, err
	}
	n.SchemaName = schema
	n.PrimaryText, err = p.copyText(name)
	if err != nil {
		return nil, err
	}
	p.parseOptionalCascadeRestrict(n)
	return p.finishNode(n), nil
}
