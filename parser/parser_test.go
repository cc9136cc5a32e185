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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardinalsql/sqlfront/ast"
	"github.com/cardinalsql/sqlfront/token"
)

func mustParse(t *testing.T, sql string) *ast.Node {
	t.Helper()
	p := New()
	root, err := p.Parse(sql)
	require.NoError(t, err)
	require.NotNil(t, root)
	return root
}

// TestScenarioSelectStar covers spec scenario 1.
func TestScenarioSelectStar(t *testing.T) {
	root := mustParse(t, "SELECT * FROM users")
	require.Equal(t, ast.SelectStmt, root.Type())

	selectList := root.FindChild(ast.SelectList)
	require.NotNil(t, selectList)
	require.Equal(t, ast.Star, selectList.FirstChild.Type())

	from := root.FindChild(ast.FromClause)
	require.NotNil(t, from)
	require.Equal(t, ast.TableRef, from.FirstChild.Type())
	require.Equal(t, "users", from.FirstChild.PrimaryText)
}

// TestScenarioDistinctFunctionCall covers spec scenario 2.
func TestScenarioDistinctFunctionCall(t *testing.T) {
	root := mustParse(t, "SELECT COUNT(DISTINCT id) FROM t")
	selectList := root.FindChild(ast.SelectList)
	fn := selectList.FirstChild
	require.Equal(t, ast.FunctionCall, fn.Type())
	require.Equal(t, "COUNT", fn.PrimaryText)
	require.True(t, fn.HasFlag(ast.Distinct))
	require.Equal(t, ast.ColumnRef, fn.FirstChild.Type())
	require.Equal(t, "id", fn.FirstChild.PrimaryText)
}

// TestScenarioNotIn covers spec scenario 3.
func TestScenarioNotIn(t *testing.T) {
	root := mustParse(t, "SELECT id FROM t WHERE a NOT IN (1,2,3)")
	where := root.FindChild(ast.WhereClause)
	require.NotNil(t, where)
	inExpr := where.FirstChild
	require.Equal(t, ast.InExpr, inExpr.Type())
	require.Equal(t, "NOT IN", inExpr.PrimaryText)
	require.True(t, inExpr.HasSemanticFlag(ast.NotVariant))

	children := inExpr.Children()
	require.Len(t, children, 4)
	require.Equal(t, ast.ColumnRef, children[0].Type())
	require.Equal(t, "a", children[0].PrimaryText)
	require.Equal(t, ast.IntegerLiteral, children[1].Type())
	require.Equal(t, "1", children[1].PrimaryText)
	require.Equal(t, "2", children[2].PrimaryText)
	require.Equal(t, "3", children[3].PrimaryText)
}

// TestScenarioUnionAll covers spec scenario 4.
func TestScenarioUnionAll(t *testing.T) {
	root := mustParse(t, "SELECT id FROM t1 UNION ALL SELECT id FROM t2")
	require.Equal(t, ast.UnionStmt, root.Type())
	require.True(t, root.HasFlag(ast.All))
	children := root.Children()
	require.Len(t, children, 2)
	require.Equal(t, ast.SelectStmt, children[0].Type())
	require.Equal(t, ast.SelectStmt, children[1].Type())
}

// TestScenarioRecursiveCTE covers spec scenario 5.
func TestScenarioRecursiveCTE(t *testing.T) {
	root := mustParse(t, "WITH RECURSIVE h AS (SELECT 1 UNION ALL SELECT n+1 FROM h WHERE n<10) SELECT * FROM h")
	require.Equal(t, ast.SelectStmt, root.Type())

	withClause := root.FirstChild
	require.Equal(t, ast.WithClause, withClause.Type())
	require.True(t, withClause.HasSemanticFlag(ast.Recursive))

	cte := withClause.FirstChild
	require.Equal(t, ast.CTEDefinition, cte.Type())
	require.Equal(t, "h", cte.PrimaryText)
	require.Equal(t, ast.UnionStmt, cte.FirstChild.Type())

	selectList := root.FindChild(ast.SelectList)
	require.NotNil(t, selectList)
	require.Equal(t, ast.Star, selectList.FirstChild.Type())

	from := root.FindChild(ast.FromClause)
	require.NotNil(t, from)
	require.Equal(t, "h", from.FirstChild.PrimaryText)
}

// TestScenarioWindowFunction covers spec scenario 6.
func TestScenarioWindowFunction(t *testing.T) {
	root := mustParse(t, "SELECT x, SUM(y) OVER (PARTITION BY z ORDER BY w ROWS BETWEEN 3 PRECEDING AND CURRENT ROW) FROM t")
	selectList := root.FindChild(ast.SelectList)
	items := selectList.Children()
	require.Len(t, items, 2)

	sum := items[1]
	require.Equal(t, ast.FunctionCall, sum.Type())
	require.Equal(t, "SUM", sum.PrimaryText)
	require.True(t, sum.HasSemanticFlag(ast.IsWindowFunction))

	sumChildren := sum.Children()
	require.Len(t, sumChildren, 2)
	require.Equal(t, ast.ColumnRef, sumChildren[0].Type())
	require.Equal(t, "y", sumChildren[0].PrimaryText)

	win := sumChildren[1]
	require.Equal(t, ast.WindowSpec, win.Type())
	partition := win.FindChild(ast.PartitionByClause)
	require.NotNil(t, partition)
	require.Equal(t, "z", partition.FirstChild.PrimaryText)

	order := win.FindChild(ast.OrderByClause)
	require.NotNil(t, order)
	require.Equal(t, "w", order.FirstChild.FirstChild.PrimaryText)

	frame := win.FindChild(ast.FrameClause)
	require.NotNil(t, frame)
	require.Equal(t, "ROWS", frame.PrimaryText)
	bounds := frame.Children()
	require.Len(t, bounds, 2)
	require.Equal(t, "3", bounds[0].PrimaryText)
	require.Equal(t, "PRECEDING", bounds[0].SchemaName)
	require.Equal(t, "CURRENT ROW", bounds[1].PrimaryText)
}

func TestMissingSelectListFails(t *testing.T) {
	p := New()
	_, err := p.Parse("SELECT FROM t")
	require.Error(t, err)
	perr, ok := err.(*ParseError)
	require.True(t, ok)
	require.Equal(t, ErrMissingSelectList, perr.Kind)
}

func TestInsertWithoutIntoFails(t *testing.T) {
	p := New()
	_, err := p.Parse("INSERT VALUES (1)")
	require.Error(t, err)
	perr, ok := err.(*ParseError)
	require.True(t, ok)
	require.Equal(t, ErrUnexpectedToken, perr.Kind)
}

func TestBetweenWithoutAndFails(t *testing.T) {
	p := New()
	_, err := p.Parse("SELECT id FROM t WHERE x BETWEEN 1")
	require.Error(t, err)
	perr, ok := err.(*ParseError)
	require.True(t, ok)
	require.Equal(t, ErrUnterminatedConstruct, perr.Kind)
}

func TestDepthBombFailsGracefully(t *testing.T) {
	p := New()
	sql := "SELECT " + repeat("(", 1001) + "1" + repeat(")", 1001)
	_, err := p.Parse(sql)
	require.Error(t, err)
	perr, ok := err.(*ParseError)
	require.True(t, ok)
	require.Equal(t, ErrDepthExceeded, perr.Kind)
}

func repeat(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func TestStrictOperatorRejectedInStrictMode(t *testing.T) {
	p, err := NewWithConfig(Config{StrictMode: true, ModeName: "production", MaxDepth: 1000})
	require.NoError(t, err)
	_, err = p.Parse("SELECT 1 == 2")
	require.Error(t, err)
	perr, ok := err.(*ParseError)
	require.True(t, ok)
	require.Equal(t, ErrStrictOperator, perr.Kind)
}

func TestLaxModeTreatsStrictOperatorAsTerminator(t *testing.T) {
	p := New()
	root, err := p.Parse("SELECT 1 == 2")
	require.NoError(t, err)
	selectList := root.FindChild(ast.SelectList)
	require.Equal(t, ast.IntegerLiteral, selectList.FirstChild.Type())
}

func TestEmptyInputFails(t *testing.T) {
	p := New()
	_, err := p.Parse("")
	require.Error(t, err)
	perr, ok := err.(*ParseError)
	require.True(t, ok)
	require.Equal(t, ErrEmptyInput, perr.Kind)
}

func TestJoinChainAssociatesLeftToRight(t *testing.T) {
	root := mustParse(t, "SELECT * FROM a JOIN b ON a.id=b.id JOIN c ON b.id=c.id")
	from := root.FindChild(ast.FromClause)
	outerJoin := from.FirstChild
	require.True(t, outerJoin.Type().IsJoin())

	children := outerJoin.Children()
	require.Len(t, children, 3)
	innerJoin := children[0]
	require.True(t, innerJoin.Type().IsJoin())
	require.Equal(t, ast.TableRef, children[1].Type())
	require.Equal(t, "c", children[1].PrimaryText)
}

func TestValidateASTRejectsWhereWithoutFrom(t *testing.T) {
	p := New()
	root, err := p.Parse("SELECT 1")
	require.NoError(t, err)
	require.NoError(t, p.ValidateAST(root))

	root, err = p.Parse("SELECT 1 WHERE 1 = 1")
	require.NoError(t, err)
	require.Error(t, p.ValidateAST(root))
}

func TestCreateTableWithConstraints(t *testing.T) {
	root := mustParse(t, `CREATE TABLE accounts (
		id INTEGER PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		balance DECIMAL(10,2) DEFAULT 0,
		CONSTRAINT fk_owner FOREIGN KEY (owner_id) REFERENCES users(id)
	)`)
	require.Equal(t, ast.CreateTableStmt, root.Type())
	require.Equal(t, "accounts", root.PrimaryText)

	cols := root.Children()
	require.Len(t, cols, 4)
	require.Equal(t, ast.ColumnDefinition, cols[0].Type())
	require.Equal(t, "id", cols[0].PrimaryText)

	nameCol := cols[1]
	dt := nameCol.FindChild(ast.DataTypeNode)
	require.NotNil(t, dt)
	base, precision, _, _ := dt.TypeInfo()
	require.Equal(t, ast.DataTypeVarChar, base)
	require.Equal(t, uint16(255), precision)

	fk := cols[3]
	require.Equal(t, ast.TableConstraint, fk.Type())
	require.Equal(t, "fk_owner", fk.SchemaName)
	require.Equal(t, "FOREIGN KEY", fk.PrimaryText)
}

func TestInsertDistinguishesColumnListFromValuesRow(t *testing.T) {
	root := mustParse(t, "INSERT INTO t (a, b) VALUES (1, 2)")
	require.Equal(t, ast.InsertStmt, root.Type())
	cols := root.FindChild(ast.ColumnList)
	require.NotNil(t, cols)
	require.Len(t, cols.Children(), 2)

	values := root.FindChild(ast.ValuesClause)
	require.NotNil(t, values)
	rows := values.Children()
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Children(), 2)
}

func TestInsertValuesOnlyNoColumnList(t *testing.T) {
	root := mustParse(t, "INSERT INTO t VALUES (1, 'a')")
	cols := root.FindChild(ast.ColumnList)
	require.Nil(t, cols)
	values := root.FindChild(ast.ValuesClause)
	require.NotNil(t, values)
}

func TestUpdateAssignmentShape(t *testing.T) {
	root := mustParse(t, "UPDATE t SET a = 1, b = 2 WHERE id = 3")
	require.Equal(t, ast.UpdateStmt, root.Type())
	assignments := []*ast.Node{}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type() == ast.Assignment {
			assignments = append(assignments, c)
		}
	}
	require.Len(t, assignments, 2)
	require.Equal(t, "a", assignments[0].PrimaryText)
	require.True(t, assignments[0].HasSemanticFlag(ast.IsAssignment))
}

func TestCaseExpressionSimpleForm(t *testing.T) {
	root := mustParse(t, "SELECT CASE x WHEN 1 THEN 'one' ELSE 'other' END FROM t")
	selectList := root.FindChild(ast.SelectList)
	caseExpr := selectList.FirstChild
	require.Equal(t, ast.CaseExpr, caseExpr.Type())
	children := caseExpr.Children()
	require.Len(t, children, 3) // operand, WHEN, ELSE
	require.Equal(t, ast.ColumnRef, children[0].Type())
	require.Equal(t, "WHEN", children[1].PrimaryText)
}

func TestCastExpression(t *testing.T) {
	root := mustParse(t, "SELECT CAST(x AS DECIMAL(10,2)) FROM t")
	selectList := root.FindChild(ast.SelectList)
	cast := selectList.FirstChild
	require.Equal(t, ast.CastExpr, cast.Type())
	dt := cast.FindChild(ast.DataTypeNode)
	require.NotNil(t, dt)
	base, precision, scale, _ := dt.TypeInfo()
	require.Equal(t, ast.DataTypeDecimal, base)
	require.Equal(t, uint16(10), precision)
	require.Equal(t, uint16(2), scale)
}

func TestGroupingSetsVariants(t *testing.T) {
	root := mustParse(t, "SELECT a, b FROM t GROUP BY CUBE(a, b)")
	groupBy := root.FindChild(ast.GroupByClause)
	require.NotNil(t, groupBy)
	require.Equal(t, ast.GroupingElement, groupBy.FirstChild.Type())
	require.Equal(t, "CUBE", groupBy.FirstChild.PrimaryText)
}

func TestOrderByDescNullsFirst(t *testing.T) {
	root := mustParse(t, "SELECT a FROM t ORDER BY a DESC NULLS FIRST")
	orderBy := root.FindChild(ast.OrderByClause)
	require.NotNil(t, orderBy)
	item := orderBy.FirstChild
	require.True(t, item.HasSemanticFlag(ast.OrderDesc))
	require.True(t, item.HasSemanticFlag(ast.OrderNullsFirst))
}

func TestOnConflictDoUpdate(t *testing.T) {
	root := mustParse(t, "INSERT INTO t (id, v) VALUES (1, 2) ON CONFLICT (id) DO UPDATE SET v = 3")
	onConflict := root.FindChild(ast.OnConflictClause)
	require.NotNil(t, onConflict)
	require.True(t, onConflict.HasSemanticFlag(ast.ConflictDoUpdate))
}

func TestParserResetInvalidatesNodeCountButReusesArena(t *testing.T) {
	p := New()
	_, err := p.Parse("SELECT 1")
	require.NoError(t, err)
	require.Greater(t, p.GetNodeCount(), 0)
	require.Greater(t, p.GetMemoryUsed(), 0)

	p.Reset()
	require.Equal(t, 0, p.GetNodeCount())
	require.Equal(t, 0, p.GetMemoryUsed())
}

func TestStatementCacheMemoizesDump(t *testing.T) {
	cache, err := NewStatementCache(4)
	require.NoError(t, err)
	p := New()

	_, dump1, err := cache.ParseAndCache(p, "SELECT * FROM users")
	require.NoError(t, err)
	require.Contains(t, dump1, "SelectStmt")
	require.Equal(t, 1, cache.Len())

	cached, ok := cache.DumpCached("SELECT * FROM users")
	require.True(t, ok)
	require.Equal(t, dump1, cached)

	_, ok = cache.DumpCached("SELECT * FROM accounts")
	require.False(t, ok)
}

func TestSynchronizeSkipsToNextStatement(t *testing.T) {
	p := New()
	_, err := p.Parse("SELECT FROM t; SELECT 1")
	require.Error(t, err)
	p.Synchronize()
	require.True(t, p.current().Is(token.SELECT)) // Synchronize left the cursor at the next SELECT
}
