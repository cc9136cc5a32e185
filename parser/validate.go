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
	"fmt"

	"github.com/cardinalsql/sqlfront/ast"
)

// ValidateAST checks structural post-conditions that parsing alone does
// not enforce: a SELECT's WHERE/GROUP BY/HAVING/ORDER BY clauses require
// a FROM clause, and every JOIN must carry a table child and (unless
// CROSS) a join condition. It walks the whole tree and returns the first
// violation found, depth-first, or nil if root satisfies every check.
func (p *Parser) ValidateAST(root *ast.Node) error {
	return validateNode(root)
}

func validateNode(n *ast.Node) error {
	if n == nil {
		return nil
	}

	if n.Type() == ast.SelectStmt {
		if err := validateSelectDependencies(n); err != nil {
			return err
		}
	}
	if n.Type().IsJoin() {
		if err := validateJoin(n); err != nil {
			return err
		}
	}
	if n.Type() == ast.LimitClause {
		if err := validateLimitClause(n); err != nil {
			return err
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := validateNode(c); err != nil {
			return err
		}
	}
	return nil
}

func validateSelectDependencies(n *ast.Node) error {
	hasFrom := n.FindChild(ast.FromClause) != nil
	if hasFrom {
		return nil
	}
	dependents := []ast.NodeType{ast.WhereClause, ast.GroupByClause, ast.HavingClause, ast.OrderByClause}
	for _, dt := range dependents {
		if n.FindChild(dt) != nil {
			return fmt.Errorf("validate: %s present without a FROM clause", dt)
		}
	}
	return nil
}

// validateLimitClause rejects a literal negative LIMIT/OFFSET. A
// parameterized or expression-valued bound (anything not a plain integer
// literal) is left to the analyzer, since LiteralAsInt64 only resolves
// literal children.
func validateLimitClause(n *ast.Node) error {
	for _, child := range n.Children() {
		v, ok := LiteralAsInt64(child)
		if ok && v < 0 {
			return fmt.Errorf("validate: %s has a negative bound %s", n.Type(), describeLiteral(child))
		}
	}
	return nil
}

func validateJoin(n *ast.Node) error {
	children := n.Children()
	if len(children) < 2 {
		return fmt.Errorf("validate: %s missing joined table child", n.Type())
	}
	if n.Type() == ast.CrossJoin {
		return nil
	}
	if len(children) < 3 {
		return fmt.Errorf("validate: non-CROSS %s missing ON or USING", n.Type())
	}
	return nil
}
