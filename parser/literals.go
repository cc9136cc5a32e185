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

	"github.com/spf13/cast"

	"github.com/cardinalsql/sqlfront/ast"
)

// LiteralAsInt64 coerces an IntegerLiteral or FloatLiteral node's text into
// an int64, for callers resolving a LIMIT/OFFSET/array-size literal without
// re-parsing primary_text themselves. It reports false for any other node
// type or an unparseable literal.
func LiteralAsInt64(n *ast.Node) (int64, bool) {
	if n == nil {
		return 0, false
	}
	switch n.Type() {
	case ast.IntegerLiteral, ast.FloatLiteral:
	default:
		return 0, false
	}
	v, err := cast.ToInt64E(n.PrimaryText)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LiteralAsBool coerces a BooleanLiteral node into a bool. Any other node
// type, including a StringLiteral spelling "true" or "false", reports false.
func LiteralAsBool(n *ast.Node) (bool, bool) {
	if n == nil || n.Type() != ast.BooleanLiteral {
		return false, false
	}
	v, err := cast.ToBoolE(n.PrimaryText)
	if err != nil {
		return false, false
	}
	return v, true
}

// describeLiteral renders a short diagnostic label for a literal node,
// used by higher-effort callers building error messages that reference a
// LIMIT/OFFSET value out of range.
func describeLiteral(n *ast.Node) string {
	if i, ok := LiteralAsInt64(n); ok {
		return fmt.Sprintf("%d", i)
	}
	return n.PrimaryText
}
