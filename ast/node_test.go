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

package ast

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestNodeIs128Bytes(t *testing.T) {
	require.Equal(t, uintptr(128), unsafe.Sizeof(Node{}))
}

func TestTypeClassificationRanges(t *testing.T) {
	require.True(t, SelectStmt.IsStatement())
	require.True(t, DeleteStmt.IsStatement())
	require.False(t, BinaryExpr.IsStatement())

	require.True(t, BinaryExpr.IsExpression())
	require.True(t, InExpr.IsExpression())
	require.False(t, SelectStmt.IsExpression())

	require.True(t, IntegerLiteral.IsLiteral())
	require.True(t, NullLiteral.IsLiteral())
	require.False(t, StringLiteral.IsExpression())

	require.True(t, Identifier.IsIdentifier())
	require.True(t, ColumnRef.IsIdentifier())
	require.True(t, TableRef.IsIdentifier())
	require.False(t, FunctionCall.IsIdentifier())

	require.True(t, InnerJoin.IsJoin())
	require.True(t, CrossJoin.IsJoin())
	require.False(t, LeftJoin.IsStatement())
}

func TestAddChildLinksSiblingList(t *testing.T) {
	root := New(SelectStmt)
	a := New(SelectList)
	b := New(FromClause)
	c := New(WhereClause)

	root.AddChild(a)
	root.AddChild(b)
	root.AddChild(c)

	require.Equal(t, 3, root.ChildCount())
	require.Same(t, a, root.FirstChild)
	require.Same(t, b, a.NextSibling)
	require.Same(t, c, b.NextSibling)
	require.Nil(t, c.NextSibling)
	require.Same(t, root, a.Parent)
	require.Same(t, root, b.Parent)
	require.Same(t, root, c.Parent)
}

func TestAddChildRejectsAlreadyLinkedNode(t *testing.T) {
	root := New(SelectStmt)
	a := New(SelectList)
	root.AddChild(a)

	other := New(SelectStmt)
	require.Panics(t, func() { other.AddChild(a) })
}

func TestRemoveChildMiddle(t *testing.T) {
	root := New(SelectStmt)
	a, b, c := New(SelectList), New(FromClause), New(WhereClause)
	root.AddChild(a)
	root.AddChild(b)
	root.AddChild(c)

	root.RemoveChild(b)

	require.Equal(t, 2, root.ChildCount())
	require.Same(t, a, root.FirstChild)
	require.Same(t, c, a.NextSibling)
	require.Nil(t, b.Parent)
	require.Nil(t, b.NextSibling)
}

func TestRemoveChildFirst(t *testing.T) {
	root := New(SelectStmt)
	a, b := New(SelectList), New(FromClause)
	root.AddChild(a)
	root.AddChild(b)

	root.RemoveChild(a)

	require.Equal(t, 1, root.ChildCount())
	require.Same(t, b, root.FirstChild)
}

func TestFindChild(t *testing.T) {
	root := New(SelectStmt)
	from := New(FromClause)
	where := New(WhereClause)
	root.AddChild(from)
	root.AddChild(where)

	require.Same(t, where, root.FindChild(WhereClause))
	require.Nil(t, root.FindChild(HavingClause))
}

func TestChildrenOrderMatchesSourceOrder(t *testing.T) {
	root := New(SelectStmt)
	names := []string{"a", "b", "c", "d"}
	for _, nm := range names {
		child := New(SelectList)
		child.PrimaryText = nm
		root.AddChild(child)
	}
	children := root.Children()
	require.Len(t, children, 4)
	for i, nm := range names {
		require.Equal(t, nm, children[i].PrimaryText)
	}
}

func TestQualifiedName(t *testing.T) {
	n := New(ColumnRef)
	n.PrimaryText = "id"
	require.Equal(t, "id", n.QualifiedName())

	n.SchemaName = "public"
	require.Equal(t, "public.id", n.QualifiedName())

	n.CatalogName = "mydb"
	require.Equal(t, "mydb.public.id", n.QualifiedName())
}

func TestSetTypeInfoPacksPrecisionScale(t *testing.T) {
	n := New(DataTypeNode)
	n.SetTypeInfo(DataTypeDecimal, 10, 2, false)
	base, precision, scale, isArray := n.TypeInfo()
	require.Equal(t, DataTypeDecimal, base)
	require.Equal(t, uint16(10), precision)
	require.Equal(t, uint16(2), scale)
	require.False(t, isArray)
}

func TestComputeHashDeterministic(t *testing.T) {
	a := New(Identifier)
	a.PrimaryText = "x"
	b := New(Identifier)
	b.PrimaryText = "x"
	require.Equal(t, a.ComputeHash(), b.ComputeHash())

	c := New(Identifier)
	c.PrimaryText = "y"
	require.NotEqual(t, a.ComputeHash(), c.ComputeHash())
}

func TestDumpRendersTypesAndText(t *testing.T) {
	root := New(SelectStmt)
	list := New(SelectList)
	star := New(Star)
	list.AddChild(star)
	root.AddChild(list)

	out := Dump(root)
	require.Contains(t, out, "SelectStmt")
	require.Contains(t, out, "SelectList")
	require.Contains(t, out, "Star")
}
