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
	"fmt"

	"github.com/mitchellh/hashstructure"
)

// Node is the fixed-layout AST record every parser production allocates
// from an arena.Arena. Its fields are ordered so the first 64 bytes (the
// fields through hash_cache) hold everything a traversal needs; the second
// 64 bytes hold secondary qualifiers and the modal Context payload. On a
// 64-bit platform this struct is exactly 128 bytes — see node_test.go's
// TestNodeIs128Bytes, which is this package's equivalent of a static_assert.
//
// A Node is never freed individually: it and everything reachable from it
// die when the owning arena.Arena is Reset or Clear'd. Do not retain a
// *Node past the lifetime of its arena.
type Node struct {
	// --- first cache line ---
	nodeType    NodeType
	flags       Flags
	childCount  uint16
	NodeID      uint32
	SourceStart uint32
	SourceEnd   uint32

	Parent      *Node
	FirstChild  *Node
	NextSibling *Node

	PrimaryText string

	dataType      DataType
	precedence    uint8
	semanticFlags SemanticFlags
	hashCache     uint32

	// --- second cache line ---
	SchemaName  string
	CatalogName string

	context [contextSize]byte
}

// DataType tags an expression's data type for semantic analysis. Parsing
// never infers this; it is populated by a downstream analyzer, except for
// DataTypeNode's own base-type tag, which the DDL parser does set.
type DataType uint8

const (
	DataTypeUnknown DataType = iota
	DataTypeBoolean
	DataTypeTinyInt
	DataTypeSmallInt
	DataTypeInteger
	DataTypeBigInt
	DataTypeDecimal
	DataTypeReal
	DataTypeDouble
	DataTypeChar
	DataTypeVarChar
	DataTypeText
	DataTypeDate
	DataTypeTime
	DataTypeTimestamp
	DataTypeInterval
	DataTypeBlob
	DataTypeArray
	DataTypeJSON
	DataTypeNull
	DataTypeAny
)

// New returns a zero-initialized Node of the given type. Callers typically
// go through the parser package's arena-backed node constructor so NodeID/SourceStart/SourceEnd
// get filled in consistently, but the zero value is always safe to use.
func New(t NodeType) *Node {
	return &Node{nodeType: t}
}

// Type returns the node's variant discriminator.
func (n *Node) Type() NodeType { return n.nodeType }

// SetType overwrites the node's variant discriminator. Used by productions
// that build a node speculatively (e.g. a SELECT that turns out to be the
// left side of a set operation) and later relabel it.
func (n *Node) SetType(t NodeType) { n.nodeType = t }

// ChildCount returns the number of direct children linked in first_child/
// next_sibling order.
func (n *Node) ChildCount() int { return int(n.childCount) }

// Flags returns the node's global boolean flag bitset.
func (n *Node) Flags() Flags { return n.flags }

// HasFlag reports whether every bit in flag is set on n.
func (n *Node) HasFlag(flag Flags) bool { return n.flags.Has(flag) }

// SetFlag turns flag on.
func (n *Node) SetFlag(flag Flags) { n.flags = n.flags.Set(flag) }

// ClearFlag turns flag off.
func (n *Node) ClearFlag(flag Flags) { n.flags = n.flags.Clear(flag) }

// SemanticFlags returns the node's per-type bitfield.
func (n *Node) SemanticFlags() SemanticFlags { return n.semanticFlags }

// HasSemanticFlag reports whether every bit in flag is set.
func (n *Node) HasSemanticFlag(flag SemanticFlags) bool { return n.semanticFlags.Has(flag) }

// SetSemanticFlags overwrites the node's semantic_flags field outright.
func (n *Node) SetSemanticFlags(f SemanticFlags) { n.semanticFlags = f }

// SetSemanticFlag turns flag on, preserving the others.
func (n *Node) SetSemanticFlag(flag SemanticFlags) {
	n.semanticFlags = n.semanticFlags.Set(flag)
}

// DataType returns the node's cached expression data-type tag.
func (n *Node) DataType() DataType { return n.dataType }

// SetDataType sets the node's cached expression data-type tag.
func (n *Node) SetDataType(d DataType) { n.dataType = d }

// Precedence returns the cached operator precedence (expression nodes).
func (n *Node) Precedence() uint8 { return n.precedence }

// SetPrecedence sets the cached operator precedence.
func (n *Node) SetPrecedence(p uint8) { n.precedence = p }

// HashCache returns the node's cached hash, or 0 if never computed.
func (n *Node) HashCache() uint32 { return n.hashCache }

// SetTypeInfo packs (precision, scale) for a DataTypeNode into hash_cache:
// semantic_flags only has 16 bits, not enough for two 16-bit components, so
// the otherwise-unused hash_cache field of a DataTypeNode carries it
// instead, precision in the low 16 bits and scale in the high 16 bits.
func (n *Node) SetTypeInfo(base DataType, precision, scale uint16, isArray bool) {
	n.dataType = base
	n.hashCache = WithPrecisionScale(precision, scale)
	if isArray {
		n.semanticFlags = n.semanticFlags.Set(IsArrayType)
	}
}

// TypeInfo unpacks what SetTypeInfo packed.
func (n *Node) TypeInfo() (base DataType, precision, scale uint16, isArray bool) {
	precision, scale = SplitPrecisionScale(n.hashCache)
	return n.dataType, precision, scale, n.semanticFlags.Has(IsArrayType)
}

// IsArrayType marks a DataTypeNode as T[] / T[n].
const IsArrayType SemanticFlags = 0x800

// ComputeHash derives a stable hash of n's shallow identity (type, flags,
// text, semantic flags) and caches it in hash_cache, returning the value.
// It does not recurse into children; callers wanting a subtree hash use
// Node.SubtreeHash.
func (n *Node) ComputeHash() uint32 {
	type shallow struct {
		Type     NodeType
		Flags    Flags
		Semantic SemanticFlags
		Text     string
		Schema   string
		Catalog  string
	}
	h, err := hashstructure.Hash(shallow{
		Type:     n.nodeType,
		Flags:    n.flags,
		Semantic: n.semanticFlags,
		Text:     n.PrimaryText,
		Schema:   n.SchemaName,
		Catalog:  n.CatalogName,
	}, nil)
	if err != nil {
		return 0
	}
	n.hashCache = uint32(h)
	return n.hashCache
}

// SubtreeHash folds n's own hash together with every descendant's, in
// sibling order, for use as ast.DebugContext.SubtreeHash.
func (n *Node) SubtreeHash() uint32 {
	h := uint64(n.ComputeHash())
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		h = h*1099511628211 ^ uint64(c.SubtreeHash())
	}
	return uint32(h)
}

// AddChild appends child to the end of n's sibling list and sets its
// parent. child must not already have a parent or a next sibling.
func (n *Node) AddChild(child *Node) {
	if child.Parent != nil || child.NextSibling != nil {
		panic("ast: AddChild precondition violated: child already linked")
	}
	child.Parent = n
	if n.FirstChild == nil {
		n.FirstChild = child
	} else {
		last := n.FirstChild
		for last.NextSibling != nil {
			last = last.NextSibling
		}
		last.NextSibling = child
	}
	n.childCount++
}

// PrependChild links child as n's new first child, ahead of any existing
// children. Used by WITH, which attaches its CTE clause as the first child
// of an already-parsed statement rather than the last.
func (n *Node) PrependChild(child *Node) {
	if child.Parent != nil || child.NextSibling != nil {
		panic("ast: PrependChild precondition violated: child already linked")
	}
	child.Parent = n
	child.NextSibling = n.FirstChild
	n.FirstChild = child
	n.childCount++
}

// RemoveChild unlinks child from n's sibling list in O(k), where k is
// child's position, and clears its parent/next-sibling links.
func (n *Node) RemoveChild(child *Node) {
	if n.FirstChild == child {
		n.FirstChild = child.NextSibling
		n.childCount--
		child.Parent = nil
		child.NextSibling = nil
		return
	}
	for prev := n.FirstChild; prev != nil; prev = prev.NextSibling {
		if prev.NextSibling == child {
			prev.NextSibling = child.NextSibling
			n.childCount--
			child.Parent = nil
			child.NextSibling = nil
			return
		}
	}
}

// FindChild returns the first direct child of type t, or nil.
func (n *Node) FindChild(t NodeType) *Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.nodeType == t {
			return c
		}
	}
	return nil
}

// Children returns n's direct children as a slice, walking first_child ->
// next_sibling. The spec describes this as a lazy sequence; Go callers
// generally want a slice, so Children materializes one. For a truly lazy
// walk without allocation, range over first_child/next_sibling directly.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, n.childCount)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// QualifiedName joins catalog/schema/primary_text with dots, skipping empty
// qualifiers.
func (n *Node) QualifiedName() string {
	switch {
	case n.CatalogName != "" && n.SchemaName != "":
		return n.CatalogName + "." + n.SchemaName + "." + n.PrimaryText
	case n.SchemaName != "":
		return n.SchemaName + "." + n.PrimaryText
	case n.CatalogName != "":
		return n.CatalogName + "." + n.PrimaryText
	default:
		return n.PrimaryText
	}
}

// String renders a short debug form: Type(primary_text).
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.PrimaryText == "" {
		return n.nodeType.String()
	}
	return fmt.Sprintf("%s(%s)", n.nodeType, n.PrimaryText)
}
