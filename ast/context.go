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

import "unsafe"

// Mode selects which interpretation of Node.Context applies to an entire
// parse session. It is chosen once, at parser construction, never per node.
type Mode uint8

const (
	// Production interprets every node's context as an AnalysisContext.
	Production Mode = iota
	// Debug interprets every node's context as a DebugContext.
	Debug
)

// AnalysisContext is the Production-mode interpretation of a node's 32-byte
// context payload: constant folding, selectivity, and catalog-id hints a
// downstream analyzer can populate. The parser itself never fills these in
// beyond zero-initializing them; they exist so a planner can reuse the same
// node record instead of allocating a side table.
type AnalysisContext struct {
	ConstValue      int64
	Selectivity     float64
	TableID         uint32
	ColumnID        uint32
	CostEstimate    uint32
	CardinalityHint uint16
	Nullability     uint8 // 0=unknown, 1=not null, 2=nullable
	Uniqueness      uint8 // 0=unknown, 1=unique, 2=not unique
}

// DebugContext is the Debug-mode interpretation of a node's context
// payload: tree-shape and profiling data useful for a dumper/visualizer.
//
// DisplayLabelID is an index into the owning Parser's debug label table
// rather than a raw string or pointer: the context payload is a plain
// [32]byte array with no pointers in it, so the Go garbage collector never
// needs to scan it, the same way the original's raw byte union was opaque
// to its allocator.
type DebugContext struct {
	Depth          uint16
	SubtreeSize    uint16
	SubtreeHash    uint32
	DisplayLabelID uint32
	ColorHint      uint32
	TotalTimeNS    uint64
	VisitCount     uint32
	_              uint32 // pad to 32 bytes
}

// contextSize is the fixed payload width carried inline in every Node.
const contextSize = 32

// Analysis reinterprets n's raw context bytes as an AnalysisContext. Callers
// must only do this when the owning Parser was constructed with Production
// mode; DebugContext and AnalysisContext alias the same storage.
func (n *Node) Analysis() *AnalysisContext {
	return (*AnalysisContext)(unsafe.Pointer(&n.context))
}

// DebugInfo reinterprets n's raw context bytes as a DebugContext. Callers
// must only do this when the owning Parser was constructed with Debug mode.
func (n *Node) DebugInfo() *DebugContext {
	return (*DebugContext)(unsafe.Pointer(&n.context))
}

func init() {
	// The context payload must always be able to hold either
	// interpretation without the Node record growing past 128 bytes.
	if unsafe.Sizeof(AnalysisContext{}) > contextSize {
		panic("ast: AnalysisContext exceeds the 32-byte context payload")
	}
	if unsafe.Sizeof(DebugContext{}) > contextSize {
		panic("ast: DebugContext exceeds the 32-byte context payload")
	}
}
