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

// Package arena implements a bump-pointer region allocator for AST nodes.
//
// All allocations within a parse session come from one Arena; nothing is
// freed individually. Reset() recycles the backing blocks for a new parse
// without returning memory to the host allocator; Clear() releases
// everything. An Arena is single-writer: concurrent allocation from more
// than one goroutine is not supported, and callers must not copy an Arena
// value (use a pointer) once allocations have begun.
package arena

import (
	"unsafe"

	"github.com/pkg/errors"
)

const (
	// DefaultBlockSize is the size of the first block an Arena allocates.
	DefaultBlockSize = 64 * 1024
	// MaxBlockSize caps the geometric growth of subsequent blocks.
	MaxBlockSize = 1024 * 1024
	// CacheLineSize is the alignment used for block acquisition.
	CacheLineSize = 64
)

// ErrOutOfMemory is returned when the host allocator refuses a new block.
var ErrOutOfMemory = errors.New("arena: out of memory")

// block is one contiguous, cache-line-aligned region owned by the Arena.
type block struct {
	base []byte // aligned backing storage; base[0] is CacheLineSize-aligned
	used int
}

func newBlock(size int) *block {
	// Over-allocate so we can carve out a CacheLineSize-aligned window,
	// mirroring the original's aligned_alloc(CACHE_LINE_SIZE, sz) call.
	raw := make([]byte, size+CacheLineSize)
	off := alignOffset(raw, CacheLineSize)
	return &block{base: raw[off : off+size : off+size]}
}

func alignOffset(b []byte, alignment int) int {
	if len(b) == 0 {
		return 0
	}
	addr := uintptr(unsafe.Pointer(&b[0]))
	aligned := (addr + uintptr(alignment) - 1) &^ (uintptr(alignment) - 1)
	return int(aligned - addr)
}

func (b *block) hasSpace(size, alignment int) bool {
	alignedUsed := alignUp(b.used, alignment)
	return alignedUsed+size <= len(b.base)
}

// allocate assumes hasSpace(size, alignment) was already checked.
func (b *block) allocate(size, alignment int) unsafe.Pointer {
	alignedUsed := alignUp(b.used, alignment)
	ptr := unsafe.Pointer(&b.base[alignedUsed])
	b.used = alignedUsed + size
	return ptr
}

func alignUp(value, alignment int) int {
	return (value + alignment - 1) &^ (alignment - 1)
}

// Stats reports point-in-time usage for an Arena.
type Stats struct {
	BytesAllocated int
	BytesUsed      int
	BlockCount     int
}

// Utilization returns Used/Allocated, or 0 if nothing has been allocated.
func (s Stats) Utilization() float64 {
	if s.BytesAllocated == 0 {
		return 0
	}
	return float64(s.BytesUsed) / float64(s.BytesAllocated)
}

// Arena is a growing sequence of contiguous blocks bump-allocated from.
// The zero value is not usable; construct with New.
type Arena struct {
	blocks         []*block
	current        *block
	nextBlockSize  int
	totalAllocated int
	totalUsed      int
}

// New constructs an Arena with one initial block of initialBlockSize bytes.
// A zero or negative size selects DefaultBlockSize.
func New(initialBlockSize int) *Arena {
	if initialBlockSize <= 0 {
		initialBlockSize = DefaultBlockSize
	}
	a := &Arena{nextBlockSize: initialBlockSize}
	a.growBlock(initialBlockSize)
	return a
}

func (a *Arena) growBlock(size int) {
	b := newBlock(size)
	a.blocks = append(a.blocks, b)
	a.current = b
	a.totalAllocated += size
}

// Allocate returns a pointer to size bytes aligned to alignment, which must
// be a power of two. size == 0 is promoted to 1 so every call returns a
// distinct address. Allocation is O(1) amortized over block growth.
func (a *Arena) Allocate(size, alignment int) (unsafe.Pointer, error) {
	if size == 0 {
		size = 1
	}
	if alignment <= 0 || alignment&(alignment-1) != 0 {
		panic("arena: alignment must be a power of two")
	}

	if a.current != nil && a.current.hasSpace(size, alignment) {
		before := a.current.used
		ptr := a.current.allocate(size, alignment)
		a.totalUsed += a.current.used - before
		return ptr, nil
	}

	if size > a.nextBlockSize {
		oversized := alignUp(size, CacheLineSize)
		b := newBlock(oversized)
		if b == nil {
			return nil, errors.Wrap(ErrOutOfMemory, "oversized block")
		}
		before := b.used
		ptr := b.allocate(size, alignment)
		a.totalUsed += b.used - before
		a.totalAllocated += len(b.base)
		a.blocks = append(a.blocks, b)
		return ptr, nil
	}

	a.growBlock(a.nextBlockSize)
	a.nextBlockSize = minInt(a.nextBlockSize*2, MaxBlockSize)

	if !a.current.hasSpace(size, alignment) {
		// Cannot happen: growBlock just sized current to >= size for any
		// size <= the prior nextBlockSize, which was checked above.
		return nil, errors.Wrap(ErrOutOfMemory, "new block has no space")
	}
	before := a.current.used
	ptr := a.current.allocate(size, alignment)
	a.totalUsed += a.current.used - before
	return ptr, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Reset zeroes used on every block and re-points current at block 0.
// Allocated blocks are retained for reuse; all previously returned
// pointers become invalid.
func (a *Arena) Reset() {
	for _, b := range a.blocks {
		b.used = 0
	}
	if len(a.blocks) > 0 {
		a.current = a.blocks[0]
	}
	a.totalUsed = 0
}

// Clear releases all blocks. The next allocation starts fresh with a block
// of DefaultBlockSize.
func (a *Arena) Clear() {
	a.blocks = nil
	a.current = nil
	a.nextBlockSize = DefaultBlockSize
	a.totalAllocated = 0
	a.totalUsed = 0
}

// Stats returns the Arena's current usage counters.
func (a *Arena) Stats() Stats {
	return Stats{
		BytesAllocated: a.totalAllocated,
		BytesUsed:      a.totalUsed,
		BlockCount:     len(a.blocks),
	}
}

// CopyString copies s into the arena and returns a string view backed by
// arena storage, so the result outlives the caller's buffer.
func CopyString(a *Arena, s string) (string, error) {
	if s == "" {
		return "", nil
	}
	ptr, err := a.Allocate(len(s), 1)
	if err != nil {
		return "", err
	}
	dst := unsafe.Slice((*byte)(ptr), len(s))
	copy(dst, s)
	return unsafe.String((*byte)(ptr), len(s)), nil
}

// Construct allocates sizeof(T) bytes aligned to alignof(T) and returns a
// pointer to a zero-initialized T living in the arena.
func Construct[T any](a *Arena) (*T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))
	ptr, err := a.Allocate(size, align)
	if err != nil {
		return nil, err
	}
	p := (*T)(ptr)
	*p = zero
	return p, nil
}
