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

package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestAllocateBasic(t *testing.T) {
	a := New(DefaultBlockSize)
	ptr, err := a.Allocate(16, 8)
	require.NoError(t, err)
	require.NotNil(t, ptr)
	require.Zero(t, uintptr(ptr)%8)
}

func TestAllocateDistinctAddresses(t *testing.T) {
	a := New(DefaultBlockSize)
	seen := map[uintptr]bool{}
	for i := 0; i < 1000; i++ {
		ptr, err := a.Allocate(8, 8)
		require.NoError(t, err)
		addr := uintptr(ptr)
		require.False(t, seen[addr], "address %x reused", addr)
		seen[addr] = true
	}
}

func TestAllocateZeroSizeUnique(t *testing.T) {
	a := New(DefaultBlockSize)
	p1, err := a.Allocate(0, 1)
	require.NoError(t, err)
	p2, err := a.Allocate(0, 1)
	require.NoError(t, err)
	require.NotEqual(t, p1, p2)
}

func TestAllocateAlignment(t *testing.T) {
	a := New(DefaultBlockSize)
	for _, align := range []int{1, 2, 4, 8, 16, 32, 64} {
		ptr, err := a.Allocate(3, align)
		require.NoError(t, err)
		require.Zerof(t, uintptr(ptr)%uintptr(align), "alignment %d violated", align)
	}
}

func TestBytesUsedGrowsMonotonically(t *testing.T) {
	a := New(DefaultBlockSize)
	const n, size = 100, 32
	for i := 0; i < n; i++ {
		_, err := a.Allocate(size, 1)
		require.NoError(t, err)
	}
	stats := a.Stats()
	require.GreaterOrEqual(t, stats.BytesUsed, n*size)
	require.GreaterOrEqual(t, stats.BytesAllocated, stats.BytesUsed)
}

func TestResetKeepsBlocksZeroesUsage(t *testing.T) {
	a := New(DefaultBlockSize)
	for i := 0; i < 10; i++ {
		_, err := a.Allocate(64, 8)
		require.NoError(t, err)
	}
	before := a.Stats()
	a.Reset()
	after := a.Stats()
	require.Zero(t, after.BytesUsed)
	require.Equal(t, before.BytesAllocated, after.BytesAllocated)
	require.Equal(t, before.BlockCount, after.BlockCount)
}

func TestClearReleasesBlocks(t *testing.T) {
	a := New(DefaultBlockSize)
	_, err := a.Allocate(64, 8)
	require.NoError(t, err)
	a.Clear()
	stats := a.Stats()
	require.Zero(t, stats.BytesAllocated)
	require.Zero(t, stats.BlockCount)

	// Still usable after Clear.
	ptr, err := a.Allocate(8, 8)
	require.NoError(t, err)
	require.NotNil(t, ptr)
}

func TestOversizedRequestGetsDedicatedBlock(t *testing.T) {
	a := New(DefaultBlockSize)
	before := a.Stats().BlockCount
	_, err := a.Allocate(2*MaxBlockSize, 8)
	require.NoError(t, err)
	after := a.Stats().BlockCount
	require.Equal(t, before+1, after)
}

func TestBlockSizeGrowsGeometricallyAndCaps(t *testing.T) {
	a := New(1024)
	// Force several block rollovers by allocating more than the current
	// block can hold each time.
	for i := 0; i < 30; i++ {
		_, err := a.Allocate(1024, 1)
		require.NoError(t, err)
	}
	require.LessOrEqual(t, a.nextBlockSize, MaxBlockSize)
}

func TestCopyStringRoundTrips(t *testing.T) {
	a := New(DefaultBlockSize)
	s, err := CopyString(a, "orders")
	require.NoError(t, err)
	require.Equal(t, "orders", s)
}

func TestCopyStringEmpty(t *testing.T) {
	a := New(DefaultBlockSize)
	s, err := CopyString(a, "")
	require.NoError(t, err)
	require.Equal(t, "", s)
}

type point struct {
	X, Y int64
}

func TestConstructZeroInitializes(t *testing.T) {
	a := New(DefaultBlockSize)
	p, err := Construct[point](a)
	require.NoError(t, err)
	require.Equal(t, point{}, *p)
	require.Equal(t, int(unsafe.Sizeof(point{})), 16)
}

func TestAllocateRejectsNonPowerOfTwoAlignment(t *testing.T) {
	a := New(DefaultBlockSize)
	require.Panics(t, func() {
		_, _ = a.Allocate(4, 3)
	})
}
