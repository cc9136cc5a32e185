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
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cardinalsql/sqlfront/ast"
)

// cachedParse is what StatementCache keeps per entry: the parsed tree's
// rendered debug dump, since the ast.Node itself is only valid for the
// lifetime of the arena that produced it and cannot be shared across
// Parser instances.
type cachedParse struct {
	dump string
}

// StatementCache memoizes Dump output for repeated, identical SQL text —
// the common case for a connection pool replaying the same prepared
// statement shape many times. It never hands back a *ast.Node: a cache hit
// still reparses (cheap, given the arena allocator), but skips the
// dump-for-logging work a caller has already paid for once.
type StatementCache struct {
	inner *lru.Cache[string, cachedParse]
}

// NewStatementCache builds a StatementCache holding at most capacity
// entries, evicting least-recently-used on overflow.
func NewStatementCache(capacity int) (*StatementCache, error) {
	if capacity <= 0 {
		capacity = 256
	}
	inner, err := lru.New[string, cachedParse](capacity)
	if err != nil {
		return nil, err
	}
	return &StatementCache{inner: inner}, nil
}

// DumpCached returns the cached ast.Dump rendering for sql if one of the
// prior ParseAndCache calls already computed it.
func (c *StatementCache) DumpCached(sql string) (string, bool) {
	entry, ok := c.inner.Get(sql)
	if !ok {
		return "", false
	}
	return entry.dump, true
}

// ParseAndCache parses sql with p, caches its ast.Dump rendering keyed by
// the exact SQL text, and returns the freshly parsed root. The node is
// still only valid until p's next Reset; only the string rendering
// persists in the cache.
func (c *StatementCache) ParseAndCache(p *Parser, sql string) (*ast.Node, string, error) {
	root, err := p.Parse(sql)
	if err != nil {
		return nil, "", err
	}
	dump := ast.Dump(root)
	c.inner.Add(sql, cachedParse{dump: dump})
	return root, dump, nil
}

// Len reports the number of distinct statement texts currently cached.
func (c *StatementCache) Len() int { return c.inner.Len() }

// Purge empties the cache.
func (c *StatementCache) Purge() { c.inner.Purge() }
