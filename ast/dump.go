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
	"strings"

	"github.com/k0kubun/pp/v3"
)

// dumpLine is what Dump renders per node; kept separate from Node itself so
// pp.Sprint never has to walk the real tree's parent/sibling pointers (that
// would recurse forever, since every node points back at its parent).
type dumpLine struct {
	Depth int
	Type  string
	Text  string
	Flags string
}

// Dump renders root's subtree as an indented, human-readable tree. It is a
// plain library function, not a CLI: integrators wire it into whatever
// dump/inspection tool they build on top of this package.
func Dump(root *Node) string {
	var lines []dumpLine
	collect(root, 0, &lines)

	printer := pp.New()
	printer.SetColoringEnabled(false)

	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "%s%s\n", strings.Repeat("  ", l.Depth), formatLine(printer, l))
	}
	return b.String()
}

func formatLine(printer *pp.PrettyPrinter, l dumpLine) string {
	if l.Text == "" {
		return l.Type
	}
	return printer.Sprintf("%s(%q)", l.Type, l.Text)
}

func collect(n *Node, depth int, out *[]dumpLine) {
	if n == nil {
		return
	}
	*out = append(*out, dumpLine{Depth: depth, Type: n.nodeType.String(), Text: n.PrimaryText})
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, depth+1, out)
	}
}
