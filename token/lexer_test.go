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

package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenizeBasicSelect(t *testing.T) {
	tokens, err := Tokenize("SELECT * FROM users")
	require.NoError(t, err)

	kinds := []Kind{Keyword, Operator, Keyword, Identifier, EOF}
	require.Len(t, tokens, len(kinds))
	for i, k := range kinds {
		require.Equalf(t, k, tokens[i].Kind, "token %d: %q", i, tokens[i].Text)
	}
	require.Equal(t, SELECT, tokens[0].Keyword)
	require.Equal(t, "*", tokens[1].Text)
	require.Equal(t, FROM, tokens[2].Keyword)
	require.Equal(t, "users", tokens[3].Text)
}

func TestTokenizeSkipsWhitespaceAndComments(t *testing.T) {
	tokens, err := Tokenize("SELECT 1 -- trailing comment\n /* block */ FROM t")
	require.NoError(t, err)
	require.Equal(t, SELECT, tokens[0].Keyword)
	require.Equal(t, Number, tokens[1].Kind)
	require.Equal(t, FROM, tokens[2].Keyword)
	require.Equal(t, Identifier, tokens[3].Kind)
	require.Equal(t, EOF, tokens[4].Kind)
}

func TestTokenizeStringLiteralWithEscapedQuote(t *testing.T) {
	tokens, err := Tokenize(`SELECT 'it''s' FROM t`)
	require.NoError(t, err)
	require.Equal(t, String, tokens[1].Kind)
	require.Equal(t, `'it''s'`, tokens[1].Text)
}

func TestTokenizeUnterminatedStringErrors(t *testing.T) {
	_, err := Tokenize("SELECT 'abc")
	require.Error(t, err)
}

func TestTokenizeQuotedIdentifier(t *testing.T) {
	tokens, err := Tokenize(`SELECT "my col" FROM t`)
	require.NoError(t, err)
	require.Equal(t, Identifier, tokens[1].Kind)
	require.Equal(t, `"my col"`, tokens[1].Text)
}

func TestTokenizeNumbers(t *testing.T) {
	tokens, err := Tokenize("SELECT 1, 1.5, .5, 1e10, 1.5e-3 FROM t")
	require.NoError(t, err)
	var nums []string
	for _, tok := range tokens {
		if tok.Kind == Number {
			nums = append(nums, tok.Text)
		}
	}
	require.Equal(t, []string{"1", "1.5", ".5", "1e10", "1.5e-3"}, nums)
}

func TestTokenizeMultiCharOperators(t *testing.T) {
	tokens, err := Tokenize("a <= b AND c <> d AND e || f")
	require.NoError(t, err)
	var ops []string
	for _, tok := range tokens {
		if tok.Kind == Operator {
			ops = append(ops, tok.Text)
		}
	}
	require.Equal(t, []string{"<=", "<>", "||"}, ops)
}

func TestTokenizeOffsetsCoverSourceText(t *testing.T) {
	sql := "SELECT id FROM t"
	tokens, err := Tokenize(sql)
	require.NoError(t, err)
	for _, tok := range tokens {
		if tok.Kind == EOF {
			continue
		}
		require.Equal(t, tok.Text, sql[tok.Offset:tok.End])
	}
}

func TestTokenizeEmptyInputYieldsOnlyEOF(t *testing.T) {
	tokens, err := Tokenize("")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	require.Equal(t, EOF, tokens[0].Kind)
}

func TestTokenizeUnexpectedCharacterErrors(t *testing.T) {
	_, err := Tokenize("SELECT # FROM t")
	require.Error(t, err)
}

func TestNewSliceCursorWrapsTokenize(t *testing.T) {
	tokens, err := Tokenize("SELECT 1")
	require.NoError(t, err)
	cur := NewSliceCursor(tokens)
	require.False(t, cur.AtEnd())
	require.Equal(t, SELECT, cur.Current().Keyword)
	cur.Advance()
	require.Equal(t, Number, cur.Current().Kind)
	cur.Advance()
	require.True(t, cur.AtEnd())
}
