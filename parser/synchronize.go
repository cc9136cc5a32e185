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

import "github.com/cardinalsql/sqlfront/token"

// statementLeadKeywords are the keywords parseStatement dispatches on;
// Synchronize treats any of them as a safe place to resume parsing after
// an error.
var statementLeadKeywords = map[token.KeywordID]bool{
	token.SELECT: true, token.VALUES: true, token.WITH: true,
	token.INSERT: true, token.UPDATE: true, token.DELETE: true,
	token.CREATE: true, token.DROP: true, token.ALTER: true, token.TRUNCATE: true,
	token.BEGIN: true, token.START: true, token.COMMIT: true, token.ROLLBACK: true,
	token.SAVEPOINT: true, token.RELEASE: true, token.EXPLAIN: true,
	token.SET: true, token.VACUUM: true, token.ANALYZE: true, token.ATTACH: true,
	token.DETACH: true, token.REINDEX: true, token.PRAGMA: true,
}

// Synchronize skips tokens until a semicolon (consumed) or a statement-
// introducing keyword (left unconsumed) is reached, or the stream ends.
// It is not invoked automatically by Parse/ParseTokens; callers driving
// multi-statement recovery call it themselves after a ParseError.
func (p *Parser) Synchronize() {
	for !p.atEnd() {
		if p.current().IsDelimiter(";") {
			p.advance()
			return
		}
		if p.current().Kind == token.Keyword && statementLeadKeywords[p.current().Keyword] {
			return
		}
		p.advance()
	}
}
