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

// Package parser implements a hand-written recursive-descent and Pratt
// expression parser over a pre-tokenized stream, producing arena-backed
// ast.Node trees.
package parser

import (
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/cardinalsql/sqlfront/arena"
	"github.com/cardinalsql/sqlfront/ast"
	"github.com/cardinalsql/sqlfront/token"
)

// ParseContext is the small enum biasing identifier-vs-column resolution
// and clause-terminator detection while expressions are parsed.
type ParseContext = ast.ParseContextTag

const (
	CtxNone ParseContext = iota
	CtxSelectList
	CtxFromClause
	CtxWhereClause
	CtxGroupByClause
	CtxHavingClause
	CtxOrderByClause
	CtxJoinCondition
	CtxCaseExpression
	CtxFunctionArg
	CtxSubquery
)

// Parser is a single-threaded, single-arena SQL front-end session. One
// Parser owns one arena.Arena; it is not safe for concurrent use, but
// distinct Parsers may run on distinct goroutines simultaneously.
type Parser struct {
	cfg        Config
	arena      *arena.Arena
	cursor     token.Cursor
	mode       ast.Mode
	strictMode bool
	maxDepth   int

	depth        int
	parenDepth   int
	nextNodeID   uint32
	contextStack []ParseContext
	lastEnd      int

	logger    logrus.FieldLogger
	tracer    opentracing.Tracer
	sessionID uuid.UUID
}

// New constructs a Parser with DefaultConfig (Production mode, lax
// operators, 1000-deep recursion guard).
func New() *Parser {
	p, err := NewWithConfig(DefaultConfig())
	if err != nil {
		// DefaultConfig is always well-formed; a failure here is a bug in
		// this package, not a caller error.
		panic(errors.Wrap(err, "parser: DefaultConfig produced an invalid parser"))
	}
	return p
}

// WithMode constructs a Parser in the given ast.Mode, otherwise using
// DefaultConfig. Debug mode interprets every node's context payload as an
// ast.DebugContext and enables Trace-level production logging.
func WithMode(mode ast.Mode) *Parser {
	cfg := DefaultConfig()
	if mode == ast.Debug {
		cfg.ModeName = "debug"
	}
	p, err := NewWithConfig(cfg)
	if err != nil {
		panic(errors.Wrap(err, "parser: WithMode produced an invalid parser"))
	}
	return p
}

// NewWithConfig constructs a Parser from an explicit Config, failing only
// if the config names an unrecognized mode or the host can't mint a
// session UUID.
func NewWithConfig(cfg Config) (*Parser, error) {
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, errors.Wrap(err, "parser: unable to generate session id")
	}
	return &Parser{
		cfg:        cfg,
		arena:      arena.New(cfg.InitialBlockSize),
		mode:       mode,
		strictMode: cfg.StrictMode,
		maxDepth:   cfg.MaxDepth,
		logger:     logrus.StandardLogger(),
		tracer:     opentracing.GlobalTracer(),
		sessionID:  id,
	}, nil
}

// WithLogger overrides the logger used for Debug-mode tracing and returns p
// for chaining.
func (p *Parser) WithLogger(logger logrus.FieldLogger) *Parser {
	p.logger = logger
	return p
}

// WithTracer overrides the opentracing.Tracer used to span each Parse call.
func (p *Parser) WithTracer(tracer opentracing.Tracer) *Parser {
	p.tracer = tracer
	return p
}

// SessionID returns the UUID assigned at construction, also threaded
// through every Debug-mode trace line.
func (p *Parser) SessionID() uuid.UUID { return p.sessionID }

// Mode returns the ast.Mode this Parser's nodes interpret their context
// payload as.
func (p *Parser) Mode() ast.Mode { return p.mode }

// Parse tokenizes sql with the reference lexer and parses exactly one
// statement, optionally followed by a semicolon. The returned *ast.Node's
// lifetime is tied to p; it becomes invalid after the next Reset.
func (p *Parser) Parse(sql string) (*ast.Node, error) {
	tokens, err := token.Tokenize(sql)
	if err != nil {
		return nil, newParseError(ErrUnterminatedConstruct, 0, 0, "%v", err)
	}
	return p.ParseTokens(token.NewSliceCursor(tokens))
}

// ParseTokens parses exactly one statement from an externally produced
// token.Cursor, for hosts supplying their own tokenizer in place of the
// reference lexer.
func (p *Parser) ParseTokens(cursor token.Cursor) (*ast.Node, error) {
	p.cursor = cursor
	p.depth = 0
	p.parenDepth = 0
	p.contextStack = p.contextStack[:0]
	p.lastEnd = 0

	span := p.tracer.StartSpan("parser.Parse")
	defer span.Finish()

	if p.atEnd() {
		tok := p.current()
		return nil, newParseError(ErrEmptyInput, tok.Line, tok.Column, "empty input")
	}

	root, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if p.current().IsDelimiter(";") {
		p.advance()
	}
	return root, nil
}

// Reset clears the arena for reuse. Every *ast.Node returned by a prior
// Parse/ParseTokens call becomes invalid; node IDs restart from zero for
// the next parse session.
func (p *Parser) Reset() {
	p.arena.Reset()
	p.nextNodeID = 0
	p.depth = 0
	p.parenDepth = 0
	p.contextStack = p.contextStack[:0]
	p.lastEnd = 0
}

// GetMemoryUsed reports arena bytes used by the most recent parse(s) since
// construction or the last Reset.
func (p *Parser) GetMemoryUsed() int {
	return p.arena.Stats().BytesUsed
}

// GetNodeCount reports how many nodes have been allocated since
// construction or the last Reset.
func (p *Parser) GetNodeCount() int {
	return int(p.nextNodeID)
}

// --- token-cursor conveniences ---

func (p *Parser) current() token.Token { return p.cursor.Current() }
func (p *Parser) peek() token.Token    { return p.cursor.Peek() }
func (p *Parser) atEnd() bool          { return p.cursor.AtEnd() }

// advance consumes the current token, recording its end offset so the next
// finishNode call can extend a node's source_end to cover it.
func (p *Parser) advance() {
	p.lastEnd = p.cursor.Current().End
	p.cursor.Advance()
}

// --- depth guard ---

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		tok := p.current()
		p.depth--
		return newParseError(ErrDepthExceeded, tok.Line, tok.Column,
			"maximum parse depth %d exceeded", p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

// --- paren-depth tracking ---

// openParen is called immediately after consuming an opening '(' that the
// caller has already matched; it exists so every paren-opening production
// is symmetric with expectCloseParen, which reports the right error if the
// matching ')' never shows up.
func (p *Parser) openParen() { p.parenDepth++ }

// expectCloseParen consumes a closing ')', failing with UnterminatedConstruct
// (naming what) instead of UnexpectedToken, since a missing ')' is a
// delimiter-balance failure, not a wrong-token-in-a-production failure.
func (p *Parser) expectCloseParen(what string) error {
	if !p.current().IsDelimiter(")") {
		return p.unterminated(what)
	}
	p.advance()
	p.parenDepth--
	return nil
}

// --- parse-context stack ---

func (p *Parser) pushContext(c ParseContext) { p.contextStack = append(p.contextStack, c) }

func (p *Parser) popContext() {
	if n := len(p.contextStack); n > 0 {
		p.contextStack = p.contextStack[:n-1]
	}
}

func (p *Parser) currentContext() ParseContext {
	if n := len(p.contextStack); n > 0 {
		return p.contextStack[n-1]
	}
	return CtxNone
}

// --- node construction ---

// newNode allocates a zero-valued node of type t from p's arena, assigns it
// the next monotonic node ID, and seeds source_start from the current
// token. Callers finish it with finishNode once its last child/token has
// been consumed.
func (p *Parser) newNode(t ast.NodeType) (*ast.Node, error) {
	n, err := arena.Construct[ast.Node](p.arena)
	if err != nil {
		tok := p.current()
		return nil, newParseError(ErrOutOfMemory, tok.Line, tok.Column,
			"arena allocation failed: %v", err)
	}
	n.SetType(t)
	n.NodeID = p.nextNodeID
	p.nextNodeID++
	start := p.current()
	n.SourceStart = uint32(start.Offset)
	n.SourceEnd = uint32(start.End)
	return n, nil
}

// newNodeFrom allocates a node of type t whose source range starts at
// startNode's source_start, for infix productions where the already-parsed
// left operand should anchor the combined node's range.
func (p *Parser) newNodeFrom(t ast.NodeType, startNode *ast.Node) (*ast.Node, error) {
	n, err := arena.Construct[ast.Node](p.arena)
	if err != nil {
		tok := p.current()
		return nil, newParseError(ErrOutOfMemory, tok.Line, tok.Column,
			"arena allocation failed: %v", err)
	}
	n.SetType(t)
	n.NodeID = p.nextNodeID
	p.nextNodeID++
	n.SourceStart = startNode.SourceStart
	n.SourceEnd = startNode.SourceEnd
	return n, nil
}

// finishNode extends n's source_end to the end of the last token consumed
// so far.
func (p *Parser) finishNode(n *ast.Node) *ast.Node {
	if uint32(p.lastEnd) > n.SourceEnd {
		n.SourceEnd = uint32(p.lastEnd)
	}
	return n
}

// unexpectedToken builds an UnexpectedToken ParseError naming the current
// token and the production that rejected it.
func (p *Parser) unexpectedToken(context string) error {
	tok := p.current()
	text := tok.Text
	if tok.Kind == token.EOF {
		text = "EOF"
	}
	return newParseError(ErrUnexpectedToken, tok.Line, tok.Column,
		"%s: unexpected token %q", context, text)
}

// unterminated builds an UnterminatedConstruct ParseError for a construct
// left open at the current (usually EOF) token.
func (p *Parser) unterminated(what string) error {
	tok := p.current()
	return newParseError(ErrUnterminatedConstruct, tok.Line, tok.Column, "unterminated %s", what)
}

// expectDelimiter consumes the current token if it is the delimiter text,
// else fails with UnexpectedToken.
func (p *Parser) expectDelimiter(text string) error {
	if !p.current().IsDelimiter(text) {
		return p.unexpectedToken("expected " + text)
	}
	p.advance()
	return nil
}

// expectKeyword consumes the current token if it resolves to id, else
// fails with UnexpectedToken. name is used in the error message.
func (p *Parser) expectKeyword(id token.KeywordID, name string) error {
	if !p.current().Is(id) {
		return p.unexpectedToken("expected " + name)
	}
	p.advance()
	return nil
}

// matchKeyword consumes the current token and returns true if it resolves
// to id, without erroring otherwise.
func (p *Parser) matchKeyword(id token.KeywordID) bool {
	if p.current().Is(id) {
		p.advance()
		return true
	}
	return false
}

// matchDelimiter consumes the current token and returns true if it is the
// delimiter text, without erroring otherwise.
func (p *Parser) matchDelimiter(text string) bool {
	if p.current().IsDelimiter(text) {
		p.advance()
		return true
	}
	return false
}

// nameToken accepts an Identifier token, or a Keyword token standing in for
// one (SQL keyword lists are never exhaustive; a reserved word a tokenizer
// still classifies as Keyword is commonly a legal name in lax contexts like
// column/table/alias names).
func (p *Parser) nameToken(context string) (token.Token, error) {
	tok := p.current()
	if tok.Kind != token.Identifier && tok.Kind != token.Keyword {
		return token.Token{}, p.unexpectedToken(context)
	}
	p.advance()
	return tok, nil
}

// copyText copies tok.Text into the arena so the returned string view
// outlives the caller's token slice (relevant when the caller's tokenizer
// does not itself own arena-durable storage).
func (p *Parser) copyText(text string) (string, error) {
	s, err := arena.CopyString(p.arena, text)
	if err != nil {
		tok := p.current()
		return "", newParseError(ErrOutOfMemory, tok.Line, tok.Column,
			"arena allocation failed: %v", err)
	}
	return s, nil
}
