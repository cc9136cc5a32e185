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
	"github.com/sirupsen/logrus"

	"github.com/cardinalsql/sqlfront/ast"
)

// trace logs one production-entry line when p is running in Debug mode.
// Production mode never calls into logrus on the hot path: the mode check
// happens before any field is built.
func (p *Parser) trace(production string) {
	if p.mode != ast.Debug {
		return
	}
	p.logger.WithFields(logrus.Fields{
		"session":     p.sessionID,
		"production":  production,
		"depth":       p.depth,
		"parseContext": p.currentContext(),
	}).Trace("entering production")
}
