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
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/cardinalsql/sqlfront/arena"
	"github.com/cardinalsql/sqlfront/ast"
)

// Config holds every tunable this package exposes a default for. The zero
// value is not meaningful; use DefaultConfig. MaxBlockSize is loaded but
// not applied: arena block growth is always capped at
// arena.MaxBlockSize.
type Config struct {
	InitialBlockSize int    `yaml:"initial_block_size"`
	MaxBlockSize     int    `yaml:"max_block_size"`
	MaxDepth         int    `yaml:"max_depth"`
	StrictMode       bool   `yaml:"strict_mode"`
	ModeName         string `yaml:"mode"` // "production" or "debug"
}

// DefaultConfig returns the spec-mandated defaults: 64 KiB initial block,
// 1 MiB block cap, depth limit 1000, lax operator mode, Production context.
func DefaultConfig() Config {
	return Config{
		InitialBlockSize: arena.DefaultBlockSize,
		MaxBlockSize:     arena.MaxBlockSize,
		MaxDepth:         1000,
		StrictMode:       false,
		ModeName:         "production",
	}
}

// LoadConfig unmarshals YAML into a Config seeded with DefaultConfig, so a
// document that only overrides one field leaves the rest at their defaults.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parser: unable to parse config")
	}
	return cfg, nil
}

// Mode resolves the configured ModeName to an ast.Mode.
func (c Config) Mode() (ast.Mode, error) {
	switch c.ModeName {
	case "", "production":
		return ast.Production, nil
	case "debug":
		return ast.Debug, nil
	default:
		return ast.Production, fmt.Errorf("parser: unknown mode %q", c.ModeName)
	}
}
