/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package secstore provides the backing stores the operator reads static
// secret values from when populating gateway secrets. Two implementations
// exist: a Vault KV v2 source for production and a local bbolt source for
// development and air-gapped clusters.
package secstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/lsst-sqre/gafaelfawr-operator/internal/config"
)

// ErrNotFound is returned when no secret values are stored for an
// application.
var ErrNotFound = errors.New("secstore: application not found")

// Source provides static secret values for a gateway application.
type Source interface {
	// Get returns the secret values stored for the named application.
	// Returns ErrNotFound if nothing is stored for it.
	Get(ctx context.Context, application string) (map[string][]byte, error)

	// Put stores values for the named application, merging with any
	// existing keys. Existing keys not present in values are preserved.
	Put(ctx context.Context, application string, values map[string][]byte) error

	// Close releases any resources held by the source.
	Close() error
}

// New builds a Source from operator configuration. Returns nil when the
// source is "none"; callers must treat a nil Source as
// generate-and-audit-only mode.
func New(cfg config.SecretsConfig) (Source, error) {
	switch cfg.Source {
	case config.SecretsSourceVault:
		return NewVaultSource(cfg.Vault)
	case config.SecretsSourceBolt:
		return NewBoltSource(cfg.BoltPath)
	case config.SecretsSourceNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown secrets source %q", cfg.Source)
	}
}
