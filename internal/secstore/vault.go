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

package secstore

import (
	"context"
	"fmt"
	"strings"

	vault "github.com/hashicorp/vault/api"

	"github.com/lsst-sqre/gafaelfawr-operator/internal/config"
)

// VaultSource reads and writes application secrets in a Vault KV v2 mount.
// Each application is a secret at <mount>/<path>/<application> whose data
// maps secret keys to string values.
type VaultSource struct {
	client *vault.Client
	mount  string
	path   string
}

// NewVaultSource builds a VaultSource from the given configuration.
func NewVaultSource(cfg config.VaultConfig) (*VaultSource, error) {
	address := strings.TrimSpace(cfg.Address)
	if address == "" {
		return nil, fmt.Errorf("vault address is required")
	}

	apiCfg := vault.DefaultConfig()
	apiCfg.Address = address
	client, err := vault.NewClient(apiCfg)
	if err != nil {
		return nil, err
	}
	// vault.NewClient already picked up VAULT_TOKEN from the environment;
	// only override when the operator config carries an explicit token.
	if cfg.Token != "" && client.Token() == "" {
		client.SetToken(cfg.Token)
	}

	mount := strings.Trim(strings.TrimSpace(cfg.Mount), "/")
	if mount == "" {
		mount = "secret"
	}

	return &VaultSource{
		client: client,
		mount:  mount,
		path:   strings.Trim(strings.TrimSpace(cfg.Path), "/"),
	}, nil
}

// Get implements Source.
func (s *VaultSource) Get(ctx context.Context, application string) (map[string][]byte, error) {
	secret, err := s.client.KVv2(s.mount).Get(ctx, s.secretPath(application))
	if err != nil {
		if strings.Contains(err.Error(), "secret not found") {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read vault secret for %s: %w", application, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, ErrNotFound
	}

	values := make(map[string][]byte, len(secret.Data))
	for key, raw := range secret.Data {
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("vault secret %s key %q is not a string", application, key)
		}
		values[key] = []byte(str)
	}
	return values, nil
}

// Put implements Source. Vault KV v2 writes replace the whole secret, so
// the existing values are read first and merged.
func (s *VaultSource) Put(ctx context.Context, application string, values map[string][]byte) error {
	merged := make(map[string]interface{})

	existing, err := s.Get(ctx, application)
	if err != nil && err != ErrNotFound {
		return err
	}
	for key, value := range existing {
		merged[key] = string(value)
	}
	for key, value := range values {
		merged[key] = string(value)
	}

	if _, err := s.client.KVv2(s.mount).Put(ctx, s.secretPath(application), merged); err != nil {
		return fmt.Errorf("failed to write vault secret for %s: %w", application, err)
	}
	return nil
}

// Close implements Source. The Vault client holds no persistent
// connections.
func (s *VaultSource) Close() error {
	return nil
}

func (s *VaultSource) secretPath(application string) string {
	if s.path == "" {
		return application
	}
	return fmt.Sprintf("%s/%s", s.path, application)
}
