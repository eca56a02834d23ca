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

package config

// SecretsConfig selects where the operator reads static secret values from
// when populating gateway secrets.
type SecretsConfig struct {
	// Source selects the backing store: "vault", "bolt", or "none".
	// With "none" the operator only generates secrets and audits the
	// gateway secret; static values must be placed there out of band.
	Source string

	// Vault configuration, used when Source is "vault"
	Vault VaultConfig

	// BoltPath is the path to the local bbolt database file, used when
	// Source is "bolt". Intended for development and air-gapped clusters.
	BoltPath string
}

// VaultConfig holds the connection details for a Vault KV v2 mount.
type VaultConfig struct {
	// Address is the Vault server URL
	// Example: https://vault.example.org
	Address string

	// Token is the Vault token. VAULT_TOKEN from the environment wins if
	// both are set, since the Vault client reads it natively.
	Token string

	// Mount is the KV v2 mount point
	Mount string

	// Path is the path under the mount holding gateway secrets
	Path string
}

// Source values for SecretsConfig.
const (
	SecretsSourceVault = "vault"
	SecretsSourceBolt  = "bolt"
	SecretsSourceNone  = "none"
)

// LoadSecretsConfig loads secret store configuration from environment
// variables.
func LoadSecretsConfig() SecretsConfig {
	return SecretsConfig{
		Source: getEnv("SECRETS_SOURCE", SecretsSourceNone),
		Vault: VaultConfig{
			Address: getEnv("VAULT_ADDR", ""),
			Token:   getEnv("VAULT_TOKEN", ""),
			Mount:   getEnv("VAULT_MOUNT", "secret"),
			Path:    getEnv("VAULT_PATH", "phalanx"),
		},
		BoltPath: getEnv("SECRETS_BOLT_PATH", "/var/lib/gafaelfawr-operator/secrets.db"),
	}
}
