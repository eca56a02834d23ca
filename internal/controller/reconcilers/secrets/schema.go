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

package secrets

import (
	_ "embed"
	"fmt"

	"sigs.k8s.io/yaml"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
)

//go:embed secrets.yaml
var rawSchema []byte

// Generator types accepted in the schema.
const (
	GeneratePassword        = "password"
	GenerateGafaelfawrToken = "gafaelfawr-token"
	GenerateFernetKey       = "fernet-key"
	GenerateRSAPrivateKey   = "rsa-private-key"
)

// KeySpec describes one key of the gateway secret.
type KeySpec struct {
	// Description is human-readable documentation for the key, surfaced
	// in audit messages.
	Description string `json:"description"`

	// Generate names the generator used to create the key when absent.
	// Empty means the key is static.
	Generate string `json:"generate,omitempty"`

	// GenerateIf restricts generation to specs where the named field is
	// enabled. Currently only "internalDatabase" is recognized.
	GenerateIf string `json:"generateIf,omitempty"`
}

// Schema maps secret key names to their specifications.
type Schema struct {
	Secrets map[string]KeySpec `json:"secrets"`
}

// LoadSchema parses the embedded secret schema.
func LoadSchema() (*Schema, error) {
	schema := &Schema{}
	if err := yaml.Unmarshal(rawSchema, schema); err != nil {
		return nil, fmt.Errorf("failed to parse secret schema: %w", err)
	}
	for key, spec := range schema.Secrets {
		switch spec.Generate {
		case "", GeneratePassword, GenerateGafaelfawrToken, GenerateFernetKey, GenerateRSAPrivateKey:
		default:
			return nil, fmt.Errorf("secret schema key %q has unknown generator %q", key, spec.Generate)
		}
	}
	return schema, nil
}

// IsGenerated reports whether the named key is generated by the operator
// for the given spec. Static keys and unknown keys return false.
func (s *Schema) IsGenerated(key string, spec *gafaelfawrv1alpha1.GafaelfawrSpec) bool {
	keySpec, ok := s.Secrets[key]
	if !ok || keySpec.Generate == "" {
		return false
	}
	if keySpec.GenerateIf == "internalDatabase" {
		return spec.InternalDatabase
	}
	return true
}

// Knows reports whether the named key appears in the schema.
func (s *Schema) Knows(key string) bool {
	_, ok := s.Secrets[key]
	return ok
}
