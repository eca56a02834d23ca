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

package validation

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/constants"
)

// ValidateSpec checks structural invariants of a Gafaelfawr spec that the
// CRD schema cannot express. Returns an error describing the first problem
// found.
func ValidateSpec(gw *gafaelfawrv1alpha1.Gafaelfawr) error {
	spec := &gw.Spec

	if spec.BaseURL != "" {
		parsed, err := url.Parse(spec.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("baseUrl %q is not an absolute URL", spec.BaseURL)
		}
	}

	if spec.Host != "" && strings.Contains(spec.Host, "/") {
		return fmt.Errorf("host %q must be a bare hostname", spec.Host)
	}

	// Exactly one authentication provider must be configured.
	providers := 0
	if spec.CILogon != nil {
		providers++
	}
	if spec.GitHub != nil {
		providers++
	}
	if spec.OIDC != nil {
		providers++
	}
	if providers > 1 {
		return fmt.Errorf("only one of cilogon, github, or oidc may be set")
	}

	if spec.OIDC != nil && spec.OIDC.ProvisionClient &&
		spec.OIDC.Provider != constants.ProviderKeycloak {
		return fmt.Errorf("provisionClient requires provider %q, got %q",
			constants.ProviderKeycloak, spec.OIDC.Provider)
	}

	if spec.CloudSQL != nil && spec.CloudSQL.Enabled &&
		spec.CloudSQL.InstanceConnectionName == "" {
		return fmt.Errorf("cloudSql.instanceConnectionName is required when Cloud SQL is enabled")
	}

	if spec.LDAP != nil && spec.LDAP.URL == "" {
		return fmt.Errorf("ldap.url is required when LDAP is configured")
	}

	return nil
}

// ValidateSecret checks that the referenced gateway secret exists and
// contains all of the given keys. Returns the missing keys alongside an
// error when the secret exists but is incomplete, so callers can report a
// precise audit result.
func ValidateSecret(ctx context.Context, c client.Client, namespace, name string, keys []string) ([]string, error) {
	secret := &corev1.Secret{}
	if err := c.Get(ctx, client.ObjectKey{Name: name, Namespace: namespace}, secret); err != nil {
		if errors.IsNotFound(err) {
			return keys, fmt.Errorf("secret %s not found in namespace %s", name, namespace)
		}
		return nil, fmt.Errorf("failed to get secret: %w", err)
	}

	var missing []string
	for _, key := range keys {
		if _, ok := secret.Data[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return missing, fmt.Errorf("secret %s is missing keys: %s",
			name, strings.Join(missing, ", "))
	}

	return nil, nil
}
