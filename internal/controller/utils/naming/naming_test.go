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

package naming

import (
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
)

func TestResourceName(t *testing.T) {
	gw := &gafaelfawrv1alpha1.Gafaelfawr{
		ObjectMeta: metav1.ObjectMeta{
			Name: "gafaelfawr",
		},
	}

	tests := []struct {
		name         string
		resourceType string
		expected     string
	}{
		{"route resource", "route", "gafaelfawr-route"},
		{"extauth resource", "extauth", "gafaelfawr-extauth"},
		{"certificate resource", "cert", "gafaelfawr-cert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResourceName(gw, tt.resourceType)
			if result != tt.expected {
				t.Errorf("ResourceName(%q) = %q, want %q", tt.resourceType, result, tt.expected)
			}
		})
	}
}

func TestSecretName(t *testing.T) {
	gw := &gafaelfawrv1alpha1.Gafaelfawr{
		ObjectMeta: metav1.ObjectMeta{
			Name: "gafaelfawr",
		},
	}

	if got := SecretName(gw); got != "gafaelfawr" {
		t.Errorf("SecretName() = %q, want %q", got, "gafaelfawr")
	}

	gw.Spec.SecretName = "gafaelfawr-secret"
	if got := SecretName(gw); got != "gafaelfawr-secret" {
		t.Errorf("SecretName() with override = %q, want %q", got, "gafaelfawr-secret")
	}
}

func TestHTTPRouteName(t *testing.T) {
	gw := &gafaelfawrv1alpha1.Gafaelfawr{
		ObjectMeta: metav1.ObjectMeta{
			Name: "gafaelfawr",
		},
	}

	expected := "gafaelfawr-route"
	result := HTTPRouteName(gw)

	if result != expected {
		t.Errorf("HTTPRouteName() = %q, want %q", result, expected)
	}
}

func TestSecurityPolicyName(t *testing.T) {
	gw := &gafaelfawrv1alpha1.Gafaelfawr{
		ObjectMeta: metav1.ObjectMeta{
			Name: "gafaelfawr",
		},
	}

	expected := "gafaelfawr-extauth"
	result := SecurityPolicyName(gw)

	if result != expected {
		t.Errorf("SecurityPolicyName() = %q, want %q", result, expected)
	}
}

func TestCertificateNames(t *testing.T) {
	gw := &gafaelfawrv1alpha1.Gafaelfawr{
		ObjectMeta: metav1.ObjectMeta{
			Name: "gafaelfawr",
		},
	}

	if got := CertificateName(gw); got != "gafaelfawr-cert" {
		t.Errorf("CertificateName() = %q, want %q", got, "gafaelfawr-cert")
	}
	if got := TLSSecretName(gw); got != "gafaelfawr-tls" {
		t.Errorf("TLSSecretName() = %q, want %q", got, "gafaelfawr-tls")
	}
}

func TestOIDCClientID(t *testing.T) {
	gw := &gafaelfawrv1alpha1.Gafaelfawr{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "gafaelfawr",
			Namespace: "auth",
		},
	}

	expected := "auth-gafaelfawr"
	result := OIDCClientID(gw)

	if result != expected {
		t.Errorf("OIDCClientID() = %q, want %q", result, expected)
	}
}
