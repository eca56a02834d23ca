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

// Package bindings resolves a Gafaelfawr spec into the ordered list of
// environment bindings the gateway container starts with. Each binding is
// either a literal value or a reference to a key of the gateway secret;
// resolution is a pure computation and never reads secret values itself.
package bindings

import (
	corev1 "k8s.io/api/core/v1"
)

// Environment variable names read by the gateway. The names are part of
// the gateway's startup contract and must not change between releases.
const (
	EnvAfterLogoutURL    = "GAFAELFAWR_AFTER_LOGOUT_URL"
	EnvBootstrapToken    = "GAFAELFAWR_BOOTSTRAP_TOKEN"
	EnvCILogonSecret     = "GAFAELFAWR_CILOGON_CLIENT_SECRET"
	EnvDatabasePassword  = "GAFAELFAWR_DATABASE_PASSWORD"
	EnvDatabaseURL       = "GAFAELFAWR_DATABASE_URL"
	EnvGitHubSecret      = "GAFAELFAWR_GITHUB_CLIENT_SECRET"
	EnvLDAPPassword      = "GAFAELFAWR_LDAP_PASSWORD"
	EnvOIDCSecret        = "GAFAELFAWR_OIDC_CLIENT_SECRET"
	EnvOIDCServerClients = "GAFAELFAWR_OIDC_SERVER_CLIENTS"
	EnvOIDCServerIssuer  = "GAFAELFAWR_OIDC_SERVER_ISSUER"
	EnvOIDCServerKey     = "GAFAELFAWR_OIDC_SERVER_KEY"
	EnvRealm             = "GAFAELFAWR_REALM"
	EnvRedirectURL       = "GAFAELFAWR_REDIRECT_URL"
	EnvRedisPassword     = "GAFAELFAWR_REDIS_PASSWORD"
	EnvRedisURL          = "GAFAELFAWR_REDIS_URL"
	EnvSessionSecret     = "GAFAELFAWR_SESSION_SECRET"
	EnvSlackWebhook      = "GAFAELFAWR_SLACK_WEBHOOK"
)

// Keys of the gateway secret referenced by secret bindings.
const (
	KeyBootstrapToken    = "bootstrap-token"
	KeyCILogonSecret     = "cilogon-client-secret"
	KeyDatabasePassword  = "database-password"
	KeyGitHubSecret      = "github-client-secret"
	KeyLDAPPassword      = "ldap-password"
	KeyOIDCSecret        = "oidc-client-secret"
	KeyOIDCServerSecrets = "oidc-server-secrets"
	KeyRedisPassword     = "redis-password"
	KeySessionSecret     = "session-secret"
	KeySigningKey        = "signing-key"
	KeySlackWebhook      = "slack-webhook"
)

// Binding is one environment entry for the gateway container: either a
// literal value or a reference to a key of a Kubernetes Secret. Exactly
// one of Value and SecretKey is set.
type Binding struct {
	// Name is the environment variable name.
	Name string

	// Value is the literal value, for literal bindings.
	Value string

	// SecretName and SecretKey identify the secret reference, for secret
	// bindings. The referenced value is resolved by the kubelet, never by
	// the operator.
	SecretName string
	SecretKey  string
}

// IsSecret reports whether the binding references a secret key rather
// than carrying a literal value.
func (b Binding) IsSecret() bool {
	return b.SecretKey != ""
}

// Context carries the deployment-level facts needed to resolve bindings:
// where the gateway secret lives, whether the database proxy runs as a
// sidecar, and the installation identity used to derive service DNS
// names.
type Context struct {
	// SecretName is the name of the gateway secret in the release
	// namespace.
	SecretName string

	// Sidecar is true when the Cloud SQL Auth Proxy runs in the gateway
	// pod, so the database is reachable on localhost.
	Sidecar bool

	// Namespace is the namespace the gateway pod runs in.
	Namespace string

	// ReleaseName is the installation name, used to derive the Redis
	// service name.
	ReleaseName string

	// ReleaseNamespace is the namespace of the installation, used to
	// derive the Redis service DNS name.
	ReleaseNamespace string
}

// EnvVars converts resolved bindings to container environment variables,
// preserving order. Literal bindings become plain values; secret bindings
// become SecretKeyRef entries resolved by the kubelet at pod start.
func EnvVars(bs []Binding) []corev1.EnvVar {
	env := make([]corev1.EnvVar, 0, len(bs))
	for _, b := range bs {
		if b.IsSecret() {
			env = append(env, corev1.EnvVar{
				Name: b.Name,
				ValueFrom: &corev1.EnvVarSource{
					SecretKeyRef: &corev1.SecretKeySelector{
						LocalObjectReference: corev1.LocalObjectReference{
							Name: b.SecretName,
						},
						Key: b.SecretKey,
					},
				},
			})
		} else {
			env = append(env, corev1.EnvVar{Name: b.Name, Value: b.Value})
		}
	}
	return env
}
