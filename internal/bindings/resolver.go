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

package bindings

import (
	"errors"
	"fmt"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
)

var (
	// ErrMissingRequiredValue is returned when a derived literal's source
	// field (baseUrl or host) is absent from the spec.
	ErrMissingRequiredValue = errors.New("missing required value")

	// ErrDuplicateBinding is returned when two rules would produce the
	// same environment variable name. The rule set keeps names unique, so
	// this indicates a bug rather than bad input.
	ErrDuplicateBinding = errors.New("duplicate binding name")
)

// DatabaseMode identifies which database backend the gateway talks to.
// The modes are mutually exclusive; DatabaseModeFor picks exactly one.
type DatabaseMode int

const (
	// DatabaseExternal means no database URL is injected; the operator
	// assumes the URL is supplied through other configuration.
	DatabaseExternal DatabaseMode = iota

	// DatabaseSidecar means the Cloud SQL Auth Proxy runs in the gateway
	// pod and the database is reached over localhost.
	DatabaseSidecar

	// DatabaseCloudSQLProxy means the Cloud SQL Auth Proxy runs as a
	// separate service named cloud-sql-proxy.
	DatabaseCloudSQLProxy

	// DatabaseInCluster means the in-cluster PostgreSQL service is used.
	DatabaseInCluster
)

// DatabaseModeFor derives the database mode from the spec and deployment
// context. Cloud SQL takes precedence over the in-cluster database when
// both are enabled.
func DatabaseModeFor(spec *gafaelfawrv1alpha1.GafaelfawrSpec, ctx Context) DatabaseMode {
	cloudSQL := spec.CloudSQL != nil && spec.CloudSQL.Enabled
	switch {
	case ctx.Sidecar && cloudSQL:
		return DatabaseSidecar
	case cloudSQL:
		return DatabaseCloudSQLProxy
	case spec.InternalDatabase:
		return DatabaseInCluster
	default:
		return DatabaseExternal
	}
}

// URL returns the database URL for the mode, or the empty string for
// DatabaseExternal.
func (m DatabaseMode) URL() string {
	switch m {
	case DatabaseSidecar:
		return "postgresql://gafaelfawr@localhost/gafaelfawr"
	case DatabaseCloudSQLProxy:
		return "postgresql://gafaelfawr@cloud-sql-proxy/gafaelfawr"
	case DatabaseInCluster:
		return "postgresql://gafaelfawr@postgres.postgres/gafaelfawr"
	default:
		return ""
	}
}

// String returns a short name for the mode, used in logs.
func (m DatabaseMode) String() string {
	switch m {
	case DatabaseSidecar:
		return "sidecar"
	case DatabaseCloudSQLProxy:
		return "cloud-sql-proxy"
	case DatabaseInCluster:
		return "internal"
	default:
		return "external"
	}
}

// resolver accumulates bindings and enforces name uniqueness.
type resolver struct {
	ctx  Context
	out  []Binding
	seen map[string]bool
	err  error
}

func (r *resolver) literal(name, value string) {
	r.add(Binding{Name: name, Value: value})
}

func (r *resolver) secret(name, key string) {
	r.add(Binding{Name: name, SecretName: r.ctx.SecretName, SecretKey: key})
}

func (r *resolver) add(b Binding) {
	if r.err != nil {
		return
	}
	if r.seen[b.Name] {
		r.err = fmt.Errorf("%w: %s", ErrDuplicateBinding, b.Name)
		return
	}
	r.seen[b.Name] = true
	r.out = append(r.out, b)
}

// Resolve computes the gateway's environment bindings from its spec and
// deployment context. The rules run in a fixed order so that output is
// stable across invocations, which keeps redeployment diffs quiet. On
// error no partial output is returned.
func Resolve(spec *gafaelfawrv1alpha1.GafaelfawrSpec, ctx Context) ([]Binding, error) {
	r := &resolver{
		ctx:  ctx,
		out:  make([]Binding, 0, 17),
		seen: make(map[string]bool, 17),
	}

	if spec.AfterLogoutURL == "" {
		if spec.BaseURL == "" {
			return nil, fmt.Errorf("%w: baseUrl (needed for %s)", ErrMissingRequiredValue, EnvAfterLogoutURL)
		}
		r.literal(EnvAfterLogoutURL, spec.BaseURL)
	}

	r.secret(EnvBootstrapToken, KeyBootstrapToken)

	if spec.CILogon != nil && spec.CILogon.ClientID != "" {
		r.secret(EnvCILogonSecret, KeyCILogonSecret)
	}

	r.secret(EnvDatabasePassword, KeyDatabasePassword)

	if mode := DatabaseModeFor(spec, ctx); mode != DatabaseExternal {
		r.literal(EnvDatabaseURL, mode.URL())
	}

	if spec.GitHub != nil && spec.GitHub.ClientID != "" {
		r.secret(EnvGitHubSecret, KeyGitHubSecret)
	}

	if spec.LDAP != nil && spec.LDAP.UserDN != "" {
		r.secret(EnvLDAPPassword, KeyLDAPPassword)
	}

	if spec.OIDC != nil && spec.OIDC.ClientID != "" {
		r.secret(EnvOIDCSecret, KeyOIDCSecret)
	}

	if spec.OIDCServer != nil && spec.OIDCServer.Enabled {
		r.secret(EnvOIDCServerClients, KeyOIDCServerSecrets)
		if spec.OIDCServer.Issuer == "" {
			if spec.BaseURL == "" {
				return nil, fmt.Errorf("%w: baseUrl (needed for %s)", ErrMissingRequiredValue, EnvOIDCServerIssuer)
			}
			r.literal(EnvOIDCServerIssuer, spec.BaseURL)
		}
		r.secret(EnvOIDCServerKey, KeySigningKey)
	}

	if spec.Realm == "" {
		if spec.Host == "" {
			return nil, fmt.Errorf("%w: host (needed for %s)", ErrMissingRequiredValue, EnvRealm)
		}
		r.literal(EnvRealm, spec.Host)
	}

	if spec.BaseURL == "" {
		return nil, fmt.Errorf("%w: baseUrl (needed for %s)", ErrMissingRequiredValue, EnvRedirectURL)
	}
	r.literal(EnvRedirectURL, spec.BaseURL+"/login")

	r.secret(EnvRedisPassword, KeyRedisPassword)
	r.literal(EnvRedisURL, fmt.Sprintf("redis://%s-redis.%s:6379/0", ctx.ReleaseName, ctx.ReleaseNamespace))
	r.secret(EnvSessionSecret, KeySessionSecret)

	if spec.SlackAlerts != nil {
		r.secret(EnvSlackWebhook, KeySlackWebhook)
	}

	if r.err != nil {
		return nil, r.err
	}
	return r.out, nil
}

// SecretKeys returns the secret keys referenced by the given bindings, in
// binding order. Used by the secrets reconciler to know which keys the
// gateway secret must hold.
func SecretKeys(bs []Binding) []string {
	keys := make([]string, 0, len(bs))
	for _, b := range bs {
		if b.IsSecret() {
			keys = append(keys, b.SecretKey)
		}
	}
	return keys
}
