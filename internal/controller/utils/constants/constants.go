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

package constants

// Gateway configuration constants
// These match the shared Gateway API infrastructure managed by Argo CD
const (
	// PublicGatewayName is the name of the public-facing gateway
	PublicGatewayName = "science-platform-gateway"

	// InternalGatewayName is the name of the internal gateway (if deployed)
	InternalGatewayName = "science-platform-internal-gateway"

	// GatewayNamespace is the namespace where gateways are deployed
	GatewayNamespace = "envoy-gateway-system"
)

// Resource naming suffixes
const (
	// HTTPRouteSuffix is appended to the resource name for HTTPRoutes
	HTTPRouteSuffix = "route"

	// SecurityPolicySuffix is appended to the resource name for ext-auth
	// SecurityPolicy resources
	SecurityPolicySuffix = "extauth"

	// CertificateSuffix is appended to the resource name for cert-manager
	// Certificate resources
	CertificateSuffix = "cert"

	// TLSSecretSuffix is appended to the resource name for the TLS secret
	// written by cert-manager
	TLSSecretSuffix = "tls"
)

// Gateway container details
const (
	// GatewayPort is the port the Gafaelfawr service listens on
	GatewayPort = 8080

	// GatewayContainerName is the name of the main container in the
	// gateway pod
	GatewayContainerName = "gafaelfawr"

	// CloudSQLProxyContainerName is the name of the Cloud SQL Auth Proxy
	// sidecar container
	CloudSQLProxyContainerName = "cloud-sql-proxy"

	// AuthSubrequestPath is the path on the gateway service that the
	// ext-auth policy sends authorization checks to
	AuthSubrequestPath = "/ingress/auth"

	// HealthPath is the gateway's health check endpoint
	HealthPath = "/health"
)

// Image defaults
const (
	// DefaultImageRepository is the default gateway container image
	DefaultImageRepository = "ghcr.io/lsst-sqre/gafaelfawr"

	// DefaultImageTag is the default gateway container image tag
	DefaultImageTag = "latest"

	// DefaultCloudSQLProxyImage is the default Cloud SQL Auth Proxy
	// sidecar image
	DefaultCloudSQLProxyImage = "gcr.io/cloud-sql-connectors/cloud-sql-proxy:2.14.2"
)

// Upstream OIDC provider names
const (
	// ProviderKeycloak identifies the Keycloak provider, for which the
	// operator can provision clients
	ProviderKeycloak = "keycloak"

	// ProviderGeneric identifies any other OIDC provider; the client must
	// be registered out of band
	ProviderGeneric = "generic"
)

// Default Keycloak connection details, overridable through operator
// configuration
const (
	// DefaultKeycloakServiceName is the Kubernetes service name for Keycloak
	DefaultKeycloakServiceName = "keycloak"

	// DefaultKeycloakNamespace is the namespace where Keycloak is deployed
	DefaultKeycloakNamespace = "keycloak"

	// DefaultKeycloakServicePort is the HTTP port for the Keycloak service
	DefaultKeycloakServicePort = 8080

	// DefaultKeycloakContextPath is the HTTP context path for Keycloak
	DefaultKeycloakContextPath = ""
)

// Finalizers
const (
	// GafaelfawrFinalizer is the finalizer added to Gafaelfawr resources
	GafaelfawrFinalizer = "gafaelfawr.lsst.io/finalizer"
)
