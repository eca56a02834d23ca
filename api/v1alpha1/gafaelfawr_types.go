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

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// GafaelfawrSpec defines the desired state of a Gafaelfawr deployment.
// The fields mirror the values the authentication gateway reads from its
// environment at startup; the operator turns them into a Deployment whose
// container environment carries literal values and Secret references.
type GafaelfawrSpec struct {
	// BaseURL is the external base URL of the environment, used to derive
	// the redirect URL, the after-logout URL, and the OIDC issuer when
	// those are not set explicitly.
	// Example: "https://data.example.org"
	// +optional
	BaseURL string `json:"baseUrl,omitempty"`

	// Host is the fully qualified hostname of the environment, used to
	// derive the authentication realm when realm is not set explicitly
	// and as the hostname for ingress routing.
	// +optional
	Host string `json:"host,omitempty"`

	// AfterLogoutURL is where users are sent after logging out. When
	// unset, the gateway is told to use BaseURL instead.
	// +optional
	AfterLogoutURL string `json:"afterLogoutUrl,omitempty"`

	// Realm is the authentication realm for WWW-Authenticate challenges.
	// When unset, the gateway is told to use Host instead.
	// +optional
	Realm string `json:"realm,omitempty"`

	// InternalDatabase selects the in-cluster PostgreSQL service as the
	// token database. Mutually exclusive with CloudSQL in effect: CloudSQL
	// takes precedence when both are enabled.
	// +optional
	InternalDatabase bool `json:"internalDatabase,omitempty"`

	// CloudSQL configures a Cloud SQL database accessed through the Cloud
	// SQL Auth Proxy, either as a sidecar or as a separate proxy service.
	// +optional
	CloudSQL *CloudSQLConfig `json:"cloudSql,omitempty"`

	// CILogon enables CILogon as the upstream authentication provider.
	// +optional
	CILogon *CILogonConfig `json:"cilogon,omitempty"`

	// GitHub enables GitHub OAuth as the upstream authentication provider.
	// +optional
	GitHub *GitHubConfig `json:"github,omitempty"`

	// OIDC enables a generic OpenID Connect upstream authentication
	// provider.
	// +optional
	OIDC *OIDCConfig `json:"oidc,omitempty"`

	// LDAP configures an LDAP server for user metadata lookups. A bind
	// password is wired in only when UserDN is set.
	// +optional
	LDAP *LDAPConfig `json:"ldap,omitempty"`

	// OIDCServer configures the gateway's own OpenID Connect server mode,
	// in which it issues tokens to relying parties.
	// +optional
	OIDCServer *OIDCServerConfig `json:"oidcServer,omitempty"`

	// SlackAlerts enables alerting to a Slack incoming webhook. The
	// webhook URL itself lives in the gateway secret.
	// +optional
	SlackAlerts *SlackAlertsConfig `json:"slackAlerts,omitempty"`

	// SecretName overrides the name of the Secret holding the gateway's
	// secret material. Defaults to the name of this resource.
	// +optional
	SecretName string `json:"secretName,omitempty"`

	// Image selects the gateway container image.
	// +optional
	Image *ImageConfig `json:"image,omitempty"`

	// Replicas is the number of gateway pods.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:default=1
	// +optional
	Replicas *int32 `json:"replicas,omitempty"`

	// Ingress configures how the gateway is exposed through the shared
	// Gateway API infrastructure.
	// +optional
	Ingress *IngressConfig `json:"ingress,omitempty"`
}

// CloudSQLConfig configures Cloud SQL database access.
type CloudSQLConfig struct {
	// Enabled turns on Cloud SQL database access via the auth proxy.
	// +optional
	Enabled bool `json:"enabled,omitempty"`

	// Sidecar runs the Cloud SQL Auth Proxy as a sidecar container in the
	// gateway pod rather than relying on a separate proxy service.
	// +kubebuilder:default=true
	// +optional
	Sidecar *bool `json:"sidecar,omitempty"`

	// InstanceConnectionName is the Cloud SQL instance connection name,
	// in the form "project:region:instance".
	// +optional
	InstanceConnectionName string `json:"instanceConnectionName,omitempty"`

	// Image is the Cloud SQL Auth Proxy image to run as a sidecar.
	// +kubebuilder:default="gcr.io/cloud-sql-connectors/cloud-sql-proxy:2.14.2"
	// +optional
	Image string `json:"image,omitempty"`
}

// CILogonConfig configures the CILogon upstream provider.
type CILogonConfig struct {
	// ClientID is the CILogon client identifier. The matching client
	// secret is read from the gateway secret.
	// +kubebuilder:validation:MinLength=1
	ClientID string `json:"clientId"`
}

// GitHubConfig configures the GitHub OAuth upstream provider.
type GitHubConfig struct {
	// ClientID is the GitHub OAuth App client identifier. The matching
	// client secret is read from the gateway secret.
	// +kubebuilder:validation:MinLength=1
	ClientID string `json:"clientId"`
}

// OIDCConfig configures a generic OpenID Connect upstream provider.
type OIDCConfig struct {
	// ClientID is the registered OIDC client identifier. The matching
	// client secret is read from the gateway secret.
	// +kubebuilder:validation:MinLength=1
	ClientID string `json:"clientId"`

	// Provider names the identity provider implementation. When set to
	// "keycloak" and ProvisionClient is true, the operator registers the
	// client in Keycloak and stores the generated client secret.
	// +kubebuilder:validation:Enum=keycloak;generic
	// +kubebuilder:default=generic
	// +optional
	Provider string `json:"provider,omitempty"`

	// ProvisionClient asks the operator to create the OIDC client in the
	// upstream provider. Only supported for the keycloak provider.
	// +optional
	ProvisionClient bool `json:"provisionClient,omitempty"`
}

// LDAPConfig configures LDAP user metadata lookups.
type LDAPConfig struct {
	// URL is the LDAP server URL, e.g. "ldaps://ldap.example.org".
	// +optional
	URL string `json:"url,omitempty"`

	// UserDN is the DN to bind as. When set, a bind password is read from
	// the gateway secret.
	// +optional
	UserDN string `json:"userDn,omitempty"`
}

// OIDCServerConfig configures the gateway's OpenID Connect server mode.
type OIDCServerConfig struct {
	// Enabled turns on OIDC server mode. This requires the registered
	// relying parties and the token signing key to be present in the
	// gateway secret.
	// +optional
	Enabled bool `json:"enabled,omitempty"`

	// Issuer is the issuer URL for tokens minted by the gateway. When
	// unset, the gateway is told to use BaseURL instead.
	// +optional
	Issuer string `json:"issuer,omitempty"`
}

// SlackAlertsConfig enables Slack alerting. Its presence is the switch;
// the webhook URL is stored in the gateway secret.
type SlackAlertsConfig struct{}

// ImageConfig selects the gateway container image.
type ImageConfig struct {
	// Repository is the image repository.
	// +kubebuilder:default="ghcr.io/lsst-sqre/gafaelfawr"
	// +optional
	Repository string `json:"repository,omitempty"`

	// Tag is the image tag.
	// +kubebuilder:default="latest"
	// +optional
	Tag string `json:"tag,omitempty"`
}

// IngressConfig configures exposure through the shared gateway.
type IngressConfig struct {
	// Gateway selects the shared Gateway to attach to, "public" or
	// "internal".
	// +kubebuilder:validation:Enum=public;internal
	// +kubebuilder:default=public
	// +optional
	Gateway string `json:"gateway,omitempty"`

	// TLS configures certificate management for Host.
	// +optional
	TLS *IngressTLSConfig `json:"tls,omitempty"`
}

// IngressTLSConfig configures cert-manager certificate issuance.
type IngressTLSConfig struct {
	// Enabled requests a cert-manager Certificate for Host.
	// +kubebuilder:default=true
	// +optional
	Enabled *bool `json:"enabled,omitempty"`

	// Issuer is the cert-manager ClusterIssuer to use.
	// +kubebuilder:default="letsencrypt"
	// +optional
	Issuer string `json:"issuer,omitempty"`
}

// GafaelfawrStatus defines the observed state of a Gafaelfawr deployment.
type GafaelfawrStatus struct {
	// Conditions represent the current state of the deployment.
	// Standard condition types:
	//   - "SecretsReady": the gateway secret holds every referenced key
	//   - "DeploymentReady": the Deployment and Service exist and match
	//   - "RoutingReady": the HTTPRoute and auth policy are configured
	//   - "TLSReady": the certificate is available (if TLS is enabled)
	//   - "Ready": aggregate condition
	// +listType=map
	// +listMapKey=type
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// ObservedGeneration is the most recent generation observed for this
	// resource.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// SecretName is the Secret the gateway environment references.
	// +optional
	SecretName string `json:"secretName,omitempty"`

	// URL is the external URL of the gateway.
	// +optional
	URL string `json:"url,omitempty"`
}

// Condition types for Gafaelfawr
const (
	// ConditionTypeSecretsReady indicates that every secret key referenced
	// by the gateway environment exists in the gateway secret.
	ConditionTypeSecretsReady = "SecretsReady"

	// ConditionTypeDeploymentReady indicates that the Deployment and
	// Service have been created and match the desired state.
	ConditionTypeDeploymentReady = "DeploymentReady"

	// ConditionTypeRoutingReady indicates that the HTTPRoute and the
	// ext-auth SecurityPolicy have been created.
	ConditionTypeRoutingReady = "RoutingReady"

	// ConditionTypeTLSReady indicates that the cert-manager Certificate
	// has been requested.
	ConditionTypeTLSReady = "TLSReady"

	// ConditionTypeReady is an aggregate condition indicating all
	// components are ready.
	ConditionTypeReady = "Ready"
)

// Condition reasons
const (
	// ReasonReconciling indicates reconciliation is in progress
	ReasonReconciling = "Reconciling"

	// ReasonReconcileSuccess indicates successful reconciliation
	ReasonReconcileSuccess = "ReconcileSuccess"

	// ReasonFailed indicates reconciliation failed
	ReasonFailed = "Failed"

	// ReasonInvalidConfig indicates the spec cannot be resolved into a
	// gateway environment
	ReasonInvalidConfig = "InvalidConfig"

	// ReasonSecretsUnresolved indicates required secret keys are missing
	ReasonSecretsUnresolved = "SecretsUnresolved"

	// ReasonGatewayNotFound indicates the target gateway doesn't exist
	ReasonGatewayNotFound = "GatewayNotFound"
)

// Event reasons for recording Kubernetes events
const (
	// EventReasonInvalidConfig is used when the spec cannot be resolved
	EventReasonInvalidConfig = "InvalidConfig"

	// EventReasonSecretsGenerated is used when missing generated secret
	// keys were filled in
	EventReasonSecretsGenerated = "SecretsGenerated"

	// EventReasonSecretsUnresolved is used when static secret keys are
	// missing from the gateway secret
	EventReasonSecretsUnresolved = "SecretsUnresolved"

	// EventReasonDeploymentCreated is used when the Deployment is created
	EventReasonDeploymentCreated = "DeploymentCreated"

	// EventReasonDeploymentUpdated is used when the Deployment is updated
	EventReasonDeploymentUpdated = "DeploymentUpdated"

	// EventReasonHTTPRouteCreated is used when the HTTPRoute is created
	EventReasonHTTPRouteCreated = "HTTPRouteCreated"

	// EventReasonHTTPRouteUpdated is used when the HTTPRoute is updated
	EventReasonHTTPRouteUpdated = "HTTPRouteUpdated"

	// EventReasonHTTPRouteDeleted is used when the HTTPRoute is deleted
	EventReasonHTTPRouteDeleted = "HTTPRouteDeleted"

	// EventReasonGatewayNotFound is used when the target gateway doesn't
	// exist
	EventReasonGatewayNotFound = "GatewayNotFound"

	// EventReasonCertificateRequested is used when the Certificate is
	// created or updated
	EventReasonCertificateRequested = "CertificateRequested"

	// EventReasonClientProvisioned is used when the upstream OIDC client
	// is provisioned
	EventReasonClientProvisioned = "ClientProvisioned"

	// EventReasonClientProvisionFailed is used when upstream OIDC client
	// provisioning fails
	EventReasonClientProvisionFailed = "ClientProvisionFailed"
)

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=gafaelfawr

// Gafaelfawr is the Schema for the gafaelfawrs API. It describes one
// deployment of the Gafaelfawr authentication gateway: which upstream
// identity provider it uses, which database backend it talks to, and
// which optional features are switched on. The operator renders this into
// a Deployment whose environment binds each setting to a literal value or
// to a key of the gateway secret.
type Gafaelfawr struct {
	metav1.TypeMeta `json:",inline"`

	// metadata is a standard object metadata
	// +optional
	metav1.ObjectMeta `json:"metadata,omitzero"`

	// spec defines the desired state of the gateway deployment
	// +required
	Spec GafaelfawrSpec `json:"spec"`

	// status defines the observed state of the gateway deployment
	// +optional
	Status GafaelfawrStatus `json:"status,omitzero"`
}

// +kubebuilder:object:root=true

// GafaelfawrList contains a list of Gafaelfawr
type GafaelfawrList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitzero"`
	Items           []Gafaelfawr `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Gafaelfawr{}, &GafaelfawrList{})
}
