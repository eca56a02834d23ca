package naming

import (
	"fmt"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/constants"
)

// ResourceName generates a consistent resource name for Gafaelfawr-owned
// resources. Pattern: <gafaelfawr-name>-<resource-type>
//
// Examples:
//   - ResourceName(gw, "route") -> "gafaelfawr-route"
//   - ResourceName(gw, "extauth") -> "gafaelfawr-extauth"
//   - ResourceName(gw, "cert") -> "gafaelfawr-cert"
func ResourceName(gw *gafaelfawrv1alpha1.Gafaelfawr, resourceType string) string {
	return fmt.Sprintf("%s-%s", gw.Name, resourceType)
}

// SecretName returns the name of the gateway secret: the spec override if
// set, otherwise the resource name itself.
func SecretName(gw *gafaelfawrv1alpha1.Gafaelfawr) string {
	if gw.Spec.SecretName != "" {
		return gw.Spec.SecretName
	}
	return gw.Name
}

// DeploymentName returns the name of the gateway Deployment. The
// Deployment carries the resource name directly so that service DNS
// stays predictable.
func DeploymentName(gw *gafaelfawrv1alpha1.Gafaelfawr) string {
	return gw.Name
}

// ServiceName returns the name of the gateway Service.
func ServiceName(gw *gafaelfawrv1alpha1.Gafaelfawr) string {
	return gw.Name
}

// HTTPRouteName generates the name for an HTTPRoute.
// Pattern: <gafaelfawr-name>-route
func HTTPRouteName(gw *gafaelfawrv1alpha1.Gafaelfawr) string {
	return ResourceName(gw, constants.HTTPRouteSuffix)
}

// SecurityPolicyName generates the name for the ext-auth SecurityPolicy.
// Pattern: <gafaelfawr-name>-extauth
func SecurityPolicyName(gw *gafaelfawrv1alpha1.Gafaelfawr) string {
	return ResourceName(gw, constants.SecurityPolicySuffix)
}

// CertificateName generates the name for the cert-manager Certificate.
// Pattern: <gafaelfawr-name>-cert
func CertificateName(gw *gafaelfawrv1alpha1.Gafaelfawr) string {
	return ResourceName(gw, constants.CertificateSuffix)
}

// TLSSecretName generates the name of the secret cert-manager writes the
// certificate into. Pattern: <gafaelfawr-name>-tls
func TLSSecretName(gw *gafaelfawrv1alpha1.Gafaelfawr) string {
	return ResourceName(gw, constants.TLSSecretSuffix)
}

// OIDCClientID returns the upstream OIDC client ID to provision when none
// is configured explicitly. Pattern: <namespace>-<gafaelfawr-name>
// This ensures uniqueness across namespaces.
func OIDCClientID(gw *gafaelfawrv1alpha1.Gafaelfawr) string {
	return fmt.Sprintf("%s-%s", gw.Namespace, gw.Name)
}
