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

package routing

import (
	"context"
	"fmt"

	egv1alpha1 "github.com/envoyproxy/gateway/api/v1alpha1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"
	gwapiv1 "sigs.k8s.io/gateway-api/apis/v1"
	gwapiv1a2 "sigs.k8s.io/gateway-api/apis/v1alpha2"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/constants"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/naming"
)

// authHeaders are the identity headers the auth subrequest endpoint
// returns and the policy forwards to the backend.
var authHeaders = []string{
	"X-Auth-Request-User",
	"X-Auth-Request-Email",
	"X-Auth-Request-Token",
}

// reconcileSecurityPolicy creates or updates the ext-auth SecurityPolicy.
// The policy targets only the api rule of the HTTPRoute, so the gateway's
// own login and subrequest endpoints stay reachable; every request to the
// protected rule is sent to the auth subrequest endpoint first.
func (r *RoutingReconciler) reconcileSecurityPolicy(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr) error {
	logger := log.FromContext(ctx)

	securityPolicyName := naming.SecurityPolicyName(gw)
	securityPolicy := &egv1alpha1.SecurityPolicy{
		ObjectMeta: metav1.ObjectMeta{
			Name:      securityPolicyName,
			Namespace: gw.Namespace,
		},
	}

	op, err := controllerutil.CreateOrUpdate(ctx, r.Client, securityPolicy, func() error {
		if err := controllerutil.SetControllerReference(gw, securityPolicy, r.Scheme); err != nil {
			return fmt.Errorf("failed to set controller reference: %w", err)
		}
		securityPolicy.Spec = r.buildSecurityPolicySpec(gw)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create or update SecurityPolicy: %w", err)
	}

	logger.Info("SecurityPolicy reconciled", "name", securityPolicyName, "operation", op)
	return nil
}

// buildSecurityPolicySpec constructs the ext-auth SecurityPolicy spec.
func (r *RoutingReconciler) buildSecurityPolicySpec(gw *gafaelfawrv1alpha1.Gafaelfawr) egv1alpha1.SecurityPolicySpec {
	group := gwapiv1.Group("gateway.networking.k8s.io")
	kind := gwapiv1.Kind("HTTPRoute")
	routeName := gwapiv1.ObjectName(naming.HTTPRouteName(gw))
	apiRule := gwapiv1.SectionName(RuleNameAPI)

	httpRouteRef := gwapiv1a2.LocalPolicyTargetReferenceWithSectionName{
		LocalPolicyTargetReference: gwapiv1a2.LocalPolicyTargetReference{
			Group: group,
			Kind:  kind,
			Name:  routeName,
		},
		SectionName: &apiRule,
	}

	servicePort := gwapiv1.PortNumber(constants.GatewayPort)

	return egv1alpha1.SecurityPolicySpec{
		PolicyTargetReferences: egv1alpha1.PolicyTargetReferences{
			TargetRefs: []gwapiv1a2.LocalPolicyTargetReferenceWithSectionName{httpRouteRef},
		},
		ExtAuth: &egv1alpha1.ExtAuth{
			HTTP: &egv1alpha1.HTTPExtAuthService{
				BackendCluster: egv1alpha1.BackendCluster{
					BackendRefs: []egv1alpha1.BackendRef{
						{
							BackendObjectReference: gwapiv1.BackendObjectReference{
								Name: gwapiv1.ObjectName(naming.ServiceName(gw)),
								Port: &servicePort,
							},
						},
					},
				},
				Path:             ptrTo(constants.AuthSubrequestPath),
				HeadersToBackend: authHeaders,
			},
		},
	}
}

func ptrTo[T any](v T) *T {
	return &v
}
