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

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/conditions"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/constants"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/labels"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/naming"
)

// Route rule names, used as SecurityPolicy section targets. The auth rule
// carries the gateway's own login and subrequest endpoints and must stay
// reachable without authentication; the api rule carries everything else.
const (
	RuleNameAuth = "auth"
	RuleNameAPI  = "api"
)

// publicPaths are the gateway endpoints that must bypass the ext-auth
// policy: login flow, logout, the auth subrequest endpoint itself, health
// checks, and OIDC discovery.
var publicPaths = []string{
	"/login",
	"/logout",
	"/oauth2/callback",
	"/ingress",
	"/health",
	"/.well-known",
}

// RoutingReconciler manages the HTTPRoute and ext-auth SecurityPolicy for
// a Gafaelfawr gateway.
type RoutingReconciler struct {
	Client   client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
}

// ReconcileRouting creates or updates the HTTPRoute and SecurityPolicy.
func (r *RoutingReconciler) ReconcileRouting(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr) error {
	logger := log.FromContext(ctx)

	gatewayName := r.getGatewayName(gw)
	logger.Info("Reconciling routing", "gateway", gatewayName, "host", gw.Spec.Host)

	if err := r.validateGateway(ctx, gatewayName); err != nil {
		logger.Error(err, "Gateway validation failed")
		r.Recorder.Event(gw, corev1.EventTypeWarning, gafaelfawrv1alpha1.EventReasonGatewayNotFound, err.Error())
		conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeRoutingReady, metav1.ConditionFalse,
			gafaelfawrv1alpha1.EventReasonGatewayNotFound, err.Error())
		return err
	}

	if err := r.reconcileHTTPRoute(ctx, gw, gatewayName); err != nil {
		conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeRoutingReady, metav1.ConditionFalse,
			"HTTPRouteFailed", fmt.Sprintf("Failed to reconcile HTTPRoute: %v", err))
		return err
	}

	if err := r.reconcileSecurityPolicy(ctx, gw); err != nil {
		conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeRoutingReady, metav1.ConditionFalse,
			"SecurityPolicyFailed", fmt.Sprintf("Failed to reconcile SecurityPolicy: %v", err))
		return err
	}

	conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeRoutingReady, metav1.ConditionTrue,
		"RoutingReady", "HTTPRoute and SecurityPolicy are configured")
	return nil
}

// CleanupRouting removes the HTTPRoute for a Gafaelfawr gateway. The
// SecurityPolicy is garbage collected through its owner reference.
func (r *RoutingReconciler) CleanupRouting(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr) error {
	logger := log.FromContext(ctx)

	routeName := naming.HTTPRouteName(gw)
	route := &gatewayv1.HTTPRoute{}
	routeKey := client.ObjectKey{
		Name:      routeName,
		Namespace: gw.Namespace,
	}

	if err := r.Client.Get(ctx, routeKey, route); err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}

	if err := r.Client.Delete(ctx, route); err != nil {
		logger.Error(err, "Failed to delete HTTPRoute")
		return err
	}

	logger.Info("Deleted HTTPRoute", "name", routeName)
	r.Recorder.Event(gw, corev1.EventTypeNormal, gafaelfawrv1alpha1.EventReasonHTTPRouteDeleted,
		fmt.Sprintf("Deleted HTTPRoute %s", routeName))

	return nil
}

func (r *RoutingReconciler) reconcileHTTPRoute(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr, gatewayName string) error {
	logger := log.FromContext(ctx)

	desiredRoute := r.buildHTTPRoute(gw, gatewayName)

	existingRoute := &gatewayv1.HTTPRoute{}
	routeKey := client.ObjectKey{
		Name:      desiredRoute.Name,
		Namespace: desiredRoute.Namespace,
	}

	err := r.Client.Get(ctx, routeKey, existingRoute)
	if err != nil {
		if errors.IsNotFound(err) {
			if err := r.Client.Create(ctx, desiredRoute); err != nil {
				logger.Error(err, "Failed to create HTTPRoute")
				return err
			}
			logger.Info("Created HTTPRoute", "name", desiredRoute.Name)
			r.Recorder.Event(gw, corev1.EventTypeNormal, gafaelfawrv1alpha1.EventReasonHTTPRouteCreated,
				fmt.Sprintf("Created HTTPRoute %s", desiredRoute.Name))
			return nil
		}
		return err
	}

	existingRoute.Spec = desiredRoute.Spec
	if err := r.Client.Update(ctx, existingRoute); err != nil {
		// Conflicts are expected under concurrent reconciliation; the
		// controller will retry on the next pass.
		if errors.IsConflict(err) {
			logger.V(1).Info("HTTPRoute update conflict, will retry", "name", existingRoute.Name)
			return nil
		}
		logger.Error(err, "Failed to update HTTPRoute")
		return err
	}

	logger.Info("Updated HTTPRoute", "name", existingRoute.Name)
	r.Recorder.Event(gw, corev1.EventTypeNormal, gafaelfawrv1alpha1.EventReasonHTTPRouteUpdated,
		fmt.Sprintf("Updated HTTPRoute %s", existingRoute.Name))

	return nil
}

// buildHTTPRoute generates the HTTPRoute for the gateway. The route has
// two rules: the auth rule for public endpoints and the api rule for the
// token API, which the ext-auth SecurityPolicy targets by section name.
func (r *RoutingReconciler) buildHTTPRoute(gw *gafaelfawrv1alpha1.Gafaelfawr, gatewayName string) *gatewayv1.HTTPRoute {
	routeName := naming.HTTPRouteName(gw)
	namespace := gatewayv1.Namespace(constants.GatewayNamespace)

	// Attach to the https listener unless TLS is explicitly disabled.
	sectionName := gatewayv1.SectionName("https")
	if tls := tlsConfig(gw); tls != nil && tls.Enabled != nil && !*tls.Enabled {
		sectionName = gatewayv1.SectionName("http")
	}

	servicePort := gatewayv1.PortNumber(constants.GatewayPort)
	backendRefs := []gatewayv1.HTTPBackendRef{
		{
			BackendRef: gatewayv1.BackendRef{
				BackendObjectReference: gatewayv1.BackendObjectReference{
					Name: gatewayv1.ObjectName(naming.ServiceName(gw)),
					Port: &servicePort,
				},
			},
		},
	}

	authMatches := make([]gatewayv1.HTTPRouteMatch, 0, len(publicPaths))
	pathType := gatewayv1.PathMatchPathPrefix
	for _, path := range publicPaths {
		p := path
		authMatches = append(authMatches, gatewayv1.HTTPRouteMatch{
			Path: &gatewayv1.HTTPPathMatch{
				Type:  &pathType,
				Value: &p,
			},
		})
	}

	rootPath := "/"
	authRuleName := gatewayv1.SectionName(RuleNameAuth)
	apiRuleName := gatewayv1.SectionName(RuleNameAPI)

	route := &gatewayv1.HTTPRoute{
		ObjectMeta: metav1.ObjectMeta{
			Name:      routeName,
			Namespace: gw.Namespace,
			Labels:    labels.LabelsWithComponent(gw, "routing"),
		},
		Spec: gatewayv1.HTTPRouteSpec{
			CommonRouteSpec: gatewayv1.CommonRouteSpec{
				ParentRefs: []gatewayv1.ParentReference{
					{
						Name:        gatewayv1.ObjectName(gatewayName),
						Namespace:   &namespace,
						SectionName: &sectionName,
					},
				},
			},
			Hostnames: []gatewayv1.Hostname{
				gatewayv1.Hostname(gw.Spec.Host),
			},
			Rules: []gatewayv1.HTTPRouteRule{
				{
					Name:        &authRuleName,
					Matches:     authMatches,
					BackendRefs: backendRefs,
				},
				{
					Name: &apiRuleName,
					Matches: []gatewayv1.HTTPRouteMatch{
						{
							Path: &gatewayv1.HTTPPathMatch{
								Type:  &pathType,
								Value: &rootPath,
							},
						},
					},
					BackendRefs: backendRefs,
				},
			},
		},
	}

	_ = controllerutil.SetControllerReference(gw, route, r.Scheme)

	return route
}

// getGatewayName returns the shared Gateway to attach to.
func (r *RoutingReconciler) getGatewayName(gw *gafaelfawrv1alpha1.Gafaelfawr) string {
	if gw.Spec.Ingress != nil && gw.Spec.Ingress.Gateway == "internal" {
		return constants.InternalGatewayName
	}
	return constants.PublicGatewayName
}

// validateGateway checks if the specified gateway exists.
func (r *RoutingReconciler) validateGateway(ctx context.Context, gatewayName string) error {
	gateway := &gatewayv1.Gateway{}
	gatewayKey := client.ObjectKey{
		Name:      gatewayName,
		Namespace: constants.GatewayNamespace,
	}

	if err := r.Client.Get(ctx, gatewayKey, gateway); err != nil {
		if errors.IsNotFound(err) {
			return fmt.Errorf("gateway %s not found in namespace %s", gatewayName, constants.GatewayNamespace)
		}
		return fmt.Errorf("failed to get gateway: %w", err)
	}

	return nil
}

func tlsConfig(gw *gafaelfawrv1alpha1.Gafaelfawr) *gafaelfawrv1alpha1.IngressTLSConfig {
	if gw.Spec.Ingress == nil {
		return nil
	}
	return gw.Spec.Ingress.TLS
}
