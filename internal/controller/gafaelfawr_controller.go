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

package controller

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/tools/record"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/bindings"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/config"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/reconcilers/core"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/reconcilers/oidc"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/reconcilers/routing"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/reconcilers/secrets"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/reconcilers/tls"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/conditions"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/constants"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/naming"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/validation"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/secstore"
)

// GafaelfawrReconciler reconciles a Gafaelfawr object
type GafaelfawrReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder

	// Config carries operator-level settings loaded at startup.
	Config *config.Config

	// Source provides static secret values for the secrets reconciler.
	// May be nil.
	Source secstore.Source

	SecretsReconciler *secrets.Reconciler
	CoreReconciler    *core.Reconciler
	RoutingReconciler *routing.RoutingReconciler
	TLSReconciler     *tls.TLSReconciler
	Provisioner       *oidc.ClientProvisioner
}

// +kubebuilder:rbac:groups=gafaelfawr.lsst.io,resources=gafaelfawrs,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=gafaelfawr.lsst.io,resources=gafaelfawrs/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=gafaelfawr.lsst.io,resources=gafaelfawrs/finalizers,verbs=update
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=services,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=secrets,verbs=get;list;watch;create;update;patch
// +kubebuilder:rbac:groups=core,resources=events,verbs=create;patch
// +kubebuilder:rbac:groups=gateway.networking.k8s.io,resources=httproutes,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=gateway.networking.k8s.io,resources=gateways,verbs=get;list;watch
// +kubebuilder:rbac:groups=cert-manager.io,resources=certificates,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=gateway.envoyproxy.io,resources=securitypolicies,verbs=get;list;watch;create;update;patch;delete

// Reconcile is part of the main kubernetes reconciliation loop which aims to
// move the current state of the cluster closer to the desired state.
func (r *GafaelfawrReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := logf.FromContext(ctx)

	logger.Info("Reconciling Gafaelfawr", "name", req.Name, "namespace", req.Namespace)

	gw := &gafaelfawrv1alpha1.Gafaelfawr{}
	if err := r.Get(ctx, req.NamespacedName, gw); err != nil {
		if errors.IsNotFound(err) {
			// Owned objects are garbage collected; external state is cleaned
			// up through the finalizer before deletion completes.
			logger.Info("Gafaelfawr resource not found. Ignoring since object must be deleted")
			return ctrl.Result{}, nil
		}
		logger.Error(err, "Failed to get Gafaelfawr")
		return ctrl.Result{}, err
	}

	if err := r.initReconcilers(); err != nil {
		return ctrl.Result{}, err
	}

	// Handle finalizer
	if gw.DeletionTimestamp.IsZero() {
		if !controllerutil.ContainsFinalizer(gw, constants.GafaelfawrFinalizer) {
			controllerutil.AddFinalizer(gw, constants.GafaelfawrFinalizer)
			if err := r.Update(ctx, gw); err != nil {
				return ctrl.Result{}, err
			}
		}
	} else {
		if controllerutil.ContainsFinalizer(gw, constants.GafaelfawrFinalizer) {
			if err := r.cleanup(ctx, gw); err != nil {
				logger.Error(err, "Failed to cleanup resources")
				return ctrl.Result{}, err
			}

			controllerutil.RemoveFinalizer(gw, constants.GafaelfawrFinalizer)
			if err := r.Update(ctx, gw); err != nil {
				return ctrl.Result{}, err
			}
		}
		return ctrl.Result{}, nil
	}

	conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeReady, metav1.ConditionUnknown,
		gafaelfawrv1alpha1.ReasonReconciling, "Reconciliation in progress")

	if err := validation.ValidateSpec(gw); err != nil {
		logger.Error(err, "Spec validation failed")
		return r.failInvalid(ctx, gw, err)
	}

	// Resolve the gateway environment before touching any cluster state:
	// a spec that cannot be resolved produces no resources at all.
	bctx := r.bindingContext(gw)
	resolved, err := bindings.Resolve(&gw.Spec, bctx)
	if err != nil {
		logger.Error(err, "Binding resolution failed")
		return r.failInvalid(ctx, gw, err)
	}

	// Provision the upstream OIDC client first so the client secret is in
	// place before the gateway secret is audited.
	if provisionRequested(gw) {
		if r.Provisioner == nil {
			err := fmt.Errorf("client provisioning requested but Keycloak is not configured for the operator")
			r.Recorder.Event(gw, corev1.EventTypeWarning, gafaelfawrv1alpha1.EventReasonClientProvisionFailed, err.Error())
			return r.failInvalid(ctx, gw, err)
		}
		if err := r.Provisioner.ProvisionClient(ctx, gw); err != nil {
			logger.Error(err, "Client provisioning failed")
			r.Recorder.Event(gw, corev1.EventTypeWarning, gafaelfawrv1alpha1.EventReasonClientProvisionFailed,
				fmt.Sprintf("Failed to provision OIDC client: %v", err))
			return r.failRetry(ctx, gw, fmt.Errorf("client provisioning failed: %w", err))
		}
		r.Recorder.Event(gw, corev1.EventTypeNormal, gafaelfawrv1alpha1.EventReasonClientProvisioned,
			"Provisioned OIDC client in Keycloak")
	}

	required := bindings.SecretKeys(resolved)
	if gw.Spec.SecretName != "" {
		// A secretName override means the secret is managed outside the
		// operator; validate it instead of reconciling it.
		missing, err := validation.ValidateSecret(ctx, r.Client, gw.Namespace, gw.Spec.SecretName, required)
		if err != nil || len(missing) > 0 {
			message := fmt.Sprintf("secret %s is missing keys: %v", gw.Spec.SecretName, missing)
			if err != nil {
				message = err.Error()
			}
			conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeSecretsReady, metav1.ConditionFalse,
				gafaelfawrv1alpha1.ReasonSecretsUnresolved, message)
			r.Recorder.Event(gw, corev1.EventTypeWarning, gafaelfawrv1alpha1.EventReasonSecretsUnresolved, message)
			return r.failRetry(ctx, gw, fmt.Errorf("secrets unresolved: %s", message))
		}
		conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeSecretsReady, metav1.ConditionTrue,
			gafaelfawrv1alpha1.ReasonReconcileSuccess, "all required secret keys present")
	} else {
		audit, err := r.SecretsReconciler.Reconcile(ctx, gw, required)
		if err != nil {
			logger.Error(err, "Secrets reconciliation failed")
			return r.failRetry(ctx, gw, fmt.Errorf("secrets reconciliation failed: %w", err))
		}
		if !audit.Clean() {
			conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeSecretsReady, metav1.ConditionFalse,
				gafaelfawrv1alpha1.ReasonSecretsUnresolved, audit.Summary())
			return r.failRetry(ctx, gw, fmt.Errorf("secrets unresolved: %s", audit.Summary()))
		}
		conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeSecretsReady, metav1.ConditionTrue,
			gafaelfawrv1alpha1.ReasonReconcileSuccess, audit.Summary())
	}

	mode := bindings.DatabaseModeFor(&gw.Spec, bctx)
	if err := r.CoreReconciler.Reconcile(ctx, gw, bindings.EnvVars(resolved), mode); err != nil {
		logger.Error(err, "Core reconciliation failed")
		conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeDeploymentReady, metav1.ConditionFalse,
			gafaelfawrv1alpha1.ReasonFailed, fmt.Sprintf("Core reconciliation failed: %v", err))
		return r.failRetry(ctx, gw, err)
	}
	conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeDeploymentReady, metav1.ConditionTrue,
		gafaelfawrv1alpha1.ReasonReconcileSuccess,
		fmt.Sprintf("Deployment and Service reconciled (database mode %s)", mode))

	if gw.Spec.Host != "" {
		if err := r.RoutingReconciler.ReconcileRouting(ctx, gw); err != nil {
			logger.Error(err, "Routing reconciliation failed")
			return r.failRetry(ctx, gw, err)
		}
		if err := r.TLSReconciler.ReconcileTLS(ctx, gw); err != nil {
			logger.Error(err, "TLS reconciliation failed")
			return r.failRetry(ctx, gw, err)
		}
	} else {
		// Without a host the gateway is only reachable inside the cluster.
		conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeRoutingReady, metav1.ConditionFalse,
			"HostNotConfigured", "No host configured; skipping HTTPRoute reconciliation")
		conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeTLSReady, metav1.ConditionFalse,
			"HostNotConfigured", "No host configured; skipping certificate reconciliation")
		logger.Info("Host not configured, skipping routing and TLS", "gafaelfawr", gw.Name)
	}

	conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeReady, metav1.ConditionTrue,
		gafaelfawrv1alpha1.ReasonReconcileSuccess, "Gafaelfawr reconciled successfully")

	gw.Status.ObservedGeneration = gw.Generation
	gw.Status.SecretName = naming.SecretName(gw)
	gw.Status.URL = gw.Spec.BaseURL

	if err := r.Status().Update(ctx, gw); err != nil {
		logger.Error(err, "Failed to update Gafaelfawr status")
		return ctrl.Result{}, err
	}

	logger.Info("Successfully reconciled Gafaelfawr")
	return ctrl.Result{RequeueAfter: time.Minute}, nil
}

// failInvalid records a configuration failure and requeues with a long
// delay: invalid specs do not fix themselves.
func (r *GafaelfawrReconciler) failInvalid(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr, err error) (ctrl.Result, error) {
	r.Recorder.Event(gw, corev1.EventTypeWarning, gafaelfawrv1alpha1.EventReasonInvalidConfig, err.Error())
	conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeReady, metav1.ConditionFalse,
		gafaelfawrv1alpha1.ReasonInvalidConfig, err.Error())
	if err := r.Status().Update(ctx, gw); err != nil {
		return ctrl.Result{}, err
	}
	return ctrl.Result{RequeueAfter: 5 * time.Minute}, nil
}

// failRetry records a transient failure and requeues with a short delay.
func (r *GafaelfawrReconciler) failRetry(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr, err error) (ctrl.Result, error) {
	conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeReady, metav1.ConditionFalse,
		gafaelfawrv1alpha1.ReasonFailed, err.Error())
	if err := r.Status().Update(ctx, gw); err != nil {
		return ctrl.Result{}, err
	}
	return ctrl.Result{RequeueAfter: time.Minute}, nil
}

// bindingContext derives the deployment context for binding resolution
// from the resource and its placement.
func (r *GafaelfawrReconciler) bindingContext(gw *gafaelfawrv1alpha1.Gafaelfawr) bindings.Context {
	sidecar := true
	if gw.Spec.CloudSQL != nil && gw.Spec.CloudSQL.Sidecar != nil {
		sidecar = *gw.Spec.CloudSQL.Sidecar
	}
	return bindings.Context{
		SecretName:       naming.SecretName(gw),
		Sidecar:          sidecar,
		Namespace:        gw.Namespace,
		ReleaseName:      gw.Name,
		ReleaseNamespace: gw.Namespace,
	}
}

func (r *GafaelfawrReconciler) initReconcilers() error {
	if r.SecretsReconciler == nil {
		reconciler, err := secrets.NewReconciler(r.Client, r.Scheme, r.Recorder, r.Source)
		if err != nil {
			return fmt.Errorf("failed to initialize secrets reconciler: %w", err)
		}
		r.SecretsReconciler = reconciler
	}

	if r.CoreReconciler == nil {
		r.CoreReconciler = &core.Reconciler{
			Client:   r.Client,
			Scheme:   r.Scheme,
			Recorder: r.Recorder,
		}
	}

	if r.RoutingReconciler == nil {
		r.RoutingReconciler = &routing.RoutingReconciler{
			Client:   r.Client,
			Scheme:   r.Scheme,
			Recorder: r.Recorder,
		}
	}

	if r.TLSReconciler == nil {
		r.TLSReconciler = &tls.TLSReconciler{
			Client:   r.Client,
			Scheme:   r.Scheme,
			Recorder: r.Recorder,
		}
	}

	if r.Provisioner == nil && r.Config != nil && r.Config.Auth.Keycloak.Enabled {
		keycloak := r.Config.Auth.Keycloak
		r.Provisioner = oidc.NewClientProvisioner(r.Client, keycloak.URL, keycloak.Realm,
			keycloak.AdminUsername, keycloak.AdminPassword)
	}

	return nil
}

// provisionRequested reports whether the spec asks for an OIDC client to
// be provisioned in Keycloak.
func provisionRequested(gw *gafaelfawrv1alpha1.Gafaelfawr) bool {
	return gw.Spec.OIDC != nil &&
		gw.Spec.OIDC.Provider == constants.ProviderKeycloak &&
		gw.Spec.OIDC.ProvisionClient
}

// cleanup removes resources created for this Gafaelfawr that garbage
// collection does not cover: the HTTPRoute, the SecurityPolicy, and the
// provisioned Keycloak client.
func (r *GafaelfawrReconciler) cleanup(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr) error {
	logger := logf.FromContext(ctx)
	logger.Info("Cleaning up resources for Gafaelfawr", "name", gw.Name, "namespace", gw.Namespace)

	r.Recorder.Event(gw, corev1.EventTypeNormal, "Cleanup", "Starting resource cleanup")

	if r.RoutingReconciler != nil {
		if err := r.RoutingReconciler.CleanupRouting(ctx, gw); err != nil {
			logger.Error(err, "Failed to delete routing resources")
			return err
		}
	}

	if r.Provisioner != nil && provisionRequested(gw) {
		if err := r.Provisioner.DeleteClient(ctx, gw); err != nil {
			logger.Error(err, "Failed to delete Keycloak client")
			return err
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

// SetupWithManager sets up the controller with the Manager.
func (r *GafaelfawrReconciler) SetupWithManager(mgr ctrl.Manager) error {
	r.Recorder = mgr.GetEventRecorderFor("gafaelfawr-controller")

	return ctrl.NewControllerManagedBy(mgr).
		For(&gafaelfawrv1alpha1.Gafaelfawr{}).
		Owns(&appsv1.Deployment{}).
		Owns(&corev1.Service{}).
		Owns(&corev1.Secret{}).
		Named("gafaelfawr").
		Complete(r)
}
