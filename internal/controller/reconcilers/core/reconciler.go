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

package core

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/bindings"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/constants"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/labels"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/naming"
)

// Reconciler manages the gateway Deployment and Service.
type Reconciler struct {
	Client   client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
}

// Reconcile ensures the gateway Deployment and Service match the desired
// state. env is the resolved environment for the gateway container and
// mode selects whether a Cloud SQL Auth Proxy sidecar is added.
func (r *Reconciler) Reconcile(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr,
	env []corev1.EnvVar, mode bindings.DatabaseMode) error {

	if err := r.reconcileDeployment(ctx, gw, env, mode); err != nil {
		return err
	}
	return r.reconcileService(ctx, gw)
}

func (r *Reconciler) reconcileDeployment(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr,
	env []corev1.EnvVar, mode bindings.DatabaseMode) error {

	logger := log.FromContext(ctx)

	deployment := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.DeploymentName(gw),
			Namespace: gw.Namespace,
		},
	}

	op, err := controllerutil.CreateOrUpdate(ctx, r.Client, deployment, func() error {
		deployment.Labels = labels.StandardLabels(gw)

		replicas := int32(1)
		if gw.Spec.Replicas != nil {
			replicas = *gw.Spec.Replicas
		}
		deployment.Spec.Replicas = &replicas
		deployment.Spec.Selector = &metav1.LabelSelector{
			MatchLabels: labels.SelectorLabels(gw),
		}

		containers := []corev1.Container{gatewayContainer(gw, env)}
		if mode == bindings.DatabaseSidecar {
			containers = append(containers, cloudSQLProxyContainer(gw))
		}

		deployment.Spec.Template = corev1.PodTemplateSpec{
			ObjectMeta: metav1.ObjectMeta{
				Labels: labels.StandardLabels(gw),
			},
			Spec: corev1.PodSpec{
				Containers: containers,
			},
		}

		return controllerutil.SetControllerReference(gw, deployment, r.Scheme)
	})
	if err != nil {
		return fmt.Errorf("failed to reconcile deployment: %w", err)
	}

	switch op {
	case controllerutil.OperationResultCreated:
		r.Recorder.Event(gw, corev1.EventTypeNormal, gafaelfawrv1alpha1.EventReasonDeploymentCreated,
			fmt.Sprintf("Created deployment %s", deployment.Name))
	case controllerutil.OperationResultUpdated:
		r.Recorder.Event(gw, corev1.EventTypeNormal, gafaelfawrv1alpha1.EventReasonDeploymentUpdated,
			fmt.Sprintf("Updated deployment %s", deployment.Name))
	}

	logger.Info("Reconciled deployment", "deployment", deployment.Name, "operation", op)
	return nil
}

func (r *Reconciler) reconcileService(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr) error {
	logger := log.FromContext(ctx)

	service := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.ServiceName(gw),
			Namespace: gw.Namespace,
		},
	}

	op, err := controllerutil.CreateOrUpdate(ctx, r.Client, service, func() error {
		service.Labels = labels.StandardLabels(gw)
		service.Spec.Selector = labels.SelectorLabels(gw)
		service.Spec.Ports = []corev1.ServicePort{
			{
				Name:       "http",
				Port:       constants.GatewayPort,
				TargetPort: intstr.FromInt(constants.GatewayPort),
				Protocol:   corev1.ProtocolTCP,
			},
		}
		return controllerutil.SetControllerReference(gw, service, r.Scheme)
	})
	if err != nil {
		return fmt.Errorf("failed to reconcile service: %w", err)
	}

	logger.Info("Reconciled service", "service", service.Name, "operation", op)
	return nil
}

// gatewayContainer builds the main Gafaelfawr container.
func gatewayContainer(gw *gafaelfawrv1alpha1.Gafaelfawr, env []corev1.EnvVar) corev1.Container {
	return corev1.Container{
		Name:  constants.GatewayContainerName,
		Image: Image(gw),
		Env:   env,
		Ports: []corev1.ContainerPort{
			{
				Name:          "http",
				ContainerPort: constants.GatewayPort,
				Protocol:      corev1.ProtocolTCP,
			},
		},
		LivenessProbe: &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				HTTPGet: &corev1.HTTPGetAction{
					Path: constants.HealthPath,
					Port: intstr.FromInt(constants.GatewayPort),
				},
			},
			InitialDelaySeconds: 10,
			PeriodSeconds:       30,
		},
		ReadinessProbe: &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				HTTPGet: &corev1.HTTPGetAction{
					Path: constants.HealthPath,
					Port: intstr.FromInt(constants.GatewayPort),
				},
			},
			InitialDelaySeconds: 2,
			PeriodSeconds:       10,
		},
	}
}

// cloudSQLProxyContainer builds the Cloud SQL Auth Proxy sidecar.
func cloudSQLProxyContainer(gw *gafaelfawrv1alpha1.Gafaelfawr) corev1.Container {
	image := constants.DefaultCloudSQLProxyImage
	if gw.Spec.CloudSQL.Image != "" {
		image = gw.Spec.CloudSQL.Image
	}
	return corev1.Container{
		Name:  constants.CloudSQLProxyContainerName,
		Image: image,
		Args: []string{
			"--structured-logs",
			"--port=5432",
			gw.Spec.CloudSQL.InstanceConnectionName,
		},
		SecurityContext: &corev1.SecurityContext{
			RunAsNonRoot: boolPtr(true),
		},
	}
}

// Image returns the gateway container image for the given resource.
func Image(gw *gafaelfawrv1alpha1.Gafaelfawr) string {
	repository := constants.DefaultImageRepository
	tag := constants.DefaultImageTag
	if gw.Spec.Image != nil {
		if gw.Spec.Image.Repository != "" {
			repository = gw.Spec.Image.Repository
		}
		if gw.Spec.Image.Tag != "" {
			tag = gw.Spec.Image.Tag
		}
	}
	return fmt.Sprintf("%s:%s", repository, tag)
}

func boolPtr(b bool) *bool {
	return &b
}
