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
	"testing"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/bindings"
)

func newTestReconciler(t *testing.T, objects ...runtime.Object) (*Reconciler, *runtime.Scheme) {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := corev1.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to add corev1 to scheme: %v", err)
	}
	if err := appsv1.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to add appsv1 to scheme: %v", err)
	}
	if err := gafaelfawrv1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to add gafaelfawr to scheme: %v", err)
	}

	client := fake.NewClientBuilder().WithScheme(scheme).WithRuntimeObjects(objects...).Build()
	return &Reconciler{
		Client:   client,
		Scheme:   scheme,
		Recorder: record.NewFakeRecorder(10),
	}, scheme
}

func newTestGafaelfawr() *gafaelfawrv1alpha1.Gafaelfawr {
	return &gafaelfawrv1alpha1.Gafaelfawr{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "gafaelfawr",
			Namespace: "default",
		},
		Spec: gafaelfawrv1alpha1.GafaelfawrSpec{
			BaseURL: "https://data.example.org",
			Host:    "data.example.org",
		},
	}
}

func TestReconcileCreatesDeploymentAndService(t *testing.T) {
	gw := newTestGafaelfawr()
	r, _ := newTestReconciler(t, gw)

	env := []corev1.EnvVar{
		{Name: "GAFAELFAWR_BASE_URL", Value: "https://data.example.org"},
	}
	if err := r.Reconcile(context.Background(), gw, env, bindings.DatabaseInCluster); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	deployment := &appsv1.Deployment{}
	if err := r.Client.Get(context.Background(), types.NamespacedName{Name: "gafaelfawr", Namespace: "default"}, deployment); err != nil {
		t.Fatalf("failed to get deployment: %v", err)
	}

	containers := deployment.Spec.Template.Spec.Containers
	if len(containers) != 1 {
		t.Fatalf("expected 1 container, got %d", len(containers))
	}
	if containers[0].Name != "gafaelfawr" {
		t.Errorf("expected container name 'gafaelfawr', got %q", containers[0].Name)
	}
	if containers[0].Image != "ghcr.io/lsst-sqre/gafaelfawr:latest" {
		t.Errorf("unexpected image %q", containers[0].Image)
	}
	if len(containers[0].Env) != 1 || containers[0].Env[0].Name != "GAFAELFAWR_BASE_URL" {
		t.Errorf("expected resolved env wired into container, got %v", containers[0].Env)
	}
	if containers[0].LivenessProbe == nil || containers[0].LivenessProbe.HTTPGet.Path != "/health" {
		t.Error("expected liveness probe on /health")
	}

	service := &corev1.Service{}
	if err := r.Client.Get(context.Background(), types.NamespacedName{Name: "gafaelfawr", Namespace: "default"}, service); err != nil {
		t.Fatalf("failed to get service: %v", err)
	}
	if len(service.Spec.Ports) != 1 || service.Spec.Ports[0].Port != 8080 {
		t.Errorf("expected service port 8080, got %v", service.Spec.Ports)
	}
}

func TestReconcileAddsCloudSQLProxySidecar(t *testing.T) {
	gw := newTestGafaelfawr()
	gw.Spec.CloudSQL = &gafaelfawrv1alpha1.CloudSQLConfig{
		Enabled:                true,
		InstanceConnectionName: "proj:region:instance",
	}
	r, _ := newTestReconciler(t, gw)

	if err := r.Reconcile(context.Background(), gw, nil, bindings.DatabaseSidecar); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	deployment := &appsv1.Deployment{}
	if err := r.Client.Get(context.Background(), types.NamespacedName{Name: "gafaelfawr", Namespace: "default"}, deployment); err != nil {
		t.Fatalf("failed to get deployment: %v", err)
	}

	containers := deployment.Spec.Template.Spec.Containers
	if len(containers) != 2 {
		t.Fatalf("expected 2 containers, got %d", len(containers))
	}
	sidecar := containers[1]
	if sidecar.Name != "cloud-sql-proxy" {
		t.Errorf("expected sidecar name 'cloud-sql-proxy', got %q", sidecar.Name)
	}
	found := false
	for _, arg := range sidecar.Args {
		if arg == "proj:region:instance" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected instance connection name in sidecar args, got %v", sidecar.Args)
	}
}

func TestReconcileNoSidecarForProxyMode(t *testing.T) {
	gw := newTestGafaelfawr()
	gw.Spec.CloudSQL = &gafaelfawrv1alpha1.CloudSQLConfig{
		Enabled:                true,
		InstanceConnectionName: "proj:region:instance",
	}
	r, _ := newTestReconciler(t, gw)

	if err := r.Reconcile(context.Background(), gw, nil, bindings.DatabaseCloudSQLProxy); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	deployment := &appsv1.Deployment{}
	if err := r.Client.Get(context.Background(), types.NamespacedName{Name: "gafaelfawr", Namespace: "default"}, deployment); err != nil {
		t.Fatalf("failed to get deployment: %v", err)
	}
	if len(deployment.Spec.Template.Spec.Containers) != 1 {
		t.Errorf("expected no sidecar for proxy service mode, got %d containers",
			len(deployment.Spec.Template.Spec.Containers))
	}
}

func TestImage(t *testing.T) {
	tests := []struct {
		name     string
		image    *gafaelfawrv1alpha1.ImageConfig
		expected string
	}{
		{"default", nil, "ghcr.io/lsst-sqre/gafaelfawr:latest"},
		{"custom tag", &gafaelfawrv1alpha1.ImageConfig{Tag: "13.0.1"}, "ghcr.io/lsst-sqre/gafaelfawr:13.0.1"},
		{"custom repository", &gafaelfawrv1alpha1.ImageConfig{Repository: "example.org/gafaelfawr", Tag: "dev"}, "example.org/gafaelfawr:dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newTestGafaelfawr()
			gw.Spec.Image = tt.image
			if got := Image(gw); got != tt.expected {
				t.Errorf("Image() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestReconcileCustomReplicas(t *testing.T) {
	gw := newTestGafaelfawr()
	replicas := int32(3)
	gw.Spec.Replicas = &replicas
	r, _ := newTestReconciler(t, gw)

	if err := r.Reconcile(context.Background(), gw, nil, bindings.DatabaseInCluster); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	deployment := &appsv1.Deployment{}
	if err := r.Client.Get(context.Background(), types.NamespacedName{Name: "gafaelfawr", Namespace: "default"}, deployment); err != nil {
		t.Fatalf("failed to get deployment: %v", err)
	}
	if deployment.Spec.Replicas == nil || *deployment.Spec.Replicas != 3 {
		t.Errorf("expected 3 replicas, got %v", deployment.Spec.Replicas)
	}
}
