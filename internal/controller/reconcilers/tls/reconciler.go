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

package tls

import (
	"context"
	"fmt"

	certmanagerv1 "github.com/cert-manager/cert-manager/pkg/apis/certmanager/v1"
	cmmeta "github.com/cert-manager/cert-manager/pkg/apis/meta/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/conditions"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/labels"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/naming"
)

const (
	// DefaultIssuerName is the cert-manager ClusterIssuer used when none
	// is configured
	DefaultIssuerName = "letsencrypt"

	// Event reasons
	EventReasonTLSDisabled = "TLSDisabled"
)

// TLSReconciler manages the cert-manager Certificate for the gateway host.
type TLSReconciler struct {
	Client   client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
}

// ReconcileTLS ensures a Certificate exists for the gateway host when TLS
// is enabled, and reports readiness through the TLSReady condition.
func (r *TLSReconciler) ReconcileTLS(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr) error {
	logger := log.FromContext(ctx)

	if !tlsEnabled(gw) {
		logger.Info("TLS is disabled", "gafaelfawr", gw.Name)
		r.Recorder.Event(gw, corev1.EventTypeNormal, EventReasonTLSDisabled,
			"TLS is disabled for this gateway")
		conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeTLSReady, metav1.ConditionTrue,
			EventReasonTLSDisabled, "TLS is not enabled")
		return nil
	}

	if gw.Spec.Host == "" {
		err := fmt.Errorf("host is required when TLS is enabled")
		conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeTLSReady, metav1.ConditionFalse,
			"MissingHost", err.Error())
		return err
	}

	certificate := &certmanagerv1.Certificate{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.CertificateName(gw),
			Namespace: gw.Namespace,
		},
	}

	op, err := controllerutil.CreateOrUpdate(ctx, r.Client, certificate, func() error {
		certificate.Labels = labels.LabelsWithComponent(gw, "tls")
		certificate.Spec = certmanagerv1.CertificateSpec{
			SecretName: naming.TLSSecretName(gw),
			DNSNames:   []string{gw.Spec.Host},
			IssuerRef: cmmeta.ObjectReference{
				Name:  issuerName(gw),
				Kind:  "ClusterIssuer",
				Group: "cert-manager.io",
			},
		}
		return controllerutil.SetControllerReference(gw, certificate, r.Scheme)
	})
	if err != nil {
		conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeTLSReady, metav1.ConditionFalse,
			"CertificateFailed", fmt.Sprintf("Failed to reconcile Certificate: %v", err))
		return fmt.Errorf("failed to reconcile certificate: %w", err)
	}

	if op == controllerutil.OperationResultCreated {
		r.Recorder.Event(gw, corev1.EventTypeNormal, gafaelfawrv1alpha1.EventReasonCertificateRequested,
			fmt.Sprintf("Requested certificate %s for %s", certificate.Name, gw.Spec.Host))
	}

	logger.Info("Reconciled certificate", "certificate", certificate.Name, "operation", op)

	if certificateReady(certificate) {
		conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeTLSReady, metav1.ConditionTrue,
			"CertificateReady", fmt.Sprintf("Certificate %s is ready", certificate.Name))
	} else {
		conditions.SetCondition(gw, gafaelfawrv1alpha1.ConditionTypeTLSReady, metav1.ConditionFalse,
			"CertificateNotReady", fmt.Sprintf("Certificate %s is not yet ready", certificate.Name))
	}

	return nil
}

// certificateReady reports whether cert-manager has marked the
// Certificate Ready.
func certificateReady(certificate *certmanagerv1.Certificate) bool {
	for _, cond := range certificate.Status.Conditions {
		if cond.Type == certmanagerv1.CertificateConditionReady {
			return cond.Status == cmmeta.ConditionTrue
		}
	}
	return false
}

func tlsEnabled(gw *gafaelfawrv1alpha1.Gafaelfawr) bool {
	if gw.Spec.Ingress == nil || gw.Spec.Ingress.TLS == nil {
		// TLS defaults on; the shared gateway terminates HTTPS.
		return true
	}
	tls := gw.Spec.Ingress.TLS
	return tls.Enabled == nil || *tls.Enabled
}

func issuerName(gw *gafaelfawrv1alpha1.Gafaelfawr) string {
	if gw.Spec.Ingress != nil && gw.Spec.Ingress.TLS != nil && gw.Spec.Ingress.TLS.Issuer != "" {
		return gw.Spec.Ingress.TLS.Issuer
	}
	return DefaultIssuerName
}
