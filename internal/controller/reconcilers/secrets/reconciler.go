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

package secrets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/labels"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/naming"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/secstore"
)

// Reconciler manages the gateway secret: it copies static values from the
// configured secret source, generates the generatable keys, and audits the
// result against the required key set.
type Reconciler struct {
	Client   client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder

	// Source provides static secret values. May be nil, in which case
	// static keys must already be present in the gateway secret.
	Source secstore.Source

	schema *Schema
}

// Audit is the result of checking the gateway secret against the required
// key set.
type Audit struct {
	// Missing lists required static keys with no value anywhere.
	Missing []string

	// Unknown lists keys present in the secret that the schema does not
	// describe.
	Unknown []string

	// Generated lists keys the operator generated during this pass.
	Generated []string
}

// Clean reports whether the audit found nothing to complain about.
// Generated keys are informational, not a defect.
func (a *Audit) Clean() bool {
	return len(a.Missing) == 0 && len(a.Unknown) == 0
}

// Summary renders the audit as a single human-readable line for
// conditions and events.
func (a *Audit) Summary() string {
	var parts []string
	if len(a.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing: %s", strings.Join(a.Missing, ", ")))
	}
	if len(a.Unknown) > 0 {
		parts = append(parts, fmt.Sprintf("unknown: %s", strings.Join(a.Unknown, ", ")))
	}
	if len(parts) == 0 {
		return "all required secret keys present"
	}
	return strings.Join(parts, "; ")
}

// NewReconciler builds a secrets Reconciler with the embedded schema.
func NewReconciler(c client.Client, scheme *runtime.Scheme, recorder record.EventRecorder, source secstore.Source) (*Reconciler, error) {
	schema, err := LoadSchema()
	if err != nil {
		return nil, err
	}
	return &Reconciler{
		Client:   c,
		Scheme:   scheme,
		Recorder: recorder,
		Source:   source,
		schema:   schema,
	}, nil
}

// Reconcile ensures the gateway secret exists and holds the required keys.
// required is the ordered list of secret keys the gateway configuration
// references; values already in the secret are never overwritten.
func (r *Reconciler) Reconcile(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr, required []string) (*Audit, error) {
	logger := log.FromContext(ctx)
	audit := &Audit{}

	var static map[string][]byte
	if r.Source != nil {
		values, err := r.Source.Get(ctx, gw.Name)
		if err != nil && err != secstore.ErrNotFound {
			return nil, fmt.Errorf("failed to read secret source: %w", err)
		}
		static = values
	}

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.SecretName(gw),
			Namespace: gw.Namespace,
		},
	}

	generated := map[string][]byte{}
	op, err := controllerutil.CreateOrUpdate(ctx, r.Client, secret, func() error {
		secret.Labels = labels.MergeLabels(secret.Labels, labels.LabelsWithComponent(gw, "secrets"))
		if secret.Data == nil {
			secret.Data = map[string][]byte{}
		}

		for _, key := range required {
			if _, ok := secret.Data[key]; ok {
				continue
			}
			if value, ok := static[key]; ok {
				secret.Data[key] = value
				continue
			}
			if r.schema.IsGenerated(key, &gw.Spec) {
				value, err := GenerateValue(r.schema.Secrets[key].Generate)
				if err != nil {
					return fmt.Errorf("failed to generate %s: %w", key, err)
				}
				secret.Data[key] = value
				generated[key] = value
				continue
			}
			audit.Missing = append(audit.Missing, key)
		}

		for key := range secret.Data {
			if !r.schema.Knows(key) {
				audit.Unknown = append(audit.Unknown, key)
			}
		}
		sort.Strings(audit.Missing)
		sort.Strings(audit.Unknown)

		return controllerutil.SetControllerReference(gw, secret, r.Scheme)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile secret: %w", err)
	}

	for key := range generated {
		audit.Generated = append(audit.Generated, key)
	}
	sort.Strings(audit.Generated)

	// Persist generated values so the next rotation of the Kubernetes
	// secret does not mint new ones.
	if r.Source != nil && len(generated) > 0 {
		if err := r.Source.Put(ctx, gw.Name, generated); err != nil {
			return nil, fmt.Errorf("failed to store generated secrets: %w", err)
		}
	}

	if len(audit.Generated) > 0 {
		r.Recorder.Event(gw, corev1.EventTypeNormal, gafaelfawrv1alpha1.EventReasonSecretsGenerated,
			fmt.Sprintf("Generated secret keys: %s", strings.Join(audit.Generated, ", ")))
	}
	if len(audit.Missing) > 0 {
		r.Recorder.Event(gw, corev1.EventTypeWarning, gafaelfawrv1alpha1.EventReasonSecretsUnresolved,
			audit.Summary())
	}

	logger.Info("Reconciled gateway secret", "secret", secret.Name, "operation", op,
		"generated", len(audit.Generated), "missing", len(audit.Missing))
	return audit, nil
}
