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

package labels

import (
	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
)

// StandardLabels returns the standard set of labels for Gafaelfawr-owned
// resources. These labels follow Kubernetes recommended label conventions.
func StandardLabels(gw *gafaelfawrv1alpha1.Gafaelfawr) map[string]string {
	return map[string]string{
		"app.kubernetes.io/name":       "gafaelfawr",
		"app.kubernetes.io/instance":   gw.Name,
		"app.kubernetes.io/managed-by": "gafaelfawr-operator",
		"app.kubernetes.io/component":  "auth-gateway",
	}
}

// LabelsWithComponent returns standard labels with a custom component value.
func LabelsWithComponent(gw *gafaelfawrv1alpha1.Gafaelfawr, component string) map[string]string {
	labels := StandardLabels(gw)
	labels["app.kubernetes.io/component"] = component
	return labels
}

// SelectorLabels returns the subset of labels safe to use as a Deployment
// selector. Selectors are immutable, so this set must never change.
func SelectorLabels(gw *gafaelfawrv1alpha1.Gafaelfawr) map[string]string {
	return map[string]string{
		"app.kubernetes.io/name":     "gafaelfawr",
		"app.kubernetes.io/instance": gw.Name,
	}
}

// MergeLabels merges multiple label maps, with later maps taking precedence.
func MergeLabels(labelMaps ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, labels := range labelMaps {
		for k, v := range labels {
			result[k] = v
		}
	}
	return result
}
