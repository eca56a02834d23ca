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

package conditions

import (
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
)

// SetCondition sets or updates a condition in the Gafaelfawr status.
// If a condition with the same type already exists, it will be updated.
// The LastTransitionTime is only updated when the status changes.
func SetCondition(gw *gafaelfawrv1alpha1.Gafaelfawr, conditionType string,
	status metav1.ConditionStatus, reason, message string) {

	existingCondition := meta.FindStatusCondition(gw.Status.Conditions, conditionType)

	condition := metav1.Condition{
		Type:               conditionType,
		Status:             status,
		ObservedGeneration: gw.Generation,
		Reason:             reason,
		Message:            message,
	}

	// Only set LastTransitionTime if the condition doesn't exist or the
	// status is changing; meta.SetStatusCondition preserves the existing
	// value when the field is left zero.
	if existingCondition == nil || existingCondition.Status != status {
		condition.LastTransitionTime = metav1.Now()
	}

	meta.SetStatusCondition(&gw.Status.Conditions, condition)
}

// GetCondition returns the condition with the given type from the
// Gafaelfawr status. Returns nil if the condition does not exist.
func GetCondition(gw *gafaelfawrv1alpha1.Gafaelfawr, conditionType string) *metav1.Condition {
	return meta.FindStatusCondition(gw.Status.Conditions, conditionType)
}

// IsConditionTrue checks if a condition exists and is set to True.
func IsConditionTrue(gw *gafaelfawrv1alpha1.Gafaelfawr, conditionType string) bool {
	condition := GetCondition(gw, conditionType)
	return condition != nil && condition.Status == metav1.ConditionTrue
}

// IsConditionFalse checks if a condition exists and is set to False.
func IsConditionFalse(gw *gafaelfawrv1alpha1.Gafaelfawr, conditionType string) bool {
	condition := GetCondition(gw, conditionType)
	return condition != nil && condition.Status == metav1.ConditionFalse
}

// IsConditionUnknown checks if a condition exists and is set to Unknown.
func IsConditionUnknown(gw *gafaelfawrv1alpha1.Gafaelfawr, conditionType string) bool {
	condition := GetCondition(gw, conditionType)
	return condition != nil && condition.Status == metav1.ConditionUnknown
}
