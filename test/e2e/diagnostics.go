//go:build e2e
// +build e2e

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

package e2e

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/lsst-sqre/gafaelfawr-operator/test/utils"
)

// DiagnosticInfo collects diagnostic information about a resource for
// debugging test failures: the resource YAML, its events, recent
// namespace events, and the operator logs.
func DiagnosticInfo(namespace, resourceType, resourceName string) string {
	diagnostics := fmt.Sprintf("\n=== %s/%s Diagnostic Information ===\n", resourceType, resourceName)

	cmd := exec.Command("kubectl", "get", resourceType, resourceName, "-n", namespace, "-o", "yaml")
	if output, err := utils.Run(cmd); err == nil {
		diagnostics += fmt.Sprintf("\n--- Resource YAML ---\n%s\n", output)
	} else {
		diagnostics += fmt.Sprintf("\n--- Resource YAML ---\nError: %v\n", err)
	}

	cmd = exec.Command("kubectl", "get", "events", "-n", namespace,
		"--field-selector", fmt.Sprintf("involvedObject.name=%s", resourceName),
		"--sort-by=.lastTimestamp")
	if output, err := utils.Run(cmd); err == nil && output != "" {
		diagnostics += fmt.Sprintf("\n--- Resource Events ---\n%s\n", output)
	}

	cmd = exec.Command("kubectl", "get", "events", "-n", namespace,
		"--sort-by=.lastTimestamp", "--limit=20")
	if output, err := utils.Run(cmd); err == nil && output != "" {
		diagnostics += fmt.Sprintf("\n--- Recent Namespace Events ---\n%s\n", output)
	}

	// For Gafaelfawr resources, include the owned routing objects.
	if resourceType == "gafaelfawr" {
		routeName := resourceName + "-route"
		cmd = exec.Command("kubectl", "get", "httproute", routeName, "-n", namespace, "-o", "yaml")
		if output, err := utils.Run(cmd); err == nil {
			diagnostics += fmt.Sprintf("\n--- Related HTTPRoute ---\n%s\n", output)
		} else {
			diagnostics += fmt.Sprintf("\n--- Related HTTPRoute ---\nNot found or error: %v\n", err)
		}

		policyName := resourceName + "-extauth"
		cmd = exec.Command("kubectl", "get", "securitypolicy", policyName, "-n", namespace, "-o", "yaml")
		if output, err := utils.Run(cmd); err == nil && !strings.Contains(output, "No resources found") {
			diagnostics += fmt.Sprintf("\n--- Related SecurityPolicy ---\n%s\n", output)
		}
	}

	cmd = exec.Command("kubectl", "logs", "-n", "gafaelfawr-operator-system",
		"-l", "control-plane=controller-manager",
		"--tail=50", "--timestamps")
	if output, err := utils.Run(cmd); err == nil {
		diagnostics += fmt.Sprintf("\n--- Operator Logs (last 50 lines) ---\n%s\n", output)
	}

	diagnostics += "\n=== End Diagnostics ===\n"
	return diagnostics
}

// GafaelfawrDiagnostics provides comprehensive diagnostics for Gafaelfawr failures
func GafaelfawrDiagnostics(namespace, name string) string {
	return DiagnosticInfo(namespace, "gafaelfawr", name)
}

// HTTPRouteDiagnostics provides diagnostics for HTTPRoute issues
func HTTPRouteDiagnostics(namespace, routeName string) string {
	diagnostics := DiagnosticInfo(namespace, "httproute", routeName)

	cmd := exec.Command("kubectl", "get", "gateway", "-n", "envoy-gateway-system", "-o", "yaml")
	if output, err := utils.Run(cmd); err == nil {
		diagnostics += fmt.Sprintf("\n--- Gateway Status ---\n%s\n", output)
	}

	return diagnostics
}
