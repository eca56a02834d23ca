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

package utils

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	. "github.com/onsi/ginkgo/v2" // nolint:revive,staticcheck
)

const (
	defaultKindBinary  = "kind"
	defaultKindCluster = "kind"
)

// Run executes the provided command within this context
func Run(cmd *exec.Cmd) (string, error) {
	dir, _ := GetProjectDir()
	cmd.Dir = dir

	if err := os.Chdir(cmd.Dir); err != nil {
		_, _ = fmt.Fprintf(GinkgoWriter, "chdir dir: %q\n", err)
	}

	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	command := strings.Join(cmd.Args, " ")
	_, _ = fmt.Fprintf(GinkgoWriter, "running: %q\n", command)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%q failed with error %q: %w", command, string(output), err)
	}

	return string(output), nil
}

// IsCertManagerInstalled checks if cert-manager is installed by checking for its CRDs.
func IsCertManagerInstalled() bool {
	cmd := exec.Command("kubectl", "get", "crd", "certificates.cert-manager.io")
	_, err := Run(cmd)
	return err == nil
}

// IsEnvoyGatewayInstalled checks if Envoy Gateway is installed.
func IsEnvoyGatewayInstalled() bool {
	cmd := exec.Command("kubectl", "get", "deployment", "envoy-gateway", "-n", "envoy-gateway-system")
	_, err := Run(cmd)
	return err == nil
}

// IsGatewayAPIInstalled checks if Gateway API CRDs are installed.
func IsGatewayAPIInstalled() bool {
	cmd := exec.Command("kubectl", "get", "crd", "gateways.gateway.networking.k8s.io")
	_, err := Run(cmd)
	return err == nil
}

// IsGatewayReady checks if the shared science platform gateway exists.
func IsGatewayReady() bool {
	cmd := exec.Command("kubectl", "get", "gateway", "science-platform-gateway", "-n", "envoy-gateway-system")
	_, err := Run(cmd)
	return err == nil
}

// CreateKindCluster creates a kind cluster with the given name
func CreateKindCluster() error {
	cluster := defaultKindCluster
	if v, ok := os.LookupEnv("KIND_CLUSTER"); ok {
		cluster = v
	}
	kindBinary := defaultKindBinary
	if v, ok := os.LookupEnv("KIND"); ok {
		kindBinary = v
	}

	// Reuse a healthy existing cluster instead of recreating it.
	checkCmd := exec.Command(kindBinary, "get", "clusters")
	output, err := Run(checkCmd)
	if err == nil && strings.Contains(output, cluster) {
		nodesCmd := exec.Command(kindBinary, "get", "nodes", "--name", cluster)
		nodesOutput, nodesErr := Run(nodesCmd)
		if nodesErr == nil && len(GetNonEmptyLines(nodesOutput)) > 0 {
			_, _ = fmt.Fprintf(GinkgoWriter, "Kind cluster %q already exists, skipping creation\n", cluster)
			return nil
		}

		_, _ = fmt.Fprintf(GinkgoWriter, "Kind cluster %q is unhealthy, deleting and recreating...\n", cluster)
		deleteCmd := exec.Command(kindBinary, "delete", "cluster", "--name", cluster)
		if _, delErr := Run(deleteCmd); delErr != nil {
			_, _ = fmt.Fprintf(GinkgoWriter, "Warning: failed to delete unhealthy cluster: %v\n", delErr)
		}
	}

	_, _ = fmt.Fprintf(GinkgoWriter, "Creating Kind cluster %q...\n", cluster)
	cmd := exec.Command(kindBinary, "create", "cluster", "--name", cluster, "--wait", "5m")
	output, err = Run(cmd)
	if err != nil {
		return fmt.Errorf("failed to create kind cluster: %w\nOutput: %s", err, output)
	}
	return nil
}

// DeleteKindCluster deletes the kind cluster
func DeleteKindCluster() error {
	cluster := defaultKindCluster
	if v, ok := os.LookupEnv("KIND_CLUSTER"); ok {
		cluster = v
	}
	kindBinary := defaultKindBinary
	if v, ok := os.LookupEnv("KIND"); ok {
		kindBinary = v
	}
	cmd := exec.Command(kindBinary, "delete", "cluster", "--name", cluster)
	_, err := Run(cmd)
	return err
}

// LoadImageToKindClusterWithName loads a local docker image to the kind cluster
func LoadImageToKindClusterWithName(name string) error {
	cluster := defaultKindCluster
	if v, ok := os.LookupEnv("KIND_CLUSTER"); ok {
		cluster = v
	}
	kindBinary := defaultKindBinary
	if v, ok := os.LookupEnv("KIND"); ok {
		kindBinary = v
	}

	kindOptions := []string{"load", "docker-image", name, "--name", cluster}
	cmd := exec.Command(kindBinary, kindOptions...)
	_, err := Run(cmd)
	return err
}

// GetNonEmptyLines converts given command output string into individual objects
// according to line breakers, and ignores the empty elements in it.
func GetNonEmptyLines(output string) []string {
	var res []string
	elements := strings.Split(output, "\n")
	for _, element := range elements {
		if element != "" {
			res = append(res, element)
		}
	}

	return res
}

// GetProjectDir will return the directory where the project is
func GetProjectDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return wd, fmt.Errorf("failed to get current working directory: %w", err)
	}
	wd = strings.ReplaceAll(wd, "/test/e2e", "")
	return wd, nil
}
