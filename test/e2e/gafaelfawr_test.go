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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lsst-sqre/gafaelfawr-operator/test/utils"
)

var _ = Describe("Gafaelfawr lifecycle", Ordered, func() {
	const testNamespace = "e2e-test-gafaelfawr"
	const resourceName = "gafaelfawr"

	BeforeAll(func() {
		By("installing CRDs")
		cmd := exec.Command("make", "install")
		_, err := utils.Run(cmd)
		Expect(err).NotTo(HaveOccurred(), "Failed to install CRDs")

		By("deploying the controller-manager")
		cmd = exec.Command("make", "deploy", fmt.Sprintf("IMG=%s", projectImage))
		_, err = utils.Run(cmd)
		Expect(err).NotTo(HaveOccurred(), "Failed to deploy the controller-manager")

		By("waiting for controller-manager to be ready")
		Eventually(func(g Gomega) {
			cmd := exec.Command("kubectl", "get", "deployment", "gafaelfawr-operator-controller-manager",
				"-n", "gafaelfawr-operator-system", "-o", "jsonpath={.status.availableReplicas}")
			output, err := utils.Run(cmd)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(output).To(Equal("1"))
		}, MediumTimeout, SlowPollInterval).Should(Succeed())

		By("creating test namespace")
		cmd = exec.Command("kubectl", "create", "namespace", testNamespace)
		_, _ = utils.Run(cmd)
	})

	AfterAll(func() {
		By("cleaning up test resources")
		cmd := exec.Command("kubectl", "delete", "namespace", testNamespace, "--ignore-not-found", "--timeout=120s")
		_, _ = utils.Run(cmd)

		By("undeploying the controller-manager")
		cmd = exec.Command("make", "undeploy")
		_, _ = utils.Run(cmd)

		By("uninstalling CRDs")
		cmd = exec.Command("make", "uninstall")
		_, _ = utils.Run(cmd)
	})

	It("should reconcile a Gafaelfawr resource to Ready", func() {
		if !utils.IsGatewayReady() {
			Skip("Gateway 'science-platform-gateway' not found")
		}

		By("creating a Gafaelfawr resource")
		gafaelfawrYAML := fmt.Sprintf(`
apiVersion: gafaelfawr.lsst.io/v1alpha1
kind: Gafaelfawr
metadata:
  name: %s
  namespace: %s
spec:
  baseUrl: https://data.e2e.local
  host: data.e2e.local
  internalDatabase: true
`, resourceName, testNamespace)

		cmd := exec.Command("kubectl", "apply", "-f", "-")
		cmd.Stdin = strings.NewReader(gafaelfawrYAML)
		_, err := utils.Run(cmd)
		Expect(err).NotTo(HaveOccurred(), "Failed to create Gafaelfawr resource")

		By("waiting for the Ready condition")
		Eventually(func(g Gomega) {
			cmd := exec.Command("kubectl", "get", "gafaelfawr", resourceName, "-n", testNamespace,
				"-o", "jsonpath={.status.conditions[?(@.type=='Ready')].status}")
			output, err := utils.Run(cmd)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(output).To(Equal("True"),
				"Gafaelfawr not Ready: %s", GafaelfawrDiagnostics(testNamespace, resourceName))
		}, MediumTimeout, SlowPollInterval).Should(Succeed())

		By("verifying the gateway secret was generated")
		cmd = exec.Command("kubectl", "get", "secret", resourceName, "-n", testNamespace,
			"-o", "jsonpath={.data}")
		output, err := utils.Run(cmd)
		Expect(err).NotTo(HaveOccurred())
		for _, key := range []string{"bootstrap-token", "session-secret", "redis-password", "database-password"} {
			Expect(output).To(ContainSubstring(key), "expected %s in gateway secret", key)
		}

		By("verifying the Deployment and Service exist")
		cmd = exec.Command("kubectl", "get", "deployment", resourceName, "-n", testNamespace)
		_, err = utils.Run(cmd)
		Expect(err).NotTo(HaveOccurred())
		cmd = exec.Command("kubectl", "get", "service", resourceName, "-n", testNamespace)
		_, err = utils.Run(cmd)
		Expect(err).NotTo(HaveOccurred())

		By("verifying the HTTPRoute and SecurityPolicy exist")
		cmd = exec.Command("kubectl", "get", "httproute", resourceName+"-route", "-n", testNamespace)
		_, err = utils.Run(cmd)
		Expect(err).NotTo(HaveOccurred(),
			"HTTPRoute missing: %s", HTTPRouteDiagnostics(testNamespace, resourceName+"-route"))
		cmd = exec.Command("kubectl", "get", "securitypolicy", resourceName+"-extauth", "-n", testNamespace)
		_, err = utils.Run(cmd)
		Expect(err).NotTo(HaveOccurred())

		By("verifying the status reports the secret and URL")
		cmd = exec.Command("kubectl", "get", "gafaelfawr", resourceName, "-n", testNamespace,
			"-o", "jsonpath={.status.secretName} {.status.url}")
		output, err = utils.Run(cmd)
		Expect(err).NotTo(HaveOccurred())
		Expect(output).To(Equal(fmt.Sprintf("%s https://data.e2e.local", resourceName)))
	})

	It("should report SecretsReady=False when a static secret is missing", func() {
		By("creating a Gafaelfawr resource that needs an LDAP password")
		gafaelfawrYAML := fmt.Sprintf(`
apiVersion: gafaelfawr.lsst.io/v1alpha1
kind: Gafaelfawr
metadata:
  name: gafaelfawr-ldap
  namespace: %s
spec:
  baseUrl: https://ldap.e2e.local
  host: ldap.e2e.local
  internalDatabase: true
  ldap:
    url: ldaps://ldap.e2e.local
    userDn: uid=gafaelfawr,ou=services,dc=e2e,dc=local
`, testNamespace)

		cmd := exec.Command("kubectl", "apply", "-f", "-")
		cmd.Stdin = strings.NewReader(gafaelfawrYAML)
		_, err := utils.Run(cmd)
		Expect(err).NotTo(HaveOccurred())

		By("waiting for the SecretsReady=False condition")
		Eventually(func(g Gomega) {
			cmd := exec.Command("kubectl", "get", "gafaelfawr", "gafaelfawr-ldap", "-n", testNamespace,
				"-o", "jsonpath={.status.conditions[?(@.type=='SecretsReady')].reason}")
			output, err := utils.Run(cmd)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(output).To(Equal("SecretsUnresolved"))
		}, MediumTimeout, SlowPollInterval).Should(Succeed())

		By("supplying the missing key and waiting for recovery")
		cmd = exec.Command("kubectl", "patch", "secret", "gafaelfawr-ldap", "-n", testNamespace,
			"--type=merge", "-p", `{"stringData":{"ldap-password":"hunter2"}}`)
		_, err = utils.Run(cmd)
		Expect(err).NotTo(HaveOccurred())

		Eventually(func(g Gomega) {
			cmd := exec.Command("kubectl", "get", "gafaelfawr", "gafaelfawr-ldap", "-n", testNamespace,
				"-o", "jsonpath={.status.conditions[?(@.type=='SecretsReady')].status}")
			output, err := utils.Run(cmd)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(output).To(Equal("True"))
		}, MediumTimeout, SlowPollInterval).Should(Succeed())
	})

	It("should clean up routing resources on deletion", func() {
		if !utils.IsGatewayReady() {
			Skip("Gateway 'science-platform-gateway' not found")
		}

		By("deleting the Gafaelfawr resource")
		cmd := exec.Command("kubectl", "delete", "gafaelfawr", resourceName, "-n", testNamespace, "--timeout=60s")
		_, err := utils.Run(cmd)
		Expect(err).NotTo(HaveOccurred())

		By("verifying the HTTPRoute is gone")
		Eventually(func(g Gomega) {
			cmd := exec.Command("kubectl", "get", "httproute", resourceName+"-route", "-n", testNamespace)
			_, err := utils.Run(cmd)
			g.Expect(err).To(HaveOccurred())
		}, MediumTimeout, SlowPollInterval).Should(Succeed())
	})
})
