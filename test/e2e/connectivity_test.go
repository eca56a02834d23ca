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
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lsst-sqre/gafaelfawr-operator/test/utils"
)

var _ = Describe("Gateway connectivity", Ordered, func() {
	const testNamespace = "e2e-test-connectivity"
	const resourceName = "gafaelfawr-conn"
	const hostname = "conn.e2e.local"

	var gatewayIP string

	BeforeAll(func() {
		if !utils.IsGatewayReady() {
			Skip("Gateway 'science-platform-gateway' not found")
		}

		By("waiting for Gateway LoadBalancer IP")
		Eventually(func() string {
			cmd := exec.Command("kubectl", "get", "svc", "-n", "envoy-gateway-system",
				"-l", "gateway.envoyproxy.io/owning-gateway-name=science-platform-gateway",
				"-o", "jsonpath={.items[0].status.loadBalancer.ingress[0].ip}")
			output, err := utils.Run(cmd)
			if err != nil {
				return ""
			}
			gatewayIP = strings.TrimSpace(output)
			return gatewayIP
		}, LongTimeout, 5*time.Second).ShouldNot(BeEmpty(), "Gateway LoadBalancer IP not assigned")

		By("creating test namespace")
		cmd := exec.Command("kubectl", "create", "namespace", testNamespace)
		_, _ = utils.Run(cmd)

		By("creating a Gafaelfawr resource with TLS disabled")
		gafaelfawrYAML := fmt.Sprintf(`
apiVersion: gafaelfawr.lsst.io/v1alpha1
kind: Gafaelfawr
metadata:
  name: %s
  namespace: %s
spec:
  baseUrl: http://%s
  host: %s
  internalDatabase: true
  ingress:
    tls:
      enabled: false
`, resourceName, testNamespace, hostname, hostname)

		cmd = exec.Command("kubectl", "apply", "-f", "-")
		cmd.Stdin = strings.NewReader(gafaelfawrYAML)
		_, err := utils.Run(cmd)
		Expect(err).NotTo(HaveOccurred())

		By("waiting for the Ready condition")
		Eventually(func(g Gomega) {
			cmd := exec.Command("kubectl", "get", "gafaelfawr", resourceName, "-n", testNamespace,
				"-o", "jsonpath={.status.conditions[?(@.type=='Ready')].status}")
			output, err := utils.Run(cmd)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(output).To(Equal("True"),
				"Gafaelfawr not Ready: %s", GafaelfawrDiagnostics(testNamespace, resourceName))
		}, MediumTimeout, SlowPollInterval).Should(Succeed())
	})

	AfterAll(func() {
		cmd := exec.Command("kubectl", "delete", "namespace", testNamespace, "--ignore-not-found", "--timeout=120s")
		_, _ = utils.Run(cmd)
	})

	It("should serve the health endpoint without authentication", func() {
		client := &http.Client{Timeout: 10 * time.Second}
		Eventually(func(g Gomega) {
			req, err := http.NewRequest("GET", fmt.Sprintf("http://%s/health", gatewayIP), nil)
			g.Expect(err).NotTo(HaveOccurred())
			req.Host = hostname

			resp, err := client.Do(req)
			g.Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			g.Expect(resp.StatusCode).To(Equal(http.StatusOK))
		}, MediumTimeout, SlowPollInterval).Should(Succeed())
	})

	It("should reject unauthenticated requests to protected paths", func() {
		client := &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
		Eventually(func(g Gomega) {
			req, err := http.NewRequest("GET", fmt.Sprintf("http://%s/api/v1/data", gatewayIP), nil)
			g.Expect(err).NotTo(HaveOccurred())
			req.Host = hostname

			resp, err := client.Do(req)
			g.Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			// The ext-auth filter denies the request before it reaches a
			// backend: 401 from the auth subrequest, or a redirect to login.
			g.Expect(resp.StatusCode).To(BeElementOf(
				http.StatusUnauthorized, http.StatusForbidden, http.StatusFound, http.StatusSeeOther))
		}, MediumTimeout, SlowPollInterval).Should(Succeed())
	})

	It("should reject unauthenticated WebSocket upgrades to protected paths", func() {
		dialer := &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		}
		header := http.Header{}
		header.Set("Host", hostname)

		url := fmt.Sprintf("ws://%s/api/v1/events", gatewayIP)
		_, resp, err := dialer.Dial(url, header)
		Expect(err).To(HaveOccurred(), "expected the upgrade to be denied without a token")
		if resp != nil {
			defer resp.Body.Close()
			Expect(resp.StatusCode).NotTo(Equal(http.StatusSwitchingProtocols))
		}
	})
})
