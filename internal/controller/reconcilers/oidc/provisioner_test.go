// Copyright 2025 LSST SQuaRE.
// SPDX-License-Identifier: Apache-2.0

package oidc

import (
	"context"
	"testing"

	"github.com/Nerzal/gocloak/v13"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
)

// fakeKeycloak records admin API calls and plays back a configurable set
// of existing clients.
type fakeKeycloak struct {
	clients       []*gocloak.Client
	createdClient *gocloak.Client
	updatedClient *gocloak.Client
	deletedUUID   string
	loginErr      error
}

func (f *fakeKeycloak) LoginAdmin(ctx context.Context, username, password, realm string) (*gocloak.JWT, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &gocloak.JWT{AccessToken: "test-token"}, nil
}

func (f *fakeKeycloak) GetClients(ctx context.Context, token, realm string, params gocloak.GetClientsParams) ([]*gocloak.Client, error) {
	return f.clients, nil
}

func (f *fakeKeycloak) GetClientSecret(ctx context.Context, token, realm, idOfClient string) (*gocloak.CredentialRepresentation, error) {
	return &gocloak.CredentialRepresentation{Value: gocloak.StringP("existing-secret")}, nil
}

func (f *fakeKeycloak) CreateClient(ctx context.Context, token, realm string, newClient gocloak.Client) (string, error) {
	f.createdClient = &newClient
	return "new-uuid", nil
}

func (f *fakeKeycloak) UpdateClient(ctx context.Context, token, realm string, updatedClient gocloak.Client) error {
	f.updatedClient = &updatedClient
	return nil
}

func (f *fakeKeycloak) DeleteClient(ctx context.Context, token, realm, idOfClient string) error {
	f.deletedUUID = idOfClient
	return nil
}

func newTestProvisioner(t *testing.T, keycloak KeycloakAPI, objects ...runtime.Object) *ClientProvisioner {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := corev1.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to add corev1 to scheme: %v", err)
	}
	if err := gafaelfawrv1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to add gafaelfawr to scheme: %v", err)
	}

	return &ClientProvisioner{
		Client:        fake.NewClientBuilder().WithScheme(scheme).WithRuntimeObjects(objects...).Build(),
		Keycloak:      keycloak,
		KeycloakRealm: "science-platform",
		AdminUsername: "admin",
		AdminPassword: "password",
	}
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
			OIDC: &gafaelfawrv1alpha1.OIDCConfig{
				ClientID:        "science-platform-gafaelfawr",
				Provider:        "keycloak",
				ProvisionClient: true,
			},
		},
	}
}

func TestProvisionClientCreatesNewClient(t *testing.T) {
	keycloak := &fakeKeycloak{}
	gw := newTestGafaelfawr()
	p := newTestProvisioner(t, keycloak, gw)

	if err := p.ProvisionClient(context.Background(), gw); err != nil {
		t.Fatalf("ProvisionClient failed: %v", err)
	}

	if keycloak.createdClient == nil {
		t.Fatal("expected a client to be created")
	}
	if *keycloak.createdClient.ClientID != "science-platform-gafaelfawr" {
		t.Errorf("unexpected client ID %q", *keycloak.createdClient.ClientID)
	}
	redirects := *keycloak.createdClient.RedirectURIs
	if len(redirects) != 1 || redirects[0] != "https://data.example.org/login" {
		t.Errorf("expected redirect to /login, got %v", redirects)
	}

	secret := &corev1.Secret{}
	if err := p.Client.Get(context.Background(), types.NamespacedName{Name: "gafaelfawr", Namespace: "default"}, secret); err != nil {
		t.Fatalf("failed to get secret: %v", err)
	}
	if len(secret.Data["oidc-client-secret"]) == 0 {
		t.Error("expected oidc-client-secret to be stored")
	}
}

func TestProvisionClientUpdatesExistingClient(t *testing.T) {
	keycloak := &fakeKeycloak{
		clients: []*gocloak.Client{
			{
				ID:       gocloak.StringP("existing-uuid"),
				ClientID: gocloak.StringP("science-platform-gafaelfawr"),
			},
		},
	}
	gw := newTestGafaelfawr()
	p := newTestProvisioner(t, keycloak, gw)

	if err := p.ProvisionClient(context.Background(), gw); err != nil {
		t.Fatalf("ProvisionClient failed: %v", err)
	}

	if keycloak.createdClient != nil {
		t.Error("expected no new client to be created")
	}
	if keycloak.updatedClient == nil {
		t.Fatal("expected the existing client to be updated")
	}

	// The existing secret must be reused, not regenerated.
	secret := &corev1.Secret{}
	if err := p.Client.Get(context.Background(), types.NamespacedName{Name: "gafaelfawr", Namespace: "default"}, secret); err != nil {
		t.Fatalf("failed to get secret: %v", err)
	}
	if string(secret.Data["oidc-client-secret"]) != "existing-secret" {
		t.Errorf("expected existing secret preserved, got %q", secret.Data["oidc-client-secret"])
	}
}

func TestProvisionClientMergesIntoExistingSecret(t *testing.T) {
	keycloak := &fakeKeycloak{}
	gw := newTestGafaelfawr()
	existing := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "gafaelfawr",
			Namespace: "default",
		},
		Data: map[string][]byte{
			"session-secret": []byte("keep-me"),
		},
	}
	p := newTestProvisioner(t, keycloak, gw, existing)

	if err := p.ProvisionClient(context.Background(), gw); err != nil {
		t.Fatalf("ProvisionClient failed: %v", err)
	}

	secret := &corev1.Secret{}
	if err := p.Client.Get(context.Background(), types.NamespacedName{Name: "gafaelfawr", Namespace: "default"}, secret); err != nil {
		t.Fatalf("failed to get secret: %v", err)
	}
	if string(secret.Data["session-secret"]) != "keep-me" {
		t.Error("expected existing keys preserved")
	}
	if len(secret.Data["oidc-client-secret"]) == 0 {
		t.Error("expected oidc-client-secret added")
	}
}

func TestDeleteClient(t *testing.T) {
	keycloak := &fakeKeycloak{
		clients: []*gocloak.Client{
			{
				ID:       gocloak.StringP("existing-uuid"),
				ClientID: gocloak.StringP("science-platform-gafaelfawr"),
			},
		},
	}
	gw := newTestGafaelfawr()
	p := newTestProvisioner(t, keycloak, gw)

	if err := p.DeleteClient(context.Background(), gw); err != nil {
		t.Fatalf("DeleteClient failed: %v", err)
	}
	if keycloak.deletedUUID != "existing-uuid" {
		t.Errorf("expected existing-uuid deleted, got %q", keycloak.deletedUUID)
	}
}

func TestDeleteClientMissingIsNoop(t *testing.T) {
	keycloak := &fakeKeycloak{}
	gw := newTestGafaelfawr()
	p := newTestProvisioner(t, keycloak, gw)

	if err := p.DeleteClient(context.Background(), gw); err != nil {
		t.Errorf("expected no error for missing client, got %v", err)
	}
	if keycloak.deletedUUID != "" {
		t.Error("expected no deletion call")
	}
}
