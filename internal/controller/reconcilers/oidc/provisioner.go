// Copyright 2025 LSST SQuaRE.
// SPDX-License-Identifier: Apache-2.0

package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/Nerzal/gocloak/v13"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	gafaelfawrv1alpha1 "github.com/lsst-sqre/gafaelfawr-operator/api/v1alpha1"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/bindings"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/labels"
	"github.com/lsst-sqre/gafaelfawr-operator/internal/controller/utils/naming"
)

// KeycloakAPI is the subset of the Keycloak admin API the provisioner
// uses. gocloak implements it; tests substitute a fake.
type KeycloakAPI interface {
	LoginAdmin(ctx context.Context, username, password, realm string) (*gocloak.JWT, error)
	GetClients(ctx context.Context, token, realm string, params gocloak.GetClientsParams) ([]*gocloak.Client, error)
	GetClientSecret(ctx context.Context, token, realm, idOfClient string) (*gocloak.CredentialRepresentation, error)
	CreateClient(ctx context.Context, token, realm string, newClient gocloak.Client) (string, error)
	UpdateClient(ctx context.Context, token, realm string, updatedClient gocloak.Client) error
	DeleteClient(ctx context.Context, token, realm, idOfClient string) error
}

// ClientProvisioner registers OIDC clients for gateways in Keycloak and
// stores the client secret in the gateway secret.
type ClientProvisioner struct {
	Client        client.Client
	Keycloak      KeycloakAPI
	KeycloakRealm string
	AdminUsername string
	AdminPassword string
}

// NewClientProvisioner builds a provisioner backed by the Keycloak admin
// API at the given URL.
func NewClientProvisioner(c client.Client, keycloakURL, realm, adminUsername, adminPassword string) *ClientProvisioner {
	return &ClientProvisioner{
		Client:        c,
		Keycloak:      gocloak.NewClient(keycloakURL),
		KeycloakRealm: realm,
		AdminUsername: adminUsername,
		AdminPassword: adminPassword,
	}
}

// ProvisionClient ensures an OIDC client for the gateway exists in
// Keycloak and that the client secret is stored under the
// oidc-client-secret key of the gateway secret.
func (p *ClientProvisioner) ProvisionClient(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr) error {
	logger := log.FromContext(ctx)

	token, err := p.Keycloak.LoginAdmin(ctx, p.AdminUsername, p.AdminPassword, "master")
	if err != nil {
		return fmt.Errorf("failed to login to Keycloak: %w", err)
	}

	clientID := p.clientID(gw)
	redirectURL := fmt.Sprintf("%s/login", gw.Spec.BaseURL)
	redirectURLs := []string{redirectURL}

	logger.Info("Provisioning Keycloak client", "clientID", clientID, "realm", p.KeycloakRealm, "redirectURL", redirectURL)

	clients, err := p.Keycloak.GetClients(ctx, token.AccessToken, p.KeycloakRealm, gocloak.GetClientsParams{
		ClientID: &clientID,
	})
	if err != nil {
		return fmt.Errorf("failed to get clients: %w", err)
	}

	var clientSecret string

	if len(clients) > 0 {
		clientUUID := *clients[0].ID
		logger.Info("Client already exists, updating", "clientID", clientID, "uuid", clientUUID)

		existingSecret, err := p.Keycloak.GetClientSecret(ctx, token.AccessToken, p.KeycloakRealm, clientUUID)
		if err != nil {
			return fmt.Errorf("failed to get client secret: %w", err)
		}
		clientSecret = *existingSecret.Value

		clients[0].RedirectURIs = &redirectURLs
		clients[0].PublicClient = gocloak.BoolP(false)
		clients[0].StandardFlowEnabled = gocloak.BoolP(true)
		clients[0].DirectAccessGrantsEnabled = gocloak.BoolP(false)

		if err := p.Keycloak.UpdateClient(ctx, token.AccessToken, p.KeycloakRealm, *clients[0]); err != nil {
			return fmt.Errorf("failed to update client: %w", err)
		}
	} else {
		logger.Info("Creating new client", "clientID", clientID)

		clientSecret, err = generateSecret(32)
		if err != nil {
			return fmt.Errorf("failed to generate client secret: %w", err)
		}

		newClient := gocloak.Client{
			ClientID:                  gocloak.StringP(clientID),
			Name:                      gocloak.StringP(fmt.Sprintf("%s authentication gateway", gw.Name)),
			Description:               gocloak.StringP(fmt.Sprintf("Auto-provisioned by gafaelfawr-operator for %s", gw.Name)),
			Secret:                    gocloak.StringP(clientSecret),
			RedirectURIs:              &redirectURLs,
			PublicClient:              gocloak.BoolP(false),
			StandardFlowEnabled:       gocloak.BoolP(true),
			DirectAccessGrantsEnabled: gocloak.BoolP(false),
			ServiceAccountsEnabled:    gocloak.BoolP(false),
			Protocol:                  gocloak.StringP("openid-connect"),
			Enabled:                   gocloak.BoolP(true),
		}

		clientUUID, err := p.Keycloak.CreateClient(ctx, token.AccessToken, p.KeycloakRealm, newClient)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		logger.Info("Client created successfully", "clientID", clientID, "uuid", clientUUID)
	}

	if err := p.storeClientSecret(ctx, gw, clientSecret); err != nil {
		return fmt.Errorf("failed to store client secret: %w", err)
	}

	logger.Info("Keycloak client provisioning completed", "clientID", clientID)
	return nil
}

// DeleteClient removes the gateway's OIDC client from Keycloak. Called
// during finalization; a missing client is not an error.
func (p *ClientProvisioner) DeleteClient(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr) error {
	logger := log.FromContext(ctx)

	token, err := p.Keycloak.LoginAdmin(ctx, p.AdminUsername, p.AdminPassword, "master")
	if err != nil {
		return fmt.Errorf("failed to login to Keycloak: %w", err)
	}

	clientID := p.clientID(gw)

	clients, err := p.Keycloak.GetClients(ctx, token.AccessToken, p.KeycloakRealm, gocloak.GetClientsParams{
		ClientID: &clientID,
	})
	if err != nil {
		return fmt.Errorf("failed to get clients: %w", err)
	}

	if len(clients) == 0 {
		logger.Info("Client does not exist, skipping deletion", "clientID", clientID)
		return nil
	}

	clientUUID := *clients[0].ID
	if err := p.Keycloak.DeleteClient(ctx, token.AccessToken, p.KeycloakRealm, clientUUID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	logger.Info("Keycloak client deleted", "clientID", clientID)
	return nil
}

// clientID returns the registered client ID for the gateway: the one from
// the spec, or a namespace-qualified default.
func (p *ClientProvisioner) clientID(gw *gafaelfawrv1alpha1.Gafaelfawr) string {
	if gw.Spec.OIDC != nil && gw.Spec.OIDC.ClientID != "" {
		return gw.Spec.OIDC.ClientID
	}
	return naming.OIDCClientID(gw)
}

func (p *ClientProvisioner) storeClientSecret(ctx context.Context, gw *gafaelfawrv1alpha1.Gafaelfawr, clientSecret string) error {
	logger := log.FromContext(ctx)

	secretName := naming.SecretName(gw)
	secret := &corev1.Secret{}

	err := p.Client.Get(ctx, types.NamespacedName{
		Name:      secretName,
		Namespace: gw.Namespace,
	}, secret)

	if err != nil {
		if !apierrors.IsNotFound(err) {
			return fmt.Errorf("failed to get secret: %w", err)
		}

		secret = &corev1.Secret{
			ObjectMeta: metav1.ObjectMeta{
				Name:      secretName,
				Namespace: gw.Namespace,
				Labels:    labels.LabelsWithComponent(gw, "secrets"),
			},
			Type: corev1.SecretTypeOpaque,
			Data: map[string][]byte{
				bindings.KeyOIDCSecret: []byte(clientSecret),
			},
		}

		if err := p.Client.Create(ctx, secret); err != nil {
			return fmt.Errorf("failed to create secret: %w", err)
		}

		logger.Info("Client secret created", "secret", secretName)
		return nil
	}

	if secret.Data == nil {
		secret.Data = map[string][]byte{}
	}
	secret.Data[bindings.KeyOIDCSecret] = []byte(clientSecret)

	if err := p.Client.Update(ctx, secret); err != nil {
		return fmt.Errorf("failed to update secret: %w", err)
	}

	logger.Info("Client secret updated", "secret", secretName)
	return nil
}

func generateSecret(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}
