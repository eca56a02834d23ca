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
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const signingKeyBits = 2048

// GenerateValue produces a fresh value for the named generator type.
func GenerateValue(generator string) ([]byte, error) {
	switch generator {
	case GeneratePassword:
		return generatePassword()
	case GenerateGafaelfawrToken:
		return generateToken()
	case GenerateFernetKey:
		return generateFernetKey()
	case GenerateRSAPrivateKey:
		return generateSigningKey()
	default:
		return nil, fmt.Errorf("unknown generator %q", generator)
	}
}

// generatePassword returns a 64-character hex password.
func generatePassword() ([]byte, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("%x", raw)), nil
}

// generateToken returns a token in the format the gateway itself issues:
// gt-<key>.<secret>, where both parts are 128 bits of URL-safe base64
// without padding.
func generateToken() ([]byte, error) {
	key, err := randomBase64(16)
	if err != nil {
		return nil, err
	}
	secret, err := randomBase64(16)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("gt-%s.%s", key, secret)), nil
}

// generateFernetKey returns a Fernet key: 32 random bytes, URL-safe
// base64 with padding.
func generateFernetKey() ([]byte, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	return []byte(base64.URLEncoding.EncodeToString(raw)), nil
}

// generateSigningKey returns a PEM-encoded RSA private key suitable for
// signing JWTs. The key is round-tripped through the JWT library's parser
// so a malformed encoding can never reach the gateway.
func generateSigningKey() ([]byte, error) {
	key, err := rsa.GenerateKey(rand.Reader, signingKeyBits)
	if err != nil {
		return nil, err
	}
	encoded := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	if _, err := jwt.ParseRSAPrivateKeyFromPEM(encoded); err != nil {
		return nil, fmt.Errorf("generated signing key failed validation: %w", err)
	}
	return encoded, nil
}

func randomBase64(length int) (string, error) {
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
