package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestKeys(t *testing.T) (privPath, pubPath string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath = filepath.Join(dir, "jwt_private.pem")
	pubPath = filepath.Join(dir, "jwt_public.pem")

	privPem := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	require.NoError(t, os.WriteFile(privPath, privPem, 0o600))

	pubDer, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPem := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDer})
	require.NoError(t, os.WriteFile(pubPath, pubPem, 0o600))

	return privPath, pubPath
}

func TestJWTManagerRoundTrip(t *testing.T) {
	privPath, pubPath := writeTestKeys(t)
	mgr, err := NewJWTManager(privPath, pubPath, "linea1-bknd")
	require.NoError(t, err)

	t.Run("generate and verify", func(t *testing.T) {
		token, exp, err := mgr.GenerateToken(42, "admin", "local", time.Hour)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

		claims, err := mgr.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, int64(42), claims.UserID)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, "local", claims.AuthMethod)
		assert.NotEmpty(t, claims.JTI)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, _, err := mgr.GenerateToken(42, "opersac", "ldap", -time.Hour)
		require.NoError(t, err)

		_, err = mgr.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		token, _, err := mgr.GenerateToken(42, "admin", "local", time.Hour)
		require.NoError(t, err)

		_, err = mgr.VerifyToken(token + "x")
		assert.Error(t, err)
	})

	t.Run("foreign signature is rejected", func(t *testing.T) {
		otherPriv, otherPub := writeTestKeys(t)
		other, err := NewJWTManager(otherPriv, otherPub, "linea1-bknd")
		require.NoError(t, err)

		token, _, err := other.GenerateToken(7, "admin", "local", time.Hour)
		require.NoError(t, err)

		_, err = mgr.VerifyToken(token)
		assert.Error(t, err)
	})
}

func TestNewJWTManagerMissingKeys(t *testing.T) {
	_, err := NewJWTManager("nowhere/private.pem", "nowhere/public.pem", "linea1-bknd")
	assert.Error(t, err)
}
