package clerk

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nhl-fan-insights/domain/model"
)

func TestVerify_DevMode(t *testing.T) {
	v, err := NewVerifier(Config{})
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "dev_user_123", id.UserID)
	assert.Equal(t, "Dev User", id.Username)
	require.NotNil(t, id.Email)
	assert.Equal(t, "dev@example.com", *id.Email)
	assert.False(t, id.IsAdmin)
}

func TestVerify_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		if r.URL.Path != "/v1/sessions/good/verify" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_id":"user_abc","user":{"username":"teal4life","image_url":"https://img/x.png","email_addresses":[{"email_address":"fan@example.com"}]}}`))
	}))
	defer srv.Close()

	v, err := NewVerifier(Config{SecretKey: "sk_test", APIBaseURL: srv.URL, AdminUserIDs: []string{"user_abc"}})
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "user_abc", id.UserID)
	assert.Equal(t, "teal4life", id.Username)
	assert.Equal(t, "fan@example.com", *id.Email)
	assert.True(t, id.IsAdmin)

	_, err = v.Verify(context.Background(), "bad")
	assert.True(t, errors.Is(err, model.ErrUnauthorized))
}

func TestVerify_LocalJWT(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	v, err := NewVerifier(Config{JWTKey: pemKey})
	require.NoError(t, err)

	sign := func(claims sessionClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	good := sign(sessionClaims{
		Username: "teal4life",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_abc",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	id, err := v.Verify(context.Background(), good)
	require.NoError(t, err)
	assert.Equal(t, "user_abc", id.UserID)
	assert.Equal(t, "teal4life", id.Username)

	expired := sign(sessionClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user_abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}})
	_, err = v.Verify(context.Background(), expired)
	assert.True(t, errors.Is(err, model.ErrUnauthorized))

	_, err = v.Verify(context.Background(), "not-a-jwt")
	assert.True(t, errors.Is(err, model.ErrUnauthorized))
}
