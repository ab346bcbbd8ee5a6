package sessions_test

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jrsteele09/go-course-client/internal/errors"
	"github.com/jrsteele09/go-course-client/sessions"
)

const (
	testIssuer   = "https://accounts.google.com"
	testClientID = "client-123.apps.googleusercontent.com"
)

func signIDToken(t *testing.T, key *rsa.PrivateKey, audience string, expiry time.Time) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   "10769150350006150715113082367",
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}).SignedString(key)
	require.NoError(t, err)
	return raw
}

func TestOIDCVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	verifier := sessions.NewOIDCVerifier(oidc.NewVerifier(testIssuer, keySet, &oidc.Config{ClientID: testClientID}))
	ctx := context.Background()

	require.NoError(t, verifier.Verify(ctx, signIDToken(t, key, testClientID, time.Now().Add(time.Hour))))

	err = verifier.Verify(ctx, signIDToken(t, key, "someone-else", time.Now().Add(time.Hour)))
	require.ErrorIs(t, err, apperrors.ErrInvalidIDToken)

	err = verifier.Verify(ctx, signIDToken(t, key, testClientID, time.Now().Add(-time.Hour)))
	require.ErrorIs(t, err, apperrors.ErrInvalidIDToken)

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	err = verifier.Verify(ctx, signIDToken(t, other, testClientID, time.Now().Add(time.Hour)))
	require.ErrorIs(t, err, apperrors.ErrInvalidIDToken)
}
