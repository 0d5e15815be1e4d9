package utils_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/paperpatch/poster-store/internal/utils"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	tok, err := utils.NewSessionToken("s3cret", 30)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), tok.Exp, 5*time.Second)

	sub, err := utils.VerifySession("s3cret", tok.Token)
	require.NoError(t, err)
	require.Equal(t, "admin", sub)
}

func TestVerifySession_WrongSecret(t *testing.T) {
	tok, err := utils.NewSessionToken("s3cret", 30)
	require.NoError(t, err)

	_, err = utils.VerifySession("other", tok.Token)
	require.Error(t, err)
}

func TestVerifySession_Expired(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().UTC().Add(-time.Minute).Unix(),
		"iat": time.Now().UTC().Add(-time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = utils.VerifySession("s3cret", raw)
	require.ErrorIs(t, err, utils.ErrExpiredToken)
}

func TestVerifySecret(t *testing.T) {
	hash, err := utils.HashSecret("hunter2", 10)
	require.NoError(t, err)
	require.True(t, utils.VerifySecret(hash, "hunter2"))
	require.False(t, utils.VerifySecret(hash, "hunter3"))
}
