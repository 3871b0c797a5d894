package auth_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/InkwellLabs/Inkwell-Backend/internal/apierr"
	"github.com/InkwellLabs/Inkwell-Backend/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-for-token-tests")

func TestTokenRoundTrip(t *testing.T) {
	token, exp, err := auth.SignToken("user-1", "admin", time.Hour, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")))
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := auth.ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenRejectsTamperedPayload(t *testing.T) {
	token, _, err := auth.SignToken("user-1", "admin", time.Hour, testSecret)
	require.NoError(t, err)

	parts := strings.Split(token, ".")

	// Rewrite the payload with escalated claims but keep the old signature.
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	forged := strings.Replace(string(payload), `"user-1"`, `"user-2"`, 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = auth.ParseToken(strings.Join(parts, "."), testSecret)
	assert.ErrorIs(t, err, apierr.ErrInvalidSignature)
}

func TestParseTokenRejectsTamperedSignature(t *testing.T) {
	token, _, err := auth.SignToken("user-1", "admin", time.Hour, testSecret)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}

	_, err = auth.ParseToken(parts[0]+"."+parts[1]+"."+string(sig), testSecret)
	assert.ErrorIs(t, err, apierr.ErrInvalidSignature)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := auth.SignToken("user-1", "admin", time.Hour, testSecret)
	require.NoError(t, err)

	_, err = auth.ParseToken(token, []byte("a-different-secret"))
	assert.ErrorIs(t, err, apierr.ErrInvalidSignature)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, _, err := auth.SignToken("user-1", "admin", -time.Minute, testSecret)
	require.NoError(t, err)

	_, err = auth.ParseToken(token, testSecret)
	assert.ErrorIs(t, err, apierr.ErrTokenExpired)
}

func TestParseTokenRejectsMalformed(t *testing.T) {
	for _, bad := range []string{
		"",
		"not-a-token",
		"one.two",
		"one.two.three.four",
		"!!!.###.$$$",
	} {
		_, err := auth.ParseToken(bad, testSecret)
		assert.ErrorIs(t, err, apierr.ErrTokenMalformed, "token %q", bad)
	}
}

func TestSignTokenIssuesDistinctTokens(t *testing.T) {
	first, _, err := auth.SignToken("user-1", "admin", time.Hour, testSecret)
	require.NoError(t, err)
	second, _, err := auth.SignToken("user-1", "admin", time.Hour, testSecret)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
