package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager("test-signing-key", 15)
	require.NoError(t, err)
	return tm
}

func TestNewTokenManager(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		tm, err := NewTokenManager("", 15)
		assert.Nil(t, tm)
		assert.ErrorIs(t, err, ErrMissingSecret)
	})

	t.Run("defaults ttl", func(t *testing.T) {
		tm, err := NewTokenManager("k", 0)
		require.NoError(t, err)
		assert.Equal(t, time.Hour, tm.ttl)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	tm := newTestManager(t)

	for _, id := range []string{"1", "5f1b2c3d-0000-4000-8000-000000000001", "user with spaces"} {
		token, err := tm.Issue(id)
		require.NoError(t, err)
		assert.Equal(t, id, token.UserID)
		assert.Equal(t, 15*time.Minute, token.ExpiresAt.Sub(token.IssuedAt))

		got, err := tm.Verify(token.Value)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestTokenCarriesClaims(t *testing.T) {
	tm := newTestManager(t)
	token, err := tm.Issue("u-42")
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token.Value, claims)
	require.NoError(t, err)

	assert.Equal(t, "u-42", claims.UserID)
	assert.Equal(t, "u-42", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
}

func TestVerifyTamperedSignature(t *testing.T) {
	tm := newTestManager(t)
	token, err := tm.Issue("u-1")
	require.NoError(t, err)

	parts := strings.Split(token.Value, ".")
	require.Len(t, parts, 3)
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for i := range sig {
		for bit := 0; bit < 8; bit += 3 {
			flipped := append([]byte(nil), sig...)
			flipped[i] ^= 1 << bit
			tampered := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(flipped)

			_, err := tm.Verify(tampered)
			require.ErrorIs(t, err, ErrTokenSignatureInvalid, "byte %d bit %d", i, bit)
		}
	}
}

func TestVerifyFlippedSignatureCharacters(t *testing.T) {
	tm := newTestManager(t)
	token, err := tm.Issue("u-1")
	require.NoError(t, err)

	parts := strings.Split(token.Value, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])

	for i := range sig {
		for bit := 0; bit < 8; bit++ {
			flipped := append([]byte(nil), sig...)
			flipped[i] ^= 1 << bit
			tampered := parts[0] + "." + parts[1] + "." + string(flipped)

			id, err := tm.Verify(tampered)
			require.ErrorIs(t, err, ErrTokenSignatureInvalid, "char %d bit %d", i, bit)
			require.Empty(t, id)
		}
	}
}

func TestVerifyNonCanonicalSignatureEncoding(t *testing.T) {
	tm := newTestManager(t)
	token, err := tm.Issue("u-1")
	require.NoError(t, err)

	// A 32-byte HS256 MAC leaves two unused bits in the last character.
	parts := strings.Split(token.Value, ".")
	last := strings.IndexByte(base64URLAlphabet, parts[2][len(parts[2])-1])
	require.GreaterOrEqual(t, last, 0)
	alt := base64URLAlphabet[last^1]
	tampered := token.Value[:len(token.Value)-1] + string(alt)

	_, err = tm.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func TestVerifyTamperedPayload(t *testing.T) {
	tm := newTestManager(t)
	token, err := tm.Issue("u-1")
	require.NoError(t, err)

	other, err := tm.Issue("u-2")
	require.NoError(t, err)

	parts := strings.Split(token.Value, ".")
	otherParts := strings.Split(other.Value, ".")
	forged := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, err = tm.Verify(forged)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestVerifyWrongSecret(t *testing.T) {
	tm := newTestManager(t)
	other, err := NewTokenManager("another-key", 15)
	require.NoError(t, err)

	token, err := other.Issue("u-1")
	require.NoError(t, err)

	_, err = tm.Verify(token.Value)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	tm := newTestManager(t)

	for _, raw := range []string{"", "abc", "a.b", "a.b.c", "not.a.jwt.at.all"} {
		_, err := tm.Verify(raw)
		assert.ErrorIs(t, err, ErrTokenMalformed, raw)
	}
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	tm := newTestManager(t)

	claims := &Claims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.Verify(unsigned)
	assert.Error(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = tm.Verify(hs512)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestVerifyRequiresUserID(t *testing.T) {
	tm := newTestManager(t)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = tm.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyRequiresExpiry(t *testing.T) {
	tm := newTestManager(t)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "u-1"}).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = tm.Verify(signed)
	assert.Error(t, err)
}

func TestVerifyExpired(t *testing.T) {
	tm := newTestManager(t)
	issued := time.Now().Add(-2 * time.Hour)
	tm.now = func() time.Time { return issued }

	token, err := tm.Issue("u-1")
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Verify(token.Value)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
