package token

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "expiry-test-secret"

// signToken mints an HS256 token whose exp claim lands at the given time.
func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "1",
		"exp": jwt.NewNumericDate(exp),
		"iat": jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestDecodeExpiry(t *testing.T) {
	exp := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	tokenStr := signToken(t, exp)

	decoded, err := DecodeExpiry(tokenStr)
	require.NoError(t, err)
	require.True(t, decoded.Equal(exp), "decoded exp should match the signed claim")
}

func TestDecodeExpiryMissingClaim(t *testing.T) {
	claims := jwt.MapClaims{"sub": "1"}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = DecodeExpiry(tokenStr)
	require.Error(t, err)
}

func TestDecodeExpiryMalformed(t *testing.T) {
	_, err := DecodeExpiry("not.a.jwt")
	require.Error(t, err)
}

func TestExpiredLeewayWindow(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		exp     time.Time
		expired bool
	}{
		{"well before expiry", now.Add(10 * time.Minute), false},
		{"just outside leeway", now.Add(ExpiryLeeway + 5*time.Second), false},
		{"inside leeway", now.Add(ExpiryLeeway - 5*time.Second), true},
		{"already past", now.Add(-time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenStr := signToken(t, tt.exp)
			require.Equal(t, tt.expired, Expired(tokenStr, now, ExpiryLeeway))
		})
	}
}

func TestExpiredUndecodableToken(t *testing.T) {
	require.True(t, Expired("garbage", time.Now(), ExpiryLeeway))
}
