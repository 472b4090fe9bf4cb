package auth

import (
	"encoding/base64"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("remote-secret"))
	require.NoError(t, err)
	return token
}

func TestDecodeToken(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		id, err := DecodeToken(signedToken(t, jwt.MapClaims{"id": "665f1c2e9b"}))
		assert.NoError(t, err)
		assert.Equal(t, "665f1c2e9b", id)
	})

	t.Run("Numeric id", func(t *testing.T) {
		id, err := DecodeToken(signedToken(t, jwt.MapClaims{"id": 42}))
		assert.NoError(t, err)
		assert.Equal(t, "42", id)
	})

	t.Run("Unknown alg still decodes", func(t *testing.T) {
		enc := base64.RawURLEncoding
		token := enc.EncodeToString([]byte(`{"alg":"XYZ"}`)) + "." +
			enc.EncodeToString([]byte(`{"id":"u1"}`)) + ".sig"

		id, err := DecodeToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "u1", id)
	})

	t.Run("Missing id", func(t *testing.T) {
		_, err := DecodeToken(signedToken(t, jwt.MapClaims{"sub": "x"}))
		assert.ErrorIs(t, err, ErrNoUserID)
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, token := range []string{"", "abc", "a.b", "a.!!!.c"} {
			_, err := DecodeToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken, token)
		}
	})
}
