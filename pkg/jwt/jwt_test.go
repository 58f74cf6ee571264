package jwt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumake/authkit/pkg/jwt"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("accepts 32-byte key", func(t *testing.T) {
		t.Parallel()

		svc, err := jwt.New(testKey)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("rejects short key", func(t *testing.T) {
		t.Parallel()

		svc, err := jwt.New([]byte("too-short"))
		require.ErrorIs(t, err, jwt.ErrKeyTooShort)
		assert.Nil(t, svc)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		t.Parallel()

		_, err := jwt.New(nil)
		require.ErrorIs(t, err, jwt.ErrKeyTooShort)
	})
}

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := jwt.New(testKey)
	require.NoError(t, err)

	t.Run("recovers subject and kind", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Sign("user-42", "ann@example.com", jwt.KindAccess, time.Hour)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.Len(t, strings.Split(token, "."), 3)

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-42", claims.Subject)
		assert.Equal(t, jwt.KindAccess, claims.TokenType)
		assert.Equal(t, "ann@example.com", claims.Email)
	})

	t.Run("refresh kind survives round trip", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Sign("user-42", "", jwt.KindRefresh, time.Hour)
		require.NoError(t, err)

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, jwt.KindRefresh, claims.TokenType)
		assert.Empty(t, claims.Email)
	})

	t.Run("rejects empty subject", func(t *testing.T) {
		t.Parallel()

		_, err := svc.Sign("", "", jwt.KindAccess, time.Hour)
		require.ErrorIs(t, err, jwt.ErrMissingSubject)
	})
}

func TestVerify(t *testing.T) {
	t.Parallel()

	svc, err := jwt.New(testKey)
	require.NoError(t, err)

	t.Run("expired token reported as expired", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Sign("user-42", "", jwt.KindAccess, -time.Minute)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("any mutated byte invalidates the token", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Sign("user-42", "", jwt.KindAccess, time.Hour)
		require.NoError(t, err)

		for _, i := range []int{0, len(token) / 2, len(token) - 1} {
			mutated := []byte(token)
			if mutated[i] == 'A' {
				mutated[i] = 'B'
			} else {
				mutated[i] = 'A'
			}

			_, err := svc.Verify(string(mutated))
			assert.Error(t, err, "mutation at index %d must not verify", i)
		}
	})

	t.Run("token signed with a different key is invalid", func(t *testing.T) {
		t.Parallel()

		other, err := jwt.New([]byte("ffffffffffffffffffffffffffffffff"))
		require.NoError(t, err)

		token, err := other.Sign("user-42", "", jwt.KindAccess, time.Hour)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		require.ErrorIs(t, err, jwt.ErrTokenInvalid)
	})

	t.Run("garbage is invalid, not expired", func(t *testing.T) {
		t.Parallel()

		_, err := svc.Verify("not-a-token")
		require.ErrorIs(t, err, jwt.ErrTokenInvalid)
	})
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	svc, err := jwt.New(testKey)
	require.NoError(t, err)

	t.Run("reads kind without verification", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Sign("user-42", "", jwt.KindRefresh, -time.Minute)
		require.NoError(t, err)

		// Expired tokens still report their declared kind.
		kind, err := svc.KindOf(token)
		require.NoError(t, err)
		assert.Equal(t, jwt.KindRefresh, kind)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		t.Parallel()

		_, err := svc.KindOf("garbage")
		require.ErrorIs(t, err, jwt.ErrTokenInvalid)
	})
}

func TestExpiresAt(t *testing.T) {
	t.Parallel()

	svc, err := jwt.New(testKey)
	require.NoError(t, err)

	t.Run("returns declared expiry", func(t *testing.T) {
		t.Parallel()

		before := time.Now().Add(time.Hour)
		token, err := svc.Sign("user-42", "", jwt.KindRefresh, time.Hour)
		require.NoError(t, err)
		after := time.Now().Add(time.Hour)

		exp, err := svc.ExpiresAt(token)
		require.NoError(t, err)
		assert.False(t, exp.Before(before.Truncate(time.Second)))
		assert.False(t, exp.After(after))
	})

	t.Run("fails on malformed token", func(t *testing.T) {
		t.Parallel()

		_, err := svc.ExpiresAt("garbage")
		require.ErrorIs(t, err, jwt.ErrTokenInvalid)
	})
}
