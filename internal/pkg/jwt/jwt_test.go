package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", user.RoleEmployee)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	p, err := PrincipalFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, user.Principal{UserID: "user-1", Role: user.RoleEmployee}, p)
}

func TestPrincipalFromClaims(t *testing.T) {
	_, err := PrincipalFromClaims(map[string]interface{}{"type": "refresh", "user_id": "u", "role": "admin"})
	assert.ErrorIs(t, err, user.ErrInvalidToken)

	_, err = PrincipalFromClaims(map[string]interface{}{"type": "access", "role": "admin"})
	assert.ErrorIs(t, err, user.ErrPrincipalClaimsIncomplete)

	p, err := PrincipalFromClaims(map[string]interface{}{"type": "access", "user_id": "u", "role": "admin"})
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
}
