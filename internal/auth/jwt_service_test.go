package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floradmin/internal/model"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret")
	user := model.User{ID: "u1", Username: "ana", Role: model.RoleStoreUser, StoreID: "s1"}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, model.RoleStoreUser, claims.Role)
	assert.Equal(t, "s1", claims.StoreID)

	_, err = NewJWTService("other-secret").ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	svc := NewJWTService("test-secret")
	token, err := svc.GenerateAccessToken(model.User{ID: "u1", Role: model.RoleAdmin})
	require.NoError(t, err)

	exp, err := TokenExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(AccessTokenExpiry), exp, time.Minute)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = TokenExpiry(noExp)
	assert.ErrorIs(t, err, ErrNoExpiry)

	_, err = TokenExpiry("opaque-token")
	assert.Error(t, err)
}
