package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"floradmin/internal/model"
)

// AccessTokenExpiry is the duration for which access tokens are valid.
const AccessTokenExpiry = 12 * time.Hour

// ErrNoExpiry is returned by TokenExpiry for tokens without an exp claim.
var ErrNoExpiry = errors.New("token has no expiry")

// Claims represents JWT claims issued by the marketplace backend.
type Claims struct {
	UserID   string     `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	StoreID  string     `json:"floristeria,omitempty"`
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	expiry time.Duration
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		expiry: AccessTokenExpiry,
	}
}

// Secret returns the signing key, for middleware that verifies tokens.
func (s *JWTService) Secret() []byte { return s.secret }

// GenerateAccessToken generates a new access token for the user.
func (s *JWTService) GenerateAccessToken(user model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		StoreID:  user.StoreID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// TokenExpiry reads the exp claim of a token without verifying its
// signature. The console does not hold the backend secret; it only uses the
// expiry to bound how long a session is kept.
func TokenExpiry(tokenString string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}
