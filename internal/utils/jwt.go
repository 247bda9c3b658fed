package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenClaims is the verified content of an access token.
type TokenClaims struct {
	TokenID   string
	UserID    uuid.UUID
	Email     string
	Role      string
	ExpiresAt time.Time
}

// GenerateToken creates a signed JWT for the provided account and returns
// the token together with its id and expiry.
func GenerateToken(secret string, userID uuid.UUID, email, role string, ttl time.Duration) (string, TokenClaims, error) {
	now := time.Now()
	tc := TokenClaims{
		TokenID:   uuid.NewString(),
		UserID:    userID,
		Email:     email,
		Role:      role,
		ExpiresAt: now.Add(ttl),
	}
	claims := &jwtCustomClaims{
		UserID: userID.String(),
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tc.TokenID,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(tc.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", TokenClaims{}, err
	}
	return signed, tc, nil
}

// ParseToken validates the token and returns its claims.
func ParseToken(secret, tokenString string) (TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return TokenClaims{}, err
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return TokenClaims{}, jwt.ErrTokenInvalidClaims
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return TokenClaims{}, err
	}
	tc := TokenClaims{
		TokenID: claims.ID,
		UserID:  userID,
		Email:   claims.Email,
		Role:    claims.Role,
	}
	if claims.ExpiresAt != nil {
		tc.ExpiresAt = claims.ExpiresAt.Time
	}
	return tc, nil
}
