package auth

import (
	"errors"
	"time"

	"github.com/InkwellLabs/Inkwell-Backend/internal/apierr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the token payload: who the token is for and what they can do.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SignToken mints an HS256 token with {user_id, role, iat, exp} claims.
func SignToken(userID, role string, ttl time.Duration, secret []byte) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			// ID makes every issued token distinct even within one second,
			// so superseding a session always changes the stored string.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	return signed, exp, err
}

// ParseToken verifies signature and expiry and returns the claims. Failures
// map onto the API error taxonomy so the middleware can report a precise
// code while keeping the client message generic.
func ParseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	switch {
	case err == nil:
		if claims.UserID == "" {
			return nil, apierr.ErrTokenMalformed
		}
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, apierr.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, apierr.ErrInvalidSignature
	default:
		// Not three parts, bad base64, claims that don't parse, wrong alg.
		return nil, apierr.ErrTokenMalformed
	}
}
