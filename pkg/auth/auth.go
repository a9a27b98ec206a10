// Package auth issues and validates the signed session tokens returned
// by login. Tokens bind to the user id and expire after seven days.
package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// TokenTTL is how long a login session stays valid.
const TokenTTL = 7 * 24 * time.Hour

var secret = []byte("mysecretkey")

// SetSecret replaces the signing key. Called once at startup from config.
func SetSecret(s string) {
	if s != "" {
		secret = []byte(s)
	}
}

// Claims carries the authenticated user id.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.StandardClaims
}

// GenerateJWT signs a session token for the given user id.
func GenerateJWT(userID string) (string, error) {
	claims := Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(TokenTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateJWT parses and verifies a session token.
func ValidateJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
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
