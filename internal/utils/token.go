package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// IssueToken returns a signed HS256 bearer token carrying the user id.
func IssueToken(secret []byte, userID int64, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
		"jti":      uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return t, nil
}

// UserIDFromToken extracts the user id from a token already verified by
// the jwt middleware.
func UserIDFromToken(token *jwt.Token) (int64, error) {
	if token == nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	// encoding/json decodes numbers into float64
	raw, ok := claims["user_id"].(float64)
	if !ok || raw <= 0 {
		return 0, ErrInvalidToken
	}
	return int64(raw), nil
}
