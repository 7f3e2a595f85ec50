package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie the signed session token travels in.
const SessionCookieName = "sessionid"

// SignToken issues the signed session token carried by the session cookie.
func SignToken(userID int, username string) (string, error) {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return "", errors.New("SESSION_SECRET is not set")
	}

	claims := jwt.MapClaims{
		"uid":  userID,
		"user": username,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a session token and returns the user id and username
// it carries.
func ParseToken(tokenString string) (int, string, error) {
	secret := os.Getenv("SESSION_SECRET")

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return 0, "", errors.New("invalid session token")
	}

	uidFloat, ok := claims["uid"].(float64)
	if !ok {
		return 0, "", errors.New("invalid session token")
	}

	username, _ := claims["user"].(string)

	return int(uidFloat), username, nil
}
