package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidShareToken = errors.New("invalid share token")

// ShareClaims authorise read access to a published portfolio.
type ShareClaims struct {
	Freelancer string `json:"fl"`
	jwt.RegisteredClaims
}

func SignShareToken(secret string, freelancer string, expiresMin int) (string, error) {
	now := time.Now()
	claims := ShareClaims{
		Freelancer: freelancer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "portfolio",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiresMin) * time.Minute)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

func ParseShareToken(secret, tokenStr string) (*ShareClaims, error) {
	claims := &ShareClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidShareToken
	}
	return claims, nil
}
