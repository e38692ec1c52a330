// Package auth issues and checks the bearer tokens of the mock API.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/botfolio/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims: стандартные утверждения плюс идентификатор и роль пользователя.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Role   string `json:"role"`
}

func GenerateToken(userID, role string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Role:   role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates tokenString and returns its claims. Expired tokens
// yield common.ErrTokenExpired, anything else invalid common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// GoogleIdentity is what the mock reads from an identity-provider ID token.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

type googleClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ParseGoogleToken extracts the identity from an ID token without checking
// its signature; the mock has no access to the provider's keys.
func ParseGoogleToken(idToken string) (*GoogleIdentity, error) {
	claims := &googleClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, common.ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, common.ErrInvalidToken
	}
	return &GoogleIdentity{Subject: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

// FakeGoogleToken builds an unsigned-looking ID token for local development
// and tests.
func FakeGoogleToken(email, name string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, googleClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: email, Issuer: "accounts.google.com"},
		Email:            email,
		Name:             name,
	})
	return token.SignedString([]byte("dev"))
}
