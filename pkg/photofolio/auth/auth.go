// Package auth checks the single admin credential and issues the bearer
// tokens that guard mutating image routes.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/arthousehq/photofolio/pkg/photofolio"
)

const tokenTTL = 72 * time.Hour

// Admin holds the configured admin credential and token signing secret.
type Admin struct {
	username     string
	passwordHash string // bcrypt
	jwtSecret    []byte
}

// NewAdmin creates an admin credential checker. The password hash must be a
// bcrypt hash; plaintext passwords are never configured.
func NewAdmin(username, passwordHash string, jwtSecret []byte) (*Admin, error) {
	if username == "" {
		return nil, errors.New("admin username is required")
	}
	if passwordHash == "" {
		return nil, errors.New("admin password hash is required")
	}
	if len(jwtSecret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	return &Admin{
		username:     username,
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
	}, nil
}

// HashPassword hashes one plaintext password for configuration.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Login verifies the credential pair and returns a signed bearer token.
// Username comparison is constant time; a wrong username and a wrong
// password return the same error.
func (a *Admin) Login(username, password string) (string, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passwordOK := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(password)) == nil
	if !usernameOK || !passwordOK {
		return "", photofolio.ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub": a.username,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyBearer validates an Authorization header value and returns the
// authenticated subject.
func (a *Admin) VerifyBearer(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.New("authorization header format must be Bearer {token}")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Name {
			return nil, errors.New("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("sub claim missing or invalid")
	}
	return sub, nil
}
