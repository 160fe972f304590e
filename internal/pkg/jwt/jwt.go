package jwt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of issued session tokens.
const TokenTTL = 30 * 24 * time.Hour

// ErrNoSecret is returned when signing or verifying without a configured secret.
var ErrNoSecret = errors.New("jwt secret is not configured")

var (
	mu     sync.RWMutex
	secret []byte
)

// SetSecret configures the signing secret (call on startup). There is no
// built-in fallback: an empty secret disables issuing and accepting tokens.
func SetSecret(s string) {
	mu.Lock()
	defer mu.Unlock()
	if s == "" {
		secret = nil
		return
	}
	secret = []byte(s)
}

// Configured reports whether a secret has been set.
func Configured() bool {
	mu.RLock()
	defer mu.RUnlock()
	return len(secret) > 0
}

func currentSecret() ([]byte, error) {
	mu.RLock()
	defer mu.RUnlock()
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	return secret, nil
}

// Claims is the JWT payload.
type Claims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwtlib.RegisteredClaims
}

// Sign creates a signed HS256 token for the given identity.
func Sign(userID uint, email, role string, ttl time.Duration) (string, error) {
	key, err := currentSecret()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// Parse validates a token string and returns the claims.
func Parse(tokenStr string) (*Claims, error) {
	key, err := currentSecret()
	if err != nil {
		return nil, err
	}
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	}, jwtlib.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
