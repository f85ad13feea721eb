package utils

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cppla/yatube/config"
)

// Claims defines JWT claims used in the application.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken issues a JWT for the user, valid for the configured TokenTTLHours.
func GenerateToken(userID uint, username string) (string, time.Time, error) {
	cfg := config.Get()
	now := time.Now()
	expiresAt := now.Add(time.Duration(cfg.TokenTTLHours) * time.Hour)

	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	return signed, expiresAt, err
}

// ParseToken validates a JWT and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

var (
	revoked   = map[string]time.Time{}
	revokedMu sync.Mutex
)

func revokedKey(token string) string {
	return "jwt:revoked:" + token
}

// RevokeToken blacklists token until it would have expired anyway.
// Redis is preferred; the in-memory set is used when Redis is unreachable.
func RevokeToken(ctx context.Context, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	err := GetRedis().Set(ctx, revokedKey(token), "1", ttl).Err()
	if err == nil {
		return
	}
	Sugar.Warnf("token revocation falling back to memory: %v", err)
	revokedMu.Lock()
	revoked[token] = expiresAt
	revokedMu.Unlock()
}

// IsTokenRevoked reports whether token was revoked before its natural expiry.
func IsTokenRevoked(ctx context.Context, token string) bool {
	revokedMu.Lock()
	exp, ok := revoked[token]
	if ok && time.Now().After(exp) {
		delete(revoked, token)
		ok = false
	}
	revokedMu.Unlock()
	if ok {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	n, err := GetRedis().Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		// fail open so a Redis outage does not lock everybody out
		return false
	}
	return n > 0
}
