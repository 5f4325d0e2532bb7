package out

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	authout "mih/internal/modules/auth/port/out"
	"mih/internal/platform/clock"
	apperrors "mih/internal/platform/errors"
)

// JWTCodec signs HS256 tokens carrying the user id and an expiry.
type JWTCodec struct {
	secret []byte
	ttlDay int
	clock  clock.Clock
}

func NewJWTCodec(secret string, ttlDays int, clk clock.Clock) authout.TokenCodec {
	return &JWTCodec{secret: []byte(secret), ttlDay: ttlDays, clock: clk}
}

func (c *JWTCodec) Issue(userID string) (string, error) {
	now := c.clock.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     jwt.NewNumericDate(now.AddDate(0, 0, c.ttlDay)),
		"iat":     jwt.NewNumericDate(now),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (c *JWTCodec) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: invalid or expired token", apperrors.ErrUnauthorized)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: malformed claims", apperrors.ErrUnauthorized)
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", fmt.Errorf("%w: token carries no user", apperrors.ErrUnauthorized)
	}
	return userID, nil
}
