package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"inviteflow/internal/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	Tier      string `json:"tier,omitempty"`
	TokenType string `json:"typ"`
}

type jwtTokens struct {
	secret []byte
}

// NewJWTTokens returns a combined TokenIssuer/TokenVerifier that signs
// HS256 JWTs with the given secret. Access and refresh tokens carry a "typ"
// claim so one cannot be presented as the other.
func NewJWTTokens(secret string) *jwtTokens {
	return &jwtTokens{secret: []byte(secret)}
}

var (
	_ domain.TokenIssuer   = (*jwtTokens)(nil)
	_ domain.TokenVerifier = (*jwtTokens)(nil)
)

func (t *jwtTokens) IssueAccess(userID, email string, tier domain.Tier, expiry time.Duration) (string, error) {
	return t.issue(jwtClaims{
		RegisteredClaims: registered(userID, expiry),
		Email:            email,
		Tier:             string(tier),
		TokenType:        tokenTypeAccess,
	})
}

func (t *jwtTokens) IssueRefresh(userID string, expiry time.Duration) (string, error) {
	return t.issue(jwtClaims{
		RegisteredClaims: registered(userID, expiry),
		TokenType:        tokenTypeRefresh,
	})
}

// registered fills the standard claims. The jti keeps tokens issued within
// the same second distinct, which refresh rotation depends on.
func registered(userID string, expiry time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	}
}

func (t *jwtTokens) issue(claims jwtClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (t *jwtTokens) VerifyAccess(token string) (string, error) {
	return t.verify(token, tokenTypeAccess)
}

func (t *jwtTokens) VerifyRefresh(token string) (string, error) {
	return t.verify(token, tokenTypeRefresh)
}

func (t *jwtTokens) verify(tokenString, wantType string) (string, error) {
	var claims jwtClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return "", domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
