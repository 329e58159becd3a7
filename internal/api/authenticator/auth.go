package authenticator

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/curaious/civicpulse/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken   = errors.New("token is invalid or expired")
	ErrWrongTokenType = errors.New("token has wrong type")
)

// Claims is the payload of both token kinds. Subject repeats the user id as a string.
type Claims struct {
	TokenType string `json:"token_type"`
	UserID    int64  `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenPair is what register and login hand back.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Authenticator issues and verifies HS256 tokens.
type Authenticator struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func New(conf *config.Config) (*Authenticator, error) {
	if conf.JWT_SECRET == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return &Authenticator{
		secret:     []byte(conf.JWT_SECRET),
		accessTTL:  conf.JWT_ACCESS_TTL,
		refreshTTL: conf.JWT_REFRESH_TTL,
		now:        time.Now,
	}, nil
}

// WithClock replaces time.Now, for tests.
func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	a.now = now
	return a
}

// IssuePair returns a fresh access and refresh token for userID.
func (a *Authenticator) IssuePair(userID int64) (*TokenPair, error) {
	access, err := a.issue(userID, TokenTypeAccess, a.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := a.issue(userID, TokenTypeRefresh, a.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (a *Authenticator) Refresh(refreshToken string) (string, error) {
	claims, err := a.verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	return a.issue(claims.UserID, TokenTypeAccess, a.accessTTL)
}

// VerifyAccessToken returns the claims of a valid access token.
func (a *Authenticator) VerifyAccessToken(token string) (*Claims, error) {
	return a.verify(token, TokenTypeAccess)
}

func (a *Authenticator) issue(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := a.now()

	claims := Claims{
		TokenType: tokenType,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func (a *Authenticator) verify(raw, tokenType string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}

	return &claims, nil
}
