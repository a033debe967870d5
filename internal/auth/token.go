package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lshigami/Quizdesk/config"
	"github.com/lshigami/Quizdesk/internal/clock"
	"github.com/lshigami/Quizdesk/internal/model"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken   = errors.New("token is invalid")
	ErrExpiredToken   = errors.New("token is expired")
	ErrWrongTokenType = errors.New("token has wrong type")
)

// Claims carries the user's role so authorization never needs a database read.
type Claims struct {
	Role      model.Role `json:"role"`
	TokenType string     `json:"token_type"`
	jwt.RegisteredClaims
}

// UserID parses the subject back into a user id.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	return uint(id), nil
}

type TokenPair struct {
	Access  string
	Refresh string
}

type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      clock.Clock
}

func NewTokenService(cfg *config.Config, clk clock.Clock) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.JWT.Secret),
		issuer:     cfg.JWT.Issuer,
		accessTTL:  cfg.JWT.AccessTTL,
		refreshTTL: cfg.JWT.RefreshTTL,
		clock:      clk,
	}
}

func (s *TokenService) IssuePair(userID uint, role model.Role) (TokenPair, error) {
	access, err := s.issue(userID, role, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.issue(userID, role, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) IssueAccess(userID uint, role model.Role) (string, error) {
	return s.issue(userID, role, TokenTypeAccess, s.accessTTL)
}

func (s *TokenService) issue(userID uint, role model.Role, tokenType string, ttl time.Duration) (string, error) {
	now := s.clock.Now()
	claims := &Claims{
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Parse verifies signature, issuer, expiry and token type.
func (s *TokenService) Parse(tokenString, expectedType string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TokenType != expectedType {
		return nil, ErrWrongTokenType
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	return claims, nil
}

// Authenticate turns a verified access token into a Principal.
func (s *TokenService) Authenticate(tokenString string) (Principal, error) {
	claims, err := s.Parse(tokenString, TokenTypeAccess)
	if err != nil {
		return Principal{}, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return Principal{}, err
	}
	return Principal{UserID: userID, Role: claims.Role}, nil
}
