package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/Quizdesk/config"
	"github.com/lshigami/Quizdesk/internal/clock"
	"github.com/lshigami/Quizdesk/internal/model"
)

func newTestTokens(clk clock.Clock) *TokenService {
	cfg := &config.Config{JWT: config.JWT{
		Secret:     "test-secret",
		Issuer:     "quizdesk-test",
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}}
	return NewTokenService(cfg, clk)
}

func TestIssuePairRoundTrip(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	tokens := newTestTokens(clk)

	pair, err := tokens.IssuePair(42, model.RoleTeacher)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	p, err := tokens.Authenticate(pair.Access)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if p.UserID != 42 || p.Role != model.RoleTeacher {
		t.Fatalf("principal = %+v", p)
	}
	if teacher, ok := p.Teacher(); !ok || teacher.ID != 42 {
		t.Errorf("Teacher() = %+v, %v", teacher, ok)
	}
	if _, ok := p.Student(); ok {
		t.Error("teacher principal must not carry the student capability")
	}

	claims, err := tokens.Parse(pair.Refresh, TokenTypeRefresh)
	if err != nil {
		t.Fatalf("Parse refresh: %v", err)
	}
	if id, _ := claims.UserID(); id != 42 || claims.Role != model.RoleTeacher {
		t.Errorf("refresh claims = %+v", claims)
	}
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	tokens := newTestTokens(clock.NewManual(time.Now()))
	pair, err := tokens.IssuePair(7, model.RoleStudent)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	if _, err := tokens.Authenticate(pair.Refresh); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("refresh as access: err = %v, want ErrWrongTokenType", err)
	}
	if _, err := tokens.Parse(pair.Access, TokenTypeRefresh); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("access as refresh: err = %v, want ErrWrongTokenType", err)
	}
}

func TestAccessTokenExpires(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	tokens := newTestTokens(clk)
	access, err := tokens.IssueAccess(7, model.RoleStudent)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	clk.Advance(4 * time.Minute)
	if _, err := tokens.Authenticate(access); err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}

	clk.Advance(2 * time.Minute)
	if _, err := tokens.Authenticate(access); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("err = %v, want ErrExpiredToken", err)
	}
}

func TestParseRejectsForgedTokens(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	tokens := newTestTokens(clk)

	sign := func(method jwt.SigningMethod, key interface{}, claims *Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	valid := func() *Claims {
		return &Claims{
			Role:      model.RoleTeacher,
			TokenType: TokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "1",
				Issuer:    "quizdesk-test",
				ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Minute)),
			},
		}
	}

	wrongIssuer := valid()
	wrongIssuer.Issuer = "someone-else"
	noExpiry := valid()
	noExpiry.ExpiresAt = nil
	badRole := valid()
	badRole.Role = "admin"

	cases := map[string]string{
		"wrong secret": sign(jwt.SigningMethodHS256, []byte("other-secret"), valid()),
		"wrong issuer": sign(jwt.SigningMethodHS256, []byte("test-secret"), wrongIssuer),
		"no expiry":    sign(jwt.SigningMethodHS256, []byte("test-secret"), noExpiry),
		"unknown role": sign(jwt.SigningMethodHS256, []byte("test-secret"), badRole),
		"none alg":     sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid()),
		"garbage":      "not.a.token",
	}
	for name, token := range cases {
		if _, err := tokens.Authenticate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: err = %v, want ErrInvalidToken", name, err)
		}
	}

	ok := sign(jwt.SigningMethodHS256, []byte("test-secret"), valid())
	if _, err := tokens.Authenticate(ok); err != nil {
		t.Errorf("hand-signed valid token rejected: %v", err)
	}
}
