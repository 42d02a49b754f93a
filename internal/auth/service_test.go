package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fitai/internal/config"
)

const testSigningKey = "test-signing-key-for-unit-tests"

func testService(now time.Time) *Service {
	cfg := config.Default()
	cfg.Security.TokenSigningKey = testSigningKey
	return &Service{
		Config: cfg,
		Now:    func() time.Time { return now },
	}
}

func TestIssueAndVerifyToken(t *testing.T) {
	svc := testService(time.Unix(1000, 0))

	token, err := svc.IssueToken("user-1", "sam@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	principal, err := svc.VerifyToken("Bearer " + token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if principal.UserID != "user-1" || principal.Email != "sam@example.com" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if principal.TokenID == "" {
		t.Fatalf("expected jti to be set")
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	issuer := testService(time.Unix(1000, 0))
	token, err := issuer.IssueToken("user-1", "sam@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	later := testService(time.Unix(1000, 0).Add(48 * time.Hour))
	if _, err := later.VerifyToken("Bearer " + token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected expired token to be unauthorized, got %v", err)
	}
}

func TestVerifyTokenRejectsWrongIssuer(t *testing.T) {
	issuer := testService(time.Unix(1000, 0))
	issuer.Config.Security.Issuer = "someone-else"
	token, err := issuer.IssueToken("user-1", "sam@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	verifier := testService(time.Unix(1000, 0))
	if _, err := verifier.VerifyToken("Bearer " + token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected issuer mismatch to be unauthorized, got %v", err)
	}
}

func TestVerifyTokenRejectsUnsignedAlg(t *testing.T) {
	svc := testService(time.Unix(1000, 0))

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"iss": "fitai",
		"sub": "user-1",
		"exp": 2000,
	})
	unsigned, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	if _, err := svc.VerifyToken("Bearer " + unsigned); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected alg=none to be unauthorized, got %v", err)
	}
}

func TestVerifyTokenRequiresSubject(t *testing.T) {
	svc := testService(time.Unix(1000, 0))
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "fitai",
		"exp": 2000,
	})
	signed, err := tok.SignedString([]byte(testSigningKey))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.VerifyToken("Bearer " + signed); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected missing subject to be unauthorized, got %v", err)
	}
}

func TestAuthenticateRequestReadsBearerHeader(t *testing.T) {
	svc := testService(time.Unix(1000, 0))
	token, err := svc.IssueToken("user-1", "sam@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req, err := http.NewRequest(http.MethodGet, "/v1/users/me", nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	principal, err := svc.AuthenticateRequest(req)
	if err != nil {
		t.Fatalf("authenticate request: %v", err)
	}
	if principal.UserID != "user-1" {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	req.Header.Set("Authorization", "Basic abc")
	if _, err := svc.AuthenticateRequest(req); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected non-bearer header to be unauthorized, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatalf("hash must not equal the password")
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Fatalf("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("expected wrong password to fail")
	}
	if _, err := HashPassword(""); err == nil {
		t.Fatalf("expected empty password to be rejected")
	}
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	ctx := WithPrincipal(context.Background(), Principal{UserID: "user-1"})
	principal, ok := PrincipalFromContext(ctx)
	if !ok || principal.UserID != "user-1" {
		t.Fatalf("expected principal in context, got %+v ok=%v", principal, ok)
	}
	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Fatalf("expected empty context to carry no principal")
	}
}
