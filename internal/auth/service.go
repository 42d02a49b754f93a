package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fitai/internal/config"
)

var ErrUnauthorized = errors.New("unauthorized")

type Service struct {
	Config config.Config
	Now    func() time.Time
}

func NewService(cfg config.Config) *Service {
	return &Service{
		Config: cfg,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// IssueToken mints an HS256 session token for one user.
func (s *Service) IssueToken(userID, email string) (string, error) {
	signingKey := []byte(s.Config.Security.TokenSigningKey)
	if len(signingKey) == 0 {
		return "", errors.New("token signing key not configured")
	}
	now := s.Now()
	ttl := s.Config.Security.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	claims := jwt.MapClaims{
		"iss":   s.Config.Security.Issuer,
		"sub":   userID,
		"email": email,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
}

func (s *Service) AuthenticateRequest(r *http.Request) (Principal, error) {
	return s.VerifyToken(r.Header.Get("Authorization"))
}

func (s *Service) VerifyToken(authHeader string) (Principal, error) {
	headerParts := strings.Fields(strings.TrimSpace(authHeader))
	if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "Bearer") {
		return Principal{}, ErrUnauthorized
	}
	rawToken := strings.TrimSpace(headerParts[1])

	signingKey := []byte(s.Config.Security.TokenSigningKey)
	if len(signingKey) == 0 {
		return Principal{}, fmt.Errorf("%w: token signing key not configured", ErrUnauthorized)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.Now),
	}
	if iss := strings.TrimSpace(s.Config.Security.Issuer); iss != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(iss))
	}

	parsed, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return signingKey, nil
	}, parserOpts...)
	if err != nil || !parsed.Valid {
		return Principal{}, ErrUnauthorized
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, ErrUnauthorized
	}

	userID := claimString(claims["sub"])
	if userID == "" {
		return Principal{}, ErrUnauthorized
	}
	return Principal{
		UserID:  userID,
		Email:   claimString(claims["email"]),
		TokenID: claimString(claims["jti"]),
	}, nil
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func claimString(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	default:
		return ""
	}
}
