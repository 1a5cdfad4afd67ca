package security

import (
	"context"
	"errors"
	"time"

	"agency-cms/internal/admin/config"
	"agency-cms/internal/admin/domain/model"
	"agency-cms/internal/admin/domain/repository"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid          = errors.New("token is invalid")
	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
)

// JWTokenService signs and verifies HS256 admin session tokens
type JWTokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewJWTokenService checks the signing settings up front so a bad config fails at startup
func NewJWTokenService(cfg *config.Config) (*JWTokenService, error) {
	switch {
	case cfg.JWTSecret == "":
		return nil, errors.New("jwt secret key cannot be empty")
	case cfg.JWTIssuer == "":
		return nil, errors.New("jwt issuer cannot be empty")
	case cfg.JWTExpiresIn.Duration() <= 0:
		return nil, errors.New("jwt expiry must be positive")
	}

	s := &JWTokenService{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		ttl:    cfg.JWTExpiresIn.Duration(),
		now:    time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s, nil
}

func (s *JWTokenService) GenerateToken(ctx context.Context, admin model.Profile) (string, error) {
	issued := s.now()
	claims := &repository.Claims{
		ID:    admin.ID,
		Email: admin.Email,
		Role:  model.RoleAdmin,
		Name:  admin.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken accepts only unexpired admin tokens from this issuer
func (s *JWTokenService) ValidateToken(ctx context.Context, raw string) (*repository.Claims, error) {
	if raw == "" {
		return nil, ErrTokenInvalid
	}

	claims := &repository.Claims{}
	if _, err := s.parser.ParseWithClaims(raw, claims, s.key); err != nil {
		return nil, classify(err)
	}
	if claims.ID == "" || !claims.IsAdmin() {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *JWTokenService) key(*jwt.Token) (interface{}, error) {
	return s.secret, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignatureInvalid
	default:
		return ErrTokenInvalid
	}
}
