package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/config"
	"github.com/phrazzld/tatame-api/internal/platform/logger"
)

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 32

// Issuer is the iss claim of every token this service signs. Tokens from
// any other issuer are rejected.
const Issuer = "tatame-api"

const clockSkew = 2 * time.Minute

// tokenKind describes one of the two token flavors and the errors its
// validation failures collapse to.
type tokenKind struct {
	name           string
	lifetime       time.Duration
	errExpired     error
	errNotYetValid error
	errInvalid     error
}

// hmacJWTService signs and validates HS256 tokens.
type hmacJWTService struct {
	key     []byte
	now     func() time.Time
	access  tokenKind
	refresh tokenKind
}

// tokenClaims is the wire form of a token's payload.
type tokenClaims struct {
	UserID    uuid.UUID `json:"uid"`
	TokenType string    `json:"type"`
	jwt.RegisteredClaims
}

var _ JWTService = (*hmacJWTService)(nil)

// Option customizes a JWT service.
type Option func(*hmacJWTService)

// WithTimeFunc replaces the clock used for issuing and validating tokens.
func WithTimeFunc(now func() time.Time) Option {
	return func(s *hmacJWTService) { s.now = now }
}

// NewJWTService returns an HS256 JWTService keyed by cfg.JWTSecret.
func NewJWTService(cfg config.AuthConfig, opts ...Option) (JWTService, error) {
	if len(cfg.JWTSecret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)
	}
	if cfg.TokenLifetimeMinutes <= 0 || cfg.RefreshTokenLifetimeMinutes <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	s := &hmacJWTService{
		key: []byte(cfg.JWTSecret),
		now: time.Now,
		access: tokenKind{
			name:           TokenTypeAccess,
			lifetime:       time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
			errExpired:     ErrExpiredToken,
			errNotYetValid: ErrTokenNotYetValid,
			errInvalid:     ErrInvalidToken,
		},
		refresh: tokenKind{
			name:           TokenTypeRefresh,
			lifetime:       time.Duration(cfg.RefreshTokenLifetimeMinutes) * time.Minute,
			errExpired:     ErrExpiredRefreshToken,
			errNotYetValid: ErrInvalidRefreshToken,
			errInvalid:     ErrInvalidRefreshToken,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *hmacJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.sign(ctx, userID, s.access)
}

func (s *hmacJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.sign(ctx, userID, s.refresh)
}

func (s *hmacJWTService) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	return s.validate(ctx, token, s.access)
}

func (s *hmacJWTService) ValidateRefreshToken(ctx context.Context, token string) (*Claims, error) {
	return s.validate(ctx, token, s.refresh)
}

func (s *hmacJWTService) sign(ctx context.Context, userID uuid.UUID, kind tokenKind) (string, error) {
	issued := s.now()
	claims := tokenClaims{
		UserID:    userID,
		TokenType: kind.name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(kind.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("token_type", kind.name))
		return "", fmt.Errorf("sign %s token: %w", kind.name, err)
	}
	return signed, nil
}

// validate parses token as kind. Every failure is reported as one of kind's
// errors or ErrWrongTokenType; jwt's own errors stay in the debug log.
func (s *hmacJWTService) validate(ctx context.Context, token string, kind tokenKind) (*Claims, error) {
	log := logger.FromContext(ctx).With(slog.String("token_type", kind.name))
	at := s.now()

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(func() time.Time { return at }),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		log.Debug("token expired")
		return nil, kind.errExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		log.Debug("token not yet valid")
		return nil, kind.errNotYetValid
	case err != nil:
		log.Debug("token rejected", slog.String("error", err.Error()))
		return nil, kind.errInvalid
	}

	if claims.TokenType != kind.name {
		log.Debug("token has the wrong type", slog.String("actual", claims.TokenType))
		return nil, ErrWrongTokenType
	}
	if claims.UserID == uuid.Nil || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		log.Debug("token is missing required claims")
		return nil, kind.errInvalid
	}

	return &Claims{
		UserID:    claims.UserID,
		TokenType: claims.TokenType,
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}
