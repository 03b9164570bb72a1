package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"shuttle/internal/tokens/repository"
	"shuttle/pkg/config"
	apperrors "shuttle/pkg/errors"
	"shuttle/pkg/model"
)

// TokenService issues, verifies, revokes and refreshes signed session
// tokens. Tokens are self-verifying HS256 JWTs; logout needs the denylist
// because a signed token cannot be invalidated in place.
type TokenService interface {
	Issue(ctx context.Context, employeeID, role string) (string, error)
	Verify(ctx context.Context, token string) (*model.TokenClaims, error)
	Revoke(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (string, error)
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type tokenService struct {
	secret   []byte
	ttl      time.Duration
	denylist repository.DenylistRepository
	cfg      *config.Config
	now      func() time.Time
}

func NewTokenService(denylist repository.DenylistRepository, cfg *config.Config) TokenService {
	return &tokenService{
		secret:   []byte(cfg.TokenSecret),
		ttl:      cfg.TokenTTL,
		denylist: denylist,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *tokenService) Issue(ctx context.Context, employeeID, role string) (string, error) {
	if employeeID == "" {
		return "", apperrors.InvalidInput("Employee ID cannot be empty")
	}
	if role != model.RoleEmployee && role != model.RoleAdmin {
		return "", apperrors.InvalidInput("Unknown role: " + role)
	}

	now := s.now()
	claims := sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   employeeID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.Internal("Failed to sign token", err)
	}

	s.cfg.Log.Debug("Token issued", "employee_id", employeeID, "role", role)
	return signed, nil
}

func (s *tokenService) Verify(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.denylist.Contains(ctx, claims.TokenID)
	if err != nil {
		return nil, apperrors.StoreUnavailable("Failed to check token revocation", err)
	}
	if revoked {
		return nil, apperrors.TokenInvalid("Token has been revoked")
	}

	return claims, nil
}

func (s *tokenService) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		// Revoking an already-expired token is a no-op: the denylist entry
		// would die instantly anyway.
		appErr, ok := err.(*apperrors.AppError)
		if ok && appErr.Code == apperrors.CodeTokenExpired {
			return nil
		}
		return err
	}

	err = s.denylist.Add(ctx, &model.RevokedToken{
		ID:        claims.TokenID,
		ExpiresAt: claims.ExpiresAt,
	})
	if err != nil {
		return apperrors.StoreUnavailable("Failed to revoke token", err)
	}

	s.cfg.Log.Info("Token revoked", "employee_id", claims.EmployeeID, "token_id", claims.TokenID)
	return nil
}

func (s *tokenService) Refresh(ctx context.Context, token string) (string, error) {
	claims, err := s.Verify(ctx, token)
	if err != nil {
		return "", err
	}

	if err := s.Revoke(ctx, token); err != nil {
		return "", err
	}

	return s.Issue(ctx, claims.EmployeeID, claims.Role)
}

// parse checks structure, signature and expiry, but not the denylist.
func (s *tokenService) parse(token string) (*model.TokenClaims, error) {
	if token == "" {
		return nil, apperrors.TokenMalformed("Token cannot be empty")
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, apperrors.TokenMalformed("Token is not a valid credential")
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.TokenExpired("Token has expired")
		default:
			return nil, apperrors.TokenInvalid("Token signature verification failed")
		}
	}
	if !parsed.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, apperrors.TokenInvalid("Token is missing required claims")
	}

	return &model.TokenClaims{
		TokenID:    claims.ID,
		EmployeeID: claims.Subject,
		Role:       claims.Role,
		IssuedAt:   claims.IssuedAt.Time,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}
