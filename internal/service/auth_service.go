package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/tuition-portal-api/internal/models"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

type authProfileReader interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
}

// AuthConfig describes how access tokens minted by the auth backend are verified.
type AuthConfig struct {
	Secret   string
	Issuer   string
	Audience []string
}

// AuthService resolves bearer tokens into the caller's profile.
type AuthService struct {
	profiles authProfileReader
	logger   *zap.Logger
	config   AuthConfig
	parser   *jwt.Parser
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(profiles authProfileReader, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	if len(config.Audience) > 0 {
		opts = append(opts, jwt.WithAudience(config.Audience[0]))
	}
	return &AuthService{profiles: profiles, logger: logger, config: config, parser: jwt.NewParser(opts...)}
}

// Authenticate validates the token and loads the profile that carries the caller's role.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	token, err := s.parser.ParseWithClaims(tokenString, &models.AccessTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Wrap(err, appErrors.ErrSessionExpired.Code, appErrors.ErrSessionExpired.Status, appErrors.ErrSessionExpired.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	access, ok := token.Claims.(*models.AccessTokenClaims)
	if !ok || !token.Valid || access.Subject == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	profile, err := s.profiles.FindByID(ctx, access.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	if !profile.Role.Valid() {
		s.logger.Warn("profile has unknown role", zap.String("user_id", profile.ID), zap.String("role", string(profile.Role)))
		return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("unsupported role %q", profile.Role))
	}

	claims := &models.JWTClaims{
		UserID:           profile.ID,
		Role:             profile.Role,
		Email:            access.Email,
		FullName:         profile.Name,
		RegisteredClaims: access.RegisteredClaims,
	}
	if profile.Email != nil && strings.TrimSpace(*profile.Email) != "" {
		claims.Email = *profile.Email
	}
	if profile.LinkedUserID != nil {
		claims.LinkedUserID = *profile.LinkedUserID
	}
	return claims, nil
}

// Me returns the profile of the authenticated caller.
func (s *AuthService) Me(ctx context.Context, claims *models.JWTClaims) (*models.Profile, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	profile, err := s.profiles.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile, nil
}
