package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuition-portal-api/internal/models"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

type profileReaderStub struct {
	profiles map[string]models.Profile
}

func (s *profileReaderStub) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func signToken(t *testing.T, secret, sub string, exp time.Time) string {
	t.Helper()
	claims := models.AccessTokenClaims{
		Email: "parent@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthServiceForTest() *AuthService {
	linked := "stu-1"
	repo := &profileReaderStub{profiles: map[string]models.Profile{
		"parent-1": {ID: "parent-1", Name: "Pat Parent", Role: models.RoleParent, LinkedUserID: &linked},
	}}
	return NewAuthService(repo, nil, AuthConfig{Secret: "secret", Audience: []string{"authenticated"}})
}

func TestAuthenticateResolvesProfile(t *testing.T) {
	svc := newAuthServiceForTest()
	token := signToken(t, "secret", "parent-1", time.Now().Add(time.Hour))

	claims, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleParent, claims.Role)
	assert.Equal(t, "stu-1", claims.StudentID())
	assert.Equal(t, "parent@example.com", claims.Email)
}

func TestAuthenticateExpiredMapsToSessionExpired(t *testing.T) {
	svc := newAuthServiceForTest()
	token := signToken(t, "secret", "parent-1", time.Now().Add(-time.Minute))

	_, err := svc.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrSessionExpired))
	assert.Equal(t, "Session expired. Please log in again.", appErrors.FromError(err).Message)
}

func TestAuthenticateRejectsBadSignatureAndUnknownProfile(t *testing.T) {
	svc := newAuthServiceForTest()

	_, err := svc.Authenticate(context.Background(), signToken(t, "other", "parent-1", time.Now().Add(time.Hour)))
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	_, err = svc.Authenticate(context.Background(), signToken(t, "secret", "ghost", time.Now().Add(time.Hour)))
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
