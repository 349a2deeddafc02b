package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

type studentProfileRepoStub struct {
	profiles map[string]models.StudentProfile
}

func (s *studentProfileRepoStub) FindByStudent(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	p, ok := s.profiles[studentID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (s *studentProfileRepoStub) Exists(ctx context.Context, studentID string) (bool, error) {
	_, ok := s.profiles[studentID]
	return ok, nil
}

func (s *studentProfileRepoStub) Create(ctx context.Context, profile *models.StudentProfile) error {
	profile.ID = "sp-" + profile.StudentID
	s.profiles[profile.StudentID] = *profile
	return nil
}

func TestStudentProfileCreateOnce(t *testing.T) {
	repo := &studentProfileRepoStub{profiles: map[string]models.StudentProfile{}}
	svc := NewStudentProfileService(repo, nil, nil)
	req := dto.StudentProfileRequest{School: " Hillside ", YearGroup: "Year 10", ExamBoard: "AQA"}

	profile, err := svc.Create(context.Background(), parentClaims("parent-1", "stu-1"), req)
	require.NoError(t, err)
	assert.Equal(t, "stu-1", profile.StudentID)
	assert.Equal(t, "Hillside", profile.School)
	assert.JSONEq(t, `{}`, string(profile.TargetGrades))

	_, err = svc.Create(context.Background(), studentClaims("stu-1"), req)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	got, err := svc.Get(context.Background(), studentClaims("stu-1"))
	require.NoError(t, err)
	assert.Equal(t, "sp-stu-1", got.ID)
}

func TestStudentProfileTargetGrades(t *testing.T) {
	repo := &studentProfileRepoStub{profiles: map[string]models.StudentProfile{}}
	svc := NewStudentProfileService(repo, nil, nil)

	profile, err := svc.Create(context.Background(), studentClaims("stu-2"), dto.StudentProfileRequest{
		School: "Hillside", YearGroup: "Year 11", ExamBoard: "Edexcel",
		TargetGrades: map[string]string{"maths": "8"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"maths":"8"}`, string(profile.TargetGrades))
}

func TestStudentProfileGuards(t *testing.T) {
	repo := &studentProfileRepoStub{profiles: map[string]models.StudentProfile{}}
	svc := NewStudentProfileService(repo, nil, nil)

	_, err := svc.Get(context.Background(), studentClaims("stu-1"))
	assert.Equal(t, "academic profile not found", appErrors.FromError(err).Message)

	_, err = svc.Get(context.Background(), tutorClaims("tutor-1"))
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)

	_, err = svc.Get(context.Background(), parentClaims("parent-1", ""))
	assert.Equal(t, "no linked student account", appErrors.FromError(err).Message)

	_, err = svc.Create(context.Background(), studentClaims("stu-1"), dto.StudentProfileRequest{School: " ", YearGroup: "Year 10", ExamBoard: "AQA"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
