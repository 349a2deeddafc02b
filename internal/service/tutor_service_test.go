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
	"github.com/noah-isme/tuition-portal-api/pkg/identity"
)

type identityStub struct {
	inviteErr error
	invited   []string
	deleted   []string
}

func (s *identityStub) InviteUser(ctx context.Context, email string, metadata map[string]interface{}) (*identity.User, error) {
	if s.inviteErr != nil {
		return nil, s.inviteErr
	}
	s.invited = append(s.invited, email)
	return &identity.User{ID: "tutor-new", Email: email}, nil
}

func (s *identityStub) DeleteUser(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type tutorProfilesStub struct {
	profiles  map[string]models.Profile
	createErr error
	created   []models.Profile
}

func (s *tutorProfilesStub) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (s *tutorProfilesStub) Create(ctx context.Context, profile *models.Profile) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, *profile)
	return nil
}

type tutorRepoStub struct {
	directory    []models.TutorDirectoryEntry
	directoryErr error
	applications map[string]models.TutorApplication
}

func (s *tutorRepoStub) ListDirectory(ctx context.Context) ([]models.TutorDirectoryEntry, error) {
	return s.directory, nil
}

func (s *tutorRepoStub) FindDirectoryEntry(ctx context.Context, id string) (*models.TutorDirectoryEntry, error) {
	for _, e := range s.directory {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *tutorRepoStub) CreateDirectoryEntry(ctx context.Context, entry *models.TutorDirectoryEntry) error {
	if s.directoryErr != nil {
		return s.directoryErr
	}
	s.directory = append(s.directory, *entry)
	return nil
}

func (s *tutorRepoStub) UpdateDirectoryEntry(ctx context.Context, entry *models.TutorDirectoryEntry) error {
	return nil
}

func (s *tutorRepoStub) DeleteDirectoryEntry(ctx context.Context, id string) error {
	return sql.ErrNoRows
}

func (s *tutorRepoStub) ListApplications(ctx context.Context, status models.ApplicationStatus) ([]models.TutorApplication, error) {
	out := make([]models.TutorApplication, 0)
	for _, app := range s.applications {
		if status == "" || app.Status == status {
			out = append(out, app)
		}
	}
	return out, nil
}

func (s *tutorRepoStub) CreateApplication(ctx context.Context, app *models.TutorApplication) error {
	app.ID = "app-1"
	s.applications[app.ID] = *app
	return nil
}

func (s *tutorRepoStub) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	app, ok := s.applications[id]
	if !ok {
		return sql.ErrNoRows
	}
	app.Status = status
	s.applications[id] = app
	return nil
}

type tutorFixture struct {
	svc      *TutorService
	idp      *identityStub
	profiles *tutorProfilesStub
	repo     *tutorRepoStub
	audit    *auditStub
}

func newTutorFixture() *tutorFixture {
	tenant := "tenant-1"
	f := &tutorFixture{
		idp:      &identityStub{},
		profiles: &tutorProfilesStub{profiles: map[string]models.Profile{"admin-1": {ID: "admin-1", Role: models.RoleAdmin, TenantID: &tenant}}},
		repo:     &tutorRepoStub{applications: map[string]models.TutorApplication{}},
		audit:    &auditStub{},
	}
	f.svc = NewTutorService(f.repo, f.profiles, f.idp, f.audit, nil, nil)
	return f
}

func TestCreateTutorProvisionsProfileAndDirectory(t *testing.T) {
	f := newTutorFixture()

	created, err := f.svc.CreateTutor(context.Background(), adminClaims(), dto.CreateTutorRequest{FullName: " Jane Q Smith ", Email: "Jane@Example.com"}, models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "tutor-new", created.ID)
	assert.Equal(t, "jane@example.com", created.Email)

	require.Len(t, f.profiles.created, 1)
	assert.Equal(t, models.RoleTutor, f.profiles.created[0].Role)
	assert.Equal(t, "tenant-1", derefString(f.profiles.created[0].TenantID))

	require.Len(t, f.repo.directory, 1)
	assert.Equal(t, "Jane", f.repo.directory[0].FirstName)
	assert.Equal(t, "Q Smith", f.repo.directory[0].LastName)
	assert.Equal(t, []string{models.AuditActionTutorCreate}, f.audit.actions())
}

func TestCreateTutorRollsBackInviteWhenProfileFails(t *testing.T) {
	f := newTutorFixture()
	f.profiles.createErr = errors.New("duplicate key")

	_, err := f.svc.CreateTutor(context.Background(), adminClaims(), dto.CreateTutorRequest{FullName: "Jane", Email: "jane@example.com"}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, []string{"tutor-new"}, f.idp.deleted)
	assert.Empty(t, f.repo.directory)
	assert.Empty(t, f.audit.actions())
}

func TestCreateTutorDirectoryFailureIsNotFatal(t *testing.T) {
	f := newTutorFixture()
	f.repo.directoryErr = errors.New("directory down")

	created, err := f.svc.CreateTutor(context.Background(), adminClaims(), dto.CreateTutorRequest{FullName: "Jane", Email: "jane@example.com"}, models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "Jane", created.Name)
	assert.Empty(t, f.idp.deleted)
}

func TestCreateTutorGuards(t *testing.T) {
	f := newTutorFixture()

	_, err := f.svc.CreateTutor(context.Background(), tutorClaims("tutor-1"), dto.CreateTutorRequest{FullName: "Jane", Email: "jane@example.com"}, models.RequestMeta{})
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)

	_, err = f.svc.CreateTutor(context.Background(), adminClaims(), dto.CreateTutorRequest{FullName: " ", Email: "jane@example.com"}, models.RequestMeta{})
	assert.Equal(t, "Full name and email are required", appErrors.FromError(err).Message)

	f.idp.inviteErr = &identity.APIError{Status: http.StatusUnprocessableEntity, Message: "A user with this email address has already been registered"}
	_, err = f.svc.CreateTutor(context.Background(), adminClaims(), dto.CreateTutorRequest{FullName: "Jane", Email: "jane@example.com"}, models.RequestMeta{})
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "A user with this email address has already been registered", appErr.Message)

	f.idp.inviteErr = &identity.APIError{Status: http.StatusServiceUnavailable, Message: "down"}
	_, err = f.svc.CreateTutor(context.Background(), adminClaims(), dto.CreateTutorRequest{FullName: "Jane", Email: "jane@example.com"}, models.RequestMeta{})
	assert.Equal(t, http.StatusBadGateway, appErrors.FromError(err).Status)
}

func TestSplitFullName(t *testing.T) {
	first, last := splitFullName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Equal(t, "Tutor", last)

	first, last = splitFullName("Mary Ann  Evans")
	assert.Equal(t, "Mary", first)
	assert.Equal(t, "Ann Evans", last)
}

func TestTutorApplications(t *testing.T) {
	f := newTutorFixture()

	app, err := f.svc.SubmitApplication(context.Background(), dto.TutorApplicationRequest{FullName: "Ann", Email: "ANN@example.com", Subjects: []string{models.SubjectMaths}})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationNew, app.Status)
	assert.Equal(t, models.ApplicationSourcePlatform, app.Source)
	assert.Equal(t, "ann@example.com", app.Email)

	_, err = f.svc.SubmitApplication(context.Background(), dto.TutorApplicationRequest{FullName: "Ann", Email: "ann@example.com"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	require.NoError(t, f.svc.UpdateApplicationStatus(context.Background(), "app-1", dto.ApplicationStatusRequest{Status: "Approved"}))
	approved, err := f.svc.ListApplications(context.Background(), "Approved")
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	err = f.svc.UpdateApplicationStatus(context.Background(), "app-1", dto.ApplicationStatusRequest{Status: "Hired"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	err = f.svc.UpdateApplicationStatus(context.Background(), "missing", dto.ApplicationStatusRequest{Status: "Rejected"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestDeleteDirectoryEntryNotFound(t *testing.T) {
	f := newTutorFixture()
	err := f.svc.DeleteDirectoryEntry(context.Background(), "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
