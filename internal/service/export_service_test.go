package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
	"github.com/noah-isme/tuition-portal-api/pkg/storage"
)

type registerRosterStub struct {
	lines []models.RosterLine
	err   error
}

func (s registerRosterStub) Roster(ctx context.Context, claims *models.JWTClaims, instanceID string) ([]models.RosterLine, error) {
	return s.lines, s.err
}

func newExportFixture(t *testing.T, roster rosterSource) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	instances := newInstanceRepoStub(models.GroupInstance{
		ID:          "inst-1",
		Label:       "GCSE Maths / Monday",
		DayOfWeek:   "Monday",
		StartTime:   "19:00",
		SessionDate: strPtr("2026-02-16"),
	})
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(roster, instances, store, signer, ExportConfig{APIPrefix: "/api/v1/"}, nil, nil)
}

func TestExportRegisterCSVRoundTrip(t *testing.T) {
	roster := registerRosterStub{lines: []models.RosterLine{
		{StudentID: "stu-1", StudentName: "Ava", PaymentStatus: models.PaymentStatusPaid, Status: models.AttendancePresent, Recorded: true},
		{StudentID: "stu-2", StudentName: "Ben", PaymentStatus: models.PaymentStatusPending, Status: models.AttendanceLate, Note: "bus"},
	}}
	svc := newExportFixture(t, roster)

	result, err := svc.ExportRegister(context.Background(), adminClaims(), "inst-1", dto.ExportRequest{Format: " CSV "})
	require.NoError(t, err)
	assert.Equal(t, models.ExportFormatCSV, result.Format)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/exports/"))
	assert.True(t, strings.HasPrefix(result.RelativePath, "registers/GCSE_Maths_-_Monday_2026-02-16_"))
	assert.True(t, strings.HasSuffix(result.RelativePath, ".csv"))

	token := strings.TrimPrefix(result.URL, "/api/v1/exports/")
	file, format, err := svc.Resolve(token)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, models.ExportFormatCSV, format)

	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Student,Payment,Status,Recorded,Note")
	assert.Contains(t, string(body), "Ben,Pending,Late,No,bus")
}

func TestExportRegisterValidation(t *testing.T) {
	svc := newExportFixture(t, registerRosterStub{})

	_, err := svc.ExportRegister(context.Background(), adminClaims(), "inst-1", dto.ExportRequest{Format: "docx"})
	assert.True(t, errorsIs(err, appErrors.ErrValidation))

	denied := newExportFixture(t, registerRosterStub{err: appErrors.Clone(appErrors.ErrForbidden, "session is not assigned to you")})
	_, err = denied.ExportRegister(context.Background(), tutorClaims("tutor-9"), "inst-1", dto.ExportRequest{Format: "pdf"})
	assert.True(t, errorsIs(err, appErrors.ErrForbidden))
}

func TestExportResolveRejectsBadTokens(t *testing.T) {
	svc := newExportFixture(t, registerRosterStub{})

	_, _, err := svc.Resolve("garbage")
	assert.Equal(t, "download link invalid", appErrors.FromError(err).Message)

	other := storage.NewSignedURLSigner("other-secret", time.Hour)
	token, _, err := other.Sign("exp-1", "registers/x.csv")
	require.NoError(t, err)
	_, _, err = svc.Resolve(token)
	assert.Equal(t, "download link invalid", appErrors.FromError(err).Message)

	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	token, _, err = signer.Sign("exp-2", "registers/missing.csv")
	require.NoError(t, err)
	_, _, err = svc.Resolve(token)
	assert.Equal(t, "export not found", appErrors.FromError(err).Message)
}

func TestExportCleanupSweepsStorage(t *testing.T) {
	svc := newExportFixture(t, registerRosterStub{lines: []models.RosterLine{{StudentID: "stu-1", StudentName: "Ava"}}})

	_, err := svc.ExportRegister(context.Background(), adminClaims(), "inst-1", dto.ExportRequest{Format: "xlsx"})
	require.NoError(t, err)

	removed, err := svc.Cleanup(time.Hour)
	require.NoError(t, err)
	assert.Empty(t, removed)

	removed, err = svc.Cleanup(-time.Nanosecond)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "na", sanitizeFilename(""))
	assert.Equal(t, "a_b-c", sanitizeFilename("a b/c"))
	assert.Len(t, sanitizeFilename(strings.Repeat("x", 80)), 60)
}
