package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/middleware"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestContext(method, target, body string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

type portalServiceMock struct {
	joinErr error
	gotID   string
}

func (m *portalServiceMock) Sessions(ctx context.Context, claims *models.JWTClaims) (*dto.PortalSessions, error) {
	return &dto.PortalSessions{EvaluatedAt: "2026-02-16T18:55:00Z"}, nil
}

func (m *portalServiceMock) Join(ctx context.Context, claims *models.JWTClaims, instanceID string) (*dto.JoinResponse, error) {
	m.gotID = instanceID
	if m.joinErr != nil {
		return nil, m.joinErr
	}
	return &dto.JoinResponse{InstanceID: instanceID, ClassroomURL: "https://meet.example/abc"}, nil
}

type calendarServiceMock struct{}

func (calendarServiceMock) Feed(ctx context.Context, claims *models.JWTClaims) (string, error) {
	return "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", nil
}

func TestPortalJoinPassesGateErrors(t *testing.T) {
	svc := &portalServiceMock{joinErr: appErrors.Clone(appErrors.ErrForbidden, "Payment pending")}
	h := NewPortalHandler(svc, calendarServiceMock{})

	c, w := newTestContext(http.MethodGet, "/portal/sessions/inst-1/join", "", &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})
	c.Params = gin.Params{{Key: "id", Value: "inst-1"}}
	h.Join(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Payment pending", env.Error.Message)
	assert.Equal(t, "inst-1", svc.gotID)
}

func TestPortalJoinReturnsLink(t *testing.T) {
	h := NewPortalHandler(&portalServiceMock{}, calendarServiceMock{})

	c, w := newTestContext(http.MethodGet, "/portal/sessions/inst-1/join", "", &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})
	c.Params = gin.Params{{Key: "id", Value: "inst-1"}}
	h.Join(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://meet.example/abc")
}

func TestPortalCalendarServesICS(t *testing.T) {
	h := NewPortalHandler(&portalServiceMock{}, calendarServiceMock{})

	c, w := newTestContext(http.MethodGet, "/portal/calendar.ics", "", &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})
	h.Calendar(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "BEGIN:VCALENDAR"))
}

type blockServiceMock struct {
	result *dto.BlockRunResult
}

func (m *blockServiceMock) PaymentBlocks(ctx context.Context) ([]models.PaymentBlock, error) {
	return nil, nil
}

func (m *blockServiceMock) GenerateBlock(ctx context.Context, claims *models.JWTClaims, req dto.GenerateBlockRequest, meta models.RequestMeta) (*dto.BlockRunResult, error) {
	return m.result, nil
}

func (m *blockServiceMock) VerifyBlock(ctx context.Context, claims *models.JWTClaims, req dto.VerifyBlockRequest, meta models.RequestMeta) (*dto.BlockRunResult, error) {
	return m.result, nil
}

func (m *blockServiceMock) AssignClassroom(ctx context.Context, claims *models.JWTClaims, req dto.AssignClassroomRequest, meta models.RequestMeta) (*dto.AssignClassroomResult, error) {
	return &dto.AssignClassroomResult{}, nil
}

func (m *blockServiceMock) ListRuns(ctx context.Context, query dto.ListBlockRunsQuery) ([]models.BlockRun, *models.Pagination, error) {
	return nil, nil, nil
}

func (m *blockServiceMock) GetRun(ctx context.Context, id string) (*models.BlockRun, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "run not found")
}

func TestBlockGenerateStatusCodes(t *testing.T) {
	cases := []struct {
		status models.BlockRunStatus
		code   int
	}{
		{models.BlockRunCompleted, http.StatusOK},
		{models.BlockRunNoSessionsUpdated, http.StatusOK},
		{models.BlockRunPartiallyApplied, http.StatusMultiStatus},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			h := NewBlockHandler(&blockServiceMock{result: &dto.BlockRunResult{RunID: "run-1", Status: string(tc.status)}})
			c, w := newTestContext(http.MethodPost, "/admin/blocks/generate", `{"slot_id":"s","classroom_url":"https://meet.example/x"}`, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
			h.Generate(c)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestBlockGenerateRejectsMalformedBody(t *testing.T) {
	h := NewBlockHandler(&blockServiceMock{})
	c, w := newTestContext(http.MethodPost, "/admin/blocks/generate", `{"slot_id":`, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	h.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)
}

type slotServiceMock struct {
	confirmed bool
	actor     string
}

func (m *slotServiceMock) List(ctx context.Context, query dto.ListSlotsQuery) ([]models.RecurringSlot, error) {
	return nil, nil
}

func (m *slotServiceMock) Catalog(ctx context.Context, packageID string) ([]models.RecurringSlot, bool, error) {
	return []models.RecurringSlot{}, true, nil
}

func (m *slotServiceMock) Get(ctx context.Context, id string) (*models.RecurringSlot, error) {
	return nil, nil
}

func (m *slotServiceMock) Create(ctx context.Context, req dto.SlotRequest, actorID string, meta models.RequestMeta) (*models.RecurringSlot, error) {
	return nil, nil
}

func (m *slotServiceMock) Update(ctx context.Context, id string, req dto.SlotRequest, actorID string, meta models.RequestMeta) (*models.RecurringSlot, error) {
	return nil, nil
}

func (m *slotServiceMock) Delete(ctx context.Context, id string, confirmed bool, actorID string, meta models.RequestMeta) error {
	m.confirmed = confirmed
	m.actor = actorID
	if !confirmed {
		return appErrors.ErrConfirmationRequired
	}
	return nil
}

func TestSlotDeleteRequiresConfirmation(t *testing.T) {
	svc := &slotServiceMock{}
	h := NewSlotHandler(svc)
	claims := &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}

	c, w := newTestContext(http.MethodDelete, "/admin/slots/slot-1", "", claims)
	c.Params = gin.Params{{Key: "id", Value: "slot-1"}}
	h.Delete(c)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.False(t, svc.confirmed)

	c, w = newTestContext(http.MethodDelete, "/admin/slots/slot-1?confirm=true", "", claims)
	c.Params = gin.Params{{Key: "id", Value: "slot-1"}}
	h.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, svc.confirmed)
	assert.Equal(t, "admin-1", svc.actor)
}

type noteServiceMock struct {
	ids []string
}

func (m *noteServiceMock) List(ctx context.Context, claims *models.JWTClaims, instanceIDs []string) ([]models.SessionNote, error) {
	m.ids = instanceIDs
	return []models.SessionNote{}, nil
}

func (m *noteServiceMock) Create(ctx context.Context, claims *models.JWTClaims, req dto.SessionNoteRequest) (*models.SessionNote, error) {
	return &models.SessionNote{ID: "note-1"}, nil
}

func TestSessionNotesAcceptsCommaSeparatedIDs(t *testing.T) {
	notes := &noteServiceMock{}
	h := NewSessionHandler(notes, nil)

	c, w := newTestContext(http.MethodGet, "/session-notes?instance_ids=a,%20b&instance_ids=c", "", &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})
	h.ListNotes(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"a", "b", "c"}, notes.ids)
}

type exportServiceMock struct {
	path string
}

func (m *exportServiceMock) ExportRegister(ctx context.Context, claims *models.JWTClaims, instanceID string, req dto.ExportRequest) (*models.ExportResult, error) {
	return &models.ExportResult{ID: "exp-1", Format: models.ExportFormat(req.Format)}, nil
}

func (m *exportServiceMock) Resolve(token string) (*os.File, models.ExportFormat, error) {
	if token != "good" {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "download link invalid")
	}
	file, err := os.Open(m.path)
	if err != nil {
		return nil, "", err
	}
	return file, models.ExportFormatCSV, nil
}

func TestExportDownload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "register.csv")
	require.NoError(t, os.WriteFile(path, []byte("Student,Payment\nBen,Paid\n"), 0o600))
	h := NewExportHandler(&exportServiceMock{path: path})

	c, w := newTestContext(http.MethodGet, "/exports/good", "", nil)
	c.Params = gin.Params{{Key: "token", Value: "good"}}
	h.Download(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ExportFormatCSV.ContentType(), w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "register.csv")
	assert.Equal(t, "Student,Payment\nBen,Paid\n", w.Body.String())

	c, w = newTestContext(http.MethodGet, "/exports/bad", "", nil)
	c.Params = gin.Params{{Key: "token", Value: "bad"}}
	h.Download(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInstanceSetBookingRequiresFlag(t *testing.T) {
	h := NewInstanceHandler(nil)
	c, w := newTestContext(http.MethodPatch, "/admin/instances/inst-1/booking", `{}`, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	c.Params = gin.Params{{Key: "id", Value: "inst-1"}}
	h.SetBooking(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
