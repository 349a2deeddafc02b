package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/tuition-portal-api/internal/models"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin, FullName: "Ada Admin"}
}

func tutorClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleTutor, FullName: "Tom Tutor"}
}

func studentClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleStudent, FullName: "Sam Student"}
}

func parentClaims(id, linked string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleParent, LinkedUserID: linked}
}

type instanceRepoStub struct {
	mu        sync.Mutex
	items     map[string]models.GroupInstance
	filters   []models.InstanceFilter
	listErr   error
	linkErr   error
	linkCount int64
	honorCtx  bool
	linked    []string
	deleted   []string
	classroom map[string]models.ClassroomUpdate
}

func newInstanceRepoStub(items ...models.GroupInstance) *instanceRepoStub {
	s := &instanceRepoStub{items: map[string]models.GroupInstance{}, classroom: map[string]models.ClassroomUpdate{}}
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s
}

func (s *instanceRepoStub) List(ctx context.Context, filter models.InstanceFilter) ([]models.GroupInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = append(s.filters, filter)
	if s.listErr != nil {
		return nil, s.listErr
	}
	ids := make(map[string]bool, len(filter.IDs))
	for _, id := range filter.IDs {
		ids[id] = true
	}
	days := make(map[string]bool, len(filter.SessionDays))
	for _, d := range filter.SessionDays {
		days[d] = true
	}
	out := make([]models.GroupInstance, 0)
	for _, item := range s.items {
		if filter.IDs != nil && !ids[item.ID] {
			continue
		}
		if filter.TutorID != "" && derefString(item.AssignedTutorID) != filter.TutorID {
			continue
		}
		if filter.SlotID != "" && derefString(item.SlotID) != filter.SlotID {
			continue
		}
		if len(days) > 0 && !days[derefString(item.SessionDate)] {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *instanceRepoStub) FindByID(ctx context.Context, id string) (*models.GroupInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &item, nil
}

func (s *instanceRepoStub) Create(ctx context.Context, inst *models.GroupInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inst.ID == "" {
		inst.ID = "inst-new"
	}
	s.items[inst.ID] = *inst
	return nil
}

func (s *instanceRepoStub) Update(ctx context.Context, inst *models.GroupInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[inst.ID]; !ok {
		return sql.ErrNoRows
	}
	s.items[inst.ID] = *inst
	return nil
}

func (s *instanceRepoStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.items, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *instanceRepoStub) SetBookingEnabled(ctx context.Context, id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	item.IsBookingEnabled = enabled
	s.items[id] = item
	return nil
}

func (s *instanceRepoStub) UpdateClassroom(ctx context.Context, id string, update models.ClassroomUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	item.ClassroomURL = update.ClassroomURL
	item.ClassroomProvider = update.ClassroomProvider
	item.ClassroomNotes = update.ClassroomNotes
	item.RecordingURL = update.RecordingURL
	s.items[id] = item
	s.classroom[id] = update
	return nil
}

func (s *instanceRepoStub) ApplyBlockLink(ctx context.Context, slotID, from, until string, update models.ClassroomUpdate) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.honorCtx && ctx.Err() != nil {
		return 0, ctx.Err()
	}
	if s.linkErr != nil {
		return 0, s.linkErr
	}
	s.linked = append(s.linked, slotID+"|"+from+"|"+until)
	return s.linkCount, nil
}

func (s *instanceRepoStub) linkedSnapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.linked...)
}

func (s *instanceRepoStub) SetClassroomLinks(ctx context.Context, ids []string, update models.ClassroomUpdate) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		item := s.items[id]
		item.ClassroomURL = update.ClassroomURL
		item.ClassroomProvider = update.ClassroomProvider
		s.items[id] = item
		s.classroom[id] = update
	}
	return ids, nil
}

type enrollmentStub struct {
	items []models.Enrollment
	err   error
}

func (s *enrollmentStub) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Enrollment, 0)
	for _, e := range s.items {
		if filter.StudentID != "" && derefString(e.StudentID) != filter.StudentID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *enrollmentStub) FindForStudent(ctx context.Context, instanceID, studentID string) (*models.Enrollment, error) {
	for _, e := range s.items {
		if e.InstanceID == instanceID && derefString(e.StudentID) == studentID {
			found := e
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *enrollmentStub) ListByInstance(ctx context.Context, instanceID string) ([]models.Enrollment, error) {
	out := make([]models.Enrollment, 0)
	for _, e := range s.items {
		if e.InstanceID == instanceID {
			out = append(out, e)
		}
	}
	return out, nil
}

type auditStub struct {
	mu   sync.Mutex
	logs []models.AuditLog
	err  error
}

func (s *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.logs = append(s.logs, *log)
	return nil
}

func (s *auditStub) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.logs))
	for _, l := range s.logs {
		out = append(out, l.Action)
	}
	return out
}

type slotRepoStub struct {
	items   map[string]models.RecurringSlot
	filters []models.SlotFilter
	calls   int
}

func newSlotRepoStub(items ...models.RecurringSlot) *slotRepoStub {
	s := &slotRepoStub{items: map[string]models.RecurringSlot{}}
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s
}

func (s *slotRepoStub) List(ctx context.Context, filter models.SlotFilter) ([]models.RecurringSlot, error) {
	s.calls++
	s.filters = append(s.filters, filter)
	out := make([]models.RecurringSlot, 0)
	for _, item := range s.items {
		if filter.PackageID != "" && item.PackageID != filter.PackageID {
			continue
		}
		if filter.BookingOnly && !item.IsBookingEnabled {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *slotRepoStub) FindByID(ctx context.Context, id string) (*models.RecurringSlot, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &item, nil
}

func (s *slotRepoStub) Create(ctx context.Context, slot *models.RecurringSlot) error {
	if slot.ID == "" {
		slot.ID = "slot-new"
	}
	s.items[slot.ID] = *slot
	return nil
}

func (s *slotRepoStub) Update(ctx context.Context, slot *models.RecurringSlot) error {
	if _, ok := s.items[slot.ID]; !ok {
		return sql.ErrNoRows
	}
	s.items[slot.ID] = *slot
	return nil
}

func (s *slotRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.items, id)
	return nil
}

type cacheRepoStub struct {
	mu      sync.Mutex
	values  map[string]interface{}
	deleted []string
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{values: map[string]interface{}{}}
}

func (s *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return copyJSON(raw, dest)
}

func (s *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.values {
		if strings.HasPrefix(key, prefix) {
			delete(s.values, key)
		}
	}
	return nil
}

func copyJSON(src, dest interface{}) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func errorsIs(err error, target *appErrors.Error) bool {
	return errors.Is(err, target)
}
