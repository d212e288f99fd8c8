package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/repository"
	pkgerrors "github.com/cleytonmendest/viva-esperanca-sub000/pkg/errors"
)

// ── in-memory store shared by the mock repositories ──

type memStore struct {
	mu          sync.Mutex
	members     map[string]*model.Member
	events      map[string]*model.Event
	tasks       map[string]*model.Task
	assignments map[string]*model.EventAssignment
	audits      []model.AuditLog
	visitors    map[string]*model.Visitor

	// auditErr makes every audit insert fail
	auditErr error
}

func newMemStore() *memStore {
	return &memStore{
		members:     make(map[string]*model.Member),
		events:      make(map[string]*model.Event),
		tasks:       make(map[string]*model.Task),
		assignments: make(map[string]*model.EventAssignment),
		visitors:    make(map[string]*model.Visitor),
	}
}

func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Member:     &mockMemberRepo{s},
		Event:      &mockEventRepo{s},
		Task:       &mockTaskRepo{s},
		Assignment: &mockAssignmentRepo{s},
		AuditLog:   &mockAuditLogRepo{s},
		Visitor:    &mockVisitorRepo{s},
	}
}

// auditLogs snapshot of recorded entries
func (s *memStore) auditLogs() []model.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AuditLog, len(s.audits))
	copy(out, s.audits)
	return out
}

func (s *memStore) assignment(id string) *model.EventAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[id]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// ── Mock MemberRepository ──

type mockMemberRepo struct{ s *memStore }

func (m *mockMemberRepo) Create(_ context.Context, member *model.Member) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	ensureID(&member.ID)
	if member.Version == 0 {
		member.Version = 1
	}
	member.CreatedAt = time.Now()
	member.UpdatedAt = member.CreatedAt
	cp := *member
	m.s.members[member.ID] = &cp
	return nil
}

func (m *mockMemberRepo) GetByID(_ context.Context, id string) (*model.Member, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if mem, ok := m.s.members[id]; ok && !mem.DeletedAt.Valid {
		cp := *mem
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) GetByEmail(_ context.Context, email string) (*model.Member, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, mem := range m.s.members {
		if mem.Email == email && !mem.DeletedAt.Valid {
			cp := *mem
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) Update(_ context.Context, member *model.Member) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cur, ok := m.s.members[member.ID]
	if !ok || cur.Version != member.Version {
		return pkgerrors.ErrOptimisticLock
	}
	member.Version++
	member.UpdatedAt = time.Now()
	cp := *member
	m.s.members[member.ID] = &cp
	return nil
}

func (m *mockMemberRepo) Delete(_ context.Context, id string, deletedBy *string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mem, ok := m.s.members[id]
	if !ok || mem.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	mem.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	mem.DeletedBy = deletedBy
	for _, a := range m.s.assignments {
		if a.MemberID != nil && *a.MemberID == id {
			a.MemberID = nil
			a.Status = model.AssignmentStatusPending
		}
	}
	return nil
}

func (m *mockMemberRepo) List(_ context.Context, filter repository.MemberFilter, offset, limit int) ([]model.Member, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var result []model.Member
	for _, mem := range m.s.members {
		if mem.DeletedAt.Valid {
			continue
		}
		if filter.Status != "" && mem.Status != filter.Status {
			continue
		}
		if filter.Role != "" && mem.Role != filter.Role {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(mem.FullName), strings.ToLower(filter.Keyword)) {
			continue
		}
		result = append(result, *mem)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return page(result, offset, limit), int64(len(result)), nil
}

// ── Mock EventRepository ──

type mockEventRepo struct{ s *memStore }

func (m *mockEventRepo) Create(_ context.Context, event *model.Event) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	ensureID(&event.ID)
	event.CreatedAt = time.Now()
	cp := *event
	cp.Assignments = nil
	m.s.events[event.ID] = &cp
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if e, ok := m.s.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) GetWithAssignments(_ context.Context, id string) (*model.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	e, ok := m.s.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	for _, a := range m.s.assignments {
		if a.EventID == id {
			cp.Assignments = append(cp.Assignments, *m.s.preload(a))
		}
	}
	return &cp, nil
}

func (m *mockEventRepo) Update(_ context.Context, event *model.Event) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.events[event.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *event
	cp.Assignments = nil
	m.s.events[event.ID] = &cp
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for aid, a := range m.s.assignments {
		if a.EventID == id {
			delete(m.s.assignments, aid)
		}
	}
	delete(m.s.events, id)
	return nil
}

func (m *mockEventRepo) List(_ context.Context, filter repository.EventFilter, offset, limit int) ([]model.Event, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var result []model.Event
	for _, e := range m.s.events {
		if filter.From != nil && e.EventDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !e.EventDate.Before(*filter.To) {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EventDate.Before(result[j].EventDate) })
	return page(result, offset, limit), int64(len(result)), nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct{ s *memStore }

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	ensureID(&task.ID)
	cp := *task
	m.s.tasks[task.ID] = &cp
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if t, ok := m.s.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) List(_ context.Context, includeInactive bool) ([]model.Task, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var result []model.Task
	for _, t := range m.s.tasks {
		if !includeInactive && !t.IsActive {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.Task) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *task
	m.s.tasks[task.ID] = &cp
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.tasks[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for aid, a := range m.s.assignments {
		if a.TaskID == id {
			delete(m.s.assignments, aid)
		}
	}
	delete(m.s.tasks, id)
	return nil
}

// ── Mock AssignmentRepository ──
//
// ClaimOpen and AssignMember hold the store lock for the whole
// check-and-set, matching the single conditional UPDATE of the real one.

type mockAssignmentRepo struct{ s *memStore }

// preload copies a with its event, task and member; caller holds the lock
func (s *memStore) preload(a *model.EventAssignment) *model.EventAssignment {
	cp := *a
	if e, ok := s.events[a.EventID]; ok {
		ev := *e
		cp.Event = &ev
	}
	if t, ok := s.tasks[a.TaskID]; ok {
		tk := *t
		cp.Task = &tk
	}
	if a.MemberID != nil {
		if mem, ok := s.members[*a.MemberID]; ok {
			mm := *mem
			cp.Member = &mm
		}
	}
	return &cp
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.EventAssignment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	ensureID(&a.ID)
	a.CreatedAt = time.Now()
	cp := *a
	cp.Event, cp.Task, cp.Member = nil, nil, nil
	m.s.assignments[a.ID] = &cp
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.EventAssignment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	a, ok := m.s.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.s.preload(a), nil
}

func (m *mockAssignmentRepo) ClaimOpen(_ context.Context, id, memberID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	a, ok := m.s.assignments[id]
	if !ok || !a.IsOpen() {
		return pkgerrors.ErrConditionNotMet
	}
	mid := memberID
	a.MemberID = &mid
	return nil
}

func (m *mockAssignmentRepo) AssignMember(_ context.Context, id, memberID, status string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	a, ok := m.s.assignments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	mid := memberID
	a.MemberID = &mid
	a.Status = status
	return nil
}

func (m *mockAssignmentRepo) UpdateStatus(_ context.Context, id, status string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	a, ok := m.s.assignments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.assignments, id)
	return nil
}

func (m *mockAssignmentRepo) ListByEvent(_ context.Context, eventID string) ([]model.EventAssignment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var result []model.EventAssignment
	for _, a := range m.s.assignments {
		if a.EventID == eventID {
			result = append(result, *m.s.preload(a))
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByMember(_ context.Context, memberID string) ([]model.EventAssignment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var result []model.EventAssignment
	for _, a := range m.s.assignments {
		if a.MemberID != nil && *a.MemberID == memberID {
			result = append(result, *m.s.preload(a))
		}
	}
	return result, nil
}

// ── Mock AuditLogRepository ──

type mockAuditLogRepo struct{ s *memStore }

func (m *mockAuditLogRepo) Create(_ context.Context, entry *model.AuditLog) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.auditErr != nil {
		return m.s.auditErr
	}
	ensureID(&entry.ID)
	entry.CreatedAt = time.Now()
	m.s.audits = append(m.s.audits, *entry)
	return nil
}

func (m *mockAuditLogRepo) List(_ context.Context, filter repository.AuditLogFilter, offset, limit int) ([]model.AuditLog, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var result []model.AuditLog
	for i := len(m.s.audits) - 1; i >= 0; i-- {
		l := m.s.audits[i]
		if filter.ActionType != "" && l.ActionType != filter.ActionType {
			continue
		}
		if filter.ResourceType != "" && l.ResourceType != filter.ResourceType {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		if filter.UserID != "" && (l.UserID == nil || *l.UserID != filter.UserID) {
			continue
		}
		result = append(result, l)
	}
	return page(result, offset, limit), int64(len(result)), nil
}

// ── Mock VisitorRepository ──

type mockVisitorRepo struct{ s *memStore }

func (m *mockVisitorRepo) Create(_ context.Context, v *model.Visitor) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	ensureID(&v.ID)
	v.CreatedAt = time.Now()
	cp := *v
	m.s.visitors[v.ID] = &cp
	return nil
}

func (m *mockVisitorRepo) GetByID(_ context.Context, id string) (*model.Visitor, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if v, ok := m.s.visitors[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVisitorRepo) List(_ context.Context, status string, offset, limit int) ([]model.Visitor, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var result []model.Visitor
	for _, v := range m.s.visitors {
		if status != "" && v.Status != status {
			continue
		}
		result = append(result, *v)
	}
	return page(result, offset, limit), int64(len(result)), nil
}

// ── Mock AuditPublisher ──

type mockPublisher struct {
	mu        sync.Mutex
	published []*model.AuditLog
	err       error
}

func (p *mockPublisher) PublishAudit(_ context.Context, entry *model.AuditLog) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, entry)
	return nil
}

func (p *mockPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

var errMockDB = errors.New("mock: conexão perdida")

func page[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
