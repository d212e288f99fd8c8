package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cleytonmendest/viva-esperanca-sub000/config"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/jwt"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/metrics"
)

// fixture: service layer over the in-memory store, one leader, two members,
// one event and one task
type fixture struct {
	store     *memStore
	publisher *mockPublisher
	metrics   *metrics.Metrics
	svc       *Service

	leader *model.Member
	ana    *model.Member
	bruno  *model.Member
	event  *model.Event
	task   *model.Task
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	repo := store.repository()
	pub := &mockPublisher{}
	m := metrics.Nop()
	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-0123456789",
		AccessTokenTTL: time.Hour,
	})

	f := &fixture{
		store:     store,
		publisher: pub,
		metrics:   m,
		svc:       NewService(repo, jwtMgr, pub, m, zap.NewNop()),
	}

	f.leader = f.addMember(t, "Carla Líder", "carla@viva.test", model.RoleLeader, model.MemberStatusApproved, "")
	f.ana = f.addMember(t, "Ana Souza", "ana@viva.test", model.RoleMember, model.MemberStatusApproved, "")
	f.bruno = f.addMember(t, "Bruno Lima", "bruno@viva.test", model.RoleMember, model.MemberStatusApproved, "")

	f.event = &model.Event{Name: "Culto de Domingo", EventDate: time.Now().Add(72 * time.Hour), Location: "Templo"}
	if err := repo.Event.Create(context.Background(), f.event); err != nil {
		t.Fatalf("criar evento: %v", err)
	}
	f.task = &model.Task{Name: "Recepção", Quantity: 2, IsActive: true}
	if err := repo.Task.Create(context.Background(), f.task); err != nil {
		t.Fatalf("criar tarefa: %v", err)
	}
	return f
}

func (f *fixture) addMember(t *testing.T, name, email, role, status, password string) *model.Member {
	t.Helper()
	m := &model.Member{FullName: name, Email: email, Role: role, Status: status}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		m.PasswordHash = string(hash)
	}
	if err := f.store.repository().Member.Create(context.Background(), m); err != nil {
		t.Fatalf("criar membro %s: %v", name, err)
	}
	return m
}

// openSlot creates an empty slot for the fixture's event and task
func (f *fixture) openSlot(t *testing.T) string {
	t.Helper()
	a := &model.EventAssignment{EventID: f.event.ID, TaskID: f.task.ID, Status: model.AssignmentStatusPending}
	if err := f.store.repository().Assignment.Create(context.Background(), a); err != nil {
		t.Fatalf("criar vaga: %v", err)
	}
	return a.ID
}

func sessionOf(m *model.Member) *Session {
	return &Session{MemberID: m.ID, Role: m.Role}
}

// lastAudit most recent entry; fails when the trail is empty
func (f *fixture) lastAudit(t *testing.T) model.AuditLog {
	t.Helper()
	logs := f.store.auditLogs()
	if len(logs) == 0 {
		t.Fatal("nenhum log de auditoria registrado")
	}
	return logs[len(logs)-1]
}

func decodeDetails[T any](t *testing.T, l model.AuditLog) *T {
	t.Helper()
	d, err := model.DecodeAuditDetails(l.ActionType, l.Details)
	if err != nil {
		t.Fatalf("decodificar detalhes: %v", err)
	}
	typed, ok := any(d).(*T)
	if !ok {
		t.Fatalf("detalhes do tipo %T", d)
	}
	return typed
}

// counterValue reads one counter sample from the fixture's registry
func counterValue(t *testing.T, f *fixture, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := f.metrics.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
	next:
		for _, m := range fam.GetMetric() {
			for _, l := range m.GetLabel() {
				if want, ok := labels[l.GetName()]; ok && want != l.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}
