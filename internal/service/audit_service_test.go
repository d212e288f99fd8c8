package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/metrics"
)

func newObservedRecorder(f *fixture, pub AuditPublisher) (AuditRecorder, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewAuditRecorder(f.store.repository(), pub, f.metrics, zap.New(core)), logs
}

func TestRecord_ActorResolution(t *testing.T) {
	f := setupFixture(t)
	rec, _ := newObservedRecorder(f, nil)
	ctx := context.Background()
	details := model.MemberDetails{MemberName: "Sujeito"}

	tests := []struct {
		name     string
		sess     *Session
		entry    AuditEntry
		wantID   *string
		wantName string
	}{
		{
			name:     "ator explícito com nome",
			sess:     sessionOf(f.leader),
			entry:    AuditEntry{ActorID: f.ana.ID, ActorName: "Ana (explícito)"},
			wantID:   &f.ana.ID,
			wantName: "Ana (explícito)",
		},
		{
			name:     "ator explícito sem nome busca no cadastro",
			sess:     nil,
			entry:    AuditEntry{ActorID: f.bruno.ID},
			wantID:   &f.bruno.ID,
			wantName: f.bruno.FullName,
		},
		{
			name:     "ator da sessão",
			sess:     sessionOf(f.leader),
			wantID:   &f.leader.ID,
			wantName: f.leader.FullName,
		},
		{
			name:     "ator desconhecido",
			sess:     &Session{MemberID: "fantasma", Role: model.RoleAdmin},
			wantID:   strPtr("fantasma"),
			wantName: UnknownActorName,
		},
		{
			name:     "anônimo usa o nome do sujeito",
			sess:     nil,
			wantID:   nil,
			wantName: "Sujeito",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.entry
			e.Action = model.ActionMemberUpdated
			e.ResourceType = model.ResourceMember
			e.ResourceID = "m-1"
			e.Details = details
			rec.Record(ctx, tt.sess, e)

			got := f.lastAudit(t)
			switch {
			case tt.wantID == nil && got.UserID != nil:
				t.Errorf("esperava user_id nulo, obteve %s", *got.UserID)
			case tt.wantID != nil && (got.UserID == nil || *got.UserID != *tt.wantID):
				t.Errorf("esperava user_id %s, obteve %v", *tt.wantID, got.UserID)
			}
			if got.MemberName != tt.wantName {
				t.Errorf("esperava nome %q, obteve %q", tt.wantName, got.MemberName)
			}
		})
	}
}

func TestRecord_RejectsMismatchedDetails(t *testing.T) {
	f := setupFixture(t)
	rec, logs := newObservedRecorder(f, nil)

	rec.Record(context.Background(), sessionOf(f.leader), AuditEntry{
		Action:       model.ActionTaskRemoved,
		ResourceType: model.ResourceEventAssignment,
		ResourceID:   "a-1",
		Details:      model.TaskAssignmentDetails{AssignedToMemberName: "Ana"},
	})

	if n := len(f.store.auditLogs()); n != 0 {
		t.Fatalf("entrada incompatível não deve ser gravada, obteve %d", n)
	}
	if logs.FilterMessage("entrada de auditoria rejeitada").Len() != 1 {
		t.Error("rejeição deveria ser registrada no log")
	}
	v := counterValue(t, f, "viva_audit_writes_total", map[string]string{"action_type": "task_removed", "outcome": "rejected"})
	if v != 1 {
		t.Errorf("métrica rejected=%v", v)
	}
}

func TestRecord_StoreFailureIsSwallowed(t *testing.T) {
	f := setupFixture(t)
	slot := f.openSlot(t)
	f.store.auditErr = errMockDB

	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewService(f.store.repository(), nil, f.publisher, f.metrics, zap.New(core))

	// the claim itself must succeed even though its audit write fails
	if _, err := svc.Assignment.ClaimForSelf(context.Background(), sessionOf(f.ana), slot); err != nil {
		t.Fatalf("claim deveria ter sucesso apesar da auditoria: %v", err)
	}
	if got := f.store.assignment(slot); got.IsOpen() {
		t.Error("vaga deveria estar com Ana")
	}
	if logs.FilterMessage("falha ao gravar log de auditoria").Len() != 1 {
		t.Error("falha da auditoria deveria ser registrada no log")
	}
	if f.publisher.count() != 0 {
		t.Error("entrada não gravada não deve ser publicada")
	}
	v := counterValue(t, f, "viva_audit_writes_total", map[string]string{"action_type": "task_self_assigned", "outcome": "failure"})
	if v != 1 {
		t.Errorf("métrica failure=%v", v)
	}
}

func TestRecord_PublishFailureIsLogged(t *testing.T) {
	f := setupFixture(t)
	pub := &mockPublisher{err: errors.New("nats indisponível")}
	rec, logs := newObservedRecorder(f, pub)

	rec.Record(context.Background(), sessionOf(f.leader), AuditEntry{
		Action:       model.ActionTaskCreated,
		ResourceType: model.ResourceTask,
		ResourceID:   f.task.ID,
		Details:      model.TaskCatalogDetails{TaskName: f.task.Name},
	})

	if n := len(f.store.auditLogs()); n != 1 {
		t.Fatalf("entrada deveria ser gravada, obteve %d", n)
	}
	if logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("falha ao publicar evento de auditoria").Len() != 1 {
		t.Error("falha de publicação deveria ser registrada")
	}
}

func TestRecord_SurvivesCanceledContext(t *testing.T) {
	f := setupFixture(t)
	rec, _ := newObservedRecorder(f, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec.Record(ctx, sessionOf(f.leader), AuditEntry{
		Action:       model.ActionEventDeleted,
		ResourceType: model.ResourceEvent,
		ResourceID:   f.event.ID,
		Details:      model.EventDetails{EventName: f.event.Name},
	})
	if n := len(f.store.auditLogs()); n != 1 {
		t.Errorf("esperava 1 entrada, obteve %d", n)
	}
}

func TestAuditList_Filters(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	slot := f.openSlot(t)

	if _, err := f.svc.Assignment.ClaimForSelf(ctx, sessionOf(f.ana), slot); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if _, err := f.svc.Assignment.Remove(ctx, sessionOf(f.leader), slot); err != nil {
		t.Fatalf("remove: %v", err)
	}

	list, total, err := f.svc.Audit.List(ctx, &dto.AuditLogListRequest{ActionType: string(model.ActionTaskRemoved)})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("esperava 1 entrada, obteve %d/%d", len(list), total)
	}
	d, ok := list[0].Details.(*model.TaskRemovalDetails)
	if !ok {
		t.Fatalf("detalhes do tipo %T", list[0].Details)
	}
	if d.RemovedFromMemberName != f.ana.FullName {
		t.Errorf("membro removido %q", d.RemovedFromMemberName)
	}

	all, total, err := f.svc.Audit.List(ctx, &dto.AuditLogListRequest{UserID: f.ana.ID})
	if err != nil || total != 1 || all[0].ActionType != model.ActionTaskSelfAssigned {
		t.Errorf("filtro por ator: %v %d", err, total)
	}

	if _, _, err := f.svc.Audit.List(ctx, &dto.AuditLogListRequest{ActionType: "inventado"}); !errors.Is(err, model.ErrUnknownAction) {
		t.Errorf("esperava ErrUnknownAction, obteve %v", err)
	}
	if _, _, err := f.svc.Audit.List(ctx, &dto.AuditLogListRequest{From: "2025-02-01", To: "2025-01-01"}); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("esperava ErrInvalidTimeRange, obteve %v", err)
	}
}

func TestRecord_AnonymousVisitor(t *testing.T) {
	f := setupFixture(t)
	rec := NewAuditRecorder(f.store.repository(), nil, metrics.Nop(), zap.NewNop())
	rec.Record(context.Background(), nil, AuditEntry{
		Action:       model.ActionVisitorSubmitted,
		ResourceType: model.ResourceVisitor,
		ResourceID:   "v-1",
		Details:      model.VisitorDetails{VisitorName: "Visitante"},
	})
	got := f.lastAudit(t)
	if got.UserID != nil || got.MemberName != "Visitante" {
		t.Errorf("entrada anônima incorreta: %v %s", got.UserID, got.MemberName)
	}
}

func TestParseRange(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)

	from, to, err := parseRange("2026-03-01", "2026-03-01")
	if err != nil {
		t.Fatalf("um único dia deveria ser aceito: %v", err)
	}
	if !from.Equal(day) || !to.Equal(day.AddDate(0, 0, 1)) {
		t.Errorf("janela inesperada: %s .. %s", from, to)
	}

	// an RFC3339 bound is taken as is
	_, to, err = parseRange("", "2026-03-01T12:00:00Z")
	if err != nil || !to.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("limite RFC3339 alterado: %v %v", to, err)
	}

	if _, _, err := parseRange("2026-03-01T10:00:00Z", "2026-03-01T10:00:00Z"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("janela vazia deveria falhar, obteve %v", err)
	}
	if _, _, err := parseRange("2026-03-02", "2026-03-01"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("janela invertida deveria falhar, obteve %v", err)
	}
	if _, _, err := parseRange("ontem", ""); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("data inválida deveria falhar, obteve %v", err)
	}
}

func strPtr(s string) *string { return &s }
