package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
)

func TestMemberCreate(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	admin := &Session{MemberID: f.leader.ID, Role: model.RoleAdmin}

	resp, err := f.svc.Member.Create(ctx, admin, &dto.CreateMemberRequest{
		FullName: "Davi Santos",
		Email:    " Davi@Viva.Test ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Email != "davi@viva.test" || resp.Role != model.RoleMember || resp.Status != model.MemberStatusPending {
		t.Errorf("padrões incorretos: %+v", resp)
	}

	entry := f.lastAudit(t)
	if entry.ActionType != model.ActionMemberCreated || *entry.UserID != f.leader.ID {
		t.Errorf("log incorreto: %s", entry.ActionType)
	}
	// subject in details, actor in the row
	if d := decodeDetails[model.MemberDetails](t, entry); d.MemberName != "Davi Santos" {
		t.Errorf("member_name %q", d.MemberName)
	}

	if _, err := f.svc.Member.Create(ctx, admin, &dto.CreateMemberRequest{FullName: "Outro", Email: "davi@viva.test"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("esperava ErrEmailTaken, obteve %v", err)
	}
}

func TestMemberUpdate_VersionConflict(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	admin := &Session{MemberID: f.leader.ID, Role: model.RoleAdmin}
	phone := "11 99999-0000"

	resp, err := f.svc.Member.Update(ctx, admin, f.ana.ID, &dto.UpdateMemberRequest{Phone: &phone, Version: 1})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Version != 2 {
		t.Errorf("esperava versão 2, obteve %d", resp.Version)
	}
	d := decodeDetails[model.MemberDetails](t, f.lastAudit(t))
	if d.Changes["phone"].To != phone {
		t.Errorf("mudança de telefone não registrada: %v", d.Changes)
	}

	// stale version
	other := "11 98888-0000"
	if _, err := f.svc.Member.Update(ctx, admin, f.ana.ID, &dto.UpdateMemberRequest{Phone: &other, Version: 1}); !errors.Is(err, ErrMemberVersionConflict) {
		t.Errorf("esperava ErrMemberVersionConflict, obteve %v", err)
	}

	taken := f.bruno.Email
	if _, err := f.svc.Member.Update(ctx, admin, f.ana.ID, &dto.UpdateMemberRequest{Email: &taken, Version: 2}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("esperava ErrEmailTaken, obteve %v", err)
	}
}

func TestMemberApprove(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	pending := f.addMember(t, "Eva Nova", "eva@viva.test", model.RoleMember, model.MemberStatusPending, "")

	resp, err := f.svc.Member.Approve(ctx, sessionOf(f.leader), pending.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if resp.Status != model.MemberStatusApproved {
		t.Errorf("esperava aprovado, obteve %s", resp.Status)
	}
	entry := f.lastAudit(t)
	if entry.ActionType != model.ActionMemberApproved || entry.MemberName != f.leader.FullName {
		t.Errorf("log incorreto: %s %s", entry.ActionType, entry.MemberName)
	}

	if _, err := f.svc.Member.Approve(ctx, sessionOf(f.leader), pending.ID); !errors.Is(err, ErrMemberAlreadyApproved) {
		t.Errorf("esperava ErrMemberAlreadyApproved, obteve %v", err)
	}
}

func TestMemberDelete(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	admin := &Session{MemberID: f.leader.ID, Role: model.RoleAdmin}

	if err := f.svc.Member.Delete(ctx, admin, f.leader.ID); !errors.Is(err, ErrCannotDeleteSelf) {
		t.Errorf("esperava ErrCannotDeleteSelf, obteve %v", err)
	}
	if err := f.svc.Member.Delete(ctx, admin, f.bruno.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.svc.Member.Get(ctx, f.bruno.ID); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("membro removido não deve ser encontrado: %v", err)
	}
	if d := decodeDetails[model.MemberDetails](t, f.lastAudit(t)); d.MemberName != f.bruno.FullName {
		t.Errorf("member_deleted com nome %q", d.MemberName)
	}

	list, total, err := f.svc.Member.List(ctx, &dto.MemberListRequest{Role: model.RoleMember})
	if err != nil || total != 1 || list[0].ID != f.ana.ID {
		t.Errorf("List: %v %d", err, total)
	}
}

func TestMemberDelete_ReleasesHeldSlots(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	admin := &Session{MemberID: f.leader.ID, Role: model.RoleAdmin}
	slot := f.openSlot(t)

	if _, err := f.svc.Assignment.ClaimForSelf(ctx, sessionOf(f.ana), slot); err != nil {
		t.Fatalf("claim de Ana: %v", err)
	}
	if err := f.svc.Member.Delete(ctx, admin, f.ana.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := f.store.assignment(slot); !got.IsOpen() || got.Status != model.AssignmentStatusPending {
		t.Fatalf("vaga de membro removido deveria ficar aberta: %+v", got)
	}

	claimed, err := f.svc.Assignment.ClaimForSelf(ctx, sessionOf(f.bruno), slot)
	if err != nil {
		t.Fatalf("Bruno deveria conseguir assumir a vaga liberada: %v", err)
	}
	if claimed.MemberName != f.bruno.FullName {
		t.Errorf("member_name %q", claimed.MemberName)
	}

	if _, err := f.svc.Assignment.Remove(ctx, sessionOf(f.leader), slot); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	entry := f.lastAudit(t)
	if entry.ActionType != model.ActionTaskRemoved {
		t.Fatalf("esperava task_removed, obteve %s", entry.ActionType)
	}
	d := decodeDetails[model.TaskRemovalDetails](t, entry)
	if d.RemovedFromMemberName != f.bruno.FullName || d.RemovedFromMemberID != f.bruno.ID {
		t.Errorf("remoção deveria citar Bruno, obteve %q (%s)", d.RemovedFromMemberName, d.RemovedFromMemberID)
	}
}

