package broker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
)

func TestSubject(t *testing.T) {
	if got := Subject("viva", model.ActionTaskRemoved); got != "viva.audit.task_removed" {
		t.Errorf("subject incorreto: %s", got)
	}
}

func TestNewEvent_KeepsDetailsVerbatim(t *testing.T) {
	actor := "m1"
	entry := &model.AuditLog{
		ID:           "a1",
		UserID:       &actor,
		MemberName:   "Ana",
		ActionType:   model.ActionMemberApproved,
		ResourceType: model.ResourceMember,
		ResourceID:   "m2",
		Details:      []byte(`{"member_name":"Bruno"}`),
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(NewEvent(entry))
	if err != nil {
		t.Fatalf("Marshal falhou: %v", err)
	}

	var decoded map[string]interface{}
	_ = json.Unmarshal(data, &decoded)

	details, ok := decoded["details"].(map[string]interface{})
	if !ok {
		t.Fatalf("details deveria ser objeto, obtido %T", decoded["details"])
	}
	if details["member_name"] != "Bruno" {
		t.Errorf("member_name dos detalhes incorreto: %v", details["member_name"])
	}
	if decoded["member_name"] != "Ana" {
		t.Errorf("member_name do ator incorreto: %v", decoded["member_name"])
	}
}
