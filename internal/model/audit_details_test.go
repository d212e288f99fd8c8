package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestCheckAuditDetails(t *testing.T) {
	tests := []struct {
		name    string
		action  ActionType
		details AuditDetails
		wantErr error
	}{
		{"atribuição", ActionTaskAssigned, TaskAssignmentDetails{}, nil},
		{"auto-atribuição", ActionTaskSelfAssigned, &TaskAssignmentDetails{}, nil},
		{"remoção", ActionTaskRemoved, TaskRemovalDetails{}, nil},
		{"evento", ActionEventUpdated, EventDetails{}, nil},
		{"membro aprovado", ActionMemberApproved, MemberDetails{}, nil},
		{"tarefa do catálogo", ActionTaskDeleted, TaskCatalogDetails{}, nil},
		{"visitante", ActionVisitorSubmitted, VisitorDetails{}, nil},
		{"remoção com detalhes de atribuição", ActionTaskRemoved, TaskAssignmentDetails{}, ErrDetailsMismatch},
		{"evento com detalhes de membro", ActionEventCreated, MemberDetails{}, ErrDetailsMismatch},
		{"detalhes nulos", ActionMemberCreated, nil, ErrDetailsMismatch},
		{"ação desconhecida", ActionType("blog_created"), MemberDetails{}, ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAuditDetails(tt.action, tt.details)
			if tt.wantErr == nil && err != nil {
				t.Errorf("erro inesperado: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("esperado %v, obtido %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuditDetailsFor_CoversEveryAction(t *testing.T) {
	for _, a := range ActionTypes {
		d, err := AuditDetailsFor(a)
		if err != nil {
			t.Fatalf("%s: %v", a, err)
		}
		if err := CheckAuditDetails(a, d); err != nil {
			t.Errorf("%s: variante vazia rejeitada: %v", a, err)
		}
	}
}

func TestDecodeAuditDetails_TaskRemovedHasNoAssignmentKeys(t *testing.T) {
	in := TaskRemovalDetails{
		EventID: "e1", EventName: "Culto", TaskID: "t1", TaskName: "Recepção",
		RemovedFromMemberID: "m1", RemovedFromMemberName: "Maria",
	}
	raw, _ := json.Marshal(in)

	var keys map[string]interface{}
	_ = json.Unmarshal(raw, &keys)
	if _, ok := keys["assigned_to_member_name"]; ok {
		t.Error("task_removed não deveria conter assigned_to_member_name")
	}
	if len(keys) != 6 {
		t.Errorf("esperado 6 chaves, obtido %d", len(keys))
	}

	out, err := DecodeAuditDetails(ActionTaskRemoved, raw)
	if err != nil {
		t.Fatalf("DecodeAuditDetails falhou: %v", err)
	}
	got, ok := out.(*TaskRemovalDetails)
	if !ok {
		t.Fatalf("variante inesperada %T", out)
	}
	if *got != in {
		t.Errorf("esperado %+v, obtido %+v", in, *got)
	}
	if got.SubjectName() != "Maria" {
		t.Errorf("SubjectName esperado Maria, obtido %s", got.SubjectName())
	}
}

func TestDecodeAuditDetails_SelfAssignedKeepsFlag(t *testing.T) {
	raw := []byte(`{"event_id":"e1","event_name":"Culto","task_id":"t1","task_name":"Som",
		"assigned_to_member_id":"m1","assigned_to_member_name":"João","is_self_assigned":true}`)

	out, err := DecodeAuditDetails(ActionTaskSelfAssigned, raw)
	if err != nil {
		t.Fatalf("DecodeAuditDetails falhou: %v", err)
	}
	d := out.(*TaskAssignmentDetails)
	if !d.IsSelfAssigned || d.AssignedToMemberName != "João" {
		t.Errorf("detalhes decodificados incorretos: %+v", d)
	}
}

func TestDecodeAuditDetails_EventChanges(t *testing.T) {
	date := time.Date(2026, 5, 3, 19, 0, 0, 0, time.UTC)
	changes := Changes{}
	changes.Track("name", "Culto", "Culto de Santa Ceia")
	changes.Track("location", "Templo", "Templo")

	raw, _ := json.Marshal(EventDetails{EventName: "Culto de Santa Ceia", Date: &date, Changes: changes})
	out, err := DecodeAuditDetails(ActionEventUpdated, raw)
	if err != nil {
		t.Fatalf("DecodeAuditDetails falhou: %v", err)
	}
	d := out.(*EventDetails)
	if len(d.Changes) != 1 {
		t.Fatalf("esperado 1 alteração, obtido %d", len(d.Changes))
	}
	if d.Changes["name"].To != "Culto de Santa Ceia" {
		t.Errorf("alteração de nome incorreta: %+v", d.Changes["name"])
	}
	if d.Date == nil || !d.Date.Equal(date) {
		t.Errorf("data incorreta: %v", d.Date)
	}
}

func TestDecodeAuditDetails_UnknownAction(t *testing.T) {
	if _, err := DecodeAuditDetails("post_published", []byte(`{}`)); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("esperado ErrUnknownAction, obtido %v", err)
	}
}
