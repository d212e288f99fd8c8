package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ActionType closed set of audited actions
type ActionType string

const (
	ActionTaskAssigned     ActionType = "task_assigned"
	ActionTaskSelfAssigned ActionType = "task_self_assigned"
	ActionTaskRemoved      ActionType = "task_removed"

	ActionEventCreated ActionType = "event_created"
	ActionEventUpdated ActionType = "event_updated"
	ActionEventDeleted ActionType = "event_deleted"

	ActionMemberCreated  ActionType = "member_created"
	ActionMemberUpdated  ActionType = "member_updated"
	ActionMemberDeleted  ActionType = "member_deleted"
	ActionMemberApproved ActionType = "member_approved"

	ActionTaskCreated ActionType = "task_created"
	ActionTaskUpdated ActionType = "task_updated"
	ActionTaskDeleted ActionType = "task_deleted"

	ActionVisitorSubmitted ActionType = "visitor_submitted"
)

// ActionTypes every known action, in display order
var ActionTypes = []ActionType{
	ActionTaskAssigned, ActionTaskSelfAssigned, ActionTaskRemoved,
	ActionEventCreated, ActionEventUpdated, ActionEventDeleted,
	ActionMemberCreated, ActionMemberUpdated, ActionMemberDeleted, ActionMemberApproved,
	ActionTaskCreated, ActionTaskUpdated, ActionTaskDeleted,
	ActionVisitorSubmitted,
}

// Valid reports whether a is a known action
func (a ActionType) Valid() bool {
	for _, known := range ActionTypes {
		if a == known {
			return true
		}
	}
	return false
}

// ResourceType kind of entity an audit entry points at
type ResourceType string

const (
	ResourceEvent           ResourceType = "event"
	ResourceTask            ResourceType = "task"
	ResourceMember          ResourceType = "member"
	ResourceVisitor         ResourceType = "visitor"
	ResourceEventAssignment ResourceType = "event_assignment"
)

// Valid reports whether r is a known resource type
func (r ResourceType) Valid() bool {
	switch r {
	case ResourceEvent, ResourceTask, ResourceMember, ResourceVisitor, ResourceEventAssignment:
		return true
	}
	return false
}

var (
	ErrUnknownAction   = errors.New("tipo de ação de auditoria desconhecido")
	ErrDetailsMismatch = errors.New("detalhes de auditoria incompatíveis com o tipo de ação")
)

// AuditDetails payload of one audit entry. The concrete variant is fixed by
// the entry's action type; see CheckAuditDetails.
type AuditDetails interface {
	// SubjectName display name of the affected entity
	SubjectName() string
	accepts(ActionType) bool
}

// FieldChange before/after pair of an updated field
type FieldChange struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// Changes field name → change
type Changes map[string]FieldChange

// Track records a change when from and to differ
func (c Changes) Track(field string, from, to interface{}) {
	if fmt.Sprint(from) != fmt.Sprint(to) {
		c[field] = FieldChange{From: from, To: to}
	}
}

// ── variants ──

// TaskAssignmentDetails task_assigned / task_self_assigned
type TaskAssignmentDetails struct {
	EventID              string `json:"event_id"`
	EventName            string `json:"event_name"`
	TaskID               string `json:"task_id"`
	TaskName             string `json:"task_name"`
	AssignedToMemberID   string `json:"assigned_to_member_id"`
	AssignedToMemberName string `json:"assigned_to_member_name"`
	IsSelfAssigned       bool   `json:"is_self_assigned"`
}

func (d TaskAssignmentDetails) SubjectName() string { return d.AssignedToMemberName }

func (d TaskAssignmentDetails) accepts(a ActionType) bool {
	return a == ActionTaskAssigned || a == ActionTaskSelfAssigned
}

// TaskRemovalDetails task_removed
type TaskRemovalDetails struct {
	EventID               string `json:"event_id"`
	EventName             string `json:"event_name"`
	TaskID                string `json:"task_id"`
	TaskName              string `json:"task_name"`
	RemovedFromMemberID   string `json:"removed_from_member_id"`
	RemovedFromMemberName string `json:"removed_from_member_name"`
}

func (d TaskRemovalDetails) SubjectName() string { return d.RemovedFromMemberName }

func (d TaskRemovalDetails) accepts(a ActionType) bool { return a == ActionTaskRemoved }

// EventDetails event_created / event_updated / event_deleted.
// Date is set on create and delete, Changes on update.
type EventDetails struct {
	EventName string     `json:"event_name"`
	Date      *time.Time `json:"date,omitempty"`
	Changes   Changes    `json:"changes,omitempty"`
}

func (d EventDetails) SubjectName() string { return d.EventName }

func (d EventDetails) accepts(a ActionType) bool {
	return a == ActionEventCreated || a == ActionEventUpdated || a == ActionEventDeleted
}

// MemberDetails member_* actions. MemberName is the affected member.
type MemberDetails struct {
	MemberName string  `json:"member_name"`
	Changes    Changes `json:"changes,omitempty"`
}

func (d MemberDetails) SubjectName() string { return d.MemberName }

func (d MemberDetails) accepts(a ActionType) bool {
	switch a {
	case ActionMemberCreated, ActionMemberUpdated, ActionMemberDeleted, ActionMemberApproved:
		return true
	}
	return false
}

// TaskCatalogDetails task_created / task_updated / task_deleted
type TaskCatalogDetails struct {
	TaskName string  `json:"task_name"`
	Changes  Changes `json:"changes,omitempty"`
}

func (d TaskCatalogDetails) SubjectName() string { return d.TaskName }

func (d TaskCatalogDetails) accepts(a ActionType) bool {
	return a == ActionTaskCreated || a == ActionTaskUpdated || a == ActionTaskDeleted
}

// VisitorDetails visitor_submitted
type VisitorDetails struct {
	VisitorName    string `json:"visitor_name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	HowHeard       string `json:"how_heard,omitempty"`
	WantsContact   bool   `json:"wants_contact"`
	FirstVisitDate string `json:"first_visit_date,omitempty"`
}

func (d VisitorDetails) SubjectName() string { return d.VisitorName }

func (d VisitorDetails) accepts(a ActionType) bool { return a == ActionVisitorSubmitted }

// ── helpers ──

// CheckAuditDetails verifies that d is the variant required by action
func CheckAuditDetails(action ActionType, d AuditDetails) error {
	if !action.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	if d == nil || !d.accepts(action) {
		return fmt.Errorf("%w: %s recebeu %T", ErrDetailsMismatch, action, d)
	}
	return nil
}

// AuditDetailsFor empty variant for action, usable as a decode target
func AuditDetailsFor(action ActionType) (AuditDetails, error) {
	switch action {
	case ActionTaskAssigned, ActionTaskSelfAssigned:
		return &TaskAssignmentDetails{}, nil
	case ActionTaskRemoved:
		return &TaskRemovalDetails{}, nil
	case ActionEventCreated, ActionEventUpdated, ActionEventDeleted:
		return &EventDetails{}, nil
	case ActionMemberCreated, ActionMemberUpdated, ActionMemberDeleted, ActionMemberApproved:
		return &MemberDetails{}, nil
	case ActionTaskCreated, ActionTaskUpdated, ActionTaskDeleted:
		return &TaskCatalogDetails{}, nil
	case ActionVisitorSubmitted:
		return &VisitorDetails{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
}

// DecodeAuditDetails rebuilds the typed payload stored for action
func DecodeAuditDetails(action ActionType, raw []byte) (AuditDetails, error) {
	d, err := AuditDetailsFor(action)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, fmt.Errorf("decodificar detalhes de %s: %w", action, err)
	}
	return d, nil
}
