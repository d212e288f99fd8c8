package dto

import "github.com/cleytonmendest/viva-esperanca-sub000/internal/model"

// ── audit trail ──

// AuditLogListRequest reader filters. From/To accept a date (2006-01-02)
// or an RFC3339 timestamp. An RFC3339 To is exclusive; a date To includes
// that whole day.
type AuditLogListRequest struct {
	PaginationRequest
	ActionType   string `form:"action_type"   binding:"omitempty,max=40"`
	ResourceType string `form:"resource_type" binding:"omitempty,oneof=event task member visitor event_assignment"`
	ResourceID   string `form:"resource_id"   binding:"omitempty,max=64"`
	UserID       string `form:"user_id"       binding:"omitempty,max=64"`
	From         string `form:"from"`
	To           string `form:"to"`
}

// AuditLogResponse one entry with its typed payload
type AuditLogResponse struct {
	ID           string             `json:"id"`
	UserID       *string            `json:"user_id"`
	MemberName   string             `json:"member_name"`
	ActionType   model.ActionType   `json:"action_type"`
	ResourceType model.ResourceType `json:"resource_type"`
	ResourceID   string             `json:"resource_id"`
	Details      model.AuditDetails `json:"details"`
	CreatedAt    string             `json:"created_at"`
}
