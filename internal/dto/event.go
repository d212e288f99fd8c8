package dto

import "time"

// ── event module ──

// CreateEventRequest create event
type CreateEventRequest struct {
	Name        string    `json:"name"        binding:"required,min=2,max=200"`
	Description string    `json:"description" binding:"omitempty,max=5000"`
	EventDate   time.Time `json:"event_date"  binding:"required"`
	Location    string    `json:"location"    binding:"omitempty,max=200"`
}

// UpdateEventRequest partial update
type UpdateEventRequest struct {
	Name        *string    `json:"name"        binding:"omitempty,min=2,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	EventDate   *time.Time `json:"event_date"`
	Location    *string    `json:"location"    binding:"omitempty,max=200"`
}

// EventListRequest list query. Upcoming keeps events from now on.
type EventListRequest struct {
	PaginationRequest
	Upcoming bool   `form:"upcoming"`
	From     string `form:"from"`
	To       string `form:"to"`
}

// EventResponse event with optional slots
type EventResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	EventDate   string               `json:"event_date"`
	Location    string               `json:"location,omitempty"`
	CreatedAt   string               `json:"created_at"`
	UpdatedAt   string               `json:"updated_at"`
	Assignments []AssignmentResponse `json:"assignments,omitempty"`
	OpenSlots   *int                 `json:"open_slots,omitempty"`
}
