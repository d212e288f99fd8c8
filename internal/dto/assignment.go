package dto

// ── volunteer slots ──

// AddToEventRequest open slots for a task; Quantity defaults to the task's
type AddToEventRequest struct {
	TaskID   string `json:"task_id"  binding:"required"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1,max=50"`
}

// AssignMemberRequest leader assignment. An empty member is reported by the
// service with its own message.
type AssignMemberRequest struct {
	MemberID string `json:"member_id"`
}

// UpdateAssignmentStatusRequest member response to a slot
type UpdateAssignmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssignmentResponse one slot
type AssignmentResponse struct {
	ID         string  `json:"id"`
	EventID    string  `json:"event_id"`
	EventName  string  `json:"event_name,omitempty"`
	EventDate  string  `json:"event_date,omitempty"`
	TaskID     string  `json:"task_id"`
	TaskName   string  `json:"task_name,omitempty"`
	MemberID   *string `json:"member_id"`
	MemberName string  `json:"member_name,omitempty"`
	Status     string  `json:"status"`
	IsOpen     bool    `json:"is_open"`
	CreatedAt  string  `json:"created_at"`
}

// ActionResult outcome of a slot operation, rendered for failures too
type ActionResult struct {
	Success     bool                 `json:"success"`
	Message     string               `json:"message"`
	Assignment  *AssignmentResponse  `json:"assignment,omitempty"`
	Assignments []AssignmentResponse `json:"assignments,omitempty"`
}
