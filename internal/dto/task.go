package dto

// ── task catalog ──

// CreateTaskRequest create task
type CreateTaskRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=150"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Quantity    int    `json:"quantity"    binding:"omitempty,min=1,max=50"`
}

// UpdateTaskRequest partial update
type UpdateTaskRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=150"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Quantity    *int    `json:"quantity"    binding:"omitempty,min=1,max=50"`
	IsActive    *bool   `json:"is_active"`
}

// TaskListRequest list query
type TaskListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// TaskResponse task
type TaskResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
