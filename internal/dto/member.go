package dto

// ── member module ──

// CreateMemberRequest create member
type CreateMemberRequest struct {
	FullName string `json:"full_name" binding:"required,min=2,max=150"`
	Email    string `json:"email"     binding:"required,email,max=255"`
	Phone    string `json:"phone"     binding:"omitempty,max=30"`
	Role     string `json:"role"      binding:"omitempty,oneof=admin leader member"`
	Status   string `json:"status"    binding:"omitempty,oneof=pendente aprovado inativo"`
	Password string `json:"password"  binding:"omitempty,min=8,max=72"`
}

// UpdateMemberRequest partial update; Version is the version the client read
type UpdateMemberRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=2,max=150"`
	Email    *string `json:"email"     binding:"omitempty,email,max=255"`
	Phone    *string `json:"phone"     binding:"omitempty,max=30"`
	Role     *string `json:"role"      binding:"omitempty,oneof=admin leader member"`
	Status   *string `json:"status"    binding:"omitempty,oneof=pendente aprovado inativo"`
	Version  int     `json:"version"   binding:"required,min=1"`
}

// MemberListRequest list query
type MemberListRequest struct {
	PaginationRequest
	Status  string `form:"status"  binding:"omitempty,oneof=pendente aprovado inativo"`
	Role    string `form:"role"    binding:"omitempty,oneof=admin leader member"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// MemberResponse member without credentials
type MemberResponse struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
