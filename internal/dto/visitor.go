package dto

// ── visitor intake ──

// SubmitVisitorRequest public intake form
type SubmitVisitorRequest struct {
	FullName       string `json:"full_name"        binding:"required,min=2,max=150"`
	Email          string `json:"email"            binding:"omitempty,email,max=255"`
	Phone          string `json:"phone"            binding:"omitempty,max=30"`
	HowHeard       string `json:"how_heard"        binding:"omitempty,max=100"`
	PrayerRequest  string `json:"prayer_request"   binding:"omitempty,max=2000"`
	WantsContact   bool   `json:"wants_contact"`
	FirstVisitDate string `json:"first_visit_date" binding:"omitempty,datetime=2006-01-02"`
}

// VisitorListRequest list query
type VisitorListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=novo contatado"`
}

// VisitorResponse visitor record
type VisitorResponse struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	HowHeard       string `json:"how_heard,omitempty"`
	PrayerRequest  string `json:"prayer_request,omitempty"`
	WantsContact   bool   `json:"wants_contact"`
	FirstVisitDate string `json:"first_visit_date,omitempty"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}
