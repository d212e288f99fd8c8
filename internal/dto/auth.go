package dto

// LoginRequest email + password login
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse issued access token
type TokenResponse struct {
	AccessToken string         `json:"access_token"`
	ExpiresIn   int            `json:"expires_in"` // seconds
	Member      MemberResponse `json:"member"`
}

// MeResponse current session
type MeResponse struct {
	Member       MemberResponse `json:"member"`
	Capabilities []string       `json:"capabilities"`
}
