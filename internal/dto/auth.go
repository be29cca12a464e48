package dto

// LoginRequest defines the payload for password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest identifies the user rotating their token. The refresh token
// itself arrives via cookie or, failing that, the request body.
type RefreshRequest struct {
	UserID       string `json:"userID" binding:"required"`
	RefreshToken string `json:"refreshToken"`
}

// GoogleLoginRequest carries the OAuth authorization code from the client.
type GoogleLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

// AuthResponse is returned on successful login, registration, or token refresh.
type AuthResponse struct {
	UserID       string `json:"userID"`
	Name         string `json:"name"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}
