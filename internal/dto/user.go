package dto

import (
	"time"

	"github.com/fintrack-app/fintrack_backend/internal/core/domain"
)

// CreateUserRequest defines the payload for registering a user.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateUserRequest defines the payload for updating a user. Nil fields are unchanged.
type UpdateUserRequest struct {
	Name *string `json:"name,omitempty"`
}

// UserResponse is the API representation of a user.
type UserResponse struct {
	UserID    string    `json:"userID"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListUsersParams holds query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListUsersResponse wraps a page of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToUserResponse converts a domain user to its API representation.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// ToListUsersResponse converts a slice of domain users.
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	resp := ListUsersResponse{Users: make([]UserResponse, len(users))}
	for i := range users {
		resp.Users[i] = ToUserResponse(&users[i])
	}
	return resp
}
