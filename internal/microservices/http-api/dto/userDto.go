package dto

import (
	"pinduca/internal/microservices/http-api/models"
	"pinduca/internal/policy"
)

// UserResponse is the public view of a user; the password hash never leaves the service.
type UserResponse struct {
	ID    int64       `json:"id"`
	Name  string      `json:"nome"`
	Email string      `json:"email"`
	Role  policy.Role `json:"role"`
}

// UpdateUserRequest is a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"nome" binding:"omitempty,min=3,max=100"`
	Email    *string `json:"email" binding:"omitempty,trimmedemail,max=255"`
	Password *string `json:"senha" binding:"omitempty,min=6,max=72"`
}

func (r UpdateUserRequest) Empty() bool {
	return r.Name == nil && r.Email == nil && r.Password == nil
}

func FromModelToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

func FromModelsToUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, FromModelToUserResponse(&users[i]))
	}
	return out
}
