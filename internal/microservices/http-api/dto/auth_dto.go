package dto

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for user registration (POST /usuario)
type RegisterRequest struct {
	Name     string `json:"nome" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,trimmedemail,max=255"`
	Password string `json:"senha" binding:"required,min=6,max=72"`
}

// LoginRequest: payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,trimmedemail"`
	Password string `json:"senha" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"usuario"`
}
