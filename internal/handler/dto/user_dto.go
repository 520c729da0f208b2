package dto

import (
	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// UserResponse — публичное представление пользователя
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUserResponse строит ответ из сущности пользователя
func NewUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}
