package dto

import "github.com/hongminglow/confession-be/internal/models"

type RegisterRequest struct {
	Nickname string  `json:"nickname"`
	Password string  `json:"password"`
	PhotoURL *string `json:"photo_url"`
}

type LoginRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// LoginResponse is returned by both register and login.
type LoginResponse struct {
	ID       string  `json:"id"`
	Nickname string  `json:"nickname"`
	PhotoURL *string `json:"photo_url"`
	Token    string  `json:"token"`
}

func NewLoginResponse(user models.User, token string) LoginResponse {
	return LoginResponse{
		ID:       user.ID.String(),
		Nickname: user.Nickname,
		PhotoURL: user.PhotoURL,
		Token:    token,
	}
}
