package dto

import (
	"time"

	"github.com/hongminglow/confession-be/internal/models"
)

type UserResponse struct {
	ID       string  `json:"id"`
	Nickname string  `json:"nickname"`
	PhotoURL *string `json:"photo_url"`
}

type ProfileResponse struct {
	UserResponse
	CreatedAt time.Time `json:"created_at"`
}

type PhotoResponse struct {
	PhotoURL string `json:"photo_url"`
}

type GalleryResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
}

func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Nickname: user.Nickname,
		PhotoURL: user.PhotoURL,
	}
}

func NewProfileResponse(user models.User) ProfileResponse {
	return ProfileResponse{UserResponse: NewUserResponse(user), CreatedAt: user.CreatedAt}
}
