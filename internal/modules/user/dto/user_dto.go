package dto

import (
	"time"

	"anoa.com/complainthub/internal/entity"
	complaintDto "anoa.com/complainthub/internal/modules/complaint/dto"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	NIK      string `json:"nik" binding:"required,len=16"`
	Name     string `json:"name" binding:"required,min=3,max=255"`
	Email    string `json:"email" binding:"required,min=3,max=255,email"`
	Password string `json:"password" binding:"required,min=3,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,min=3,max=255,email"`
	Password string `json:"password" binding:"required,min=3,max=255"`
}

// UpdateProfileRequest is bound from a multipart form so the avatar can be
// sent in the same request.
type UpdateProfileRequest struct {
	Name            string `form:"name" binding:"required,min=3,max=255"`
	Email           string `form:"email" binding:"required,min=3,max=255,email"`
	Address         string `form:"address" binding:"omitempty,min=3,max=255"`
	OldPassword     string `form:"old_password" binding:"omitempty,min=3,max=255"`
	NewPassword     string `form:"new_password" binding:"omitempty,min=3,max=255"`
	ConfirmPassword string `form:"confirm_password" binding:"omitempty,min=3,max=255"`
}

type UserResponse struct {
	ID         uuid.UUID   `json:"id"`
	NIK        string      `json:"nik"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       entity.Role `json:"role"`
	IsVerified bool        `json:"is_verified"`
	Address    *string     `json:"address,omitempty"`
	Avatar     *string     `json:"avatar,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

type LoginResponse struct {
	UserResponse
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UserComplaintsResponse struct {
	UserResponse
	Complaints []complaintDto.ComplaintResponse `json:"complaints"`
}

type LogoutResponse struct {
	IsLoggedOut bool `json:"is_logged_out"`
}

type DeleteUserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	IsDeleted bool      `json:"is_deleted"`
}

func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		NIK:        u.NIK,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		Address:    u.Address,
		Avatar:     u.Avatar,
		CreatedAt:  u.CreatedAt,
	}
}

func ToUserResponses(users []*entity.User) []UserResponse {
	res := make([]UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, ToUserResponse(u))
	}
	return res
}
