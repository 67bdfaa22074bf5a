package dto

import (
	"time"

	"anoa.com/complainthub/internal/entity"
	"github.com/google/uuid"
)

type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=3,max=100"`
}

type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
