package dto

import (
	"time"

	"anoa.com/complainthub/internal/entity"
	"github.com/google/uuid"
)

type FeedbackRequest struct {
	Title       string `form:"title" binding:"required,min=3,max=255"`
	Description string `form:"description" binding:"required,min=3"`
	Date        string `form:"date" binding:"required"`
}

type ProcessRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=1000"`
}

type FeedbackResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Attachment  *string   `json:"attachment,omitempty"`
	ComplaintID uuid.UUID `json:"complaint_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToFeedbackResponse(f *entity.AdminFeedback) FeedbackResponse {
	return FeedbackResponse{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Date:        f.Date,
		Attachment:  f.Attachment,
		ComplaintID: f.ComplaintID,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
