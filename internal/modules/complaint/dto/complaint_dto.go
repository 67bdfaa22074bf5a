package dto

import (
	"time"

	"anoa.com/complainthub/internal/entity"
	commonDto "anoa.com/complainthub/pkg/dto"
	"github.com/google/uuid"
)

type CreateComplaintRequest struct {
	Title      string `form:"title" binding:"required,min=3,max=255"`
	Content    string `form:"content" binding:"required,min=3"`
	DateEvent  string `form:"date_event" binding:"required"`
	Location   string `form:"location" binding:"required,min=3,max=255"`
	CategoryID string `form:"category_id" binding:"required,uuid"`
}

// UpdateComplaintRequest is a partial update; nil fields are left untouched.
type UpdateComplaintRequest struct {
	Title      *string `form:"title" binding:"omitempty,min=3,max=255"`
	Content    *string `form:"content" binding:"omitempty,min=3"`
	DateEvent  *string `form:"date_event" binding:"omitempty"`
	Location   *string `form:"location" binding:"omitempty,min=3,max=255"`
	CategoryID *string `form:"category_id" binding:"omitempty,uuid"`
}

type SearchQuery struct {
	commonDto.PageQuery
	Q string `form:"q"`
}

type DeleteHistoriesQuery struct {
	UserID string `form:"user_id" binding:"omitempty,uuid"`
}

type CategoryProjection struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type TrackingStatusResponse struct {
	ID        uuid.UUID              `json:"id"`
	Status    entity.ComplaintStatus `json:"status"`
	Notes     string                 `json:"notes"`
	AdminID   *uuid.UUID             `json:"admin_id,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type ComplaintResponse struct {
	ID             uuid.UUID                `json:"id"`
	Title          string                   `json:"title"`
	Slug           string                   `json:"slug"`
	Content        string                   `json:"content"`
	DateEvent      time.Time                `json:"date_event"`
	Location       string                   `json:"location"`
	Evidence       string                   `json:"evidence"`
	CurrentStatus  entity.ComplaintStatus   `json:"current_status"`
	UserID         uuid.UUID                `json:"user_id"`
	Category       *CategoryProjection      `json:"category"`
	AdminFeedback  *uuid.UUID               `json:"admin_feedback"`
	TrackingStatus []TrackingStatusResponse `json:"tracking_status,omitempty"`
	IsDeleted      bool                     `json:"is_deleted"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

type DeleteComplaintResponse struct {
	ComplaintID uuid.UUID `json:"complaint_id"`
	Slug        string    `json:"slug"`
	IsDeleted   bool      `json:"is_deleted"`
}

type DeleteHistoryResponse struct {
	ComplaintID        uuid.UUID `json:"complaint_id"`
	DeletedFromHistory bool      `json:"deleted_from_history"`
}

type DeleteHistoriesResponse struct {
	HistoriesDeleted bool  `json:"histories_deleted"`
	Affected         int64 `json:"affected"`
}

func ToComplaintResponse(c *entity.Complaint) ComplaintResponse {
	res := ComplaintResponse{
		ID:            c.ID,
		Title:         c.Title,
		Slug:          c.Slug,
		Content:       c.Content,
		DateEvent:     c.DateEvent,
		Location:      c.Location,
		Evidence:      c.Evidence,
		CurrentStatus: c.CurrentStatus,
		UserID:        c.UserID,
		AdminFeedback: c.AdminFeedbackID,
		IsDeleted:     c.IsDeleted,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.Category != nil {
		res.Category = &CategoryProjection{ID: c.Category.ID, Name: c.Category.Name}
	}
	for _, t := range c.TrackingStatuses {
		res.TrackingStatus = append(res.TrackingStatus, TrackingStatusResponse{
			ID:        t.ID,
			Status:    t.Status,
			Notes:     t.Notes,
			AdminID:   t.AdminID,
			CreatedAt: t.CreatedAt,
		})
	}
	return res
}

func ToComplaintResponses(complaints []entity.Complaint) []ComplaintResponse {
	res := make([]ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		res = append(res, ToComplaintResponse(&complaints[i]))
	}
	return res
}
