package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplaintStatus string

const (
	StatusSubmitted  ComplaintStatus = "Submitted"
	StatusProcessing ComplaintStatus = "Processing"
	StatusFinished   ComplaintStatus = "Finished"
	StatusRejected   ComplaintStatus = "Rejected"
)

// transitions lists the statuses reachable from each status. Finished and
// Rejected are terminal.
var transitions = map[ComplaintStatus][]ComplaintStatus{
	StatusSubmitted:  {StatusProcessing, StatusFinished, StatusRejected},
	StatusProcessing: {StatusFinished, StatusRejected},
	StatusFinished:   nil,
	StatusRejected:   nil,
}

func (s ComplaintStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s ComplaintStatus) CanTransition(to ComplaintStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s ComplaintStatus) IsTerminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// ParseComplaintStatus accepts any casing, e.g. "finished".
func ParseComplaintStatus(s string) (ComplaintStatus, bool) {
	for status := range transitions {
		if strings.EqualFold(string(status), s) {
			return status, true
		}
	}
	return "", false
}

type Complaint struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string           `gorm:"size:255;not null" json:"title"`
	Slug             string           `gorm:"size:320;uniqueIndex;not null" json:"slug"`
	Content          string           `gorm:"type:text;not null" json:"content"`
	DateEvent        time.Time        `gorm:"not null" json:"date_event"`
	Location         string           `gorm:"size:255;not null" json:"location"`
	Evidence         string           `gorm:"type:text;not null" json:"evidence"`
	CurrentStatus    ComplaintStatus  `gorm:"size:20;not null;index" json:"current_status"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	Category         *Category        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	AdminFeedbackID  *uuid.UUID       `gorm:"type:uuid" json:"admin_feedback_id,omitempty"`
	AdminFeedback    *AdminFeedback   `gorm:"foreignKey:AdminFeedbackID;constraint:OnDelete:SET NULL" json:"admin_feedback,omitempty"`
	TrackingStatuses []TrackingStatus `gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE" json:"tracking_statuses,omitempty"`
	IsDeleted        bool             `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	if c.CurrentStatus == "" {
		c.CurrentStatus = StatusSubmitted
	}
	return
}

// TrackingStatus is one entry of a complaint's status history. Rows are only
// ever inserted; the FSM never revisits a status so (complaint_id, status) is
// unique.
type TrackingStatus struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ComplaintID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_tracking_complaint_status,priority:1" json:"complaint_id"`
	Status      ComplaintStatus `gorm:"size:20;not null;uniqueIndex:idx_tracking_complaint_status,priority:2" json:"status"`
	Notes       string          `gorm:"type:text" json:"notes"`
	AdminID     *uuid.UUID      `gorm:"type:uuid" json:"admin_id,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (t *TrackingStatus) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}

type AdminFeedback struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Date        time.Time `gorm:"not null" json:"date"`
	Attachment  *string   `gorm:"type:text" json:"attachment,omitempty"`
	ComplaintID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"complaint_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (f *AdminFeedback) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID, err = uuid.NewV7()
	}
	return
}
