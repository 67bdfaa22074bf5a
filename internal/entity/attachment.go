package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttachmentState string

const (
	// AttachmentPending is a file written to storage but not yet referenced.
	AttachmentPending AttachmentState = "pending"
	// AttachmentCommitted is referenced by its owner record.
	AttachmentCommitted AttachmentState = "committed"
	// AttachmentReleased is no longer referenced and waits to be purged.
	AttachmentReleased AttachmentState = "released"
)

const (
	OwnerComplaint = "complaint"
	OwnerFeedback  = "feedback"
	OwnerUser      = "user"
)

type Attachment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Path        string          `gorm:"type:text;not null;uniqueIndex" json:"path"`
	Folder      string          `gorm:"size:50;not null" json:"folder"`
	ContentType string          `gorm:"size:100" json:"content_type"`
	Size        int64           `json:"size"`
	State       AttachmentState `gorm:"size:20;not null;index" json:"state"`
	OwnerType   string          `gorm:"size:20" json:"owner_type,omitempty"`
	OwnerID     *uuid.UUID      `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	if a.State == "" {
		a.State = AttachmentPending
	}
	return
}
