package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TypeAssignmentCreated = "assignment_created"
	TypeAssignmentGraded  = "assignment_graded"
	TypeDocumentUploaded  = "document_uploaded"
	TypeCourseEnrolled    = "course_enrolled"
	TypeMessage           = "message"
)

// Notification is one durable row per event. Read state lives here and only
// here; derived notifications are persisted like any other so there is a
// single source of truth for unread counts.
type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Title   string `gorm:"column:title;not null" json:"title"`
	Content string `gorm:"column:content;type:text" json:"content,omitempty"`
	Type    string `gorm:"column:type;not null;index" json:"type"`

	// Payload carries references back to the originating entities
	// (assignment id, submission id, course id) for client deep links.
	Payload datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`

	IsRead    bool      `gorm:"column:is_read;not null;default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
