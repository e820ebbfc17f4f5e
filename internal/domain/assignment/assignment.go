package assignment

import (
	"time"

	"github.com/google/uuid"

	"github.com/brightboard/brightboard-backend/internal/domain/user"
)

const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

const DefaultMaxScore = 10.0

// Assignment is a gradable task belonging to a course. Archival is terminal:
// an archived assignment is never re-activated, republishing means creating
// a new one.
type Assignment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`

	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description,omitempty"`
	DueDate     *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	MaxScore    float64    `gorm:"column:max_score;not null;default:10" json:"max_score"`
	Status      string     `gorm:"column:status;not null;default:'draft';index" json:"status"`

	CreatedBy uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by"`
	Creator   *user.User `gorm:"foreignKey:CreatedBy;references:ID" json:"creator,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Assignment) TableName() string { return "assignments" }

// CanTransition reports whether the status state machine permits from -> to.
// The full table is draft -> active and active -> archived; everything else,
// including archived -> active, is rejected.
func CanTransition(from, to string) bool {
	switch {
	case from == StatusDraft && to == StatusActive:
		return true
	case from == StatusActive && to == StatusArchived:
		return true
	default:
		return false
	}
}

// ValidStatus reports whether s is one of the lifecycle statuses.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusActive || s == StatusArchived
}
