package assignment

import (
	"time"

	"github.com/google/uuid"
)

// Document is an instructor-provided file attached to an assignment
// (a brief, a rubric, starter material). Deleted when its assignment is
// deleted.
type Document struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AssignmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"assignment_id"`

	Title    string `gorm:"column:title;not null" json:"title"`
	FileName string `gorm:"column:file_name;not null" json:"file_name"`
	FilePath string `gorm:"column:file_path;not null" json:"file_path"`
	FileType string `gorm:"column:file_type" json:"file_type,omitempty"`
	FileSize int64  `gorm:"column:file_size" json:"file_size,omitempty"`

	UploadedBy uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Document) TableName() string { return "assignment_documents" }
