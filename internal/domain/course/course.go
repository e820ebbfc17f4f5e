package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightboard/brightboard-backend/internal/domain/user"
)

type Course struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner   *user.User `gorm:"foreignKey:OwnerID;references:ID" json:"owner,omitempty"`

	Title       string `gorm:"column:title;not null" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "courses" }

// Enrollment links a student to a course. Unique on (course_id, student_id);
// a duplicate enroll surfaces as a conflict, not a second row.
type Enrollment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_course_student" json:"course_id"`
	StudentID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_course_student" json:"student_id"`
	Student   *user.User `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Enrollment) TableName() string { return "course_enrollments" }

// Document is a course-level file. Bytes live in the blob store; this row is
// metadata only.
type Document struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`

	Title    string `gorm:"column:title;not null" json:"title"`
	FileName string `gorm:"column:file_name;not null" json:"file_name"`
	FilePath string `gorm:"column:file_path;not null" json:"file_path"`
	FileType string `gorm:"column:file_type" json:"file_type,omitempty"`
	FileSize int64  `gorm:"column:file_size" json:"file_size,omitempty"`

	UploadedBy uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Document) TableName() string { return "course_documents" }
