package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

// User is profile data for an identity issued by the external provider.
// Credentials never reach this service; the row exists for display fields,
// role scoping and avatar storage.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string    `gorm:"column:first_name" json:"first_name"`
	LastName  string    `gorm:"column:last_name" json:"last_name"`
	Role      string    `gorm:"column:role;not null;default:'student';index" json:"role"`

	AvatarBucketKey string `gorm:"column:avatar_bucket_key" json:"-"`
	AvatarURL       string `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	AvatarColor     string `gorm:"column:avatar_color" json:"avatar_color,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "users" }
