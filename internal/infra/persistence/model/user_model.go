package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email             string    `gorm:"type:varchar(255);unique;not null"`
	Name              string    `gorm:"type:varchar(100)"`
	Phone             string    `gorm:"type:varchar(30)"`
	IsAdmin           bool      `gorm:"not null;default:false"`
	EmailVerified     bool      `gorm:"not null;default:false"`
	ProfilePictureURL string    `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time `gorm:"index"`

	Credential      *CredentialModel       `gorm:"foreignKey:UserID"`
	PasswordHistory []PasswordHistoryModel `gorm:"foreignKey:UserID"`
	RefreshTokens   []RefreshTokenModel    `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
