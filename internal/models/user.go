package models

import (
	"time"

	"souqy/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	FullName     string         `gorm:"size:128;not null" json:"full_name"`
	Phone        string         `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // user | advertiser | admin
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	AdvertiserProfile *AdvertiserProfile `gorm:"foreignKey:UserID" json:"advertiser_profile,omitempty"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdvertiser() bool { return u.Role == domain.RoleAdvertiser }
func (u *User) IsAdmin() bool      { return u.Role == domain.RoleAdmin }

type AdvertiserProfile struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	StoreName        string         `gorm:"size:128;not null" json:"store_name"`
	Description      string         `gorm:"type:text" json:"description"`
	SocialMediaLinks string         `gorm:"type:text" json:"social_media_links"` // JSON blob, opaque to the server
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AdvertiserProfile) TableName() string { return "advertiser_profiles" }
