package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is an advertiser offer. Type "post" is an image offer with price and
// expiration; type "reel" is a video with a description.
type Post struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	AdvertiserID     uint           `gorm:"not null;index" json:"advertiser_id"`
	CategoryID       *uint          `gorm:"index" json:"category_id"`
	Type             string         `gorm:"size:10;not null;index" json:"type"` // post | reel
	Title            string         `gorm:"size:255;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Price            *float64       `json:"price"`
	OldPrice         *float64       `json:"old_price"`
	MediaURL         string         `gorm:"size:512;not null" json:"media_url"`
	ThumbnailURL     string         `gorm:"size:512" json:"thumbnail_url"`
	ExpirationDate   *time.Time     `json:"expiration_date"`
	WithReservation  bool           `gorm:"default:false" json:"with_reservation"`
	ReservationTime  *time.Time     `json:"reservation_time"`
	ReservationLimit *int           `json:"reservation_limit"`
	LikesCount       int64          `gorm:"not null;default:0" json:"likes_count"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Advertiser User      `gorm:"foreignKey:AdvertiserID" json:"-"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Post) TableName() string { return "posts" }

type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string { return "post_likes" }

type SavedPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClientID  uint      `gorm:"not null;uniqueIndex:idx_saved_posts_client_post" json:"client_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_saved_posts_client_post;index" json:"post_id"`
	CreatedAt time.Time `json:"saved_at"`

	Post Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

func (SavedPost) TableName() string { return "saved_posts" }
