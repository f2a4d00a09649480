package models

import "time"

type Reservation struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ClientID    uint       `gorm:"not null;index" json:"client_id"`
	PostID      uint       `gorm:"not null;index" json:"post_id"`
	Status      string     `gorm:"size:20;not null;default:'active';index" json:"status"` // active | cancelled
	ReservedAt  time.Time  `json:"reserved_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	Post   Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Client User `gorm:"foreignKey:ClientID" json:"-"`
}

func (Reservation) TableName() string { return "reservations" }
