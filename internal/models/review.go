package models

import "time"

type Review struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BookingID uint `gorm:"uniqueIndex;not null" json:"booking_id"`

	ReviewerID uint `json:"reviewer_id"`
	TrainerID  uint `gorm:"index" json:"trainer_id"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
}
