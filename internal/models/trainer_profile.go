package models

import "time"

type TrainerProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Bio        string  `gorm:"type:text" json:"bio"`
	Skills     string  `gorm:"size:255" json:"skills"`
	HourlyRate float64 `gorm:"type:decimal(10,2)" json:"hourly_rate"`

	Approved    bool       `gorm:"default:false" json:"approved"`
	ApprovedAt  *time.Time `json:"approved_at"`
	Rating      float64    `gorm:"default:0" json:"rating"`
	ReviewCount int        `gorm:"default:0" json:"review_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
