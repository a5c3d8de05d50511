package models

import "time"

// Open training request posted by a client; trainers apply against it.
type TrainingRequest struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	StudentID uint `gorm:"index" json:"student_id"`
	Student   User `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"student"`

	Topic       string  `gorm:"size:255;not null" json:"topic"`
	Description string  `gorm:"type:text" json:"description"`
	Budget      float64 `gorm:"type:decimal(10,2)" json:"budget"`

	Status string `gorm:"size:20;default:'open'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TrainingApplication struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	RequestID uint            `gorm:"index;not null" json:"request_id"`
	Request   TrainingRequest `gorm:"foreignKey:RequestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"request"`

	TrainerID uint `gorm:"index" json:"trainer_id"`
	Trainer   User `gorm:"foreignKey:TrainerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"trainer"`

	Message      string  `gorm:"type:text" json:"message"`
	ProposedRate float64 `gorm:"type:decimal(10,2)" json:"proposed_rate"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
