package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TrainerID uint `gorm:"index" json:"trainer_id"`
	Trainer   User `gorm:"foreignKey:TrainerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"trainer"`

	StudentID uint `gorm:"index" json:"student_id"`
	Student   User `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"student"`

	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	DurationHours float64   `json:"duration_hours"`

	TrainingTopic string  `gorm:"size:255" json:"training_topic"`
	TotalAmount   float64 `gorm:"type:decimal(10,2)" json:"total_amount"`
	Currency      string  `gorm:"size:3;default:'INR'" json:"currency"`

	Status        string `gorm:"size:20;default:'pending'" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'none'" json:"payment_status"`

	PaymentTransactionID string     `gorm:"size:100" json:"payment_transaction_id"`
	PaymentURL           string     `gorm:"size:512" json:"payment_url"`
	PaymentConfirmedAt   *time.Time `json:"payment_confirmed_at"`

	AgreementID *uint `json:"agreement_id"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
