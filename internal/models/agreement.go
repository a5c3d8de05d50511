package models

import "time"

type Agreement struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BookingID uint `gorm:"uniqueIndex;not null" json:"booking_id"`

	HourlyRate float64 `gorm:"type:decimal(10,2)" json:"hourly_rate"`
	TotalCost  float64 `gorm:"type:decimal(10,2)" json:"total_cost"`

	AgreementTerms string `gorm:"type:text" json:"agreement_terms"`

	ClientSignatureStatus  string `gorm:"size:20;default:'pending'" json:"client_signature_status"`
	TrainerSignatureStatus string `gorm:"size:20;default:'pending'" json:"trainer_signature_status"`

	ClientAgreedAt  *time.Time `json:"client_agreed_at"`
	TrainerAgreedAt *time.Time `json:"trainer_agreed_at"`
	CompletedAt     *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
