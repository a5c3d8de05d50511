package dto

import "time"

type BookingListDTO struct {
	ID            uint      `json:"id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	TrainingTopic string    `json:"training_topic"`
	TotalAmount   float64   `json:"total_amount"`
	TrainerName   string    `json:"trainer_name"`
	StudentName   string    `json:"student_name"`
}
