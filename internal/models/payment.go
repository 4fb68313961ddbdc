package models

import "time"

// Payment statuses
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment purposes
const (
	PurposeSupport          = "support"
	PurposePublisherPayment = "publisher_payment"
)

// Payment represents a support transaction bridged to the external gateway
// (PostgreSQL). Created pending at initiation, completed exactly once by a
// verified callback.
type Payment struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"index"`
	PublisherID     *uint     `json:"publisher_id,omitempty" gorm:"index"` // nil for platform-level support
	ArticleID       *string   `json:"article_id,omitempty" gorm:"size:24"`
	Amount          float64   `json:"amount"`
	TransactionUUID string    `json:"transaction_uuid" gorm:"uniqueIndex;size:64"`
	TransactionCode string    `json:"transaction_code,omitempty"` // gateway-supplied, set on success
	Status          string    `json:"status" gorm:"size:20;index"`
	Purpose         string    `json:"purpose" gorm:"size:30"`
	CreatedAt       time.Time `json:"created_at"`
}

// InitiatePaymentRequest defines the request body for starting a payment
type InitiatePaymentRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Purpose     string  `json:"purpose" validate:"required,oneof=support publisher_payment"`
	PublisherID *uint   `json:"publisher_id,omitempty"`
	ArticleID   *string `json:"article_id,omitempty"`
}
