package repositories

import (
	"github.com/aayushkarn/khabari/backend/internal/models"
	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	CreatePayment(payment *models.Payment) error
	GetByTransactionUUID(transactionUUID string) (*models.Payment, error)
	MarkCompleted(transactionUUID, transactionCode string) error
	SumCompleted() (float64, error)
}

type postgresPaymentRepository struct {
	db *gorm.DB
}

// NewPostgresPaymentRepository creates a new payment repository
func NewPostgresPaymentRepository(db *gorm.DB) PaymentRepository {
	return &postgresPaymentRepository{db: db}
}

func (r *postgresPaymentRepository) CreatePayment(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *postgresPaymentRepository) GetByTransactionUUID(transactionUUID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("transaction_uuid = ?", transactionUUID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// MarkCompleted transitions a pending payment to completed and records the
// gateway's transaction code. The status guard in the WHERE clause makes
// duplicate callbacks a no-op at the database level.
func (r *postgresPaymentRepository) MarkCompleted(transactionUUID, transactionCode string) error {
	return r.db.Model(&models.Payment{}).
		Where("transaction_uuid = ? AND status = ?", transactionUUID, models.PaymentPending).
		Updates(map[string]interface{}{
			"status":           models.PaymentCompleted,
			"transaction_code": transactionCode,
		}).Error
}

// SumCompleted totals the volume of completed payments
func (r *postgresPaymentRepository) SumCompleted() (float64, error) {
	var total float64
	err := r.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
