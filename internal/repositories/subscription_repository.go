package repositories

import (
	"github.com/aayushkarn/khabari/backend/internal/models"
	"gorm.io/gorm"
)

// SubscriptionRepository defines the interface for subscription operations
type SubscriptionRepository interface {
	CreateSubscription(sub *models.Subscription) error
	DeleteSubscription(subscriberID, publisherID uint) error
	IsSubscribed(subscriberID, publisherID uint) (bool, error)
	GetPublisherIDs(subscriberID uint) ([]uint, error)
}

type postgresSubscriptionRepository struct {
	db *gorm.DB
}

// NewPostgresSubscriptionRepository creates a new subscription repository
func NewPostgresSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &postgresSubscriptionRepository{db: db}
}

func (r *postgresSubscriptionRepository) CreateSubscription(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *postgresSubscriptionRepository) DeleteSubscription(subscriberID, publisherID uint) error {
	res := r.db.Where("subscriber_id = ? AND publisher_id = ?", subscriberID, publisherID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postgresSubscriptionRepository) IsSubscribed(subscriberID, publisherID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("subscriber_id = ? AND publisher_id = ?", subscriberID, publisherID).
		Count(&count).Error
	return count > 0, err
}

func (r *postgresSubscriptionRepository) GetPublisherIDs(subscriberID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Pluck("publisher_id", &ids).Error
	return ids, err
}
