package repositories

import (
	"github.com/aayushkarn/khabari/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByArticleID(articleID string) ([]models.Comment, error)
	CountByArticleID(articleID string) (int64, error)
	DeleteComment(id uint) error
	DeleteByArticleID(articleID string) error
}

type postgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new comment repository
func NewPostgresCommentRepository(db *gorm.DB) CommentRepository {
	return &postgresCommentRepository{db: db}
}

func (r *postgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *postgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *postgresCommentRepository) GetCommentsByArticleID(articleID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("article_id = ?", articleID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (r *postgresCommentRepository) CountByArticleID(articleID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("article_id = ?", articleID).Count(&count).Error
	return count, err
}

func (r *postgresCommentRepository) DeleteComment(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}

// DeleteByArticleID removes all comments of an article; used by the
// article-delete cascade.
func (r *postgresCommentRepository) DeleteByArticleID(articleID string) error {
	return r.db.Where("article_id = ?", articleID).Delete(&models.Comment{}).Error
}
