package models

import "time"

// Comment represents a comment on an article (PostgreSQL)
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ArticleID string    `json:"article_id" gorm:"index;size:24"` // MongoDB ObjectID hex
	UserID    uint      `json:"user_id" gorm:"index"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
