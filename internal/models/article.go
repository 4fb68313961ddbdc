package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Moderation statuses an article moves through
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Article represents a publishable article stored in MongoDB
type Article struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Content   string             `json:"content" bson:"content"`
	AuthorID  uint               `json:"author_id" bson:"author_id"` // immutable after creation
	Tags      []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Category  string             `json:"category" bson:"category"`
	Status    string             `json:"status" bson:"status"`
	Language  string             `json:"language" bson:"language"`
	Media     string             `json:"media,omitempty" bson:"media,omitempty"`
	Views     int64              `json:"views" bson:"views"`
	Likes     int64              `json:"likes" bson:"likes"`
	Shares    int64              `json:"shares" bson:"shares"`
	LikedBy   []uint             `json:"liked_by" bson:"liked_by"` // likes must always equal len(liked_by)
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateArticleRequest defines the request body for creating a new article
type CreateArticleRequest struct {
	Title    string   `json:"title" validate:"required,min=3,max=200"`
	Content  string   `json:"content" validate:"required,min=10"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=40"`
	Category string   `json:"category" validate:"required,min=2,max=60"`
	Language string   `json:"language" validate:"omitempty,oneof=en ne"`
	Media    string   `json:"media,omitempty"`
	Status   string   `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected published draft"`
}

// UpdateArticleRequest defines the request body for updating an article.
// Status is deliberately absent: content updates may never change it.
type UpdateArticleRequest struct {
	Title    string   `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Content  string   `json:"content,omitempty" validate:"omitempty,min=10"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=40"`
	Category string   `json:"category,omitempty" validate:"omitempty,min=2,max=60"`
	Language string   `json:"language,omitempty" validate:"omitempty,oneof=en ne"`
	Media    string   `json:"media,omitempty"`
}

// SetStatusRequest defines the request body for the admin status transition
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected published draft"`
}
