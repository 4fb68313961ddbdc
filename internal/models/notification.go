package models

import "time"

// Notification types emitted by server-side side effects
const (
	NotificationLike       = "like"
	NotificationShare      = "share"
	NotificationComment    = "comment"
	NotificationSubscribe  = "subscribe"
	NotificationPublish    = "publish"
	NotificationReject     = "reject"
	NotificationReview     = "review"
	NotificationNewArticle = "new_article"
)

// Notification represents a per-user event record (PostgreSQL).
// Created only by the server; immutable except for IsRead.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	ArticleID   string    `json:"article_id" gorm:"index;size:24"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
