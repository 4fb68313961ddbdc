package notifier

import (
	"fmt"
	"log"

	"github.com/aayushkarn/khabari/backend/internal/models"
	"github.com/aayushkarn/khabari/backend/internal/repositories"
)

// Notifier creates notification records for server-side events. Creation
// failures are logged and swallowed: a status change or engagement action
// must never fail because its notifications could not be written.
type Notifier struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// New creates a Notifier
func New(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *Notifier {
	return &Notifier{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// ArticlePublished notifies the author and fans out a new_article record to
// every reader on the platform.
func (n *Notifier) ArticlePublished(article *models.Article, actorID uint) {
	n.create(&models.Notification{
		Type:        models.NotificationPublish,
		ActorID:     actorID,
		RecipientID: article.AuthorID,
		ArticleID:   article.ID.Hex(),
		Message:     fmt.Sprintf("Your article %q has been published", article.Title),
	})

	readers, err := n.userRepository.GetUsersByRole(models.RoleReader)
	if err != nil {
		log.Printf("notifier: failed to load readers for publish fan-out: %v", err)
		return
	}
	for _, reader := range readers {
		n.create(&models.Notification{
			Type:        models.NotificationNewArticle,
			ActorID:     article.AuthorID,
			RecipientID: reader.ID,
			ArticleID:   article.ID.Hex(),
			Message:     fmt.Sprintf("New article published: %q", article.Title),
		})
	}
}

// ArticleRejected notifies the author only
func (n *Notifier) ArticleRejected(article *models.Article, actorID uint) {
	n.create(&models.Notification{
		Type:        models.NotificationReject,
		ActorID:     actorID,
		RecipientID: article.AuthorID,
		ArticleID:   article.ID.Hex(),
		Message:     fmt.Sprintf("Your article %q has been rejected", article.Title),
	})
}

// Engagement notifies an article's author about a like, share or comment.
// Skipped when the actor is the author.
func (n *Notifier) Engagement(notifType string, article *models.Article, actor *models.User) {
	if actor.ID == article.AuthorID {
		return
	}

	var message string
	switch notifType {
	case models.NotificationLike:
		message = fmt.Sprintf("%s liked your article %q", actor.Username, article.Title)
	case models.NotificationShare:
		message = fmt.Sprintf("%s shared your article %q", actor.Username, article.Title)
	case models.NotificationComment:
		message = fmt.Sprintf("%s commented on your article %q", actor.Username, article.Title)
	default:
		log.Printf("notifier: unknown engagement type %q", notifType)
		return
	}

	n.create(&models.Notification{
		Type:        notifType,
		ActorID:     actor.ID,
		RecipientID: article.AuthorID,
		ArticleID:   article.ID.Hex(),
		Message:     message,
	})
}

// Subscribed notifies a publisher about a new subscriber
func (n *Notifier) Subscribed(publisherID uint, subscriber *models.User) {
	n.create(&models.Notification{
		Type:        models.NotificationSubscribe,
		ActorID:     subscriber.ID,
		RecipientID: publisherID,
		Message:     fmt.Sprintf("%s subscribed to you", subscriber.Username),
	})
}

func (n *Notifier) create(notification *models.Notification) {
	if err := n.notificationRepository.CreateNotification(notification); err != nil {
		log.Printf("notifier: failed to create %s notification for user %d: %v",
			notification.Type, notification.RecipientID, err)
	}
}
