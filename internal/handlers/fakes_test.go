package handlers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aayushkarn/khabari/backend/internal/models"
	"github.com/aayushkarn/khabari/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// In-memory repository fakes so handler tests run without Postgres/Mongo.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[uint]*models.User{}}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return fmt.Errorf("duplicate username")
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FirebaseUID == firebaseUID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUsersByRole(role string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []models.User
	for _, u := range r.users {
		if u.Role == role {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) CreditBalance(id uint, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Balance += amount
	return nil
}

func (r *fakeUserRepo) CountByRole() (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, u := range r.users {
		counts[u.Role]++
	}
	return counts, nil
}

// mustCreateUser seeds a user and returns it
func (r *fakeUserRepo) mustCreateUser(username, role string) *models.User {
	user := &models.User{Username: username, Role: role}
	if err := r.CreateUser(user); err != nil {
		panic(err)
	}
	return user
}

type fakeArticleRepo struct {
	mu       sync.Mutex
	articles map[string]*models.Article
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: map[string]*models.Article{}}
}

func (r *fakeArticleRepo) CreateArticle(_ context.Context, article *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	article.ID = primitive.NewObjectID()
	if article.LikedBy == nil {
		article.LikedBy = []uint{}
	}
	copied := *article
	r.articles[article.ID.Hex()] = &copied
	return nil
}

func (r *fakeArticleRepo) GetArticleByID(_ context.Context, id string) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return nil, repositories.ErrArticleNotFound
	}
	copied := *article
	copied.LikedBy = append([]uint{}, article.LikedBy...)
	return &copied, nil
}

func (r *fakeArticleRepo) ListArticles(_ context.Context, filter repositories.ArticleFilter, skip, limit int64) ([]models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Article
	for _, a := range r.articles {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.AuthorID != 0 && a.AuthorID != filter.AuthorID {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeArticleRepo) UpdateArticle(_ context.Context, id string, article *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.articles[id]
	if !ok {
		return repositories.ErrArticleNotFound
	}
	stored.Title = article.Title
	stored.Content = article.Content
	stored.Tags = article.Tags
	stored.Category = article.Category
	stored.Language = article.Language
	stored.Media = article.Media
	return nil
}

func (r *fakeArticleRepo) DeleteArticle(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return repositories.ErrArticleNotFound
	}
	delete(r.articles, id)
	return nil
}

func (r *fakeArticleRepo) SetStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return repositories.ErrArticleNotFound
	}
	article.Status = status
	return nil
}

func (r *fakeArticleRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return repositories.ErrArticleNotFound
	}
	article.Views++
	return nil
}

func (r *fakeArticleRepo) Like(_ context.Context, id string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return repositories.ErrArticleNotFound
	}
	for _, liker := range article.LikedBy {
		if liker == userID {
			return repositories.ErrAlreadyLiked
		}
	}
	article.LikedBy = append(article.LikedBy, userID)
	article.Likes++
	return nil
}

func (r *fakeArticleRepo) Unlike(_ context.Context, id string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return repositories.ErrArticleNotFound
	}
	for i, liker := range article.LikedBy {
		if liker == userID {
			article.LikedBy = append(article.LikedBy[:i], article.LikedBy[i+1:]...)
			article.Likes--
			return nil
		}
	}
	return repositories.ErrNotLiked
}

func (r *fakeArticleRepo) IncrementShares(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return repositories.ErrArticleNotFound
	}
	article.Shares++
	return nil
}

func (r *fakeArticleRepo) CountByStatus(_ context.Context) ([]repositories.StatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, a := range r.articles {
		counts[a.Status]++
	}
	var out []repositories.StatusCount
	for status, count := range counts {
		out = append(out, repositories.StatusCount{Status: status, Count: count})
	}
	return out, nil
}

func (r *fakeArticleRepo) EngagementByAuthor(_ context.Context, authorID uint) (*repositories.EngagementTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := &repositories.EngagementTotals{}
	for _, a := range r.articles {
		if authorID != 0 && a.AuthorID != authorID {
			continue
		}
		totals.Views += a.Views
		totals.Likes += a.Likes
		totals.Shares += a.Shares
	}
	return totals, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   uint
	comments map[uint]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1, comments: map[uint]*models.Comment{}}
}

func (r *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = r.nextID
	r.nextID++
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) GetCommentsByArticleID(articleID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Comment
	for _, c := range r.comments {
		if c.ArticleID == articleID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) CountByArticleID(articleID string) (int64, error) {
	comments, _ := r.GetCommentsByArticleID(articleID)
	return int64(len(comments)), nil
}

func (r *fakeCommentRepo) DeleteComment(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByArticleID(articleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.comments {
		if c.ArticleID == articleID {
			delete(r.comments, id)
		}
	}
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	nextID        uint
	notifications []*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (r *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = r.nextID
	r.nextID++
	copied := *notification
	r.notifications = append(r.notifications, &copied)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []models.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			all = append(all, *n)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(notificationID, recipientID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == notificationID && n.RecipientID == recipientID {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeNotificationRepo) DeleteByArticleID(articleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.ArticleID != articleID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

// byType filters recorded notifications by type and recipient
func (r *fakeNotificationRepo) byType(notifType string) []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.Type == notifType {
			out = append(out, *n)
		}
	}
	return out
}

type fakeSubscriptionRepo struct {
	mu     sync.Mutex
	nextID uint
	subs   map[uint]*models.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{nextID: 1, subs: map[uint]*models.Subscription{}}
}

func (r *fakeSubscriptionRepo) CreateSubscription(sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub.ID = r.nextID
	r.nextID++
	copied := *sub
	r.subs[sub.ID] = &copied
	return nil
}

func (r *fakeSubscriptionRepo) DeleteSubscription(subscriberID, publisherID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.subs {
		if s.SubscriberID == subscriberID && s.PublisherID == publisherID {
			delete(r.subs, id)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeSubscriptionRepo) IsSubscribed(subscriberID, publisherID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.SubscriberID == subscriberID && s.PublisherID == publisherID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSubscriptionRepo) GetPublisherIDs(subscriberID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, s := range r.subs {
		if s.SubscriberID == subscriberID {
			ids = append(ids, s.PublisherID)
		}
	}
	return ids, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	nextID   uint
	payments map[string]*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{nextID: 1, payments: map[string]*models.Payment{}}
}

func (r *fakePaymentRepo) CreatePayment(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment.ID = r.nextID
	r.nextID++
	copied := *payment
	r.payments[payment.TransactionUUID] = &copied
	return nil
}

func (r *fakePaymentRepo) GetByTransactionUUID(transactionUUID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[transactionUUID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *payment
	return &copied, nil
}

func (r *fakePaymentRepo) MarkCompleted(transactionUUID, transactionCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[transactionUUID]
	if !ok || payment.Status != models.PaymentPending {
		return nil
	}
	payment.Status = models.PaymentCompleted
	payment.TransactionCode = transactionCode
	return nil
}

func (r *fakePaymentRepo) SumCompleted() (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, p := range r.payments {
		if p.Status == models.PaymentCompleted {
			total += p.Amount
		}
	}
	return total, nil
}
