package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aayushkarn/khabari/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sentinel errors for article operations
var (
	ErrArticleNotFound = errors.New("article not found")
	ErrAlreadyLiked    = errors.New("article already liked by this user")
	ErrNotLiked        = errors.New("article not liked by this user")
)

// ArticleFilter narrows article listings
type ArticleFilter struct {
	Status   string
	AuthorID uint
}

// StatusCount pairs a moderation status with the number of articles in it
type StatusCount struct {
	Status string `bson:"_id"`
	Count  int64  `bson:"count"`
}

// EngagementTotals aggregates counters across a set of articles
type EngagementTotals struct {
	Views  int64 `bson:"views"`
	Likes  int64 `bson:"likes"`
	Shares int64 `bson:"shares"`
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	CreateArticle(ctx context.Context, article *models.Article) error
	GetArticleByID(ctx context.Context, id string) (*models.Article, error)
	ListArticles(ctx context.Context, filter ArticleFilter, skip, limit int64) ([]models.Article, error)
	UpdateArticle(ctx context.Context, id string, article *models.Article) error
	DeleteArticle(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) error
	IncrementViews(ctx context.Context, id string) error
	Like(ctx context.Context, id string, userID uint) error
	Unlike(ctx context.Context, id string, userID uint) error
	IncrementShares(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	EngagementByAuthor(ctx context.Context, authorID uint) (*EngagementTotals, error)
}

// MongoArticleRepository implements ArticleRepository for MongoDB
type MongoArticleRepository struct {
	collection *mongo.Collection
}

// NewMongoArticleRepository creates a new MongoArticleRepository
func NewMongoArticleRepository(db *mongo.Database) *MongoArticleRepository {
	return &MongoArticleRepository{collection: db.Collection("articles")}
}

// CreateArticle creates a new article in MongoDB
func (r *MongoArticleRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	article.ID = primitive.NewObjectID()
	article.CreatedAt = time.Now()
	article.UpdatedAt = time.Now()
	if article.LikedBy == nil {
		article.LikedBy = []uint{}
	}
	_, err := r.collection.InsertOne(ctx, article)
	return err
}

// GetArticleByID retrieves an article by ID from MongoDB
func (r *MongoArticleRepository) GetArticleByID(ctx context.Context, id string) (*models.Article, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid article ID format: %w", err)
	}

	var article models.Article
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&article)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// ListArticles retrieves articles matching the filter, newest first
func (r *MongoArticleRepository) ListArticles(ctx context.Context, filter ArticleFilter, skip, limit int64) ([]models.Article, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.AuthorID != 0 {
		query["author_id"] = filter.AuthorID
	}

	var articles []models.Article
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// UpdateArticle updates the content fields of an article. Status, counters
// and the like-set are only touched by their dedicated operations.
func (r *MongoArticleRepository) UpdateArticle(ctx context.Context, id string, article *models.Article) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid article ID format: %w", err)
	}

	article.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":      article.Title,
			"content":    article.Content,
			"tags":       article.Tags,
			"category":   article.Category,
			"language":   article.Language,
			"media":      article.Media,
			"updated_at": article.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// DeleteArticle deletes an article by ID from MongoDB
func (r *MongoArticleRepository) DeleteArticle(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid article ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// SetStatus persists a new moderation status and refreshes the update timestamp
func (r *MongoArticleRepository) SetStatus(ctx context.Context, id, status string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid article ID format: %w", err)
	}

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// IncrementViews increments the view counter of an article
func (r *MongoArticleRepository) IncrementViews(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid article ID format: %w", err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// Like records a like as one atomic update: the counter increments and the
// user enters the like-set in the same document write, so likes always
// equals the size of liked_by. The filter excludes users already present,
// which doubles as the duplicate-like guard.
func (r *MongoArticleRepository) Like(ctx context.Context, id string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid article ID format: %w", err)
	}

	filter := bson.M{"_id": objID, "liked_by": bson.M{"$ne": userID}}
	update := bson.M{
		"$inc":      bson.M{"likes": 1},
		"$addToSet": bson.M{"liked_by": userID},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the article is missing or the user already liked it.
		if err := r.exists(ctx, objID); err != nil {
			return err
		}
		return ErrAlreadyLiked
	}
	return nil
}

// Unlike reverses a like atomically; conflict when the user never liked it
func (r *MongoArticleRepository) Unlike(ctx context.Context, id string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid article ID format: %w", err)
	}

	filter := bson.M{"_id": objID, "liked_by": userID}
	update := bson.M{
		"$inc":  bson.M{"likes": -1},
		"$pull": bson.M{"liked_by": userID},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if err := r.exists(ctx, objID); err != nil {
			return err
		}
		return ErrNotLiked
	}
	return nil
}

// IncrementShares increments the share counter of an article
func (r *MongoArticleRepository) IncrementShares(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid article ID format: %w", err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"shares": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// CountByStatus groups article counts by moderation status
func (r *MongoArticleRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []StatusCount
	if err = cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// EngagementByAuthor sums views/likes/shares across an author's articles.
// An author ID of zero sums across the whole collection.
func (r *MongoArticleRepository) EngagementByAuthor(ctx context.Context, authorID uint) (*EngagementTotals, error) {
	match := bson.M{}
	if authorID != 0 {
		match["author_id"] = authorID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"views":  bson.M{"$sum": "$views"},
			"likes":  bson.M{"$sum": "$likes"},
			"shares": bson.M{"$sum": "$shares"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var totals []EngagementTotals
	if err = cursor.All(ctx, &totals); err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return &EngagementTotals{}, nil
	}
	return &totals[0], nil
}

func (r *MongoArticleRepository) exists(ctx context.Context, objID primitive.ObjectID) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrArticleNotFound
	}
	return nil
}
