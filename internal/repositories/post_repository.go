package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/glesende/iagram-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetRecentByActor(ctx context.Context, actorID uint, limit int64) ([]models.Post, error)
	GetUnderCommented(ctx context.Context, since time.Time, maxComments int) ([]models.Post, error)
	IncrementLikesCount(ctx context.Context, postID string) error
	DecrementLikesCount(ctx context.Context, postID string) error
	IncrementCommentsCount(ctx context.Context, postID string) error
	DecrementCommentsCount(ctx context.Context, postID string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	if post.PublishedAt.IsZero() {
		post.PublishedAt = post.CreatedAt
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("post not found")
		}
		return nil, err
	}
	return &post, nil
}

// GetRecentByActor retrieves an actor's most recent posts, newest first
func (r *MongoPostRepository) GetRecentByActor(ctx context.Context, actorID uint, limit int64) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "published_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"actor_id": actorID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetUnderCommented retrieves posts published since the given time whose
// comment count is strictly below maxComments, newest first
func (r *MongoPostRepository) GetUnderCommented(ctx context.Context, since time.Time, maxComments int) ([]models.Post, error) {
	var posts []models.Post
	filter := bson.M{
		"published_at":   bson.M{"$gte": since},
		"comments_count": bson.M{"$lt": maxComments},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "published_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// IncrementLikesCount increments the likes count of a post
func (r *MongoPostRepository) IncrementLikesCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "likes_count", 1)
}

// DecrementLikesCount decrements the likes count of a post
func (r *MongoPostRepository) DecrementLikesCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "likes_count", -1)
}

// IncrementCommentsCount increments the comments count of a post
func (r *MongoPostRepository) IncrementCommentsCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "comments_count", 1)
}

// DecrementCommentsCount decrements the comments count of a post
func (r *MongoPostRepository) DecrementCommentsCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "comments_count", -1)
}

// adjustCounter applies an atomic $inc so concurrent workers never lose updates
func (r *MongoPostRepository) adjustCounter(ctx context.Context, postID, field string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{field: delta}})
	return err
}
