package posts

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/user/blogql-go/apperror"
)

// Repository provides create/find operations on post records.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository creates a post repository over the given collection.
func NewRepository(coll *mongo.Collection) *Repository {
	return &Repository{coll: coll}
}

// Create stores a new post owned by creator, stamping both timestamps.
func (r *Repository) Create(ctx context.Context, title, content, imageURL string, creator primitive.ObjectID) (*Post, error) {
	now := time.Now().UTC()
	post := &Post{
		Title:     title,
		Content:   content,
		ImageURL:  imageURL,
		Creator:   creator,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.coll.InsertOne(ctx, post)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create post", err)
	}
	post.ID = res.InsertedID.(primitive.ObjectID)
	return post, nil
}

// FindByID returns the post with the given hex id, or a not-found error.
func (r *Repository) FindByID(ctx context.Context, id string) (*Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NewNotFoundError("no post found", err)
	}

	var post Post
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFoundError("no post found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get post by id", err)
	}
	return &post, nil
}

// List returns all posts, newest first.
func (r *Repository) List(ctx context.Context) ([]Post, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list posts", err)
	}
	defer cur.Close(ctx)

	var result []Post
	if err := cur.All(ctx, &result); err != nil {
		return nil, apperror.NewDatabaseError("failed to decode posts", err)
	}
	return result, nil
}

// ImageURLs returns the distinct non-empty imageUrl values across all posts.
// The image sweeper uses this as the reference set of files still in use.
func (r *Repository) ImageURLs(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "imageUrl", bson.M{"imageUrl": bson.M{"$ne": ""}})
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to collect image urls", err)
	}

	urls := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			urls = append(urls, s)
		}
	}
	return urls, nil
}
