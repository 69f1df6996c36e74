package users

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/user/blogql-go/apperror"
)

// Repository provides create/find operations on user records.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository creates a user repository over the given collection.
func NewRepository(coll *mongo.Collection) *Repository {
	return &Repository{coll: coll}
}

// Create inserts a new user after checking that the email is not already
// registered. The existence check and the insert are two separate operations,
// not an atomic upsert; concurrent registrations of the same email can race.
func (r *Repository) Create(ctx context.Context, email, name, passwordHash string) (*User, error) {
	email = strings.ToLower(email)

	err := r.coll.FindOne(ctx, bson.M{"email": email}).Err()
	switch {
	case err == nil:
		return nil, apperror.NewConflictError("user exists already", nil)
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, apperror.NewDatabaseError("failed to check for existing user", err)
	}

	user := &User{
		Email:    email,
		Name:     name,
		Password: passwordHash,
		Posts:    []primitive.ObjectID{},
	}
	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

// FindByEmail returns the user registered under email, or a not-found error.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFoundError("no user found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by email", err)
	}
	return &user, nil
}

// FindByID returns the user with the given hex id, or a not-found error. A
// malformed id is treated as not found rather than a client error, since ids
// only ever originate from tokens this application issued.
func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NewNotFoundError("no user found", err)
	}

	var user User
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFoundError("no user found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by id", err)
	}
	return &user, nil
}

// AppendPost pushes a post reference onto the user's posts collection. This
// is the second write of the create-post sequence; there is no compensating
// action if it fails after the post itself was stored.
func (r *Repository) AppendPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	res, err := r.coll.UpdateByID(ctx, userID, bson.M{"$push": bson.M{"posts": postID}})
	if err != nil {
		return apperror.NewDatabaseError("failed to link post to user", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NewNotFoundError("no user found", nil)
	}
	return nil
}
