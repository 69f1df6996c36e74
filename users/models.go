// Package users holds the user entity and its repository over the document
// store.
package users

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a stored user record. Password holds the bcrypt hash and is never
// serialized to JSON. Posts is a non-owning back-reference collection of the
// user's post ids, appended to on post creation.
type User struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email    string               `bson:"email" json:"email"`
	Name     string               `bson:"name" json:"name"`
	Password string               `bson:"password" json:"-"`
	Posts    []primitive.ObjectID `bson:"posts" json:"posts"`
}
