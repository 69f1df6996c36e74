// Package posts holds the post entity and its repository over the document
// store.
package posts

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a stored post record. Creator references the owning user; the
// storage layer stamps CreatedAt/UpdatedAt on insert.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	ImageURL  string             `bson:"imageUrl" json:"imageUrl"`
	Creator   primitive.ObjectID `bson:"creator" json:"creator"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
