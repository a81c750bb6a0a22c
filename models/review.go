package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a product review. ProductID is stored as interface{} because
// historical records hold either an ObjectID or its hex string form; lookups
// must tolerate both (see store.ReviewStore).
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID interface{}        `bson:"product_id" json:"product_id"`
	User      string             `bson:"user" json:"user"`
	Rating    int                `bson:"rating" json:"rating"`
	Review    string             `bson:"review,omitempty" json:"review,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
