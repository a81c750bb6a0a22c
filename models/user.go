package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered user. Identifier is the phone number or email
// address the account was verified against; it is the de-facto unique key and
// is never updated after signup.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Identifier string             `bson:"identifier" json:"identifier"`
	Name       string             `bson:"name" json:"name"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
