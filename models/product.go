package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog item. Price is the selling price in whole
// rupees; Discount is a percentage. The pre-discount MRP is never stored,
// it is derived from these two fields on every read.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category" json:"category"`
	Price       int                `bson:"price" json:"price"`
	Discount    int                `bson:"discount,omitempty" json:"discount,omitempty"`
	Sizes       []string           `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Colors      []string           `bson:"colors,omitempty" json:"colors,omitempty"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty"` // S3 object keys
	CreatedAt   time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
}
