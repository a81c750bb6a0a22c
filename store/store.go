// Package store is the data access layer over the document store. Handlers
// depend on the interfaces here; the Mongo implementations live in mongo.go
// and in-memory equivalents for tests and local tooling in memory.go.
package store

import (
	"context"
	"errors"

	"github.com/timelessthreads/storefront/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound covers missing users, products and reviews, and malformed
// document ids. Absence is a valid outcome, not a fault.
var ErrNotFound = errors.New("document not found")

// UserStore accesses the users collection. Identifier (phone or email) is
// the de-facto unique key; Create does not guard against duplicates, the
// auth flow checks uniqueness first.
type UserStore interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

// ProductStore accesses the products collection, read-mostly.
type ProductStore interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByCategory(ctx context.Context, category string) ([]models.Product, error)
	Search(ctx context.Context, keyword string) ([]models.Product, error)
	ListFeatured(ctx context.Context, limit int64) ([]models.Product, error)
	Insert(ctx context.Context, product *models.Product) error
}

// ReviewStore accesses the reviews collection. Product id lookups tolerate
// both storage forms (ObjectID and its hex string) because historical
// records carry either.
type ReviewStore interface {
	FindByProductAndUser(ctx context.Context, productID, user string) (*models.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]models.Review, error)
	Insert(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, id primitive.ObjectID, rating int, text string) error
	Delete(ctx context.Context, id string) error
}
