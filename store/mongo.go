package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timelessthreads/storefront/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserStore implements UserStore over the users collection.
type MongoUserStore struct {
	collection *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{collection: db.Collection("users")}
}

func (s *MongoUserStore) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"identifier": identifier}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var user models.User
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	res, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return user, nil
}

// MongoProductStore implements ProductStore over the products collection.
type MongoProductStore struct {
	collection *mongo.Collection
}

func NewMongoProductStore(db *mongo.Database) *MongoProductStore {
	return &MongoProductStore{collection: db.Collection("products")}
}

func (s *MongoProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id can never match a document.
		return nil, ErrNotFound
	}

	var product models.Product
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (s *MongoProductStore) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"category": category})
	if err != nil {
		return nil, fmt.Errorf("failed to list category %s: %w", category, err)
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (s *MongoProductStore) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	filter := bson.M{"name": bson.M{"$regex": keyword, "$options": "i"}}
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (s *MongoProductStore) ListFeatured(ctx context.Context, limit int64) ([]models.Product, error) {
	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (s *MongoProductStore) Insert(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	if _, err := s.collection.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// MongoReviewStore implements ReviewStore over the reviews collection.
type MongoReviewStore struct {
	collection *mongo.Collection
}

func NewMongoReviewStore(db *mongo.Database) *MongoReviewStore {
	return &MongoReviewStore{collection: db.Collection("reviews")}
}

// productFilter matches reviews whose product_id was stored either as an
// ObjectID or as its hex string.
func productFilter(productID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrNotFound
	}
	return bson.M{"$or": bson.A{
		bson.M{"product_id": oid},
		bson.M{"product_id": productID},
	}}, nil
}

func (s *MongoReviewStore) FindByProductAndUser(ctx context.Context, productID, user string) (*models.Review, error) {
	filter, err := productFilter(productID)
	if err != nil {
		return nil, err
	}
	filter["user"] = user

	var review models.Review
	err = s.collection.FindOne(ctx, filter).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return &review, nil
}

func (s *MongoReviewStore) ListByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	filter, err := productFilter(productID)
	if err != nil {
		return nil, err
	}
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func (s *MongoReviewStore) Insert(ctx context.Context, review *models.Review) error {
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	if _, err := s.collection.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

// Update rewrites rating and text in place, stamping updated_at. The author
// and created_at fields are preserved.
func (s *MongoReviewStore) Update(ctx context.Context, id primitive.ObjectID, rating int, text string) error {
	update := bson.M{"$set": bson.M{
		"rating":     rating,
		"review":     text,
		"updated_at": time.Now(),
	}}
	if _, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	return nil
}

func (s *MongoReviewStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}
