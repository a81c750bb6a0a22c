package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/timelessthreads/storefront/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The in-memory stores mirror the Mongo implementations closely enough to
// back handler tests and the seed tool's dry-run mode. They are not meant
// for production use.

type MemoryUserStore struct {
	mu    sync.RWMutex
	users []models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

func (s *MemoryUserStore) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].Identifier == identifier {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID.Hex() == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users = append(s.users, *user)
	return user, nil
}

type MemoryProductStore struct {
	mu       sync.RWMutex
	products []models.Product
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{}
}

func (s *MemoryProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.products {
		if s.products[i].ID.Hex() == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryProductStore) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Product
	for i := range s.products {
		if s.products[i].Category == category {
			out = append(out, s.products[i])
		}
	}
	return out, nil
}

func (s *MemoryProductStore) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keyword = strings.ToLower(keyword)
	var out []models.Product
	for i := range s.products {
		if strings.Contains(strings.ToLower(s.products[i].Name), keyword) {
			out = append(out, s.products[i])
		}
	}
	return out, nil
}

func (s *MemoryProductStore) ListFeatured(ctx context.Context, limit int64) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, limit)
	for i := range s.products {
		if int64(len(out)) >= limit {
			break
		}
		out = append(out, s.products[i])
	}
	return out, nil
}

func (s *MemoryProductStore) Insert(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	s.products = append(s.products, *product)
	return nil
}

type MemoryReviewStore struct {
	mu      sync.RWMutex
	reviews []models.Review
}

func NewMemoryReviewStore() *MemoryReviewStore {
	return &MemoryReviewStore{}
}

// matchesProduct accepts both storage forms of product_id, like the Mongo
// $or filter does.
func matchesProduct(r *models.Review, productID string) bool {
	switch pid := r.ProductID.(type) {
	case string:
		return pid == productID
	case primitive.ObjectID:
		return pid.Hex() == productID
	default:
		return false
	}
}

func (s *MemoryReviewStore) FindByProductAndUser(ctx context.Context, productID, user string) (*models.Review, error) {
	if _, err := primitive.ObjectIDFromHex(productID); err != nil {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.reviews {
		if matchesProduct(&s.reviews[i], productID) && s.reviews[i].User == user {
			r := s.reviews[i]
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryReviewStore) ListByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	if _, err := primitive.ObjectIDFromHex(productID); err != nil {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Review
	for i := range s.reviews {
		if matchesProduct(&s.reviews[i], productID) {
			out = append(out, s.reviews[i])
		}
	}
	return out, nil
}

func (s *MemoryReviewStore) Insert(ctx context.Context, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	s.reviews = append(s.reviews, *review)
	return nil
}

func (s *MemoryReviewStore) Update(ctx context.Context, id primitive.ObjectID, rating int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reviews {
		if s.reviews[i].ID == id {
			s.reviews[i].Rating = rating
			s.reviews[i].Review = text
			s.reviews[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

func (s *MemoryReviewStore) Delete(ctx context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reviews {
		if s.reviews[i].ID.Hex() == id {
			s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
			return nil
		}
	}
	return nil
}
