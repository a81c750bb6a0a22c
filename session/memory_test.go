package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timelessthreads/storefront/cart"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(24)
	ctx := context.Background()

	data := &Data{
		User: "Alice",
		Cart: []cart.Entry{{ProductID: "pid1", Quantity: 2, Size: "M"}},
	}
	require.NoError(t, s.Save(ctx, "sid1", data))

	got, err := s.Get(ctx, "sid1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.User)
	require.Len(t, got.Cart, 1)
	assert.Equal(t, "pid1", got.Cart[0].ProductID)
	assert.Equal(t, 2, got.Cart[0].Quantity)
}

func TestMemoryStoreUnknownSession(t *testing.T) {
	s := NewMemoryStore(24)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(1)
	ctx := context.Background()

	base := time.Now()
	s.now = func() time.Time { return base }
	require.NoError(t, s.Save(ctx, "sid1", &Data{User: "Alice"}))

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err := s.Get(ctx, "sid1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore(24)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "sid1", &Data{User: "Alice"}))
	require.NoError(t, s.Delete(ctx, "sid1"))

	_, err := s.Get(ctx, "sid1")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Bags written by the previous storefront may hold bare product-id strings
// in the cart. Decoding must accept them so normalization can repair the bag.
func TestDataDecodesLegacyCart(t *testing.T) {
	raw := `{"user": "Alice", "cart": ["652f1a2b3c4d5e6f70812345", {"product_id": "652f1a2b3c4d5e6f70812346", "quantity": 2}]}`

	var data Data
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	require.Len(t, data.Cart, 2)

	normalized, changed := cart.Normalize(data.Cart)
	assert.True(t, changed)
	require.Len(t, normalized, 2)
	assert.Equal(t, 1, normalized[0].Quantity)
}

func TestClearAuthKeepsCart(t *testing.T) {
	data := &Data{
		User:              "Alice",
		OTPMode:           "login",
		PendingIdentifier: "9876543210",
		PendingName:       "Alice",
		Cart:              []cart.Entry{{ProductID: "pid1", Quantity: 1}},
	}

	data.ClearAuth()
	assert.False(t, data.Authenticated())
	assert.Empty(t, data.OTPMode)
	assert.Empty(t, data.PendingIdentifier)
	assert.Len(t, data.Cart, 1, "logging out must not empty the cart")
}
