package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timelessthreads/storefront/cart"
	"github.com/timelessthreads/storefront/models"
	"github.com/timelessthreads/storefront/session"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddToCartUnknownProduct(t *testing.T) {
	f := newFixture(t)
	c := f.client(t)

	w := c.do(http.MethodPost, "/cart/add", map[string]interface{}{
		"product_id": primitive.NewObjectID().Hex(),
		"quantity":   1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.do(http.MethodGet, "/cart/", nil)
	assert.Empty(t, decodeBody(t, w)["items"], "a rejected add must not touch the cart")
}

func TestAddToCartRequiresSize(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, models.Product{
		Name: "Embroidered Kurti Set", Category: "ethnic", Price: 1499,
		Sizes: []string{"S", "M"}, Colors: []string{"Red"},
	})

	c := f.client(t)
	w := c.do(http.MethodPost, "/cart/add", map[string]interface{}{
		"product_id": product.ID.Hex(),
		"quantity":   1,
		"color":      "Red",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddToCartCosmeticsNeedsNoVariant(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, models.Product{
		Name: "Matte Lipstick", Category: "cosmetics", Price: 449,
		Sizes: []string{"S"}, Colors: []string{"Red"},
	})

	c := f.client(t)
	w := c.do(http.MethodPost, "/cart/add", map[string]interface{}{
		"product_id": product.ID.Hex(),
		"quantity":   1,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddToCartMergesSameVariant(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, models.Product{
		Name: "Embroidered Kurti Set", Category: "ethnic", Price: 1499,
		Sizes: []string{"S", "M"}, Colors: []string{"Red"},
	})

	c := f.client(t)
	body := map[string]interface{}{
		"product_id": product.ID.Hex(),
		"quantity":   1,
		"size":       "M",
		"color":      "Red",
	}

	w := c.do(http.MethodPost, "/cart/add", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Added to cart.", decodeBody(t, w)["message"])

	body["quantity"] = 2
	w = c.do(http.MethodPost, "/cart/add", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Quantity updated.", decodeBody(t, w)["message"])

	w = c.do(http.MethodGet, "/cart/", nil)
	resp := decodeBody(t, w)
	items := resp["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, float64(3), item["quantity"])
	assert.Equal(t, float64(1499*3), item["line_total"])
}

func TestViewCartComputesMRPAndTotal(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, models.Product{
		Name: "Block Print Kurta", Category: "ethnic", Price: 900, Discount: 10,
	})

	c := f.client(t)
	w := c.do(http.MethodPost, "/cart/add", map[string]interface{}{
		"product_id": product.ID.Hex(),
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/cart/", nil)
	resp := decodeBody(t, w)
	items := resp["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, float64(1000), item["mrp"])
	assert.Equal(t, float64(1800), item["line_total"])
	assert.Equal(t, float64(1800), resp["total"])
}

func TestViewCartSkipsVanishedProducts(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, models.Product{Name: "Festive Stole", Category: "ethnic", Price: 349})

	sid := "test-session-stale"
	require.NoError(t, f.sessions.Save(context.Background(), sid, &session.Data{
		Cart: []cart.Entry{
			{ProductID: product.ID.Hex(), Quantity: 1},
			{ProductID: primitive.NewObjectID().Hex(), Quantity: 1},
		},
	}))

	c := f.client(t)
	c.cookie = &http.Cookie{Name: sessionCookie, Value: sid}

	w := c.do(http.MethodGet, "/cart/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Len(t, resp["items"], 1)
	assert.Equal(t, float64(349), resp["total"])
}

func TestRemoveFromCart(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, models.Product{
		Name: "Embroidered Kurti Set", Category: "ethnic", Price: 1499,
		Sizes: []string{"S", "M"}, Colors: []string{"Red"},
	})

	c := f.client(t)
	w := c.do(http.MethodPost, "/cart/add", map[string]interface{}{
		"product_id": product.ID.Hex(),
		"quantity":   1,
		"size":       "M",
		"color":      "Red",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Wrong variant misses and leaves the cart alone.
	w = c.do(http.MethodDelete, "/cart/"+product.ID.Hex()+"/L/Red", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.do(http.MethodDelete, "/cart/"+product.ID.Hex()+"/M/Red", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/cart/", nil)
	assert.Empty(t, decodeBody(t, w)["items"])
}

func TestRemoveFromCartNonePlaceholder(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, models.Product{Name: "Kajal Pencil", Category: "cosmetics", Price: 199})

	c := f.client(t)
	w := c.do(http.MethodPost, "/cart/add", map[string]interface{}{
		"product_id": product.ID.Hex(),
		"quantity":   1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodDelete, "/cart/"+product.ID.Hex()+"/none/none", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// flakySessionStore fails the next Get, simulating a transient backend
// outage, and behaves normally afterwards.
type flakySessionStore struct {
	session.Store
	failNext bool
}

func (s *flakySessionStore) Get(ctx context.Context, sid string) (*session.Data, error) {
	if s.failNext {
		s.failNext = false
		return nil, errors.New("connection timed out")
	}
	return s.Store.Get(ctx, sid)
}

func TestSessionLoadFailureDoesNotClobberSession(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, models.Product{Name: "Kajal Pencil", Category: "cosmetics", Price: 199})

	sid := "test-session-alice"
	require.NoError(t, f.sessions.Save(context.Background(), sid, &session.Data{
		User: "Alice",
		Cart: []cart.Entry{{ProductID: product.ID.Hex(), Quantity: 1}},
	}))

	flaky := &flakySessionStore{Store: f.sessions, failNext: true}
	f.handler.Sessions = flaky

	c := f.client(t)
	c.cookie = &http.Cookie{Name: sessionCookie, Value: sid}

	w := c.do(http.MethodPost, "/cart/add", map[string]interface{}{
		"product_id": product.ID.Hex(),
		"quantity":   1,
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// The persisted bag survives the outage untouched.
	data, err := f.sessions.Get(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, "Alice", data.User)
	require.Len(t, data.Cart, 1)
	assert.Equal(t, 1, data.Cart[0].Quantity)

	// Once the backend recovers the same cookie works again.
	w = c.do(http.MethodGet, "/cart/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["items"], 1)
}

func TestCheckoutPlaceholder(t *testing.T) {
	f := newFixture(t)
	c := f.client(t)

	w := c.do(http.MethodGet, "/cart/checkout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
