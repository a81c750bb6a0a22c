package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/timelessthreads/storefront/cart"
	"github.com/timelessthreads/storefront/models"
	"github.com/timelessthreads/storefront/store"
	"github.com/timelessthreads/storefront/utils"
)

const featuredLimit = 8

// presignAll rewrites image keys to presigned URLs across a product list.
func (h *Handler) presignAll(ctx context.Context, products []models.Product) []models.Product {
	for i := range products {
		products[i].Images = h.PresignImages(ctx, products[i].Images)
	}
	return products
}

// Home lists the featured products for the landing page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	products, err := h.Products.ListFeatured(r.Context(), featuredLimit)
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"products": h.presignAll(r.Context(), products),
	})
}

// ProductDetail returns one product with its derived MRP, reviews and the
// average rating rounded to one decimal.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	product, err := h.Products.GetByID(r.Context(), productID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "Product not found.")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
		return
	}
	product.Images = h.PresignImages(r.Context(), product.Images)

	reviews, err := h.Reviews.ListByProduct(r.Context(), productID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
		return
	}

	var avgRating float64
	if len(reviews) > 0 {
		sum := 0
		for _, rev := range reviews {
			sum += rev.Rating
		}
		avgRating = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"product":      product,
		"mrp":          cart.MRP(product.Price, product.Discount),
		"reviews":      reviews,
		"avg_rating":   avgRating,
		"review_count": len(reviews),
	})
}

// CategoryView lists the products of one category. An unknown category is
// simply an empty list.
func (h *Handler) CategoryView(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "name")

	products, err := h.Products.GetByCategory(r.Context(), category)
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"products": h.presignAll(r.Context(), products),
	})
}

// Search matches product names case-insensitively. A blank query returns no
// results without hitting the store.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"query":   query,
			"results": []models.Product{},
		})
		return
	}

	results, err := h.Products.Search(r.Context(), query)
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
		return
	}
	if results == nil {
		results = []models.Product{}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": h.presignAll(r.Context(), results),
	})
}
