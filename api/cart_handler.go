package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/timelessthreads/storefront/cart"
	"github.com/timelessthreads/storefront/models"
	"github.com/timelessthreads/storefront/store"
	"github.com/timelessthreads/storefront/utils"
)

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// AddToCart validates the product and variant selection before touching the
// session; a rejected request leaves the cart exactly as it was.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	product, err := h.Products.GetByID(r.Context(), req.ProductID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "Product not found.")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
		return
	}

	if err := cart.ValidateSelection(*product, req.Size, req.Color); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry := cart.BuildEntry(*product, req.Quantity, req.Size, req.Color)
	entry.AddedAt = time.Now()

	state := CurrentSession(r)
	newCart, merged := cart.Add(state.Data.Cart, entry)
	state.Data.Cart = newCart
	state.MarkDirty()

	message := "Added to cart."
	if merged {
		message = "Quantity updated."
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": message})
}

type cartItem struct {
	Product   *models.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	MRP       int             `json:"mrp"`
	LineTotal int             `json:"line_total"`
}

// ViewCart resolves each cart line against the catalog. Lines whose product
// has since disappeared are skipped, not treated as errors.
func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request) {
	state := CurrentSession(r)

	items := make([]cartItem, 0, len(state.Data.Cart))
	total := 0
	for _, entry := range state.Data.Cart {
		product, err := h.Products.GetByID(r.Context(), entry.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
			return
		}
		product.Images = h.PresignImages(r.Context(), product.Images)

		lineTotal := cart.LineTotal(product.Price, entry.Quantity)
		total += lineTotal
		items = append(items, cartItem{
			Product:   product,
			Quantity:  entry.Quantity,
			Size:      entry.Size,
			Color:     entry.Color,
			MRP:       cart.MRP(product.Price, product.Discount),
			LineTotal: lineTotal,
		})
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
	})
}

// RemoveFromCart deletes one line identified by product and variant. The
// literal "none" stands in for an empty selection in the path.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	size := chi.URLParam(r, "size")
	color := chi.URLParam(r, "color")

	state := CurrentSession(r)
	newCart, removed := cart.Remove(state.Data.Cart, productID, size, color)
	if !removed {
		utils.RespondError(w, http.StatusNotFound, "Item not found.")
		return
	}

	state.Data.Cart = newCart
	state.MarkDirty()
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Item removed."})
}

// Checkout is a placeholder; orders and payment are not built yet.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Checkout is not available yet.",
	})
}
