package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/timelessthreads/storefront/models"
	"github.com/timelessthreads/storefront/store"
	"github.com/timelessthreads/storefront/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type reviewRequest struct {
	Rating interface{} `json:"rating"`
	Review string      `json:"review"`
}

// parseRating accepts a JSON number or numeric string, rejecting anything
// fractional or outside 1..5.
func parseRating(v interface{}) (int, error) {
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			return 0, errors.New("Invalid rating.")
		}
		n := int(t)
		if n < 1 || n > 5 {
			return 0, errors.New("Rating must be between 1 and 5 stars.")
		}
		return n, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, errors.New("Invalid rating.")
		}
		if n < 1 || n > 5 {
			return 0, errors.New("Rating must be between 1 and 5 stars.")
		}
		return n, nil
	case nil:
		return 0, errors.New("Please select a rating.")
	default:
		return 0, errors.New("Invalid rating.")
	}
}

// AddReview upserts the acting user's review of a product: one review per
// (product, user), a repeat submission replaces rating and text in place.
func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	user := authedUser(r)
	productID := chi.URLParam(r, "productID")

	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Invalid product ID.")
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	rating, err := parseRating(req.Rating)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	text := strings.TrimSpace(req.Review)

	existing, err := h.Reviews.FindByProductAndUser(r.Context(), productID, user)
	switch {
	case err == nil:
		if err := h.Reviews.Update(r.Context(), existing.ID, rating, text); err != nil {
			utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Review updated!"})
	case errors.Is(err, store.ErrNotFound):
		review := &models.Review{
			ProductID: oid,
			User:      user,
			Rating:    rating,
			Review:    text,
		}
		if err := h.Reviews.Insert(r.Context(), review); err != nil {
			utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
			return
		}
		utils.RespondJSON(w, http.StatusCreated, map[string]string{"message": "Review submitted!"})
	default:
		utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
	}
}

// DeleteReview removes a review by id.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewID")

	err := h.Reviews.Delete(r.Context(), reviewID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "Invalid review ID.")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Review deleted."})
}
