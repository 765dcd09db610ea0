package rewards

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pet-community/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me/cards", listMyCardsHandler(svc))
	r.Get("/cards/{cardID}", getCardHandler(svc))
}

type cardResponse struct {
	ID               string    `json:"id"`
	LocationName     string    `json:"location_name"`
	ImageURL         string    `json:"image_url"`
	Caption          string    `json:"caption"`
	HelpfulCount     int       `json:"helpful_count"`
	EarnedBy         string    `json:"earned_by"`
	ContributionType string    `json:"contribution_type"`
	ReviewID         string    `json:"review_id"`
	PlaceID          string    `json:"place_id"`
	CreatedAt        time.Time `json:"created_at"`
}

func listMyCardsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]cardResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCardResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getCardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "cardID"))
		if err != nil {
			http.Error(w, "card not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toCardResponse(c))
	}
}

func toCardResponse(c RewardCard) cardResponse {
	return cardResponse{
		ID:               c.ID,
		LocationName:     c.LocationName,
		ImageURL:         c.ImageURL,
		Caption:          c.Caption,
		HelpfulCount:     c.HelpfulCount,
		EarnedBy:         c.EarnedBy,
		ContributionType: string(c.ContributionType),
		ReviewID:         c.ReviewID,
		PlaceID:          c.PlaceID,
		CreatedAt:        c.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
