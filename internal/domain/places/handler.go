package places

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-community/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/places", func(pr chi.Router) {
		pr.Post("/", createPlaceHandler(svc))
		pr.Get("/", listPlacesHandler(svc))
		pr.Get("/{placeID}", getPlaceHandler(svc))
	})
}

type createPlaceRequest struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type placeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Address   string    `json:"address,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func createPlaceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPlaceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Upsert(r.Context(), claims.UserID, CreateInput{
			Name:    req.Name,
			Type:    req.Type,
			Lat:     req.Lat,
			Lng:     req.Lng,
			Address: req.Address,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toPlaceResponse(p))
	}
}

func listPlacesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]placeResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPlaceResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPlaceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "placeID"))
		if err != nil {
			http.Error(w, "place not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toPlaceResponse(p))
	}
}

func toPlaceResponse(p Place) placeResponse {
	return placeResponse{
		ID:        p.ID,
		Name:      p.Name,
		Type:      string(p.Type),
		Lat:       p.Lat,
		Lng:       p.Lng,
		Address:   p.Address,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
