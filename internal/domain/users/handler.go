package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-community/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/users", func(ur chi.Router) {
		ur.Post("/", registerUserHandler(svc))
		ur.Get("/nearby", nearbyUsersHandler(svc))
		ur.Get("/{userID}", getUserHandler(svc))
	})

	r.Put("/me/location", updateLocationHandler(svc))
}

type registerUserRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url"`
}

type locationResponse struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updated_at"`
}

type userResponse struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"display_name"`
	Email       string            `json:"email,omitempty"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
	Location    *locationResponse `json:"location,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type updateLocationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type nearbyUserResponse struct {
	ID          string           `json:"id"`
	DisplayName string           `json:"display_name"`
	AvatarURL   string           `json:"avatar_url,omitempty"`
	Location    locationResponse `json:"location"`
}

func registerUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req registerUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		email := req.Email
		if email == "" {
			email = claims.Email
		}

		u, err := svc.Register(r.Context(), claims.UserID, RegisterInput{
			DisplayName: req.DisplayName,
			Email:       email,
			AvatarURL:   req.AvatarURL,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

func getUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.GetByID(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func updateLocationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateLocationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// both-or-neither: a partial fix is a validation error
		if req.Lat == nil || req.Lng == nil {
			http.Error(w, "lat and lng are both required", http.StatusBadRequest)
			return
		}

		loc, err := svc.UpdateLocation(r.Context(), claims.UserID, *req.Lat, *req.Lng)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "user not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, locationResponse{
			Lat:       loc.Lat,
			Lng:       loc.Lng,
			UpdatedAt: loc.UpdatedAt,
		})
	}
}

func nearbyUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
		lng, err2 := strconv.ParseFloat(q.Get("lng"), 64)
		if err1 != nil || err2 != nil {
			http.Error(w, "lat and lng are required", http.StatusBadRequest)
			return
		}

		radius := 10.0
		if v := q.Get("radius"); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				http.Error(w, "radius must be a number", http.StatusBadRequest)
				return
			}
			radius = parsed
		}

		items, err := svc.Nearby(r.Context(), lat, lng, radius, claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]nearbyUserResponse, 0, len(items))
		for _, n := range items {
			out = append(out, nearbyUserResponse{
				ID:          n.ID,
				DisplayName: n.DisplayName,
				AvatarURL:   n.AvatarURL,
				Location: locationResponse{
					Lat:       n.Location.Lat,
					Lng:       n.Location.Lng,
					UpdatedAt: n.Location.UpdatedAt,
				},
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toUserResponse(u User) userResponse {
	resp := userResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
	if u.Location != nil {
		resp.Location = &locationResponse{
			Lat:       u.Location.Lat,
			Lng:       u.Location.Lng,
			UpdatedAt: u.Location.UpdatedAt,
		}
	}
	return resp
}

// writeJSON is duplicated across module handlers on purpose; extracting a
// shared helper can wait until more modules need it.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
