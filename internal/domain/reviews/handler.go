package reviews

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
	r.Route("/reviews", func(rr chi.Router) {
		rr.Post("/", createReviewHandler(svc))
		rr.Get("/{reviewID}", getReviewHandler(svc))
		rr.Post("/{reviewID}/helpful", toggleHelpfulHandler(svc))
	})

	r.Get("/places/{placeID}/reviews", listPlaceReviewsHandler(svc))
	r.Get("/me/reviews", listMyReviewsHandler(svc))
}

type newPlaceRequest struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type createReviewRequest struct {
	PlaceID string           `json:"place_id"`
	Place   *newPlaceRequest `json:"place"`

	Rating    int      `json:"rating"`
	Comment   string   `json:"comment"`
	Tags      []string `json:"tags"`
	PhotoURLs []string `json:"photo_urls"`

	// Shape depends on the place type; validated on decode.
	Detail json.RawMessage `json:"detail"`
}

type reviewResponse struct {
	ID           string    `json:"id"`
	AuthorUserID string    `json:"author_user_id"`
	PlaceID      string    `json:"place_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	PhotoURLs    []string  `json:"photo_urls,omitempty"`
	PlaceType    string    `json:"place_type,omitempty"`
	Detail       any       `json:"detail,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type helpfulResponse struct {
	ReviewID string `json:"review_id"`
	Helpful  bool   `json:"helpful"`
}

func createReviewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := CreateInput{
			PlaceID:   req.PlaceID,
			Rating:    req.Rating,
			Comment:   req.Comment,
			Tags:      req.Tags,
			PhotoURLs: req.PhotoURLs,
			RawDetail: req.Detail,
		}
		if req.Place != nil {
			in.Place = &NewPlace{
				Name:    req.Place.Name,
				Type:    req.Place.Type,
				Lat:     req.Place.Lat,
				Lng:     req.Place.Lng,
				Address: req.Place.Address,
			}
		}

		rev, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toReviewResponse(rev))
	}
}

func getReviewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rev, err := svc.GetByID(r.Context(), chi.URLParam(r, "reviewID"))
		if err != nil {
			http.Error(w, "review not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toReviewResponse(rev))
	}
}

func toggleHelpfulHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		reviewID := chi.URLParam(r, "reviewID")
		helpful, err := svc.ToggleHelpful(r.Context(), reviewID, claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "review not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, helpfulResponse{ReviewID: reviewID, Helpful: helpful})
	}
}

func listPlaceReviewsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByPlace(r.Context(), chi.URLParam(r, "placeID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeReviewList(w, items)
	}
}

func listMyReviewsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByAuthor(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeReviewList(w, items)
	}
}

func writeReviewList(w http.ResponseWriter, items []Review) {
	out := make([]reviewResponse, 0, len(items))
	for _, rev := range items {
		out = append(out, toReviewResponse(rev))
	}
	writeJSON(w, http.StatusOK, out)
}

func toReviewResponse(r Review) reviewResponse {
	resp := reviewResponse{
		ID:           r.ID,
		AuthorUserID: r.AuthorUserID,
		PlaceID:      r.PlaceID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		Tags:         r.Tags,
		PhotoURLs:    r.PhotoURLs,
		CreatedAt:    r.CreatedAt,
	}
	if r.Detail != nil {
		resp.PlaceType = r.Detail.PlaceType()
		resp.Detail = r.Detail
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
