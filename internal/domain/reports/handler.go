package reports

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
	r.Route("/reports", func(rr chi.Router) {
		rr.Post("/", createReportHandler(svc))
		rr.Get("/", listReportsHandler(svc))
		rr.Get("/{reportID}", getReportHandler(svc))
		rr.Post("/{reportID}/sightings", addSightingHandler(svc))
		rr.Patch("/{reportID}/status", updateStatusHandler(svc))
		rr.Delete("/{reportID}", deleteReportHandler(svc))
	})
}

type geoPointRequest struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type geoPointResponse struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

type ownerContactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type createReportRequest struct {
	PetName  string `json:"pet_name"`
	Species  string `json:"species"`
	Breed    string `json:"breed"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Features string `json:"features"`

	LastSeenLocation geoPointRequest `json:"last_seen_location"`
	LastSeenTime     *time.Time      `json:"last_seen_time"`

	OwnerContact ownerContactRequest `json:"owner_contact"`

	Microchip   string   `json:"microchip"`
	CollarDesc  string   `json:"collar_desc"`
	RewardOffer string   `json:"reward_offer"`
	PhotoURLs   []string `json:"photo_urls"`
}

type sightingRequest struct {
	Location  geoPointRequest `json:"location"`
	Note      string          `json:"note"`
	PhotoURL  string          `json:"photo_url"`
	SightedAt *time.Time      `json:"sighted_at"`
}

type updateStatusRequest struct {
	Status        string           `json:"status"`
	FoundAt       *time.Time       `json:"found_at"`
	FoundLocation *geoPointRequest `json:"found_location"`
	Story         string           `json:"story"`
}

type sightingResponse struct {
	ID             string           `json:"id"`
	ReporterUserID string           `json:"reporter_user_id"`
	Location       geoPointResponse `json:"location"`
	Note           string           `json:"note,omitempty"`
	PhotoURL       string           `json:"photo_url,omitempty"`
	SightedAt      time.Time        `json:"sighted_at"`
	CreatedAt      time.Time        `json:"created_at"`
}

type reunionResponse struct {
	FoundAt       time.Time        `json:"found_at"`
	FoundLocation geoPointResponse `json:"found_location"`
	Story         string           `json:"story,omitempty"`
}

type reportResponse struct {
	ID       string `json:"id"`
	PetName  string `json:"pet_name"`
	Species  string `json:"species"`
	Breed    string `json:"breed,omitempty"`
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
	Features string `json:"features,omitempty"`

	Status string `json:"status"`

	LastSeenLocation geoPointResponse `json:"last_seen_location"`
	LastSeenTime     time.Time        `json:"last_seen_time"`

	OwnerContact ownerContactRequest `json:"owner_contact"`

	Microchip   string   `json:"microchip,omitempty"`
	CollarDesc  string   `json:"collar_desc,omitempty"`
	RewardOffer string   `json:"reward_offer,omitempty"`
	PhotoURLs   []string `json:"photo_urls,omitempty"`

	ReportedBy string `json:"reported_by"`

	Sightings   []sightingResponse `json:"sightings"`
	ReunionInfo *reunionResponse   `json:"reunion_info,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func createReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := CreateInput{
			PetName:  req.PetName,
			Species:  req.Species,
			Breed:    req.Breed,
			Color:    req.Color,
			Size:     req.Size,
			Features: req.Features,
			LastSeenLocation: GeoPoint{
				Lat:     req.LastSeenLocation.Lat,
				Lng:     req.LastSeenLocation.Lng,
				Address: req.LastSeenLocation.Address,
			},
			OwnerContact: OwnerContact(req.OwnerContact),
			Microchip:    req.Microchip,
			CollarDesc:   req.CollarDesc,
			RewardOffer:  req.RewardOffer,
			PhotoURLs:    req.PhotoURLs,
		}
		if req.LastSeenTime != nil {
			in.LastSeenTime = *req.LastSeenTime
		}

		rep, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toReportResponse(rep))
	}
}

func listReportsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{}
		if v := strings.TrimSpace(r.URL.Query().Get("status")); v != "" {
			filter.Status = Status(v)
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]reportResponse, 0, len(items))
		for _, rep := range items {
			out = append(out, toReportResponse(rep))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.GetByID(r.Context(), chi.URLParam(r, "reportID"))
		if err != nil {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func addSightingHandler(svc *Service) http.HandlerFunc {
	// Any verified user may report a sighting, including the owner.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req sightingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := SightingInput{
			Location: GeoPoint{
				Lat:     req.Location.Lat,
				Lng:     req.Location.Lng,
				Address: req.Location.Address,
			},
			Note:     req.Note,
			PhotoURL: req.PhotoURL,
		}
		if req.SightedAt != nil {
			in.SightedAt = *req.SightedAt
		}

		rep, err := svc.AddSighting(r.Context(), chi.URLParam(r, "reportID"), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toReportResponse(rep))
	}
}

func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := StatusUpdateInput{
			Status:  Status(strings.TrimSpace(req.Status)),
			FoundAt: req.FoundAt,
			Story:   req.Story,
		}
		if req.FoundLocation != nil {
			in.FoundLocation = &GeoPoint{
				Lat:     req.FoundLocation.Lat,
				Lng:     req.FoundLocation.Lng,
				Address: req.FoundLocation.Address,
			}
		}

		rep, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "reportID"), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func deleteReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "reportID"), claims.UserID); err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "report not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toReportResponse(r LostPetReport) reportResponse {
	sightings := make([]sightingResponse, 0, len(r.Sightings))
	for _, s := range r.Sightings {
		sightings = append(sightings, sightingResponse{
			ID:             s.ID,
			ReporterUserID: s.ReporterUserID,
			Location: geoPointResponse{
				Lat:     s.Location.Lat,
				Lng:     s.Location.Lng,
				Address: s.Location.Address,
			},
			Note:      s.Note,
			PhotoURL:  s.PhotoURL,
			SightedAt: s.SightedAt,
			CreatedAt: s.CreatedAt,
		})
	}

	resp := reportResponse{
		ID:       r.ID,
		PetName:  r.PetName,
		Species:  r.Species,
		Breed:    r.Breed,
		Color:    r.Color,
		Size:     r.Size,
		Features: r.Features,
		Status:   string(r.Status),
		LastSeenLocation: geoPointResponse{
			Lat:     r.LastSeenLocation.Lat,
			Lng:     r.LastSeenLocation.Lng,
			Address: r.LastSeenLocation.Address,
		},
		LastSeenTime: r.LastSeenTime,
		OwnerContact: ownerContactRequest(r.OwnerContact),
		Microchip:    r.Microchip,
		CollarDesc:   r.CollarDesc,
		RewardOffer:  r.RewardOffer,
		PhotoURLs:    r.PhotoURLs,
		ReportedBy:   r.ReportedBy,
		Sightings:    sightings,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}

	if r.ReunionInfo != nil {
		resp.ReunionInfo = &reunionResponse{
			FoundAt: r.ReunionInfo.FoundAt,
			FoundLocation: geoPointResponse{
				Lat:     r.ReunionInfo.FoundLocation.Lat,
				Lng:     r.ReunionInfo.FoundLocation.Lng,
				Address: r.ReunionInfo.FoundLocation.Address,
			},
			Story: r.ReunionInfo.Story,
		}
	}

	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
