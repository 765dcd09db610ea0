package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-community/internal/domain/reports"
)

type reportRepo struct {
	mu   sync.Mutex
	byID map[string]reports.LostPetReport
}

func NewReportRepo() reports.Repository {
	return &reportRepo{
		byID: make(map[string]reports.LostPetReport),
	}
}

func (r *reportRepo) Create(ctx context.Context, rep reports.LostPetReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rep.ID) == "" {
		return errors.New("report id required")
	}
	if _, exists := r.byID[rep.ID]; exists {
		return errors.New("report already exists")
	}
	r.byID[rep.ID] = cloneReport(rep)
	return nil
}

func (r *reportRepo) GetByID(ctx context.Context, id string) (reports.LostPetReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok := r.byID[id]
	if !ok {
		return reports.LostPetReport{}, reports.ErrNotFound
	}
	return cloneReport(rep), nil
}

func (r *reportRepo) List(ctx context.Context, filter reports.ListFilter) ([]reports.LostPetReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	out := make([]reports.LostPetReport, 0)
	for _, rep := range r.byID {
		if filter.Status != "" && rep.Status != filter.Status {
			continue
		}
		out = append(out, cloneReport(rep))
	}

	// newest first
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// AppendSighting holds the lock across read-append-write, so concurrent
// appends accumulate instead of clobbering each other.
func (r *reportRepo) AppendSighting(ctx context.Context, reportID string, s reports.Sighting) (reports.LostPetReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok := r.byID[reportID]
	if !ok {
		return reports.LostPetReport{}, reports.ErrNotFound
	}

	rep.Sightings = append(rep.Sightings, s)
	if rep.Status == reports.StatusMissing {
		rep.Status = reports.StatusSeen
	}
	rep.UpdatedAt = time.Now()

	r.byID[reportID] = rep
	return cloneReport(rep), nil
}

func (r *reportRepo) UpdateStatus(ctx context.Context, reportID string, status reports.Status, reunion *reports.ReunionInfo) (reports.LostPetReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok := r.byID[reportID]
	if !ok {
		return reports.LostPetReport{}, reports.ErrNotFound
	}

	rep.Status = status
	if reunion != nil {
		cp := *reunion
		rep.ReunionInfo = &cp
	}
	rep.UpdatedAt = time.Now()

	r.byID[reportID] = rep
	return cloneReport(rep), nil
}

func (r *reportRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return reports.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// cloneReport copies the slice headers so callers can't mutate stored
// sightings through a returned report.
func cloneReport(rep reports.LostPetReport) reports.LostPetReport {
	out := rep
	out.Sightings = append([]reports.Sighting(nil), rep.Sightings...)
	out.PhotoURLs = append([]string(nil), rep.PhotoURLs...)
	if rep.ReunionInfo != nil {
		cp := *rep.ReunionInfo
		out.ReunionInfo = &cp
	}
	return out
}
