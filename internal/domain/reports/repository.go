package reports

import "context"

type Repository interface {
	Create(ctx context.Context, r LostPetReport) error
	GetByID(ctx context.Context, id string) (LostPetReport, error)
	List(ctx context.Context, filter ListFilter) ([]LostPetReport, error)

	// AppendSighting atomically appends to the sighting log and, when the
	// report is still missing, promotes it to seen. Concurrent appends
	// from different callers must both land (accumulate, never overwrite).
	AppendSighting(ctx context.Context, reportID string, s Sighting) (LostPetReport, error)

	// UpdateStatus applies an owner-approved status change. Last writer
	// wins; the service has already validated the transition.
	UpdateStatus(ctx context.Context, reportID string, status Status, reunion *ReunionInfo) (LostPetReport, error)

	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Status Status
	Limit  int
}
