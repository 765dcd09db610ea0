package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"pet-community/internal/domain/reports"
)

type ReportsRepo struct {
	db *sql.DB
}

func NewReportsRepo(db *sql.DB) *ReportsRepo {
	return &ReportsRepo{db: db}
}

func (r *ReportsRepo) Create(ctx context.Context, rep reports.LostPetReport) error {
	photos, err := toJSONB(rep.PhotoURLs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO lost_pet_reports (
			id, pet_name, species, breed, color, size, features,
			status,
			last_seen_lat, last_seen_lng, last_seen_address, last_seen_time,
			contact_name, contact_phone, contact_email,
			microchip, collar_desc, reward_offer, photo_urls,
			reported_by, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
	`,
		rep.ID, rep.PetName, rep.Species, rep.Breed, rep.Color, rep.Size, rep.Features,
		string(rep.Status),
		rep.LastSeenLocation.Lat, rep.LastSeenLocation.Lng, rep.LastSeenLocation.Address, rep.LastSeenTime,
		rep.OwnerContact.Name, rep.OwnerContact.Phone, rep.OwnerContact.Email,
		rep.Microchip, rep.CollarDesc, rep.RewardOffer, photos,
		rep.ReportedBy, rep.CreatedAt, rep.UpdatedAt,
	)
	return err
}

func (r *ReportsRepo) GetByID(ctx context.Context, id string) (reports.LostPetReport, error) {
	rep, err := r.getReportRow(ctx, id)
	if err != nil {
		return reports.LostPetReport{}, err
	}
	rep.Sightings, err = r.listSightings(ctx, id)
	if err != nil {
		return reports.LostPetReport{}, err
	}
	return rep, nil
}

func (r *ReportsRepo) List(ctx context.Context, filter reports.ListFilter) ([]reports.LostPetReport, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + reportColumns + `
		FROM lost_pet_reports
	`
	args := []any{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC LIMIT ` + strconv.Itoa(limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reports.LostPetReport, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Listings carry their sighting logs too; the result set is bounded.
	for i := range out {
		out[i].Sightings, err = r.listSightings(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AppendSighting inserts the sighting and promotes missing -> seen in
// one transaction, so concurrent appends accumulate.
func (r *ReportsRepo) AppendSighting(ctx context.Context, reportID string, s reports.Sighting) (reports.LostPetReport, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return reports.LostPetReport{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO report_sightings (
			id, report_id, reporter_user_id,
			lat, lng, address, note, photo_url,
			sighted_at, created_at
		)
		SELECT $1, id, $3, $4, $5, $6, $7, $8, $9, $10
		FROM lost_pet_reports WHERE id = $2
	`,
		s.ID, reportID, s.ReporterUserID,
		s.Location.Lat, s.Location.Lng, s.Location.Address, s.Note, s.PhotoURL,
		s.SightedAt, s.CreatedAt,
	)
	if err != nil {
		return reports.LostPetReport{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return reports.LostPetReport{}, reports.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE lost_pet_reports
		SET status = CASE WHEN status = 'missing' THEN 'seen' ELSE status END,
		    updated_at = $2
		WHERE id = $1
	`, reportID, time.Now())
	if err != nil {
		return reports.LostPetReport{}, err
	}

	if err := tx.Commit(); err != nil {
		return reports.LostPetReport{}, err
	}

	return r.GetByID(ctx, reportID)
}

func (r *ReportsRepo) UpdateStatus(ctx context.Context, reportID string, status reports.Status, reunion *reports.ReunionInfo) (reports.LostPetReport, error) {
	var (
		foundAt   sql.NullTime
		foundLat  sql.NullFloat64
		foundLng  sql.NullFloat64
		foundAddr sql.NullString
		story     sql.NullString
	)
	if reunion != nil {
		foundAt = sql.NullTime{Time: reunion.FoundAt, Valid: true}
		foundLat = sql.NullFloat64{Float64: reunion.FoundLocation.Lat, Valid: true}
		foundLng = sql.NullFloat64{Float64: reunion.FoundLocation.Lng, Valid: true}
		foundAddr = sql.NullString{String: reunion.FoundLocation.Address, Valid: true}
		story = sql.NullString{String: reunion.Story, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE lost_pet_reports
		SET status = $2,
		    reunion_found_at = COALESCE($3, reunion_found_at),
		    reunion_lat = COALESCE($4, reunion_lat),
		    reunion_lng = COALESCE($5, reunion_lng),
		    reunion_address = COALESCE($6, reunion_address),
		    reunion_story = COALESCE($7, reunion_story),
		    updated_at = $8
		WHERE id = $1
	`, reportID, string(status), foundAt, foundLat, foundLng, foundAddr, story, time.Now())
	if err != nil {
		return reports.LostPetReport{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return reports.LostPetReport{}, reports.ErrNotFound
	}

	return r.GetByID(ctx, reportID)
}

func (r *ReportsRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM report_sightings WHERE report_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM lost_pet_reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return reports.ErrNotFound
	}

	return tx.Commit()
}

const reportColumns = `
	id, pet_name, species, breed, color, size, features,
	status,
	last_seen_lat, last_seen_lng, last_seen_address, last_seen_time,
	contact_name, contact_phone, contact_email,
	microchip, collar_desc, reward_offer, photo_urls,
	reported_by,
	reunion_found_at, reunion_lat, reunion_lng, reunion_address, reunion_story,
	created_at, updated_at`

func (r *ReportsRepo) getReportRow(ctx context.Context, id string) (reports.LostPetReport, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+reportColumns+`
		FROM lost_pet_reports
		WHERE id = $1
	`, id)

	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return reports.LostPetReport{}, reports.ErrNotFound
	}
	return rep, err
}

func (r *ReportsRepo) listSightings(ctx context.Context, reportID string) ([]reports.Sighting, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, reporter_user_id, lat, lng, address, note, photo_url,
		       sighted_at, created_at
		FROM report_sightings
		WHERE report_id = $1
		ORDER BY created_at ASC
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reports.Sighting, 0)
	for rows.Next() {
		var s reports.Sighting
		err := rows.Scan(
			&s.ID, &s.ReporterUserID,
			&s.Location.Lat, &s.Location.Lng, &s.Location.Address,
			&s.Note, &s.PhotoURL,
			&s.SightedAt, &s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanReport(row rowScanner) (reports.LostPetReport, error) {
	var (
		rep       reports.LostPetReport
		status    string
		photos    []byte
		foundAt   sql.NullTime
		foundLat  sql.NullFloat64
		foundLng  sql.NullFloat64
		foundAddr sql.NullString
		story     sql.NullString
	)
	err := row.Scan(
		&rep.ID, &rep.PetName, &rep.Species, &rep.Breed, &rep.Color, &rep.Size, &rep.Features,
		&status,
		&rep.LastSeenLocation.Lat, &rep.LastSeenLocation.Lng, &rep.LastSeenLocation.Address, &rep.LastSeenTime,
		&rep.OwnerContact.Name, &rep.OwnerContact.Phone, &rep.OwnerContact.Email,
		&rep.Microchip, &rep.CollarDesc, &rep.RewardOffer, &photos,
		&rep.ReportedBy,
		&foundAt, &foundLat, &foundLng, &foundAddr, &story,
		&rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		return reports.LostPetReport{}, err
	}

	rep.Status = reports.Status(status)
	if rep.PhotoURLs, err = fromJSONB[[]string](photos); err != nil {
		return reports.LostPetReport{}, err
	}
	if foundAt.Valid {
		rep.ReunionInfo = &reports.ReunionInfo{
			FoundAt: foundAt.Time,
			FoundLocation: reports.GeoPoint{
				Lat:     foundLat.Float64,
				Lng:     foundLng.Float64,
				Address: foundAddr.String,
			},
			Story: story.String,
		}
	}
	rep.Sightings = []reports.Sighting{}
	return rep, nil
}
