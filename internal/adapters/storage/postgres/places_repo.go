package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-community/internal/domain/places"
)

type PlacesRepo struct {
	db *sql.DB
}

func NewPlacesRepo(db *sql.DB) *PlacesRepo {
	return &PlacesRepo{db: db}
}

func (r *PlacesRepo) Create(ctx context.Context, p places.Place) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO places (
			id, name, type, lat, lng, address, created_by,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		p.ID,
		p.Name,
		string(p.Type),
		p.Lat,
		p.Lng,
		p.Address,
		p.CreatedBy,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PlacesRepo) GetByID(ctx context.Context, id string) (places.Place, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, type, lat, lng, address, created_by,
		       created_at, updated_at
		FROM places
		WHERE id = $1
	`, id)

	p, err := scanPlace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return places.Place{}, places.ErrNotFound
	}
	return p, err
}

func (r *PlacesRepo) List(ctx context.Context) ([]places.Place, error) {
	return r.list(ctx, `
		SELECT id, name, type, lat, lng, address, created_by,
		       created_at, updated_at
		FROM places
		ORDER BY created_at ASC
	`)
}

func (r *PlacesRepo) ListByType(ctx context.Context, t places.Type) ([]places.Place, error) {
	return r.list(ctx, `
		SELECT id, name, type, lat, lng, address, created_by,
		       created_at, updated_at
		FROM places
		WHERE type = $1
		ORDER BY created_at ASC
	`, string(t))
}

func (r *PlacesRepo) list(ctx context.Context, query string, args ...any) ([]places.Place, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]places.Place, 0)
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPlace(row rowScanner) (places.Place, error) {
	var (
		p     places.Place
		ptype string
	)
	err := row.Scan(
		&p.ID, &p.Name, &ptype, &p.Lat, &p.Lng, &p.Address, &p.CreatedBy,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return places.Place{}, err
	}
	p.Type = places.Type(ptype)
	return p, nil
}
