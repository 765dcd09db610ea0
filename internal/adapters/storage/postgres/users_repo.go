package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-community/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, display_name, email, avatar_url,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		u.ID,
		u.DisplayName,
		u.Email,
		u.AvatarURL,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return err
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, avatar_url,
		       loc_lat, loc_lng, loc_updated_at,
		       created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, users.ErrNotFound
	}
	return u, err
}

func (r *UsersRepo) UpdateLocation(ctx context.Context, id string, loc users.Location) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET loc_lat = $2, loc_lng = $3, loc_updated_at = $4, updated_at = $4
		WHERE id = $1
	`, id, loc.Lat, loc.Lng, loc.UpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) ListWithLocation(ctx context.Context) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, display_name, email, avatar_url,
		       loc_lat, loc_lng, loc_updated_at,
		       created_at, updated_at
		FROM users
		WHERE loc_lat IS NOT NULL AND loc_lng IS NOT NULL
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (users.User, error) {
	var (
		u       users.User
		lat     sql.NullFloat64
		lng     sql.NullFloat64
		updated sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.DisplayName, &u.Email, &u.AvatarURL,
		&lat, &lng, &updated,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return users.User{}, err
	}
	if lat.Valid && lng.Valid {
		u.Location = &users.Location{
			Lat:       lat.Float64,
			Lng:       lng.Float64,
			UpdatedAt: updated.Time,
		}
	}
	return u, nil
}
