package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-community/internal/domain/pets"
)

var errPetNotFound = errors.New("pet not found")

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	accessories, err := toJSONB(p.Accessories)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, owner_user_id,
			name, species, breed, size, color,
			accessories, features, photo_url, microchip,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		string(p.Species),
		p.Breed,
		string(p.Size),
		p.Color,
		accessories,
		p.Features,
		p.PhotoURL,
		p.Microchip,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_user_id, name, species, breed, size, color,
		       accessories, features, photo_url, microchip,
		       created_at, updated_at
		FROM pets
		WHERE id = $1
	`, id)

	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, errPetNotFound
	}
	return p, err
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_user_id, name, species, breed, size, color,
		       accessories, features, photo_url, microchip,
		       created_at, updated_at
		FROM pets
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var (
		p           pets.Pet
		species     string
		size        string
		accessories []byte
	)
	err := row.Scan(
		&p.ID, &p.OwnerUserID, &p.Name, &species, &p.Breed, &size, &p.Color,
		&accessories, &p.Features, &p.PhotoURL, &p.Microchip,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return pets.Pet{}, err
	}
	p.Species = pets.Species(species)
	p.Size = pets.Size(size)
	if p.Accessories, err = fromJSONB[[]string](accessories); err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}
