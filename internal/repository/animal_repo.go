package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adopet/internal/domain"
)

// AnimalRepository define el contrato de persistencia para animales.
type AnimalRepository interface {
	Create(ctx context.Context, animal domain.Animal) error
	GetByID(ctx context.Context, id string) (domain.Animal, error)
	ListAvailable(ctx context.Context, excludeUserID string) ([]domain.Animal, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Animal, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

const animalColumns = `id, user_id, name, type, gender, race, description, status, picture_keys, created_at`

// PgAnimalRepository implementa AnimalRepository usando pgxpool.
type PgAnimalRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnimalRepository(pool *pgxpool.Pool) *PgAnimalRepository {
	return &PgAnimalRepository{pool: pool}
}

func (r *PgAnimalRepository) Create(ctx context.Context, animal domain.Animal) error {
	const query = `
		INSERT INTO animals (id, user_id, name, type, gender, race, description, status, picture_keys, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		animal.ID,
		animal.UserID,
		animal.Name,
		animal.Type,
		animal.Gender,
		animal.Race,
		animal.Description,
		animal.Status,
		animal.PictureKeys,
		animal.CreatedAt,
	)
	return err
}

func (r *PgAnimalRepository) GetByID(ctx context.Context, id string) (domain.Animal, error) {
	query := `SELECT ` + animalColumns + ` FROM animals WHERE id = $1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return domain.Animal{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.Animal{}, err
		}
		return domain.Animal{}, pgx.ErrNoRows
	}
	return scanAnimal(rows)
}

func (r *PgAnimalRepository) ListAvailable(ctx context.Context, excludeUserID string) ([]domain.Animal, error) {
	query := `
		SELECT ` + animalColumns + `
		FROM animals
		WHERE status = $1 AND user_id <> $2
		ORDER BY created_at DESC, id
	`
	return r.list(ctx, query, domain.AnimalStatusAvailable, excludeUserID)
}

func (r *PgAnimalRepository) ListByUser(ctx context.Context, userID string) ([]domain.Animal, error) {
	query := `
		SELECT ` + animalColumns + `
		FROM animals
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`
	return r.list(ctx, query, userID)
}

func (r *PgAnimalRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE animals SET status = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgAnimalRepository) list(ctx context.Context, query string, args ...any) ([]domain.Animal, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var animals []domain.Animal
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		animals = append(animals, a)
	}
	return animals, rows.Err()
}

func scanAnimal(rows pgx.Rows) (domain.Animal, error) {
	var a domain.Animal
	err := rows.Scan(
		&a.ID,
		&a.UserID,
		&a.Name,
		&a.Type,
		&a.Gender,
		&a.Race,
		&a.Description,
		&a.Status,
		&a.PictureKeys,
		&a.CreatedAt,
	)
	if err != nil {
		return domain.Animal{}, err
	}
	return a, nil
}
