package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"adopet/internal/domain"
)

// ChatRepository define el contrato de persistencia para chats.
// La unicidad del par de participantes la garantiza el índice
// chats_pair_idx; Create devuelve la violación tal cual para que el
// servicio la resuelva releyendo el par.
type ChatRepository interface {
	Create(ctx context.Context, chat domain.Chat) error
	GetByID(ctx context.Context, id string) (domain.Chat, error)
	GetByPair(ctx context.Context, userID, otherID string) (domain.Chat, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Chat, error)
}

// PgChatRepository implementa ChatRepository usando pgxpool.
type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

func (r *PgChatRepository) Create(ctx context.Context, chat domain.Chat) error {
	const query = `
		INSERT INTO chats (id, user_a, user_b, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		chat.ID,
		chat.UserAID,
		chat.UserBID,
		chat.CreatedAt,
	)
	return err
}

func (r *PgChatRepository) GetByID(ctx context.Context, id string) (domain.Chat, error) {
	const query = `
		SELECT id, user_a, user_b, created_at
		FROM chats
		WHERE id = $1
	`
	var c domain.Chat
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.UserAID,
		&c.UserBID,
		&c.CreatedAt,
	)
	if err != nil {
		return domain.Chat{}, err
	}
	return c, nil
}

func (r *PgChatRepository) GetByPair(ctx context.Context, userID, otherID string) (domain.Chat, error) {
	const query = `
		SELECT id, user_a, user_b, created_at
		FROM chats
		WHERE (user_a = $1 AND user_b = $2) OR (user_a = $2 AND user_b = $1)
	`
	var c domain.Chat
	err := r.pool.QueryRow(ctx, query, userID, otherID).Scan(
		&c.ID,
		&c.UserAID,
		&c.UserBID,
		&c.CreatedAt,
	)
	if err != nil {
		return domain.Chat{}, err
	}
	return c, nil
}

func (r *PgChatRepository) ListByUser(ctx context.Context, userID string) ([]domain.Chat, error) {
	// Orden determinista para un mismo conjunto de datos.
	const query = `
		SELECT id, user_a, user_b, created_at
		FROM chats
		WHERE user_a = $1 OR user_b = $1
		ORDER BY created_at DESC, id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []domain.Chat
	for rows.Next() {
		var c domain.Chat
		if err := rows.Scan(&c.ID, &c.UserAID, &c.UserBID, &c.CreatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}
