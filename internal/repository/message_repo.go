package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"adopet/internal/domain"
)

// MessageRepository define el contrato de persistencia para mensajes.
type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) (domain.Message, error)
	ListByChatID(ctx context.Context, chatID string) ([]domain.Message, error)
}

// PgMessageRepository implementa MessageRepository usando pgxpool.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.Message) (domain.Message, error) {
	const query = `
		INSERT INTO messages (id, chat_id, sender_id, receiver_id, content, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq
	`
	err := r.pool.QueryRow(ctx, query,
		message.ID,
		message.ChatID,
		message.SenderID,
		message.ReceiverID,
		message.Content,
		message.SentAt,
	).Scan(&message.Seq)
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

func (r *PgMessageRepository) ListByChatID(ctx context.Context, chatID string) ([]domain.Message, error) {
	// seq desempata cuando la resolución del reloj junta dos sent_at iguales.
	const query = `
		SELECT id, chat_id, sender_id, receiver_id, content, seq, sent_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY sent_at ASC, seq ASC
	`
	rows, err := r.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		err = rows.Scan(
			&m.ID,
			&m.ChatID,
			&m.SenderID,
			&m.ReceiverID,
			&m.Content,
			&m.Seq,
			&m.SentAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
