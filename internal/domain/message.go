package domain

import "time"

type Message struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chat_id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	// Seq desempata mensajes con el mismo sent_at; lo asigna el store.
	Seq    int64     `json:"-"`
	SentAt time.Time `json:"sent_at"`
}
