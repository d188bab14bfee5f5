package domain

import "time"

// Chat es el emparejamiento único, sin orden, de dos usuarios.
// Para cada par existe a lo sumo un chat; la unicidad la garantiza el store.
type Chat struct {
	ID        string    `json:"id"`
	UserAID   string    `json:"user_a_id"`
	UserBID   string    `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HasParticipant indica si el usuario pertenece al chat.
func (c Chat) HasParticipant(userID string) bool {
	if userID == "" {
		return false
	}
	return c.UserAID == userID || c.UserBID == userID
}

// ChatWithMessages agrupa un chat con sus mensajes en orden de envío.
type ChatWithMessages struct {
	Chat     Chat      `json:"chat"`
	Messages []Message `json:"messages"`
}
