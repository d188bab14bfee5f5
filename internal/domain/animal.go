package domain

import "time"

// Estados posibles de un animal dentro de la plataforma.
const (
	AnimalStatusAvailable = "available"
	AnimalStatusAdopted   = "adopted"
)

type Animal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Gender      string    `json:"gender"`
	Race        string    `json:"race"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	PictureKeys []string  `json:"picture_keys,omitempty"`
	PictureURLs []string  `json:"picture_urls,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
