package storage

import (
	"context"
	"errors"
	"time"
)

// PictureStore abstrae el almacenamiento de imágenes de animales.
type PictureStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Remove(ctx context.Context, key string) error
	// URL devuelve un enlace de lectura temporal para la clave dada.
	URL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type disabledStore struct {
	reason string
}

// NewDisabledStore devuelve un PictureStore que rechaza toda operación.
// Útil cuando el object storage no está configurado en el ambiente.
func NewDisabledStore(reason string) PictureStore {
	if reason == "" {
		reason = "picture store disabled"
	}
	return &disabledStore{reason: reason}
}

func (s *disabledStore) Put(context.Context, string, string, []byte) error {
	return errors.New(s.reason)
}

func (s *disabledStore) Remove(context.Context, string) error {
	return errors.New(s.reason)
}

func (s *disabledStore) URL(context.Context, string, time.Duration) (string, error) {
	return "", errors.New(s.reason)
}
