package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"adopet/internal/domain"
	"adopet/internal/repository"
	"adopet/internal/storage"
)

// AnimalService coordina el registro y la publicación de animales.
type AnimalService struct {
	logger   *zap.Logger
	animals  repository.AnimalRepository
	pictures storage.PictureStore
}

var (
	ErrAnimalServiceNotConfigured = errors.New("animal service not configured")
	ErrInvalidAnimalData          = errors.New("invalid animal data")
	ErrTooManyPictures            = errors.New("too many pictures")
	ErrAnimalNotFound             = errors.New("animal not found")
	ErrAnimalForbidden            = errors.New("forbidden")
	ErrInvalidStatus              = errors.New("invalid status")
)

const (
	maxPicturesPerAnimal = 5
	pictureURLTTL        = time.Hour
)

func NewAnimalService(logger *zap.Logger, animals repository.AnimalRepository, pictures storage.PictureStore) *AnimalService {
	return &AnimalService{
		logger:   logger,
		animals:  animals,
		pictures: pictures,
	}
}

// PictureUpload es una imagen recibida en el registro de un animal.
type PictureUpload struct {
	Data        []byte
	ContentType string
}

type RegisterAnimalInput struct {
	OwnerID     string
	Name        string
	Type        string
	Gender      string
	Race        string
	Description string
	Pictures    []PictureUpload
}

func (s *AnimalService) Register(ctx context.Context, input RegisterAnimalInput) (domain.Animal, error) {
	if s == nil || s.animals == nil {
		return domain.Animal{}, ErrAnimalServiceNotConfigured
	}

	ownerID := strings.TrimSpace(input.OwnerID)
	name := strings.TrimSpace(input.Name)
	animalType := strings.TrimSpace(input.Type)
	gender := strings.TrimSpace(input.Gender)
	race := strings.TrimSpace(input.Race)

	if ownerID == "" || name == "" || animalType == "" || gender == "" || race == "" {
		return domain.Animal{}, ErrInvalidAnimalData
	}
	if len(input.Pictures) > maxPicturesPerAnimal {
		return domain.Animal{}, ErrTooManyPictures
	}

	for _, pic := range input.Pictures {
		if len(pic.Data) == 0 {
			return domain.Animal{}, ErrInvalidAnimalData
		}
	}
	if len(input.Pictures) > 0 && s.pictures == nil {
		return domain.Animal{}, errors.New("picture store not configured")
	}

	id := uuid.NewString()
	keys := make([]string, 0, len(input.Pictures))
	for i, pic := range input.Pictures {
		key := fmt.Sprintf("animals/%s/%d", id, i)
		if err := s.pictures.Put(ctx, key, pic.ContentType, pic.Data); err != nil {
			s.removePictures(ctx, keys)
			return domain.Animal{}, err
		}
		keys = append(keys, key)
	}

	animal := domain.Animal{
		ID:          id,
		UserID:      ownerID,
		Name:        name,
		Type:        animalType,
		Gender:      gender,
		Race:        race,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.AnimalStatusAvailable,
		PictureKeys: keys,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.animals.Create(ctx, animal); err != nil {
		s.removePictures(ctx, keys)
		return domain.Animal{}, err
	}
	return animal, nil
}

// removePictures borra objetos ya subidos cuando el registro no llega a
// persistirse, para no dejar huérfanos en el bucket.
func (s *AnimalService) removePictures(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.pictures.Remove(ctx, key); err != nil && s.logger != nil {
			s.logger.Warn("remove orphan picture failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// ListAvailable devuelve los animales adoptables publicados por otros usuarios.
func (s *AnimalService) ListAvailable(ctx context.Context, callerID string) ([]domain.Animal, error) {
	if s == nil || s.animals == nil {
		return nil, ErrAnimalServiceNotConfigured
	}
	animals, err := s.animals.ListAvailable(ctx, strings.TrimSpace(callerID))
	if err != nil {
		return nil, err
	}
	return s.withPictureURLs(ctx, animals), nil
}

// ListMine devuelve los animales registrados por el usuario.
func (s *AnimalService) ListMine(ctx context.Context, callerID string) ([]domain.Animal, error) {
	if s == nil || s.animals == nil {
		return nil, ErrAnimalServiceNotConfigured
	}
	animals, err := s.animals.ListByUser(ctx, strings.TrimSpace(callerID))
	if err != nil {
		return nil, err
	}
	return s.withPictureURLs(ctx, animals), nil
}

// UpdateStatus cambia el estado de un animal; solo su dueño puede hacerlo.
func (s *AnimalService) UpdateStatus(ctx context.Context, callerID, animalID, status string) (domain.Animal, error) {
	if s == nil || s.animals == nil {
		return domain.Animal{}, ErrAnimalServiceNotConfigured
	}

	status = strings.ToLower(strings.TrimSpace(status))
	if status != domain.AnimalStatusAvailable && status != domain.AnimalStatusAdopted {
		return domain.Animal{}, ErrInvalidStatus
	}

	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return domain.Animal{}, ErrAnimalNotFound
	}

	animal, err := s.animals.GetByID(ctx, animalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Animal{}, ErrAnimalNotFound
		}
		return domain.Animal{}, err
	}
	if animal.UserID != strings.TrimSpace(callerID) {
		return domain.Animal{}, ErrAnimalForbidden
	}

	if err := s.animals.UpdateStatus(ctx, animal.ID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Animal{}, ErrAnimalNotFound
		}
		return domain.Animal{}, err
	}
	animal.Status = status
	return animal, nil
}

// withPictureURLs agrega enlaces temporales de lectura; si el store no
// puede firmar, la lista sale sin URLs en lugar de fallar.
func (s *AnimalService) withPictureURLs(ctx context.Context, animals []domain.Animal) []domain.Animal {
	if animals == nil {
		return []domain.Animal{}
	}
	if s.pictures == nil {
		return animals
	}
	for i := range animals {
		for _, key := range animals[i].PictureKeys {
			u, err := s.pictures.URL(ctx, key, pictureURLTTL)
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("presign picture failed", zap.String("key", key), zap.Error(err))
				}
				continue
			}
			animals[i].PictureURLs = append(animals[i].PictureURLs, u)
		}
	}
	return animals
}
