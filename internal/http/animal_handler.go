package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adopet/internal/service"
)

// AnimalHandler mantiene dependencias para endpoints de animales.
type AnimalHandler struct {
	logger  *zap.Logger
	animals *service.AnimalService
}

// NewAnimalHandler crea una instancia de AnimalHandler con dependencias necesarias.
func NewAnimalHandler(logger *zap.Logger, animals *service.AnimalService) *AnimalHandler {
	return &AnimalHandler{
		logger:  logger,
		animals: animals,
	}
}

// CreateAnimal maneja POST /animal (multipart: campos + hasta 5 "pictures").
func (h *AnimalHandler) CreateAnimal(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.logger.Warn("invalid create animal request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var pictures []service.PictureUpload
	for _, fileHeader := range form.File["pictures"] {
		file, err := fileHeader.Open()
		if err != nil {
			h.logger.Warn("open picture failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid picture"})
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			h.logger.Warn("read picture failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid picture"})
			return
		}
		pictures = append(pictures, service.PictureUpload{
			Data:        data,
			ContentType: fileHeader.Header.Get("Content-Type"),
		})
	}

	animal, err := h.animals.Register(c.Request.Context(), service.RegisterAnimalInput{
		OwnerID:     claims.UserID,
		Name:        c.PostForm("name"),
		Type:        c.PostForm("type"),
		Gender:      c.PostForm("gender"),
		Race:        c.PostForm("race"),
		Description: c.PostForm("description"),
		Pictures:    pictures,
	})
	if err != nil {
		respondDomainError(c, h.logger, "CreateAnimal", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"animal": animal})
}

// ListAvailable maneja GET /animals/available.
func (h *AnimalHandler) ListAvailable(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	animals, err := h.animals.ListAvailable(c.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(c, h.logger, "ListAvailableAnimals", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"animals": animals})
}

// ListMine maneja GET /animals/user.
func (h *AnimalHandler) ListMine(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	animals, err := h.animals.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(c, h.logger, "ListUserAnimals", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"animals": animals})
}

// UpdateStatus maneja PATCH /animal/:id.
func (h *AnimalHandler) UpdateStatus(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update animal status request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	animal, err := h.animals.UpdateStatus(c.Request.Context(), claims.UserID, c.Param("id"), req.Status)
	if err != nil {
		respondDomainError(c, h.logger, "UpdateAnimalStatus", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"animal": animal})
}
