package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adopet/internal/service"
)

// businessErrors son las fallas de regla de negocio que viajan al cliente
// tal cual, con estado 400. Cualquier otro error es una falla interna.
var businessErrors = []error{
	service.ErrInvalidParticipant,
	service.ErrChatUserNotFound,
	service.ErrInvalidContent,
	service.ErrChatNotFound,
	service.ErrChatForbidden,
	service.ErrInvalidAnimalData,
	service.ErrTooManyPictures,
	service.ErrAnimalNotFound,
	service.ErrAnimalForbidden,
	service.ErrInvalidStatus,
	service.ErrUserNotFound,
	service.ErrInvalidEmail,
	service.ErrInvalidName,
	service.ErrInvalidPassword,
	service.ErrEmailTaken,
}

// respondDomainError traduce el resultado fallido de una operación de
// dominio: errores de negocio → 400 con el mensaje del error; el resto →
// 500 opaco, registrando el handler y la causa sin filtrarla al cliente.
func respondDomainError(c *gin.Context, logger *zap.Logger, handlerName string, err error) {
	for _, known := range businessErrors {
		if errors.Is(err, known) {
			c.JSON(http.StatusBadRequest, gin.H{"error": known.Error()})
			return
		}
	}
	if logger != nil {
		logger.Error("handler failed", zap.String("handler", handlerName), zap.Error(err))
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
