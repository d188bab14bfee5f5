package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adopet/internal/service"
)

// ChatHandler mantiene dependencias para endpoints de chats y mensajes.
type ChatHandler struct {
	logger *zap.Logger
	chats  *service.ChatService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, chats *service.ChatService) *ChatHandler {
	return &ChatHandler{
		logger: logger,
		chats:  chats,
	}
}

// CreateChat maneja POST /chats.
func (h *ChatHandler) CreateChat(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	chat, err := h.chats.CreateChat(c.Request.Context(), claims.UserID, req.UserID)
	if err != nil {
		respondDomainError(c, h.logger, "CreateChat", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"chat": chat})
}

// PostMessage maneja POST /chats/messages.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	// content se valida en el servicio para distinguir vacío de ausente.
	var req struct {
		ReceiverID string `json:"receiverId" binding:"required"`
		Content    string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg, err := h.chats.PostMessage(c.Request.Context(), claims.UserID, req.ReceiverID, req.Content)
	if err != nil {
		respondDomainError(c, h.logger, "PostMessage", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// GetChat maneja GET /chats/:chatId.
func (h *ChatHandler) GetChat(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	out, err := h.chats.GetChat(c.Request.Context(), claims.UserID, c.Param("chatId"))
	if err != nil {
		respondDomainError(c, h.logger, "GetChat", err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// ListChats maneja GET /chats.
func (h *ChatHandler) ListChats(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	chats, err := h.chats.ListChats(c.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(c, h.logger, "ListChats", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": chats})
}
