package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"adopet/internal/domain"
	"adopet/internal/repository"
)

// UserLookup resuelve usuarios por id; lo satisface repository.PgUserRepository.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
}

// ChatService coordina chats uno-a-uno y sus mensajes. No guarda estado
// entre llamadas; todo conflicto de concurrencia lo resuelve el store.
type ChatService struct {
	chats    repository.ChatRepository
	messages repository.MessageRepository
	users    UserLookup
}

var (
	ErrChatServiceNotConfigured = errors.New("chat service not configured")
	ErrInvalidParticipant       = errors.New("invalid participant")
	ErrChatUserNotFound         = errors.New("user not found")
	ErrInvalidContent           = errors.New("invalid content")
	ErrChatNotFound             = errors.New("chat not found")
	ErrChatForbidden            = errors.New("forbidden")
)

const maxMessageContentLen = 4000

func NewChatService(chats repository.ChatRepository, messages repository.MessageRepository, users UserLookup) *ChatService {
	return &ChatService{
		chats:    chats,
		messages: messages,
		users:    users,
	}
}

// CreateChat devuelve el chat del par {caller, other}, creándolo si no
// existe. Es idempotente: dos llamadas con el mismo par, en cualquier
// orden de participantes, devuelven el mismo chat.
func (s *ChatService) CreateChat(ctx context.Context, callerID, otherID string) (domain.Chat, error) {
	if s == nil || s.chats == nil || s.users == nil {
		return domain.Chat{}, ErrChatServiceNotConfigured
	}

	callerID = strings.TrimSpace(callerID)
	otherID = strings.TrimSpace(otherID)
	if callerID == "" || otherID == "" || callerID == otherID {
		return domain.Chat{}, ErrInvalidParticipant
	}

	if _, err := s.users.GetByID(ctx, otherID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Chat{}, ErrChatUserNotFound
		}
		return domain.Chat{}, err
	}

	return s.findOrCreateChat(ctx, callerID, otherID)
}

// PostMessage persiste un mensaje de caller a receiver, resolviendo (o
// creando) antes el chat del par según la semántica de CreateChat.
func (s *ChatService) PostMessage(ctx context.Context, callerID, receiverID, content string) (domain.Message, error) {
	if s == nil || s.chats == nil || s.messages == nil || s.users == nil {
		return domain.Message{}, ErrChatServiceNotConfigured
	}

	// El contenido se guarda byte a byte; el recorte es solo para detectar vacío.
	if strings.TrimSpace(content) == "" {
		return domain.Message{}, ErrInvalidContent
	}
	if utf8.RuneCountInString(content) > maxMessageContentLen {
		return domain.Message{}, ErrInvalidContent
	}

	chat, err := s.CreateChat(ctx, callerID, receiverID)
	if err != nil {
		return domain.Message{}, err
	}

	msg := domain.Message{
		ID:         uuid.NewString(),
		ChatID:     chat.ID,
		SenderID:   strings.TrimSpace(callerID),
		ReceiverID: strings.TrimSpace(receiverID),
		Content:    content,
		SentAt:     time.Now().UTC(),
	}
	return s.messages.Create(ctx, msg)
}

// GetChat devuelve un chat con sus mensajes en orden de envío. Solo los
// participantes pueden leerlo.
func (s *ChatService) GetChat(ctx context.Context, callerID, chatID string) (domain.ChatWithMessages, error) {
	if s == nil || s.chats == nil || s.messages == nil {
		return domain.ChatWithMessages{}, ErrChatServiceNotConfigured
	}

	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return domain.ChatWithMessages{}, ErrChatNotFound
	}

	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChatWithMessages{}, ErrChatNotFound
		}
		return domain.ChatWithMessages{}, err
	}
	if !chat.HasParticipant(strings.TrimSpace(callerID)) {
		return domain.ChatWithMessages{}, ErrChatForbidden
	}

	messages, err := s.messages.ListByChatID(ctx, chat.ID)
	if err != nil {
		return domain.ChatWithMessages{}, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return domain.ChatWithMessages{Chat: chat, Messages: messages}, nil
}

// ListChats devuelve todos los chats en los que participa el usuario.
func (s *ChatService) ListChats(ctx context.Context, callerID string) ([]domain.Chat, error) {
	if s == nil || s.chats == nil {
		return nil, ErrChatServiceNotConfigured
	}

	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return nil, ErrInvalidParticipant
	}

	chats, err := s.chats.ListByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if chats == nil {
		chats = []domain.Chat{}
	}
	return chats, nil
}

func (s *ChatService) findOrCreateChat(ctx context.Context, callerID, otherID string) (domain.Chat, error) {
	chat, err := s.chats.GetByPair(ctx, callerID, otherID)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Chat{}, err
	}

	chat = domain.Chat{
		ID:        uuid.NewString(),
		UserAID:   callerID,
		UserBID:   otherID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		// Perder la carrera de inserción equivale a encontrar el chat:
		// otro proceso creó el par primero.
		if repository.IsUniqueViolation(err) {
			return s.chats.GetByPair(ctx, callerID, otherID)
		}
		return domain.Chat{}, err
	}
	return chat, nil
}
