package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"adopet/internal/domain"
	"adopet/internal/service"
)

type stubChatRepo struct {
	chats   []domain.Chat
	listErr error
}

func (s *stubChatRepo) Create(_ context.Context, chat domain.Chat) error {
	s.chats = append(s.chats, chat)
	return nil
}

func (s *stubChatRepo) GetByID(_ context.Context, id string) (domain.Chat, error) {
	for _, c := range s.chats {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Chat{}, pgx.ErrNoRows
}

func (s *stubChatRepo) GetByPair(_ context.Context, userID, otherID string) (domain.Chat, error) {
	for _, c := range s.chats {
		if (c.UserAID == userID && c.UserBID == otherID) || (c.UserAID == otherID && c.UserBID == userID) {
			return c, nil
		}
	}
	return domain.Chat{}, pgx.ErrNoRows
}

func (s *stubChatRepo) ListByUser(_ context.Context, userID string) ([]domain.Chat, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.Chat
	for _, c := range s.chats {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubMessageRepo struct {
	messages []domain.Message
}

func (s *stubMessageRepo) Create(_ context.Context, message domain.Message) (domain.Message, error) {
	message.Seq = int64(len(s.messages) + 1)
	s.messages = append(s.messages, message)
	return message, nil
}

func (s *stubMessageRepo) ListByChatID(_ context.Context, chatID string) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range s.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}

type stubUserLookup struct {
	ids map[string]bool
}

func (s *stubUserLookup) GetByID(_ context.Context, id string) (domain.User, error) {
	if s.ids[id] {
		return domain.User{ID: id}, nil
	}
	return domain.User{}, pgx.ErrNoRows
}

type chatTestEnv struct {
	router   *gin.Engine
	jwtSvc   *service.JWTService
	chats    *stubChatRepo
	messages *stubMessageRepo
}

func newChatTestEnv(t *testing.T, userIDs ...string) *chatTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lookup := &stubUserLookup{ids: make(map[string]bool)}
	for _, id := range userIDs {
		lookup.ids[id] = true
	}
	chats := &stubChatRepo{}
	messages := &stubMessageRepo{}

	logger := zap.NewNop()
	jwtSvc := service.NewJWTService("test-secret", 15*time.Minute, time.Hour)
	chatSvc := service.NewChatService(chats, messages, lookup)

	r := gin.New()
	guard := JWTAuthMiddleware(jwtSvc)
	h := NewChatHandler(logger, chatSvc)
	grp := r.Group("/chats", guard)
	grp.POST("", h.CreateChat)
	grp.POST("/messages", h.PostMessage)
	grp.GET("", h.ListChats)
	grp.GET("/:chatId", h.GetChat)

	return &chatTestEnv{router: r, jwtSvc: jwtSvc, chats: chats, messages: messages}
}

func (e *chatTestEnv) token(t *testing.T, userID string) string {
	t.Helper()
	pair, err := e.jwtSvc.GeneratePair(domain.User{ID: userID, Email: userID + "@example.com"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	return pair.AccessToken
}

func (e *chatTestEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoints_AuthGate(t *testing.T) {
	env := newChatTestEnv(t, "u1", "u2")

	// Sin credencial, con credencial adulterada y con firma ajena: 401
	// y el dominio nunca se ejecuta (no se crea ningún chat).
	valid := env.token(t, "u1")
	foreign := service.NewJWTService("other-secret", 15*time.Minute, time.Hour)
	foreignPair, err := foreign.GeneratePair(domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("generate foreign pair: %v", err)
	}

	tokens := []string{
		"",
		valid + "xx",
		foreignPair.AccessToken,
	}
	for i, token := range tokens {
		rec := env.do(http.MethodPost, "/chats", token, gin.H{"userId": "u2"})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("case %d: expected 401, got %d", i, rec.Code)
		}
	}
	if len(env.chats.chats) != 0 {
		t.Fatalf("expected no chat side effects, got %d", len(env.chats.chats))
	}
}

func TestChatEndpoints_ExpiredToken(t *testing.T) {
	env := newChatTestEnv(t, "u1", "u2")

	shortLived := service.NewJWTService("test-secret", time.Nanosecond, time.Hour)
	pair, err := shortLived.GeneratePair(domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	rec := env.do(http.MethodPost, "/chats", pair.AccessToken, gin.H{"userId": "u2"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(env.chats.chats) != 0 {
		t.Fatalf("expected no chat side effects")
	}
}

func TestCreateChatEndpoint(t *testing.T) {
	env := newChatTestEnv(t, "u1", "u2")
	token := env.token(t, "u1")

	rec := env.do(http.MethodPost, "/chats", token, gin.H{"userId": "u2"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Chat domain.Chat `json:"chat"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Chat.UserAID != "u1" || resp.Chat.UserBID != "u2" {
		t.Fatalf("unexpected chat: %+v", resp.Chat)
	}

	// Repetir la llamada devuelve el mismo chat sin duplicar.
	rec = env.do(http.MethodPost, "/chats", token, gin.H{"userId": "u2"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(env.chats.chats) != 1 {
		t.Fatalf("expected 1 chat record, got %d", len(env.chats.chats))
	}
}

func TestCreateChatEndpoint_BusinessErrors(t *testing.T) {
	env := newChatTestEnv(t, "u1", "u2")
	token := env.token(t, "u1")

	rec := env.do(http.MethodPost, "/chats", token, gin.H{"userId": "u1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("self chat: expected 400, got %d", rec.Code)
	}

	rec = env.do(http.MethodPost, "/chats", token, gin.H{"userId": "ghost"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown user: expected 400, got %d", rec.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "user not found" {
		t.Fatalf("expected 'user not found', got %q", resp.Error)
	}
}

func TestPostMessageEndpoint(t *testing.T) {
	env := newChatTestEnv(t, "u1", "u2")
	token := env.token(t, "u1")

	rec := env.do(http.MethodPost, "/chats/messages", token, gin.H{"receiverId": "u2", "content": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty content: expected 400, got %d", rec.Code)
	}
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Error != "invalid content" {
		t.Fatalf("expected 'invalid content', got %q", errResp.Error)
	}

	rec = env.do(http.MethodPost, "/chats/messages", token, gin.H{"receiverId": "u2", "content": "hola"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message domain.Message `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message.Content != "hola" || resp.Message.SenderID != "u1" {
		t.Fatalf("unexpected message: %+v", resp.Message)
	}
	if len(env.chats.chats) != 1 {
		t.Fatalf("expected chat auto-created, got %d", len(env.chats.chats))
	}
}

func TestListChatsEndpoint_StoreFailureIsOpaque(t *testing.T) {
	env := newChatTestEnv(t, "u1")
	env.chats.listErr = errors.New("dial tcp 10.0.0.7:5432: connection refused")

	rec := env.do(http.MethodGet, "/chats", env.token(t, "u1"), nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
	}
	// La causa interna no viaja al cliente.
	if rec.Body.String() != `{"error":"internal server error"}` {
		t.Fatalf("expected opaque body, got %s", rec.Body.String())
	}
}

func TestGetChatEndpoint_AccessControl(t *testing.T) {
	env := newChatTestEnv(t, "u1", "u2", "u3")

	rec := env.do(http.MethodPost, "/chats/messages", env.token(t, "u1"), gin.H{"receiverId": "u2", "content": "hola"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed message: expected 201, got %d", rec.Code)
	}
	chatID := env.chats.chats[0].ID

	rec = env.do(http.MethodGet, "/chats/"+chatID, env.token(t, "u3"), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("outsider: expected 400, got %d", rec.Code)
	}

	for _, caller := range []string{"u1", "u2"} {
		rec = env.do(http.MethodGet, "/chats/"+chatID, env.token(t, caller), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("participant %s: expected 200, got %d", caller, rec.Code)
		}
		var resp domain.ChatWithMessages
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(resp.Messages) != 1 || resp.Messages[0].Content != "hola" {
			t.Fatalf("unexpected messages: %+v", resp.Messages)
		}
	}
}

func TestListChatsEndpoint(t *testing.T) {
	env := newChatTestEnv(t, "u1", "u2")
	token := env.token(t, "u1")

	rec := env.do(http.MethodGet, "/chats", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Chats []domain.Chat `json:"chats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Chats == nil || len(resp.Chats) != 0 {
		t.Fatalf("expected empty list, got %+v", resp.Chats)
	}

	if rec := env.do(http.MethodPost, "/chats", token, gin.H{"userId": "u2"}); rec.Code != http.StatusCreated {
		t.Fatalf("seed chat: expected 201, got %d", rec.Code)
	}
	rec = env.do(http.MethodGet, "/chats", token, nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Chats) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(resp.Chats))
	}
}
