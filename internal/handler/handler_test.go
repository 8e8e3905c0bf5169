package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chatshell-go/internal/config"
	"chatshell-go/internal/middleware"
	"chatshell-go/internal/model"
	"chatshell-go/internal/repository"
	"chatshell-go/internal/service"
	"chatshell-go/internal/store"
	"chatshell-go/pkg/countries"
	"chatshell-go/pkg/llm"
	"chatshell-go/pkg/otp"
	"chatshell-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	router        *gin.Engine
	sessions      store.SessionStore
	conversations store.ConversationStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := repository.NewMemorySnapshotRepository()
	conversations := store.NewConversationStore(repo)
	sessions := store.NewSessionStore(repo, conversations)

	otpService := otp.NewService(config.OTPConfig{}).WithRand(func(int) int { return 23456 })
	limiter := middleware.NewLimiterStore(600, 100, time.Minute)
	t.Cleanup(limiter.Stop)

	// 指向一个已关闭的地址，国家列表总是退回内置列表
	countryClient := countries.NewClient(config.CountriesConfig{URL: "http://127.0.0.1:1/countries", Timeout: time.Second})

	chatCfg := config.ChatConfig{PageSize: 20, MaxImageBytes: 1024}
	router := NewRouter(RouterDeps{
		AuthService:    service.NewAuthService(otpService, token.NewJWTManager("test", time.Minute), sessions),
		ChatService:    service.NewChatService(conversations, llm.NewClient(config.AIConfig{}, nil)),
		CountryService: service.NewCountryService(countryClient, time.Hour),
		Sessions:       sessions,
		Conversations:  conversations,
		OTPLimiter:     limiter,
		Chat:           chatCfg,
	})
	return &fixture{router: router, sessions: sessions, conversations: conversations}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	require.NoError(t, f.sessions.Login(context.Background(), model.User{ID: "u1", Phone: "5551234567", CountryCode: "+1"}))
}

func TestCountries_Fallback(t *testing.T) {
	f := newFixture(t)
	status, env := f.do(t, http.MethodGet, "/api/v1/countries", nil)
	require.Equal(t, http.StatusOK, status)

	var list []model.Country
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, countries.Fallback, list)
}

func TestAuthFlow(t *testing.T) {
	f := newFixture(t)

	status, _ := f.do(t, http.MethodPost, "/api/v1/auth/otp", gin.H{"phone": "12345", "countryCode": "+1"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env := f.do(t, http.MethodPost, "/api/v1/auth/otp", gin.H{"phone": "5551234567", "countryCode": "+1"})
	require.Equal(t, http.StatusOK, status)
	var challenge service.OTPChallenge
	require.NoError(t, json.Unmarshal(env.Data, &challenge))
	assert.Equal(t, "123456", challenge.OTP)

	status, _ = f.do(t, http.MethodPost, "/api/v1/auth/verify", gin.H{"challenge": challenge.Challenge, "otp": "12345"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.do(t, http.MethodPost, "/api/v1/auth/verify", gin.H{"challenge": challenge.Challenge, "otp": "000000"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, f.sessions.State().IsAuthenticated)

	status, _ = f.do(t, http.MethodPost, "/api/v1/auth/verify", gin.H{"challenge": "bogus", "otp": "123456"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = f.do(t, http.MethodPost, "/api/v1/auth/otp/resend", gin.H{"challenge": challenge.Challenge})
	require.Equal(t, http.StatusOK, status)
	var resent service.OTPChallenge
	require.NoError(t, json.Unmarshal(env.Data, &resent))

	status, _ = f.do(t, http.MethodPost, "/api/v1/auth/verify", gin.H{"challenge": resent.Challenge, "otp": "123456"})
	require.Equal(t, http.StatusOK, status)

	status, env = f.do(t, http.MethodGet, "/api/v1/auth/session", nil)
	require.Equal(t, http.StatusOK, status)
	var state model.SessionState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "5551234567", state.User.Phone)
}

func TestChatrooms_RequireSession(t *testing.T) {
	f := newFixture(t)
	status, _ := f.do(t, http.MethodGet, "/api/v1/chatrooms", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = f.do(t, http.MethodGet, "/api/v1/typing", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestChatroomLifecycle(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	status, _ := f.do(t, http.MethodPost, "/api/v1/chatrooms", gin.H{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = f.do(t, http.MethodPost, "/api/v1/chatrooms", gin.H{"title": strings.Repeat("x", 101)})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env := f.do(t, http.MethodPost, "/api/v1/chatrooms", gin.H{"title": "  Trip Planning  "})
	require.Equal(t, http.StatusCreated, status)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	room, exists := f.conversations.GetChatroom(created.ID)
	require.True(t, exists)
	assert.Equal(t, "Trip Planning", room.Title)

	_, _ = f.do(t, http.MethodPost, "/api/v1/chatrooms", gin.H{"title": "Groceries"})

	status, env = f.do(t, http.MethodGet, "/api/v1/chatrooms?q=trip", nil)
	require.Equal(t, http.StatusOK, status)
	var listed struct {
		Chatrooms   []model.Chatroom `json:"chatrooms"`
		SearchQuery string           `json:"searchQuery"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed.Chatrooms, 1)
	assert.Equal(t, "trip", listed.SearchQuery)

	// 不带 q 时沿用已有搜索词
	_, env = f.do(t, http.MethodGet, "/api/v1/chatrooms", nil)
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Len(t, listed.Chatrooms, 1)

	_, env = f.do(t, http.MethodGet, "/api/v1/chatrooms?q=", nil)
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Len(t, listed.Chatrooms, 2)

	status, _ = f.do(t, http.MethodPatch, "/api/v1/chatrooms/"+created.ID, gin.H{"title": "Rome"})
	require.Equal(t, http.StatusOK, status)
	room, _ = f.conversations.GetChatroom(created.ID)
	assert.Equal(t, "Rome", room.Title)

	status, _ = f.do(t, http.MethodPatch, "/api/v1/chatrooms/missing", gin.H{"title": "Rome"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = f.do(t, http.MethodDelete, "/api/v1/chatrooms/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status)
	_, exists = f.conversations.GetChatroom(created.ID)
	assert.False(t, exists)

	status, _ = f.do(t, http.MethodDelete, "/api/v1/chatrooms/missing", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestSeedAndLogout(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	status, _ := f.do(t, http.MethodPost, "/api/v1/chatrooms/seed", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, f.conversations.GetFilteredChatrooms(), 5)

	status, _ = f.do(t, http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, f.conversations.GetFilteredChatrooms())

	status, _ = f.do(t, http.MethodGet, "/api/v1/chatrooms", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMessages_SendAndPaginate(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	id, err := f.conversations.CreateChatroom(context.Background(), "room")
	require.NoError(t, err)

	status, _ := f.do(t, http.MethodGet, "/api/v1/chatrooms/missing/messages", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = f.do(t, http.MethodPost, "/api/v1/chatrooms/missing/messages", gin.H{"content": "hi"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.do(t, http.MethodPost, "/api/v1/chatrooms/"+id+"/messages", gin.H{"content": "  "})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env := f.do(t, http.MethodPost, "/api/v1/chatrooms/"+id+"/messages", gin.H{"content": "hello"})
	require.Equal(t, http.StatusOK, status)
	var result service.SendResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "hello", result.UserMessage.Content)
	require.NotNil(t, result.AIMessage)

	for i := 0; i < 2; i++ {
		_, _ = f.do(t, http.MethodPost, "/api/v1/chatrooms/"+id+"/messages", gin.H{"content": "more"})
	}

	status, env = f.do(t, http.MethodGet, "/api/v1/chatrooms/"+id+"/messages?page=1&limit=4", nil)
	require.Equal(t, http.StatusOK, status)
	var page struct {
		Messages []model.Message `json:"messages"`
		Total    int             `json:"total"`
		HasMore  bool            `json:"hasMore"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Messages, 4)
	assert.Equal(t, 6, page.Total)
	assert.True(t, page.HasMore)

	_, env = f.do(t, http.MethodGet, "/api/v1/chatrooms/"+id+"/messages?page=2&limit=4", nil)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Messages, 2)
	assert.Equal(t, "hello", page.Messages[0].Content)
	assert.False(t, page.HasMore)

	status, _ = f.do(t, http.MethodGet, "/api/v1/chatrooms/"+id+"/messages?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = f.do(t, http.MethodGet, "/api/v1/chatrooms/"+id+"/messages?page=2305843009213693828&limit=8", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Empty(t, page.Messages)
	assert.False(t, page.HasMore)

	status, env = f.do(t, http.MethodGet, "/api/v1/typing", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"isTyping":false}`, string(env.Data))
}

func TestMessages_ImageValidation(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	id, _ := f.conversations.CreateChatroom(context.Background(), "room")
	path := "/api/v1/chatrooms/" + id + "/messages"

	status, _ := f.do(t, http.MethodPost, path, gin.H{"image": "http://example.com/cat.png"})
	assert.Equal(t, http.StatusBadRequest, status)

	big := "data:image/png;base64," + base64.StdEncoding.EncodeToString(make([]byte, 2048))
	status, _ = f.do(t, http.MethodPost, path, gin.H{"image": big})
	assert.Equal(t, http.StatusBadRequest, status)

	small := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{1, 2, 3})
	status, env := f.do(t, http.MethodPost, path, gin.H{"image": small})
	require.Equal(t, http.StatusOK, status)
	var result service.SendResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, small, result.UserMessage.Image)
}

func TestValidateImage(t *testing.T) {
	assert.NoError(t, validateImage("", 10))
	assert.NoError(t, validateImage("data:image/svg+xml;base64,AAAA", 10))
	assert.Error(t, validateImage("data:text/plain;base64,AAAA", 10))
	assert.Error(t, validateImage("data:image/png;base64,!!!", 10))
	assert.Error(t, validateImage("data:image/png;base64,"+base64.StdEncoding.EncodeToString(make([]byte, 11)), 10))
}

func TestNormalizeTitle(t *testing.T) {
	title, err := normalizeTitle("  hi  ")
	require.NoError(t, err)
	assert.Equal(t, "hi", title)

	_, err = normalizeTitle(strings.Repeat("é", 100))
	assert.NoError(t, err)
	_, err = normalizeTitle(strings.Repeat("é", 101))
	assert.Error(t, err)
}

func TestWebSocket_StreamsSendEvents(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	id, _ := f.conversations.CreateChatroom(context.Background(), "room")

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/chatrooms/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	require.NoError(t, conn.WriteJSON(gin.H{"content": "thank you"}))

	var events []wsOutbound
	for len(events) < 4 {
		var ev wsOutbound
		require.NoError(t, conn.ReadJSON(&ev))
		events = append(events, ev)
	}

	assert.Equal(t, wsEventMessage, events[0].Type)
	assert.Equal(t, model.SenderUser, events[0].Message.Sender)
	assert.Equal(t, wsEventTyping, events[1].Type)
	assert.True(t, *events[1].IsTyping)
	assert.Equal(t, wsEventMessage, events[2].Type)
	assert.Equal(t, model.SenderAI, events[2].Message.Sender)
	assert.Contains(t, events[2].Message.Content, "You're very welcome!")
	assert.Equal(t, wsEventTyping, events[3].Type)
	assert.False(t, *events[3].IsTyping)

	// 格式错误的消息只返回 error 事件，连接保持
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	var ev wsOutbound
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, wsEventError, ev.Type)

	assert.Eventually(t, func() bool { return f.conversations.MessageCount(id) == 2 }, time.Second, 10*time.Millisecond)
}

func TestWebSocket_RequiresSession(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/chatrooms/x/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
