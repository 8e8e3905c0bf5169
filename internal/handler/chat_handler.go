package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"chatshell-go/internal/config"
	"chatshell-go/internal/model"
	"chatshell-go/internal/service"
	"chatshell-go/internal/store"
	"chatshell-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

const writeWait = 10 * time.Second

// WebSocket 推送给客户端的事件类型。
const (
	wsEventMessage = "message"
	wsEventTyping  = "typing"
	wsEventError   = "error"
)

type wsInbound struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}

type wsOutbound struct {
	Type     string         `json:"type"`
	Message  *model.Message `json:"message,omitempty"`
	IsTyping *bool          `json:"isTyping,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ChatHandler 通过 WebSocket 推送发送流程中的消息与 typing 事件。
type ChatHandler struct {
	chatService service.ChatService
	cfg         config.ChatConfig
}

// NewChatHandler 创建一个新的 ChatHandler 实例。
func NewChatHandler(chatService service.ChatService, cfg config.ChatConfig) *ChatHandler {
	return &ChatHandler{chatService: chatService, cfg: cfg}
}

// wsConn 串行化对同一连接的写操作。
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) send(event wsOutbound) {
	b, err := json.Marshal(event)
	if err != nil {
		log.Errorf("序列化 WebSocket 事件失败: %v", err)
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := w.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		log.Warnf("写入 WebSocket 失败: %v", err)
	}
}

func (w *wsConn) sendError(message string) {
	w.send(wsOutbound{Type: wsEventError, Error: message})
}

// UserMessage、Typing、AIMessage 实现 service.SendObserver。
func (w *wsConn) UserMessage(msg model.Message) {
	w.send(wsOutbound{Type: wsEventMessage, Message: &msg})
}

func (w *wsConn) Typing(typing bool) {
	w.send(wsOutbound{Type: wsEventTyping, IsTyping: &typing})
}

func (w *wsConn) AIMessage(msg model.Message) {
	w.send(wsOutbound{Type: wsEventMessage, Message: &msg})
}

// Handle 升级连接后循环读取客户端消息。每条消息在独立的协程中发送，
// 回复进行中再次发送会收到 error 事件。连接断开时取消进行中的回复。
func (h *ChatHandler) Handle(c *gin.Context) {
	chatID := c.Param("id")
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("Failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	if h.cfg.MaxImageBytes > 0 {
		// base64 膨胀约 4/3，再留出 JSON 字段的余量
		conn.SetReadLimit(h.cfg.MaxImageBytes*4/3 + 64*1024)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	ws := &wsConn{conn: conn}
	log.Infow("WebSocket 连接已建立", "chatId", chatID)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("WebSocket 读取失败: %v", err)
			}
			log.Infow("WebSocket 连接已关闭", "chatId", chatID)
			return
		}

		var in wsInbound
		if err := json.Unmarshal(payload, &in); err != nil {
			ws.sendError("无效的消息格式")
			continue
		}
		if err := validateImage(in.Image, h.cfg.MaxImageBytes); err != nil {
			ws.sendError(err.Error())
			continue
		}

		wg.Add(1)
		go func(in wsInbound) {
			defer wg.Done()
			if _, err := h.chatService.SendMessage(ctx, chatID, in.Content, in.Image, ws); err != nil {
				ws.sendError(describeSendError(err))
			}
		}(in)
	}
}

func describeSendError(err error) string {
	switch {
	case errors.Is(err, service.ErrBusy):
		return "AI 正在回复，请稍后再发送"
	case errors.Is(err, service.ErrEmptyMessage):
		return "消息内容不能为空"
	case errors.Is(err, store.ErrChatroomNotFound):
		return "聊天室不存在"
	case errors.Is(err, context.Canceled):
		return "回复已取消"
	default:
		return "消息发送失败，请重试"
	}
}
