package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chatshell-go/internal/model"
	"chatshell-go/internal/store"
	"chatshell-go/pkg/llm"
	"chatshell-go/pkg/log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrBusy 表示上一条消息的 AI 回复还没有完成。
	ErrBusy = errors.New("assistant is still typing")
	// ErrEmptyMessage 表示消息既没有文字也没有图片。
	ErrEmptyMessage = errors.New("message is empty")
)

const instrumentationName = "chatshell/service"

// SendObserver 接收一次发送过程中的进度，WebSocket 接口用它推送事件。
type SendObserver interface {
	UserMessage(msg model.Message)
	Typing(typing bool)
	AIMessage(msg model.Message)
}

type nopObserver struct{}

func (nopObserver) UserMessage(model.Message) {}
func (nopObserver) Typing(bool) {}
func (nopObserver) AIMessage(model.Message) {}

// SendResult 是一次发送的结果。AIMessage 在回复未能写入时为 nil。
type SendResult struct {
	UserMessage model.Message  `json:"userMessage"`
	AIMessage   *model.Message `json:"aiMessage,omitempty"`
}

// ChatService 定义了聊天操作的接口。
type ChatService interface {
	// SendMessage 追加用户消息，等待模拟的 AI 回复并追加到同一聊天室。
	// 回复期间 typing 标记为 true，任何路径结束后都会清除。
	// ctx 取消时用户消息保留，回复被丢弃。
	SendMessage(ctx context.Context, chatID, content, image string, obs SendObserver) (*SendResult, error)
}

type chatService struct {
	conversations store.ConversationStore
	llmClient     llm.Client
	tracer        trace.Tracer
	sent          metric.Int64Counter
	failed        metric.Int64Counter
	replyLatency  metric.Float64Histogram
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(conversations store.ConversationStore, llmClient llm.Client) ChatService {
	meter := otel.Meter(instrumentationName)
	s := &chatService{
		conversations: conversations,
		llmClient:     llmClient,
		tracer:        otel.Tracer(instrumentationName),
	}

	var err error
	if s.sent, err = meter.Int64Counter("chat.messages.sent",
		metric.WithDescription("Messages appended by the send flow")); err != nil {
		log.Warnw("创建指标失败", "metric", "chat.messages.sent", "error", err)
	}
	if s.failed, err = meter.Int64Counter("chat.replies.failed",
		metric.WithDescription("AI replies that were not appended")); err != nil {
		log.Warnw("创建指标失败", "metric", "chat.replies.failed", "error", err)
	}
	if s.replyLatency, err = meter.Float64Histogram("chat.reply.latency",
		metric.WithUnit("ms"), metric.WithDescription("Time from user message to AI reply")); err != nil {
		log.Warnw("创建指标失败", "metric", "chat.reply.latency", "error", err)
	}
	return s
}

func (s *chatService) SendMessage(ctx context.Context, chatID, content, image string, obs SendObserver) (*SendResult, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	content = strings.TrimSpace(content)
	if content == "" && image == "" {
		return nil, ErrEmptyMessage
	}

	ctx, span := s.tracer.Start(ctx, "ChatService.SendMessage",
		trace.WithAttributes(attribute.String("chat.id", chatID), attribute.Bool("chat.has_image", image != "")))
	defer span.End()

	if !s.conversations.StartTyping() {
		span.SetStatus(codes.Error, ErrBusy.Error())
		return nil, ErrBusy
	}
	defer func() {
		s.conversations.SetTyping(false)
		obs.Typing(false)
	}()

	userMsg, err := s.conversations.AddMessage(ctx, chatID, model.MessageInput{
		Content: content,
		Sender:  model.SenderUser,
		Image:   image,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append user message")
		return nil, err
	}
	s.count(ctx, s.sent, model.SenderUser)
	obs.UserMessage(userMsg)
	obs.Typing(true)

	result := &SendResult{UserMessage: userMsg}
	started := time.Now()

	reply, err := s.generateReply(ctx, content)
	if err != nil {
		return result, s.replyFailed(ctx, span, chatID, err)
	}

	// 回复期间聊天室可能已被删除
	if _, ok := s.conversations.GetChatroom(chatID); !ok {
		return result, s.replyFailed(ctx, span, chatID, store.ErrChatroomNotFound)
	}
	aiMsg, err := s.conversations.AddMessage(ctx, chatID, model.MessageInput{Content: reply, Sender: model.SenderAI})
	if err != nil {
		return result, s.replyFailed(ctx, span, chatID, err)
	}

	s.count(ctx, s.sent, model.SenderAI)
	if s.replyLatency != nil {
		s.replyLatency.Record(ctx, float64(time.Since(started).Milliseconds()))
	}
	result.AIMessage = &aiMsg
	obs.AIMessage(aiMsg)
	return result, nil
}

func (s *chatService) generateReply(ctx context.Context, content string) (string, error) {
	if err := s.llmClient.SimulateTypingDelay(ctx); err != nil {
		return "", err
	}
	return s.llmClient.GenerateResponse(ctx, content)
}

func (s *chatService) replyFailed(ctx context.Context, span trace.Span, chatID string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "ai reply")
	s.count(ctx, s.failed, model.SenderAI)
	log.Warnw("AI 回复未写入", "chatId", chatID, "error", err)
	return fmt.Errorf("ai reply: %w", err)
}

func (s *chatService) count(ctx context.Context, counter metric.Int64Counter, sender model.Sender) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("sender", string(sender))))
}
