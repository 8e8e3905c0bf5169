package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"chatshell-go/internal/config"
	"chatshell-go/internal/model"
	"chatshell-go/internal/repository"
	"chatshell-go/internal/store"
	"chatshell-go/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversations(t *testing.T) (store.ConversationStore, string) {
	t.Helper()
	conversations := store.NewConversationStore(repository.NewMemorySnapshotRepository())
	id, err := conversations.CreateChatroom(context.Background(), "Trip Planning")
	require.NoError(t, err)
	return conversations, id
}

func TestSendMessage_AppendsUserAndReply(t *testing.T) {
	conversations, id := newConversations(t)
	svc := NewChatService(conversations, llm.NewClient(config.AIConfig{}, rand.NewPCG(1, 1)))
	obs := &recordingObserver{}

	result, err := svc.SendMessage(context.Background(), id, "  Hi  ", "", obs)
	require.NoError(t, err)
	assert.Equal(t, "Hi", result.UserMessage.Content)
	require.NotNil(t, result.AIMessage)
	assert.Equal(t, "Hello! It's great to meet you. How can I assist you today?", result.AIMessage.Content)
	assert.Equal(t, model.SenderAI, result.AIMessage.Sender)

	msgs := conversations.GetChatMessages(id, 1, 20)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.SenderUser, msgs[0].Sender)
	assert.Equal(t, model.SenderAI, msgs[1].Sender)
	assert.False(t, conversations.IsTyping())
	assert.Equal(t, []string{"user", "typing:on", "ai", "typing:off"}, obs.list())
}

func TestSendMessage_ImageOnly(t *testing.T) {
	conversations, id := newConversations(t)
	svc := NewChatService(conversations, llm.NewClient(config.AIConfig{}, nil))

	result, err := svc.SendMessage(context.Background(), id, "", "data:image/png;base64,AA==", nil)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AA==", result.UserMessage.Image)
	assert.NotNil(t, result.AIMessage)
}

func TestSendMessage_Rejections(t *testing.T) {
	conversations, id := newConversations(t)
	svc := NewChatService(conversations, llm.NewClient(config.AIConfig{}, nil))

	_, err := svc.SendMessage(context.Background(), id, "   ", "", nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.SendMessage(context.Background(), "missing", "hello", "", nil)
	assert.ErrorIs(t, err, store.ErrChatroomNotFound)
	assert.False(t, conversations.IsTyping())

	conversations.SetTyping(true)
	_, err = svc.SendMessage(context.Background(), id, "hello", "", nil)
	assert.ErrorIs(t, err, ErrBusy)
	assert.Zero(t, conversations.MessageCount(id))
	assert.True(t, conversations.IsTyping())
}

func TestSendMessage_BusyWhileReplying(t *testing.T) {
	conversations, id := newConversations(t)
	stub := newStubLLM("done")
	svc := NewChatService(conversations, stub)

	errc := make(chan error, 1)
	go func() {
		_, err := svc.SendMessage(context.Background(), id, "first", "", nil)
		errc <- err
	}()
	<-stub.started
	assert.True(t, conversations.IsTyping())

	_, err := svc.SendMessage(context.Background(), id, "second", "", nil)
	assert.ErrorIs(t, err, ErrBusy)

	close(stub.release)
	require.NoError(t, <-errc)
	assert.Equal(t, 2, conversations.MessageCount(id))
	assert.False(t, conversations.IsTyping())
}

func TestSendMessage_CancelledKeepsUserMessage(t *testing.T) {
	conversations, id := newConversations(t)
	stub := newStubLLM("never")
	svc := NewChatService(conversations, stub)
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	var result *SendResult
	go func() {
		var err error
		result, err = svc.SendMessage(ctx, id, "hello", "", nil)
		errc <- err
	}()
	<-stub.started
	cancel()

	err := <-errc
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Nil(t, result.AIMessage)
	assert.Equal(t, 1, conversations.MessageCount(id))
	assert.False(t, conversations.IsTyping())
}

func TestSendMessage_ChatDeletedMidFlight(t *testing.T) {
	conversations, id := newConversations(t)
	stub := newStubLLM("late")
	svc := NewChatService(conversations, stub)

	errc := make(chan error, 1)
	go func() {
		_, err := svc.SendMessage(context.Background(), id, "hello", "", nil)
		errc <- err
	}()
	<-stub.started
	require.NoError(t, conversations.DeleteChatroom(context.Background(), id))
	close(stub.release)

	assert.ErrorIs(t, <-errc, store.ErrChatroomNotFound)
	assert.Zero(t, conversations.MessageCount(id))
	assert.False(t, conversations.IsTyping())
}

func TestSendMessage_GeneratorFailure(t *testing.T) {
	conversations, id := newConversations(t)
	stub := newStubLLM("")
	stub.err = errors.New("boom")
	close(stub.release)
	svc := NewChatService(conversations, stub)

	result, err := svc.SendMessage(context.Background(), id, "hello", "", nil)
	assert.Error(t, err)
	require.NotNil(t, result)
	assert.Nil(t, result.AIMessage)
	assert.False(t, conversations.IsTyping())
}
