package llm

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	"chatshell-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResponse_KeywordOverrides(t *testing.T) {
	c := NewClient(config.AIConfig{}, rand.NewPCG(1, 2))
	cases := []struct{ input, want string }{
		{"Hello there", overrides[0].response},
		{"HI", overrides[0].response},
		{"can you HELP me", overrides[1].response},
		{"thanks a lot", overrides[2].response},
		{"hello, help, thank you", overrides[0].response},
	}
	for _, tc := range cases {
		input, want := tc.input, tc.want
		got, err := c.GenerateResponse(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, want, got, input)
	}
}

func TestGenerateResponse_BasePool(t *testing.T) {
	c := NewClient(config.AIConfig{}, rand.NewPCG(3, 4))
	for i := 0; i < 50; i++ {
		got, err := c.GenerateResponse(context.Background(), "quantum computers")
		require.NoError(t, err)
		assert.Contains(t, baseResponses, got)
	}
}

func TestGenerateResponse_FollowUp(t *testing.T) {
	c := NewClient(config.AIConfig{FollowUpProbability: 1}, rand.NewPCG(5, 6))
	got, err := c.GenerateResponse(context.Background(), "thanks")
	require.NoError(t, err)

	prefix := overrides[2].response + " "
	require.True(t, strings.HasPrefix(got, prefix))
	assert.True(t, slices.Contains(followUps, strings.TrimPrefix(got, prefix)))
}

func TestDelays_Cancelled(t *testing.T) {
	c := NewClient(config.AIConfig{
		MinThinking: time.Hour, MaxThinking: 2 * time.Hour,
		MinTyping: time.Hour, MaxTyping: 2 * time.Hour,
	}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GenerateResponse(ctx, "hi")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, c.SimulateTypingDelay(ctx), context.Canceled)
}

func TestBetween(t *testing.T) {
	c := NewClient(config.AIConfig{}, rand.NewPCG(7, 8)).(*simulatedClient)
	for i := 0; i < 100; i++ {
		d := c.between(time.Second, 3*time.Second)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.Less(t, d, 3*time.Second)
	}
	assert.Equal(t, time.Second, c.between(time.Second, time.Second))
}
