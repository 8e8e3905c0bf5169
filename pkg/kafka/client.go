// Package kafka 提供了把存储事件发布到 Kafka 的功能。
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"chatshell-go/internal/config"
	"chatshell-go/internal/model"
	"chatshell-go/pkg/log"

	"github.com/segmentio/kafka-go"
)

// Publisher 把已提交的存储事件写入 Kafka 主题。
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher 初始化 Kafka 生产者。写入是异步的，失败只记录日志。
func NewPublisher(cfg config.KafkaConfig) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(splitBrokers(cfg.Brokers)...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Errorf("写入 Kafka 失败: %d 条事件, error: %v", len(messages), err)
			}
		},
	}
	log.Infof("Kafka 生产者初始化成功, topic=%s", cfg.Topic)
	return &Publisher{writer: writer}
}

// Publish 发送一个存储事件。同一聊天室的事件使用相同的 key，保证分区内有序。
func (p *Publisher) Publish(ctx context.Context, event model.Event) error {
	msg, err := encodeEvent(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close 刷新缓冲并关闭生产者。
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func encodeEvent(event model.Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	key := event.ChatroomID
	if key == "" {
		key = event.Type
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}, nil
}

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
