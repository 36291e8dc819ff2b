// events публикует доменные события (новый комментарий, новое сообщение)
// в Kafka. Без брокеров используется Nop.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Типы событий.
const (
	TypeCommentCreated  = "comment.created"
	TypeContactReceived = "contact.received"
)

// Event — конверт события. Payload сериализуется в JSON как есть.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// New собирает событие с новым ID и текущим временем.
func New(typ string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// CommentCreated — payload события comment.created.
type CommentCreated struct {
	CommentID  string `json:"commentId"`
	PostID     string `json:"postId"`
	AuthorName string `json:"authorName"`
	Pending    bool   `json:"pending"`
}

// ContactReceived — payload события contact.received. Текст сообщения не публикуется.
type ContactReceived struct {
	MessageID string `json:"messageId"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
}

// Publisher — контракт публикации.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop — публикатор-заглушка.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// messageWriter — срез kafka.Writer, нужный публикатору.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher пишет события в один топик; ключ сообщения — тип события.
type KafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher создаёт writer. Соединения открываются лениво при первой записи.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	const op = "events.KafkaPublisher.Publish"

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Type),
		Value: body,
		Time:  e.OccurredAt,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

var (
	_ Publisher = Nop{}
	_ Publisher = (*KafkaPublisher)(nil)
)
