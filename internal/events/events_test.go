package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Publish_EncodesEnvelope(t *testing.T) {
	t.Parallel()

	fw := &fakeWriter{}
	p := &KafkaPublisher{w: fw}

	e := New(TypeCommentCreated, CommentCreated{CommentID: "c1", PostID: "p1", AuthorName: "Guest", Pending: true})
	require.NoError(t, p.Publish(context.Background(), e))
	require.Len(t, fw.msgs, 1)
	require.Equal(t, TypeCommentCreated, string(fw.msgs[0].Key))

	var got struct {
		ID      string         `json:"id"`
		Type    string         `json:"type"`
		Payload CommentCreated `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &got))
	require.Equal(t, e.ID, got.ID)
	require.Equal(t, TypeCommentCreated, got.Type)
	require.True(t, got.Payload.Pending)

	require.NoError(t, p.Close())
	require.True(t, fw.closed)
}

func TestKafkaPublisher_Publish_WrapsWriterError(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker down")
	p := &KafkaPublisher{w: &fakeWriter{err: boom}}

	err := p.Publish(context.Background(), New(TypeContactReceived, ContactReceived{MessageID: "m"}))
	require.ErrorIs(t, err, boom)
}

func TestNop(t *testing.T) {
	t.Parallel()

	var p Publisher = Nop{}
	require.NoError(t, p.Publish(context.Background(), New("x", nil)))
	require.NoError(t, p.Close())
}
