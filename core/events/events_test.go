package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mutex    sync.Mutex
	messages []kafka.Message
	received chan struct{}
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mutex.Lock()
	w.messages = append(w.messages, msgs...)
	w.mutex.Unlock()
	for range msgs {
		w.received <- struct{}{}
	}
	return nil
}

func (w *recordingWriter) Close() error {
	w.mutex.Lock()
	w.closed = true
	w.mutex.Unlock()
	return nil
}

func TestNotify(t *testing.T) {
	writer := &recordingWriter{received: make(chan struct{}, 10)}
	notifier := newNotifier(writer)

	notifier.Notify(CompanyCreated, "roni", map[string]string{"handle": "roni"})
	notifier.Notify(JobDeleted, "17", nil)

	for i := 0; i < 2; i++ {
		select {
		case <-writer.received:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}

	writer.mutex.Lock()
	defer writer.mutex.Unlock()
	require.Len(t, writer.messages, 2)

	assert.Equal(t, "roni", string(writer.messages[0].Key))
	var event Event
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &event))
	assert.Equal(t, CompanyCreated, event.Type)
	assert.Equal(t, "roni", event.Key)
	assert.False(t, event.Timestamp.IsZero())

	require.NoError(t, json.Unmarshal(writer.messages[1].Value, &event))
	assert.Equal(t, JobDeleted, event.Type)
	assert.Equal(t, "17", event.Key)
	assert.Nil(t, event.Payload)
}

func TestNotifierClose(t *testing.T) {
	writer := &recordingWriter{received: make(chan struct{}, 1)}
	notifier := newNotifier(writer)
	require.NoError(t, notifier.Close())

	writer.mutex.Lock()
	defer writer.mutex.Unlock()
	assert.True(t, writer.closed)
}

func TestNilNotifier(t *testing.T) {
	var notifier *Notifier
	notifier.Notify(UserCreated, "hacker17", nil) // must not panic
	assert.NoError(t, notifier.Close())
}
