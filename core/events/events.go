/*Package events publishes entity change notifications to Kafka.

The notifier is optional: a nil *Notifier is safe to call and does
nothing, so the API runs without a broker.
*/
package events

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"

	"github.com/jobster/jobster/core/logger"
)

// Type names an entity change.
type Type string

// all published change types
const (
	CompanyCreated Type = "company_created"
	CompanyUpdated Type = "company_updated"
	CompanyDeleted Type = "company_deleted"
	JobCreated     Type = "job_created"
	JobUpdated     Type = "job_updated"
	JobDeleted     Type = "job_deleted"
	UserCreated    Type = "user_created"
	UserUpdated    Type = "user_updated"
	UserDeleted    Type = "user_deleted"
)

// Event is a single change notification. Key is the entity identifier
// (handle, id or username) and doubles as the Kafka message key.
type Event struct {
	Type      Type        `json:"type"`
	Key       string      `json:"key"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Writer is the part of the kafka writer the notifier uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Notifier hands change events to Kafka from a buffered queue. When
// the queue is full, events are dropped rather than blocking request
// handling.
type Notifier struct {
	writer Writer
	events chan Event
	done   chan struct{}
}

// NewNotifier creates a notifier writing to the given brokers and topic.
func NewNotifier(brokers []string, topic string) *Notifier {
	return newNotifier(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
		Topic:    topic,
	})
}

func newNotifier(writer Writer) *Notifier {
	n := &Notifier{
		writer: writer,
		events: make(chan Event, 1000),
		done:   make(chan struct{}),
	}
	go n.eventLoop()
	return n
}

// Notify queues a change event. Safe on a nil notifier.
func (n *Notifier) Notify(eventType Type, key string, payload interface{}) {
	if n == nil {
		return
	}
	event := Event{Type: eventType, Key: key, Payload: payload, Timestamp: time.Now().UTC()}
	select {
	case n.events <- event:
	default:
		logger.Default().Warningln("event queue full, dropping", eventType, key)
	}
}

func (n *Notifier) eventLoop() {
	for {
		select {
		case event := <-n.events:
			n.send(event)
		case <-n.done:
			return
		}
	}
}

func (n *Notifier) send(event Event) {
	jsonData, err := json.Marshal(event)
	if err != nil {
		logger.Default().WithError(err).Errorln("cannot marshal event", event.Type, event.Key)
		return
	}
	err = n.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(event.Key),
		Value: jsonData,
	})
	if err != nil {
		logger.Default().WithError(err).Errorln("cannot publish event", event.Type, event.Key)
	}
}

// Close drains nothing and stops the event loop. Safe on a nil
// notifier.
func (n *Notifier) Close() error {
	if n == nil {
		return nil
	}
	close(n.done)
	return n.writer.Close()
}
