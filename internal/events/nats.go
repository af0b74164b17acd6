package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSPublisher sends events to a NATS subject
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher creates a publisher on subject, empty means DefaultChannel
func NewNATSPublisher(conn *nats.Conn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultChannel
	}
	return &NATSPublisher{conn: conn, subject: subject}
}

// Publish encodes the event as JSON and publishes it
func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("failed to publish to nats subject %s: %w", p.subject, err)
	}
	return nil
}

// Subscribe delivers events received on the subject to handler until ctx is done
func (p *NATSPublisher) Subscribe(ctx context.Context, handler func(Event)) error {
	sub, err := p.conn.Subscribe(p.subject, func(msg *nats.Msg) {
		e, ok := decodeEvent("nats:"+msg.Subject, msg.Data)
		if !ok {
			return
		}
		handler(e)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", p.subject, err)
	}
	<-ctx.Done()
	return sub.Unsubscribe()
}

var (
	_ Publisher  = (*NATSPublisher)(nil)
	_ Subscriber = (*NATSPublisher)(nil)
)
