package webhook

import (
	"context"
	"encoding/json"
	"fmt"
)

// natsConn - часть *nats.Conn, нужная издателю
type natsConn interface {
	Publish(subj string, data []byte) error
}

// NATSPublisher публикует события об оповещениях в subject NATS
type NATSPublisher struct {
	conn    natsConn
	subject string
}

// NewNATSPublisher создает издатель поверх соединения NATS
func NewNATSPublisher(conn natsConn, subject string) *NATSPublisher {
	return &NATSPublisher{
		conn:    conn,
		subject: subject,
	}
}

// Publish публикует событие в формате JSON
func (p *NATSPublisher) Publish(ctx context.Context, event AlertEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("failed to publish alert event to NATS subject %s: %w", p.subject, err)
	}
	return nil
}
