package nats

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NewNATSConn подключается к NATS с переподключением
func NewNATSConn(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(5),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}
