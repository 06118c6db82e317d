package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
)

type natsBus struct {
	log     *slog.Logger
	conn    *nats.Conn
	subject string
}

// NewNATSBus connects to url and relays messages on subject.
func NewNATSBus(url, subject string) (Bus, error) {
	log := logger.Component("nats_bus")
	if subject == "" {
		subject = "vitals.events"
	}

	conn, err := nats.Connect(url,
		nats.Name("vitals-tracker"),
		nats.Timeout(5*time.Second),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &natsBus{log: log, conn: conn, subject: subject}, nil
}

func (b *natsBus) Publish(_ context.Context, msg Message) error {
	raw, err := encodeMessage(msg)
	if err != nil {
		return err
	}
	return b.conn.Publish(b.subject, raw)
}

func (b *natsBus) StartForwarder(ctx context.Context, onMsg func(Message)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub, err := b.conn.Subscribe(b.subject, func(m *nats.Msg) {
		msg, err := decodeMessage(m.Data)
		if err != nil {
			b.log.Warn("Bad NATS payload", "error", err)
			return
		}
		onMsg(msg)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()

	b.log.Info("NATS forwarder started", "subject", b.subject)
	return nil
}

func (b *natsBus) Close() error {
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
		return err
	}
	return nil
}
