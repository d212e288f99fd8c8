// Package broker fans persisted audit entries out over NATS JetStream.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/cleytonmendest/viva-esperanca-sub000/config"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
)

const publishTimeout = 5 * time.Second

// Publisher publishes audit entries on <prefix>.audit.<action_type>
type Publisher struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	prefix  string
	logger  *zap.Logger
	timeout time.Duration
}

// Connect dials NATS and makes sure the audit stream exists
func Connect(ctx context.Context, cfg *config.NATSConfig, logger *zap.Logger) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL, nats.Name("viva-esperanca"))
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("falha ao iniciar JetStream: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.SubjectPrefix + ".audit.>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("falha ao criar stream %s: %w", cfg.Stream, err)
	}

	logger.Info("NATS conectado", zap.String("url", cfg.URL), zap.String("stream", cfg.Stream))

	return &Publisher{nc: nc, js: js, prefix: cfg.SubjectPrefix, logger: logger, timeout: publishTimeout}, nil
}

// Subject subject an entry of the given action type is published on
func Subject(prefix string, action model.ActionType) string {
	return prefix + ".audit." + string(action)
}

// Event wire shape of a published audit entry
type Event struct {
	ID           string             `json:"id"`
	UserID       *string            `json:"user_id"`
	MemberName   string             `json:"member_name"`
	ActionType   model.ActionType   `json:"action_type"`
	ResourceType model.ResourceType `json:"resource_type"`
	ResourceID   string             `json:"resource_id"`
	Details      json.RawMessage    `json:"details"`
	CreatedAt    time.Time          `json:"created_at"`
}

// NewEvent builds the wire shape of a persisted entry
func NewEvent(entry *model.AuditLog) Event {
	return Event{
		ID:           entry.ID,
		UserID:       entry.UserID,
		MemberName:   entry.MemberName,
		ActionType:   entry.ActionType,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Details:      json.RawMessage(entry.Details),
		CreatedAt:    entry.CreatedAt,
	}
}

// PublishAudit publishes one persisted entry, deduplicated by its id
func (p *Publisher) PublishAudit(ctx context.Context, entry *model.AuditLog) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	data, err := json.Marshal(NewEvent(entry))
	if err != nil {
		return err
	}

	msg := nats.NewMsg(Subject(p.prefix, entry.ActionType))
	msg.Data = data
	msg.Header.Set(jetstream.MsgIDHeader, entry.ID)

	_, err = p.js.PublishMsg(ctx, msg)
	return err
}

// Close drains the connection
func (p *Publisher) Close() error {
	return p.nc.Drain()
}
