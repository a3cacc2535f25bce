package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
	"github.com/jhlabs/unfold/docsite/internal/logfields"
	"github.com/jhlabs/unfold/docsite/internal/retry"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 5 * time.Second
	streamMaxAge   = 30 * 24 * time.Hour
)

// NATSOptions configures a NATSPublisher.
type NATSOptions struct {
	URL     string
	Stream  string
	Subject string
	// Retry governs publish retries; the zero value uses retry.DefaultPolicy.
	Retry retry.Policy
}

// NATSPublisher publishes events to a JetStream stream.
type NATSPublisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
	retry   retry.Policy
}

// NewNATSPublisher connects to NATS and ensures the stream capturing the
// subject exists.
func NewNATSPublisher(ctx context.Context, opts NATSOptions) (*NATSPublisher, error) {
	conn, err := nats.Connect(opts.URL,
		nats.Name("docsite"),
		nats.Timeout(connectTimeout),
	)
	if err != nil {
		return nil, errors.EventsError("failed to connect to NATS").WithCause(err).
			WithContext("url", opts.URL).
			Build()
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, errors.EventsError("failed to create JetStream context").WithCause(err).Build()
	}

	p := newPublisher(js, opts.Subject)
	p.conn = conn
	if opts.Retry.Validate() == nil {
		p.retry = opts.Retry
	}
	if err := p.ensureStream(ctx, opts.Stream); err != nil {
		conn.Close()
		return nil, err
	}

	slog.Info("NATS publisher initialized",
		slog.String("url", opts.URL),
		slog.String("stream", opts.Stream),
		slog.String("subject", opts.Subject))
	return p, nil
}

func newPublisher(js jetstream.JetStream, subject string) *NATSPublisher {
	return &NATSPublisher{js: js, subject: subject, retry: retry.DefaultPolicy()}
}

func (p *NATSPublisher) ensureStream(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	_, err := p.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        name,
		Description: "docsite render events",
		Subjects:    []string{p.subject},
		MaxAge:      streamMaxAge,
	})
	if err != nil {
		return errors.EventsError("failed to create stream").WithCause(err).
			WithContext("stream", name).
			Build()
	}
	return nil
}

// PublishRendered publishes event; the render ID doubles as the JetStream
// message ID so retries are deduplicated.
func (p *NATSPublisher) PublishRendered(ctx context.Context, event RenderedEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return errors.InternalError("failed to marshal event").WithCause(err).Build()
	}

	attempts := 0
	err = p.retry.Do(ctx, nil, func(ctx context.Context) error {
		attempts++
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		_, err := p.js.Publish(ctx, p.subject, data, jetstream.WithMsgID(event.RenderID))
		return err
	})
	if err != nil {
		return errors.EventsError("failed to publish render event").
			WithCause(err).
			WithContext("subject", p.subject).
			WithContext("render_id", event.RenderID).
			WithContext("attempts", attempts).
			Build()
	}

	slog.Debug("Published render event", logfields.RenderID(event.RenderID), slog.String("subject", p.subject))
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
