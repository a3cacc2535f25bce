package events

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
	"github.com/jhlabs/unfold/docsite/internal/retry"
)

// fakeJetStream records publishes; every other method panics via the nil
// embedded interface.
type fakeJetStream struct {
	jetstream.JetStream

	subjects []string
	payloads [][]byte
	streams  []jetstream.StreamConfig
	err      error
	// failures fails that many publishes before succeeding.
	failures int
	calls    int
}

func (f *fakeJetStream) Publish(_ context.Context, subject string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.calls <= f.failures {
		return nil, stderrors.New("nats: timeout")
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return &jetstream.PubAck{Stream: "DOCSITE", Sequence: uint64(len(f.payloads))}, nil
}

func (f *fakeJetStream) CreateOrUpdateStream(_ context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	f.streams = append(f.streams, cfg)
	return nil, f.err
}

func TestNATSPublisher_PublishesJSON(t *testing.T) {
	js := &fakeJetStream{}
	p := newPublisher(js, "docsite.rendered")
	require.NoError(t, p.ensureStream(context.Background(), "DOCSITE"))

	err := p.PublishRendered(context.Background(), RenderedEvent{
		RenderID: "r-1",
		Site:     "Unfold.js",
		Outcome:  "success",
		Files:    []string{"astro.config.mjs"},
	})
	require.NoError(t, err)

	require.Len(t, js.streams, 1)
	assert.Equal(t, []string{"docsite.rendered"}, js.streams[0].Subjects)
	require.Equal(t, []string{"docsite.rendered"}, js.subjects)

	var got RenderedEvent
	require.NoError(t, json.Unmarshal(js.payloads[0], &got))
	assert.Equal(t, "r-1", got.RenderID)
	assert.Equal(t, "Unfold.js", got.Site)
	assert.False(t, got.Timestamp.IsZero(), "timestamp is filled in")
	assert.NoError(t, p.Close())
}

var fastRetry = retry.Policy{Mode: retry.BackoffFixed, Initial: time.Millisecond, Max: time.Millisecond, MaxRetries: 2}

func TestNATSPublisher_PublishFailureIsClassified(t *testing.T) {
	js := &fakeJetStream{err: stderrors.New("no responders")}
	p := newPublisher(js, "docsite.rendered")
	p.retry = fastRetry

	err := p.PublishRendered(context.Background(), RenderedEvent{RenderID: "r-2"})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryEvents))
	ce, _ := errors.AsClassified(err)
	assert.True(t, ce.CanRetry())
	assert.Equal(t, 3, js.calls)
}

func TestNATSPublisher_RetriesTransientFailures(t *testing.T) {
	js := &fakeJetStream{failures: 2}
	p := newPublisher(js, "docsite.rendered")
	p.retry = fastRetry

	require.NoError(t, p.PublishRendered(context.Background(), RenderedEvent{RenderID: "r-3"}))
	assert.Equal(t, 3, js.calls)
	assert.Len(t, js.payloads, 1)
}

func TestNewNATSPublisher_ConnectFailure(t *testing.T) {
	_, err := NewNATSPublisher(context.Background(), NATSOptions{
		URL:     "nats://127.0.0.1:1",
		Stream:  "DOCSITE",
		Subject: "docsite.rendered",
	})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryEvents))
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.PublishRendered(context.Background(), RenderedEvent{}))
	assert.NoError(t, p.Close())
}
