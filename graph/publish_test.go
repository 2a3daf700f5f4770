package graph

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/pddls/augment"
	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/vocabulary/pddls"
)

type capture struct {
	msgs []*nats.Msg
	err  error
}

func (c *capture) PublishMsg(msg *nats.Msg) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func sampleResult() *augment.Result {
	return &augment.Result{
		Problem: &document.Problem{Name: "trip", Domain: "travel", Init: []string{"(adjacent a b)"}},
		Axioms:  []augment.Axiom{{Predicate: "adjacent", PredicateURI: "urn:adj", Args: []string{"a", "b"}}},
		Diagnostics: []augment.Diagnostic{
			{Kind: augment.DiagnosticForeignObject, Predicate: "urn:adj", Value: "<urn:x>"},
		},
	}
}

func TestPublishResult(t *testing.T) {
	c := &capture{}
	p := NewPublisher(c, "", nil)

	id, err := p.PublishResult(context.Background(), sampleResult())
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	require.Len(t, c.msgs, 1)
	msg := c.msgs[0]
	assert.Equal(t, DefaultSubject, msg.Subject)
	assert.Equal(t, id, msg.Header.Get(nats.MsgIdHdr))

	var payload AugmentationPayload
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, "uri:pddls/problem/trip", payload.EntityID())
	assert.Equal(t, id, payload.MessageID)
	require.Len(t, payload.Triples(), 4)
	assert.Equal(t, pddls.DocumentDomain, payload.Triples()[2].Predicate)
	assert.Equal(t, "uri:pddls/domain/travel", payload.Triples()[2].Object)
	assert.Equal(t, pddls.AxiomLiteral, payload.Triples()[3].Predicate)
	assert.Equal(t, "(adjacent a b)", payload.Triples()[3].Object)
	assert.Len(t, payload.Diagnostics, 1)
}

func TestPublishResultErrors(t *testing.T) {
	c := &capture{err: errors.New("connection closed")}
	_, err := NewPublisher(c, "custom.subject", nil).PublishResult(context.Background(), sampleResult())
	assert.ErrorContains(t, err, "connection closed")

	_, err = NewPublisher(&capture{}, "", nil).PublishResult(context.Background(), &augment.Result{})
	assert.ErrorContains(t, err, "entity ID is required")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewPublisher(&capture{}, "", nil).PublishResult(ctx, sampleResult())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPublishResultDisabled(t *testing.T) {
	var p *Publisher
	id, err := p.PublishResult(context.Background(), sampleResult())
	assert.NoError(t, err)
	assert.Empty(t, id)

	id, err = NewPublisher(nil, "", nil).PublishResult(context.Background(), sampleResult())
	assert.NoError(t, err)
	assert.Empty(t, id)
}

func TestNewAugmentationPayload(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	payload := NewAugmentationPayload(sampleResult(), now)

	assert.Equal(t, AugmentationType, payload.Schema())
	assert.NoError(t, payload.Validate())
	for _, tr := range payload.Triples() {
		assert.Equal(t, "uri:pddls/problem/trip", tr.Subject)
		assert.Equal(t, now, tr.Timestamp)
		assert.Equal(t, 1.0, tr.Confidence)
	}
}
