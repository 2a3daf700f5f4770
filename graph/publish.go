// Package graph publishes augmentation results for knowledge graph
// ingestion.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/c360studio/pddls/augment"
	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/vocabulary/pddls"
)

// DefaultSubject receives augmentation results.
const DefaultSubject = "pddls.augmented"

// tripleSource marks triples produced by augmentation.
const tripleSource = "pddls.augment"

// MsgPublisher sends a message. *nats.Conn satisfies it.
type MsgPublisher interface {
	PublishMsg(msg *nats.Msg) error
}

// Connect opens a NATS connection that logs disconnects and reconnects.
func Connect(url string, logger *slog.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = slog.Default()
	}
	nc, err := nats.Connect(url,
		nats.Name("pddls"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return nc, nil
}

// Publisher publishes augmentation results to a subject.
type Publisher struct {
	pub     MsgPublisher
	subject string
	logger  *slog.Logger
	now     func() time.Time
}

// NewPublisher creates a publisher. An empty subject uses DefaultSubject.
func NewPublisher(pub MsgPublisher, subject string, logger *slog.Logger) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{pub: pub, subject: subject, logger: logger, now: time.Now}
}

// PublishResult publishes result and returns the message ID. A nil
// publisher skips publishing.
func (p *Publisher) PublishResult(ctx context.Context, result *augment.Result) (string, error) {
	if p == nil || p.pub == nil {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	payload := NewAugmentationPayload(result, p.now())
	if err := payload.Validate(); err != nil {
		return "", fmt.Errorf("validate augmentation payload: %w", err)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal augmentation payload: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, payload.MessageID)
	if err := p.pub.PublishMsg(msg); err != nil {
		return "", fmt.Errorf("publish augmentation payload: %w", err)
	}

	p.logger.Debug("Published augmentation",
		"subject", p.subject,
		"message_id", payload.MessageID,
		"entity", payload.EntityID_,
		"triples", len(payload.TripleData))
	return payload.MessageID, nil
}

// NewAugmentationPayload describes the augmented problem as triples: its
// name, kind and domain, followed by one literal triple per axiom.
func NewAugmentationPayload(result *augment.Result, now time.Time) *AugmentationPayload {
	payload := &AugmentationPayload{
		MessageID: uuid.New().String(),
		UpdatedAt: now,
	}
	if result == nil || result.Problem == nil {
		return payload
	}
	p := result.Problem
	entityID := ProblemEntityID(p.Name)
	payload.EntityID_ = entityID
	payload.Diagnostics = result.Diagnostics

	triple := func(predicate string, object any) message.Triple {
		return message.Triple{
			Subject:    entityID,
			Predicate:  predicate,
			Object:     object,
			Source:     tripleSource,
			Timestamp:  now,
			Confidence: 1.0,
		}
	}
	payload.TripleData = []message.Triple{
		triple(pddls.DocumentName, p.Name),
		triple(pddls.DocumentKind, string(document.KindProblem)),
		triple(pddls.DocumentDomain, DomainEntityID(p.Domain)),
	}
	for _, a := range result.Axioms {
		payload.TripleData = append(payload.TripleData, triple(pddls.AxiomLiteral, a.Literal()))
	}
	return payload
}

// ProblemEntityID returns the entity ID of a problem.
func ProblemEntityID(name string) string {
	return pddls.DocumentIRI(string(document.KindProblem), name)
}

// DomainEntityID returns the entity ID of a domain.
func DomainEntityID(name string) string {
	return pddls.DocumentIRI(string(document.KindDomain), name)
}
