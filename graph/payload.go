package graph

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"

	"github.com/c360studio/pddls/augment"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "pddls",
		Category:    "augmentation",
		Version:     "v1",
		Description: "Augmented problem with derived axioms as triples",
		Factory:     func() any { return &AugmentationPayload{} },
	})
	if err != nil {
		panic("failed to register AugmentationPayload: " + err.Error())
	}
}

// AugmentationType is the message type for augmentation payloads.
var AugmentationType = message.Type{Domain: "pddls", Category: "augmentation", Version: "v1"}

// AugmentationPayload carries the triples describing an augmented problem
// and the diagnostics raised while deriving them.
type AugmentationPayload struct {
	EntityID_   string               `json:"id"`
	MessageID   string               `json:"message_id"`
	TripleData  []message.Triple     `json:"triples"`
	Diagnostics []augment.Diagnostic `json:"diagnostics,omitempty"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func (p *AugmentationPayload) EntityID() string          { return p.EntityID_ }
func (p *AugmentationPayload) Triples() []message.Triple { return p.TripleData }
func (p *AugmentationPayload) Schema() message.Type      { return AugmentationType }

func (p *AugmentationPayload) Validate() error {
	if p.EntityID_ == "" {
		return errors.New("entity ID is required")
	}
	if p.MessageID == "" {
		return errors.New("message ID is required")
	}
	return nil
}

func (p *AugmentationPayload) MarshalJSON() ([]byte, error) {
	type Alias AugmentationPayload
	return json.Marshal((*Alias)(p))
}

func (p *AugmentationPayload) UnmarshalJSON(data []byte) error {
	type Alias AugmentationPayload
	return json.Unmarshal(data, (*Alias)(p))
}
