package stripe

import (
	"encoding/json"
	"errors"
	"strings"
)

// Event types this system acts on. The provider's vocabulary is a
// strict superset; anything else is a deliberate no-op downstream.
const (
	EventSubscriptionCreated  = "customer.subscription.created"
	EventSubscriptionUpdated  = "customer.subscription.updated"
	EventSubscriptionDeleted  = "customer.subscription.deleted"
	EventInvoicePaymentFailed = "invoice.payment_failed"
)

var ErrInvalidEvent = errors.New("invalid event")

// Event is the provider's webhook envelope.
type Event struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Created int64     `json:"created"`
	Data    EventData `json:"data"`
}

type EventData struct {
	Object json.RawMessage `json:"object"`
}

// SubscriptionObject covers the fields read from subscription and
// invoice payloads. Invoices carry customer the same way.
type SubscriptionObject struct {
	ID                 string            `json:"id"`
	Customer           string            `json:"customer"`
	Status             string            `json:"status"`
	CurrentPeriodStart int64             `json:"current_period_start"`
	CurrentPeriodEnd   int64             `json:"current_period_end"`
	Items              SubscriptionItems `json:"items"`
}

type SubscriptionItems struct {
	Data []SubscriptionItem `json:"data"`
}

type SubscriptionItem struct {
	Price Price `json:"price"`
}

type Price struct {
	LookupKey string `json:"lookup_key"`
}

// PriceLookupKey returns the first item's price lookup key, empty when
// the event carries none.
func (o SubscriptionObject) PriceLookupKey() string {
	if len(o.Items.Data) == 0 {
		return ""
	}
	return o.Items.Data[0].Price.LookupKey
}

// ParseEvent decodes the envelope and requires a provider event id.
func ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, ErrInvalidEvent
	}
	if strings.TrimSpace(event.ID) == "" {
		return nil, ErrInvalidEvent
	}
	return &event, nil
}

// ParseSubscriptionObject decodes the event's subject object.
func (e *Event) ParseSubscriptionObject() (*SubscriptionObject, error) {
	if len(e.Data.Object) == 0 {
		return nil, ErrInvalidEvent
	}
	var object SubscriptionObject
	if err := json.Unmarshal(e.Data.Object, &object); err != nil {
		return nil, ErrInvalidEvent
	}
	return &object, nil
}
