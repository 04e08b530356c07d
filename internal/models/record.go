package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	// ErrMalformed is returned when a record is not valid JSON.
	ErrMalformed = errors.New("malformed record")

	// ErrUnknownType is returned when a record's eventType is not recognised.
	ErrUnknownType = errors.New("unknown event type")

	// ErrMissingField is returned when a required field is empty.
	ErrMissingField = errors.New("missing required field")
)

// Record is one raw message taken from the bus
type Record struct {
	Key   string `json:"key,omitempty"`
	Value []byte `json:"value"`
}

// NewRecord marshals a domain event into a Record keyed by its partition key
func NewRecord(e DomainEvent) (Record, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return Record{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return Record{Key: e.GetKey(), Value: data}, nil
}

// ID peeks at the eventId field without decoding the whole record
func (r Record) ID() string {
	return gjson.GetBytes(r.Value, "eventId").String()
}

// Type peeks at the eventType field without decoding the whole record
func (r Record) Type() EventType {
	return EventType(gjson.GetBytes(r.Value, "eventType").String())
}

// Annotate returns the raw value with the failure reason stamped under
// "dlq". Records that are not JSON objects are returned unchanged.
func (r Record) Annotate(reason string, at time.Time) []byte {
	if !gjson.ValidBytes(r.Value) || !gjson.ParseBytes(r.Value).IsObject() {
		return r.Value
	}

	out, err := sjson.SetBytes(r.Value, "dlq.reason", reason)
	if err != nil {
		return r.Value
	}
	out, err = sjson.SetBytes(out, "dlq.failedAt", at.UTC().Format(time.RFC3339))
	if err != nil {
		return r.Value
	}
	return out
}

// Decoded is a record together with the domain event it decoded to
type Decoded struct {
	Record Record
	Type   EventType
	Event  DomainEvent
}

// ID returns the event id
func (d Decoded) ID() string {
	return d.Event.Meta().EventID
}

// Rejection is a record that could not be processed and why
type Rejection struct {
	Record Record
	Err    error
}

// Error implements the error interface
func (r Rejection) Error() string {
	return r.Err.Error()
}

// Unwrap returns the underlying error
func (r Rejection) Unwrap() error {
	return r.Err
}

// Decode turns a raw record into its domain event
func Decode(r Record) (Decoded, error) {
	if !gjson.ValidBytes(r.Value) {
		return Decoded{}, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	var (
		evt DomainEvent
		err error
	)

	switch t := r.Type(); t {
	case UserCreatedEvent:
		evt, err = decodeAs[UserCreated](r.Value)
	case OrderPlacedEvent:
		evt, err = decodeAs[OrderPlaced](r.Value)
	case PaymentSettledEvent:
		evt, err = decodeAs[PaymentSettled](r.Value)
	case InventoryAdjustedEvent:
		evt, err = decodeAs[InventoryAdjusted](r.Value)
	default:
		return Decoded{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}

	if err != nil {
		return Decoded{}, err
	}

	if evt.Meta().EventID == "" {
		return Decoded{}, fmt.Errorf("%w: eventId", ErrMissingField)
	}

	if evt.GetKey() == "" {
		return Decoded{}, fmt.Errorf("%w: partition key for %s", ErrMissingField, evt.Meta().EventType)
	}

	return Decoded{Record: r, Type: evt.Meta().EventType, Event: evt}, nil
}

func decodeAs[T DomainEvent](data []byte) (DomainEvent, error) {
	var evt T
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return evt, nil
}
