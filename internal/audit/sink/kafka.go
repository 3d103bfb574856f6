package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parichay/internal/audit"
	"parichay/internal/platform/kafka/producer"

	"github.com/google/uuid"
)

// Kafka forwards audit events to a Kafka topic for downstream consumers
// (SIEM, retention pipelines). It is an Appender, not a queryable store:
// reads stay on the primary store.
type Kafka struct {
	producer *producer.Producer
	topic    string
}

func NewKafka(p *producer.Producer, topic string) *Kafka {
	return &Kafka{producer: p, topic: topic}
}

// wirePayload is the JSON structure published to the topic. Field names are
// part of the consumer contract.
type wirePayload struct {
	ID           string `json:"id"`
	Timestamp    string `json:"timestamp"`
	Action       string `json:"action"`
	ScanID       string `json:"scan_id,omitempty"`
	SourceFormat string `json:"source_format,omitempty"`
	Degraded     bool   `json:"degraded,omitempty"`
	Reason       string `json:"reason,omitempty"`
	ClientIP     string `json:"client_ip,omitempty"`
	DeviceLabel  string `json:"device_label,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
	ClientID     string `json:"client_id,omitempty"`
}

func (k *Kafka) Append(ctx context.Context, event audit.Event) error {
	payload := wirePayload{
		ID:           uuid.NewString(),
		Timestamp:    event.Timestamp.Format(time.RFC3339Nano),
		Action:       string(event.Action),
		SourceFormat: event.SourceFormat,
		Degraded:     event.Degraded,
		Reason:       event.Reason,
		ClientIP:     event.ClientIP,
		DeviceLabel:  event.DeviceLabel,
		RequestID:    event.RequestID,
		ClientID:     event.ClientID,
	}
	if event.ScanID != uuid.Nil {
		payload.ScanID = event.ScanID.String()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	// Key by scan so a scan's trail lands on one partition in order.
	return k.producer.Produce(ctx, &producer.Message{
		Topic: k.topic,
		Key:   []byte(payload.ScanID),
		Value: value,
	})
}
