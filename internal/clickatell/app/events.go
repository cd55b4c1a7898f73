package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/aradsms/clickatell_gateway/internal/clickatell/domain"
	"github.com/aradsms/clickatell_gateway/internal/platform/messagebroker"
)

// NATS subjects, suffixed with the provider name.
const (
	IncomingSubjectPrefix = "sms.incoming.raw."
	DLRSubjectPrefix      = "dlr.raw."
)

// IncomingMessageEvent is published for every incoming message.
type IncomingMessageEvent struct {
	EventID              string                 `json:"event_id"`
	Provider             string                 `json:"provider"`
	From                 string                 `json:"from"`
	To                   string                 `json:"to"`
	Text                 string                 `json:"text"`
	MessageID            string                 `json:"message_id"`
	Timestamp            time.Time              `json:"timestamp"`
	ProviderSpecificData map[string]interface{} `json:"provider_specific_data,omitempty"`
}

// DeliveryReportEvent is published for every status report. The first fields
// follow the provider DLR callback shape consumed downstream.
type DeliveryReportEvent struct {
	EventID              string                 `json:"event_id"`
	Provider             string                 `json:"provider"`
	MessageID            string                 `json:"message_id"`
	ProviderMessageID    string                 `json:"provider_message_id,omitempty"`
	Status               string                 `json:"status"`
	ErrorCode            string                 `json:"error_code,omitempty"`
	ErrorDescription     string                 `json:"error_description,omitempty"`
	StatusCode           int                    `json:"status_code"`
	Outcome              string                 `json:"outcome"`
	Accepted             bool                   `json:"accepted"`
	Delivered            bool                   `json:"delivered"`
	Expired              bool                   `json:"expired"`
	Errored              bool                   `json:"errored"`
	Timestamp            time.Time              `json:"timestamp"`
	ProviderSpecificData map[string]interface{} `json:"provider_specific_data,omitempty"`
}

func newIncomingMessageEvent(msg *domain.IncomingMessage) IncomingMessageEvent {
	meta := make(map[string]interface{}, len(msg.Meta))
	for k, v := range msg.Meta {
		meta[k] = v
	}
	return IncomingMessageEvent{
		EventID:              uuid.NewString(),
		Provider:             msg.Provider,
		From:                 msg.Src,
		To:                   msg.Dst,
		Text:                 msg.Body,
		MessageID:            msg.MsgID,
		Timestamp:            msg.ReceivedAt,
		ProviderSpecificData: meta,
	}
}

func newDeliveryReportEvent(s *domain.MessageStatus) DeliveryReportEvent {
	event := DeliveryReportEvent{
		EventID:              uuid.NewString(),
		Provider:             s.Provider,
		MessageID:            s.MsgID,
		ProviderMessageID:    s.MsgID,
		Status:               s.Status(),
		StatusCode:           s.StatusCode(),
		Outcome:              s.Outcome().String(),
		Accepted:             s.Accepted(),
		Delivered:            s.Delivered(),
		Expired:              s.Expired(),
		Errored:              s.Errored(),
		Timestamp:            s.ReceivedAt,
		ProviderSpecificData: s.Meta,
	}
	if s.Errored() {
		event.ErrorCode = strconv.Itoa(s.StatusCode())
		event.ErrorDescription = s.Status()
	}
	return event
}

// EventPublisher is a Receiver that publishes inbound traffic to NATS.
type EventPublisher struct {
	publisher messagebroker.Publisher
	logger    *slog.Logger
}

// NewEventPublisher creates a new EventPublisher on top of a NATS publisher.
func NewEventPublisher(publisher messagebroker.Publisher, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		publisher: publisher,
		logger:    logger.With("component", "event_publisher"),
	}
}

func (p *EventPublisher) ReceiveMessage(ctx context.Context, msg *domain.IncomingMessage) error {
	event := newIncomingMessageEvent(msg)
	return p.publish(ctx, IncomingSubjectPrefix+msg.Provider, event.EventID, event)
}

func (p *EventPublisher) ReceiveStatus(ctx context.Context, status *domain.MessageStatus) error {
	event := newDeliveryReportEvent(status)
	return p.publish(ctx, DLRSubjectPrefix+status.Provider, event.EventID, event)
}

func (p *EventPublisher) publish(ctx context.Context, subject, eventID string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", subject, err)
	}
	if err := p.publisher.Publish(ctx, subject, data); err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish event", "subject", subject, "event_id", eventID, "error", err)
		return err
	}
	p.logger.DebugContext(ctx, "Event published", "subject", subject, "event_id", eventID)
	return nil
}

// LogReceiver is a Receiver that only logs; used when NATS is not configured.
type LogReceiver struct {
	logger *slog.Logger
}

// NewLogReceiver creates a new LogReceiver.
func NewLogReceiver(logger *slog.Logger) *LogReceiver {
	return &LogReceiver{logger: logger.With("component", "log_receiver")}
}

func (r *LogReceiver) ReceiveMessage(ctx context.Context, msg *domain.IncomingMessage) error {
	r.logger.InfoContext(ctx, "Incoming message",
		"provider", msg.Provider,
		"msg_id", msg.MsgID,
		"src", msg.Src,
		"dst", msg.Dst,
		"received_at", msg.ReceivedAt,
		"meta", msg.Meta,
	)
	return nil
}

func (r *LogReceiver) ReceiveStatus(ctx context.Context, s *domain.MessageStatus) error {
	r.logger.InfoContext(ctx, "Status report",
		"provider", s.Provider,
		"msg_id", s.MsgID,
		"status_code", s.StatusCode(),
		"status", s.Status(),
		"outcome", s.Outcome().String(),
		"meta", s.Meta,
	)
	return nil
}
