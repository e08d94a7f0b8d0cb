package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/telecom-tracker/internal/config"
	"github.com/spec-kit/telecom-tracker/internal/events"
)

// StreamPublisher appends entries to an external event stream.
// *persistence.Redis satisfies it.
type StreamPublisher interface {
	AppendToStream(ctx context.Context, stream string, values map[string]any) (string, error)
}

// NotificationService logs lifecycle events and mirrors them to a stream for
// downstream notification tooling.
type NotificationService struct {
	dispatcher events.Dispatcher
	stream     StreamPublisher
	logger     *zap.Logger
	cfg        config.EventsConfig
}

// NewNotificationService creates the service. stream may be nil.
func NewNotificationService(dispatcher events.Dispatcher, stream StreamPublisher, logger *zap.Logger, cfg config.EventsConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		stream:     stream,
		logger:     loggerOrNop(logger),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCustomerRegistered, n.handle)
	n.dispatcher.Subscribe(events.EventTechnicianRegistered, n.handle)
	n.dispatcher.Subscribe(events.EventComplaintLogged, n.handle)
	n.dispatcher.Subscribe(events.EventComplaintAssigned, n.handle)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handle)
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Debug("lifecycle event",
		zap.String("event_type", string(event.Type)),
		zap.Int64("complaint_id", event.ComplaintID),
		zap.Any("payload", event.Payload))
	return n.appendToStream(ctx, event)
}

func (n *NotificationService) appendToStream(ctx context.Context, event events.Event) error {
	if n.stream == nil || strings.TrimSpace(n.cfg.Stream) == "" {
		return nil
	}
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event.Type, err)
	}
	values := map[string]any{
		"id":           event.ID,
		"type":         string(event.Type),
		"complaint_id": strconv.FormatInt(event.ComplaintID, 10),
		"timestamp":    event.Timestamp.UTC().Format(time.RFC3339Nano),
		"payload":      string(payload),
	}
	if _, err := n.stream.AppendToStream(ctx, n.cfg.Stream, values); err != nil {
		return fmt.Errorf("append %s to stream %s: %w", event.Type, n.cfg.Stream, err)
	}
	return nil
}
