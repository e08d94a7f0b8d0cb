package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/telecom-tracker/internal/events"
	"github.com/spec-kit/telecom-tracker/internal/repository"
	apperrors "github.com/spec-kit/telecom-tracker/pkg/util"
)

// TxRunner runs a unit of work against transaction-bound repositories.
// repository.Store satisfies it.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(repository.Repositories) error) error
}

// publisher sends lifecycle events after the writes they describe have committed.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func (p publisher) publish(ctx context.Context, eventType events.EventType, complaintID int64, payload any) {
	if p.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		ComplaintID: complaintID,
		Timestamp:   time.Now(),
		Payload:     payload,
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil && p.logger != nil {
		p.logger.Warn("event handler failed",
			zap.String("event_type", string(eventType)),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}

// mapStateConflict turns a lost compare-and-set into the given domain error.
func mapStateConflict(err error, conflict error) error {
	if errors.Is(err, repository.ErrStateConflict) {
		return conflict
	}
	return apperrors.MapError(err)
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
