package service

import (
	"context"
	"time"

	"sauna-locker-desk/internal/model"
	"sauna-locker-desk/internal/queue"
	"sauna-locker-desk/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newLedgerEvent(eventType model.LedgerEventType, at time.Time, amount, count int, reference string) *model.LedgerEvent {
	return &model.LedgerEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Day:        at.Format(model.DayLayout),
		OccurredAt: at,
		Amount:     amount,
		Count:      count,
		Reference:  reference,
	}
}

// publishEvent 統計事件送不出去不影響櫃台作業，只記錄錯誤
func publishEvent(ctx context.Context, events queue.EventQueue, event *model.LedgerEvent) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, event); err != nil {
		logger.WithComponent("service").Error("failed to publish ledger event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}
