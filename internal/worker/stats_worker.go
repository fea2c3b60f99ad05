package worker

import (
	"context"
	"errors"

	"sauna-locker-desk/internal/queue"
	"sauna-locker-desk/internal/service"
	apperrors "sauna-locker-desk/pkg/app_errors"
	"sauna-locker-desk/pkg/logger"

	"go.uber.org/zap"
)

type StatsWorker interface {
	// 訂閱帳務事件並累加到每日統計
	Start(ctx context.Context) error
}

type StatsWorkerImpl struct {
	service service.StatsService
	queue   queue.EventQueue
}

func NewStatsWorker(service service.StatsService, queue queue.EventQueue) StatsWorker {
	return &StatsWorkerImpl{
		service: service,
		queue:   queue,
	}
}

func (w *StatsWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	log := logger.WithComponent("worker")
	go func() {
		for msg := range msgs {
			if msg.Data == nil {
				msg.Nack(false)
				continue
			}
			err := w.service.Apply(ctx, msg.Data)
			switch {
			case err == nil:
				msg.Ack()
			case errors.Is(err, apperrors.ErrUnknownEvent), errors.Is(err, apperrors.ErrInvalidInput):
				// 重試也不會成功，直接丟棄
				log.Warn("discarding ledger event", zap.String("event_id", msg.Data.ID), zap.Error(err))
				msg.Nack(false)
			default:
				log.Error("failed to apply ledger event", zap.String("event_id", msg.Data.ID), zap.Error(err))
				msg.Nack(true)
			}
		}
	}()
	return nil
}
