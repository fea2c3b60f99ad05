package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sauna-locker-desk/internal/model"
	"sauna-locker-desk/internal/storage"
	apperrors "sauna-locker-desk/pkg/app_errors"
	"sauna-locker-desk/pkg/logger"

	"go.uber.org/zap"
)

const statsKeyPrefix = "stats:"

type StatsService interface {
	// 套用帳務事件，同一事件 ID 只計算一次
	Apply(ctx context.Context, event *model.LedgerEvent) error
	Daily(ctx context.Context, day string) (*model.DailyStats, error)
}

type dailyStatsRecord struct {
	Stats   model.DailyStats `json:"stats"`
	// 已套用的事件 ID，每日一筆紀錄，數量以當日事件數為上限
	Applied map[string]struct{} `json:"applied"`
}

type StatsServiceImpl struct {
	mu    sync.Mutex
	store storage.Store
}

func NewStatsService(store storage.Store) StatsService {
	return &StatsServiceImpl{store: store}
}

func statsKey(day string) string {
	return statsKeyPrefix + day
}

func parseDay(day string) error {
	if _, err := time.Parse(model.DayLayout, day); err != nil {
		return fmt.Errorf("%w: day %q, want YYYY-MM-DD", apperrors.ErrInvalidInput, day)
	}
	return nil
}

func (s *StatsServiceImpl) Apply(ctx context.Context, event *model.LedgerEvent) error {
	if event == nil || event.ID == "" {
		return apperrors.ErrInvalidInput
	}
	day := event.Day
	if day == "" {
		day = event.OccurredAt.Format(model.DayLayout)
	}
	if err := parseDay(day); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := dailyStatsRecord{Stats: model.DailyStats{Day: day}}
	if _, err := storage.LoadJSON(ctx, s.store, statsKey(day), &record); err != nil {
		return err
	}
	if _, ok := record.Applied[event.ID]; ok {
		logger.WithComponent("service").Debug("ledger event already applied",
			zap.String("event_id", event.ID),
			zap.String("day", day),
		)
		return nil
	}

	stats := &record.Stats
	switch event.Type {
	case model.EventEntryRegistered:
		stats.Entries++
		stats.EntryRevenue += event.Amount
	case model.EventEntryCheckedOut:
		stats.OvertimeRevenue += event.Amount
	case model.EventEntryCancelled:
		stats.Cancelled++
		stats.EntryRevenue -= event.Amount
	case model.EventTicketSold:
		stats.TicketsSold += event.Count
		stats.TicketRevenue += event.Amount
	case model.EventTicketReturned:
		stats.TicketsReturned += event.Count
		stats.RefundAmount += event.Amount
	case model.EventTicketRefunded:
		stats.TicketsRefunded += event.Count
		stats.RefundAmount += event.Amount
	default:
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownEvent, event.Type)
	}

	if record.Applied == nil {
		record.Applied = make(map[string]struct{})
	}
	record.Applied[event.ID] = struct{}{}
	return storage.SaveJSON(ctx, s.store, statsKey(day), record)
}

func (s *StatsServiceImpl) Daily(ctx context.Context, day string) (*model.DailyStats, error) {
	if err := parseDay(day); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := dailyStatsRecord{Stats: model.DailyStats{Day: day}}
	if _, err := storage.LoadJSON(ctx, s.store, statsKey(day), &record); err != nil {
		return nil, err
	}
	return &record.Stats, nil
}
