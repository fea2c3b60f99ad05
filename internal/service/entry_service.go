package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"sauna-locker-desk/internal/clock"
	"sauna-locker-desk/internal/ledger"
	"sauna-locker-desk/internal/model"
	"sauna-locker-desk/internal/pricing"
	"sauna-locker-desk/internal/queue"
	"sauna-locker-desk/internal/storage"
	apperrors "sauna-locker-desk/pkg/app_errors"
	"sauna-locker-desk/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const entriesKey = "entries"

type EntryService interface {
	// 報價，at 為零值時以現在時間計算
	Quote(ctx context.Context, at time.Time) (model.PriceDecision, error)
	// 入場登記：計價、佔用置物櫃、扣票
	Register(ctx context.Context, req model.RegisterEntryRequest) (*model.Entry, error)
	// 退場：計算超時費並釋放置物櫃
	Checkout(ctx context.Context, id uuid.UUID) (*model.Entry, error)
	Cancel(ctx context.Context, id uuid.UUID) (*model.Entry, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Entry, error)
	ListActive(ctx context.Context) ([]*model.Entry, error)
}

type EntryServiceImpl struct {
	mu      sync.Mutex
	store   storage.Store
	lockers ledger.LockerLedger
	tickets ledger.TicketLedger
	pricing *model.PricingConfig
	clock   clock.Clock
	events  queue.EventQueue
}

func NewEntryService(
	store storage.Store,
	lockers ledger.LockerLedger,
	tickets ledger.TicketLedger,
	pricingConfig *model.PricingConfig,
	clk clock.Clock,
	events queue.EventQueue,
) EntryService {
	return &EntryServiceImpl{
		store:   store,
		lockers: lockers,
		tickets: tickets,
		pricing: pricingConfig,
		clock:   clk,
		events:  events,
	}
}

func (s *EntryServiceImpl) load(ctx context.Context) (map[string]model.Entry, error) {
	entries := make(map[string]model.Entry)
	if _, err := storage.LoadJSON(ctx, s.store, entriesKey, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *EntryServiceImpl) Quote(ctx context.Context, at time.Time) (model.PriceDecision, error) {
	now := s.clock.Now()
	if at.IsZero() {
		at = now
	} else {
		// 以館別時區判斷星期與時段
		at = at.In(now.Location())
	}
	return pricing.Evaluate(at, s.pricing)
}

func (s *EntryServiceImpl) Register(ctx context.Context, req model.RegisterEntryRequest) (*model.Entry, error) {
	if !req.PaymentMethod.IsValid() {
		return nil, fmt.Errorf("%w: payment method %q", apperrors.ErrInvalidInput, req.PaymentMethod)
	}
	req.TicketNumber = strings.TrimSpace(req.TicketNumber)
	if req.PaymentMethod == model.PaymentTicket && req.TicketNumber == "" {
		return nil, apperrors.ErrInvalidTicketNumber
	}

	now := s.clock.Now()
	decision, err := pricing.Evaluate(now, s.pricing)
	if err != nil {
		return nil, err
	}

	entry := &model.Entry{
		ID:            uuid.New(),
		LockerNumber:  req.LockerNumber,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		PaymentMethod: req.PaymentMethod,
		Price:         decision.Price,
		RuleName:      decision.RuleName,
		IsSpecialRule: decision.IsSpecialRule,
		CheckInAt:     now,
		ValidUntil:    decision.ValidUntil,
		Status:        model.EntryStatusActive,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lockers.Occupy(ctx, req.LockerNumber, entry.ID.String()); err != nil {
		return nil, err
	}

	if req.PaymentMethod == model.PaymentTicket {
		// 票券已預付
		entry.TicketNumber = req.TicketNumber
		entry.Price = 0
	}

	// 先寫入入場紀錄再扣票，票券一旦標記為已使用便無法恢復
	entries, err := s.load(ctx)
	if err != nil {
		s.releaseLocker(entry)
		return nil, err
	}
	entries[entry.ID.String()] = *entry
	if err := storage.SaveJSON(ctx, s.store, entriesKey, entries); err != nil {
		s.releaseLocker(entry)
		return nil, err
	}

	if req.PaymentMethod == model.PaymentTicket {
		if _, err := s.tickets.MarkUsed(ctx, req.TicketNumber); err != nil {
			s.removeEntry(entry)
			s.releaseLocker(entry)
			return nil, err
		}
	}

	publishEvent(ctx, s.events, newLedgerEvent(model.EventEntryRegistered, now, entry.Price, 1, entry.ID.String()))
	return entry, nil
}

// releaseLocker 回滾使用 Background，避免請求 ctx 已取消時置物櫃卡住
func (s *EntryServiceImpl) releaseLocker(entry *model.Entry) {
	if _, err := s.lockers.ReleaseHeldBy(context.Background(), entry.LockerNumber, entry.ID.String()); err != nil {
		logger.WithComponent("service").Error("failed to roll back locker",
			zap.String("entry_id", entry.ID.String()),
			zap.Int("locker_number", entry.LockerNumber),
			zap.Error(err),
		)
	}
}

// removeEntry 扣票失敗時刪除剛寫入的入場紀錄，呼叫端需持有 s.mu
func (s *EntryServiceImpl) removeEntry(entry *model.Entry) {
	log := logger.WithComponent("service").With(zap.String("entry_id", entry.ID.String()))

	ctx := context.Background()
	entries, err := s.load(ctx)
	if err != nil {
		log.Error("failed to roll back entry", zap.Error(err))
		return
	}
	delete(entries, entry.ID.String())
	if err := storage.SaveJSON(ctx, s.store, entriesKey, entries); err != nil {
		log.Error("failed to roll back entry", zap.Error(err))
	}
}

func (s *EntryServiceImpl) Checkout(ctx context.Context, id uuid.UUID) (*model.Entry, error) {
	return s.finish(ctx, id, model.EntryStatusCheckedOut)
}

func (s *EntryServiceImpl) Cancel(ctx context.Context, id uuid.UUID) (*model.Entry, error) {
	return s.finish(ctx, id, model.EntryStatusCancelled)
}

func (s *EntryServiceImpl) finish(ctx context.Context, id uuid.UUID, target model.EntryStatus) (*model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	entry, ok := entries[id.String()]
	if !ok {
		return nil, apperrors.ErrEntryNotFound
	}
	if !entry.Status.CanTransitionTo(target) {
		return nil, apperrors.ErrInvalidEntryStatus
	}

	now := s.clock.Now()
	event := newLedgerEvent(model.EventEntryCancelled, now, entry.Price, 1, entry.ID.String())
	if target == model.EntryStatusCheckedOut {
		overtime, err := pricing.Overtime(entry.ValidUntil, now, s.pricing.Overtime)
		if err != nil {
			return nil, err
		}
		entry.OvertimeMinutes = overtime.Minutes
		entry.OvertimeFee = overtime.Fee
		event = newLedgerEvent(model.EventEntryCheckedOut, now, overtime.Fee, 1, entry.ID.String())
	}

	// 只釋放仍由這筆紀錄持有的置物櫃，已被他人使用時不動
	if _, err := s.lockers.ReleaseHeldBy(ctx, entry.LockerNumber, entry.ID.String()); err != nil {
		if !errors.Is(err, apperrors.ErrLockerNotOccupied) {
			return nil, err
		}
		logger.WithComponent("service").Warn("locker no longer held by entry",
			zap.String("entry_id", entry.ID.String()),
			zap.Int("locker_number", entry.LockerNumber),
		)
	}

	entry.Status = target
	entry.CheckOutAt = &now
	entries[id.String()] = entry
	if err := storage.SaveJSON(ctx, s.store, entriesKey, entries); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.events, event)
	return &entry, nil
}

func (s *EntryServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	entry, ok := entries[id.String()]
	if !ok {
		return nil, apperrors.ErrEntryNotFound
	}
	return &entry, nil
}

func (s *EntryServiceImpl) ListActive(ctx context.Context) ([]*model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*model.Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsActive() {
			entry := e
			active = append(active, &entry)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].CheckInAt.Equal(active[j].CheckInAt) {
			return active[i].LockerNumber < active[j].LockerNumber
		}
		return active[i].CheckInAt.Before(active[j].CheckInAt)
	})
	return active, nil
}
