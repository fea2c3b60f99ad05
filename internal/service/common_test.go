package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sauna-locker-desk/internal/clock"
	"sauna-locker-desk/internal/ledger"
	"sauna-locker-desk/internal/model"
	"sauna-locker-desk/internal/queue"
	"sauna-locker-desk/internal/service"
	"sauna-locker-desk/internal/storage"
)

// 2026-10-14 為週三
var testNow = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

// recordingQueue 記錄發出的事件，不實際投遞
type recordingQueue struct {
	mu     sync.Mutex
	events []*model.LedgerEvent
	err    error
}

func (q *recordingQueue) Publish(ctx context.Context, event *model.LedgerEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.events = append(q.events, event)
	return nil
}

func (q *recordingQueue) Subscribe(ctx context.Context) (<-chan queue.Delivery, error) {
	return nil, errors.New("not supported")
}

func (q *recordingQueue) published() []*model.LedgerEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*model.LedgerEvent(nil), q.events...)
}

func testPricingConfig() *model.PricingConfig {
	return &model.PricingConfig{
		BasePrice:        500,
		DefaultStayHours: 12,
		Rules: []model.TimeSlotRule{
			{Name: "週日毛巾優惠", Price: 350, StartTime: "13:30", EndTime: "15:30", Days: []int{0}},
		},
		Overtime: model.OvertimePolicy{UnitMinutes: 60, FeePerUnit: 100, GraceMinutes: 10},
	}
}

func testTicketTypes() map[string]model.TicketType {
	return map[string]model.TicketType{
		"HI":  {Name: "平日票", Price: 450},
		"FUN": {Name: "優惠票", Price: 200},
	}
}

type fixture struct {
	clock   *clock.Fixed
	store   storage.Store
	lockers ledger.LockerLedger
	tickets ledger.TicketLedger
	events  *recordingQueue
	entry   service.EntryService
	ticket  service.TicketService
}

// failingStore 對指定 key 的寫入回傳錯誤，其餘交給底層 store
type failingStore struct {
	storage.Store
	failKey string
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if key == s.failKey {
		return errors.New("disk full")
	}
	return s.Store.Set(ctx, key, value)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, storage.NewMemoryStore())
}

func newFixtureWithStore(t *testing.T, store storage.Store) *fixture {
	t.Helper()
	clk := clock.NewFixed(testNow)
	events := &recordingQueue{}
	lockers := ledger.NewLockerLedger(store, clk, 20)
	tickets := ledger.NewTicketLedger(store, clk)

	return &fixture{
		clock:   clk,
		store:   store,
		lockers: lockers,
		tickets: tickets,
		events:  events,
		entry:   service.NewEntryService(store, lockers, tickets, testPricingConfig(), clk, events),
		ticket:  service.NewTicketService(tickets, testTicketTypes(), clk, events),
	}
}
