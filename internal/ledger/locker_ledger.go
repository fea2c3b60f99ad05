package ledger

import (
	"context"
	"sync"

	"sauna-locker-desk/internal/clock"
	"sauna-locker-desk/internal/model"
	"sauna-locker-desk/internal/storage"
	apperrors "sauna-locker-desk/pkg/app_errors"
	"sauna-locker-desk/pkg/logger"

	"go.uber.org/zap"
)

const lockersKey = "lockers"

type LockerLedger interface {
	// 總櫃數
	Total() int
	IsOccupied(ctx context.Context, lockerNumber int) (bool, error)
	// 佔用：檢查與寫入在同一把鎖內完成，不會重複指派
	Occupy(ctx context.Context, lockerNumber int, occupantID string) (*model.LockerAssignment, error)
	// 釋放：空櫃回傳 ErrLockerNotOccupied，呼叫端可忽略
	Release(ctx context.Context, lockerNumber int) (*model.LockerAssignment, error)
	// 只在 occupantID 仍是目前使用者時釋放，否則視同已釋放 (ErrLockerNotOccupied)
	ReleaseHeldBy(ctx context.Context, lockerNumber int, occupantID string) (*model.LockerAssignment, error)
	// 列出 1..N 所有置物櫃
	List(ctx context.Context) ([]model.LockerAssignment, error)
}

type LockerLedgerImpl struct {
	mu    sync.Mutex
	store storage.Store
	clock clock.Clock
	total int
}

func NewLockerLedger(store storage.Store, clk clock.Clock, total int) LockerLedger {
	return &LockerLedgerImpl{
		store: store,
		clock: clk,
		total: total,
	}
}

func (l *LockerLedgerImpl) Total() int {
	return l.total
}

func (l *LockerLedgerImpl) validate(lockerNumber int) error {
	if lockerNumber < 1 || lockerNumber > l.total {
		return apperrors.ErrInvalidLocker
	}
	return nil
}

func (l *LockerLedgerImpl) load(ctx context.Context) (map[int]model.LockerAssignment, error) {
	assignments := make(map[int]model.LockerAssignment)
	if _, err := storage.LoadJSON(ctx, l.store, lockersKey, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (l *LockerLedgerImpl) IsOccupied(ctx context.Context, lockerNumber int) (bool, error) {
	if err := l.validate(lockerNumber); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	assignments, err := l.load(ctx)
	if err != nil {
		return false, err
	}
	_, ok := assignments[lockerNumber]
	return ok, nil
}

func (l *LockerLedgerImpl) Occupy(ctx context.Context, lockerNumber int, occupantID string) (*model.LockerAssignment, error) {
	if err := l.validate(lockerNumber); err != nil {
		return nil, err
	}
	if occupantID == "" {
		return nil, apperrors.ErrInvalidInput
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	assignments, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	if held, ok := assignments[lockerNumber]; ok {
		logger.WithComponent("ledger").Warn("locker already occupied",
			zap.Int("locker_number", lockerNumber),
			zap.String("held_by", held.OccupantID),
			zap.String("requested_by", occupantID),
		)
		return nil, apperrors.ErrLockerAlreadyOccupied
	}

	now := l.clock.Now()
	assignment := model.LockerAssignment{
		LockerNumber: lockerNumber,
		OccupantID:   occupantID,
		OccupiedAt:   &now,
	}
	assignments[lockerNumber] = assignment

	if err := storage.SaveJSON(ctx, l.store, lockersKey, assignments); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (l *LockerLedgerImpl) Release(ctx context.Context, lockerNumber int) (*model.LockerAssignment, error) {
	return l.release(ctx, lockerNumber, "")
}

func (l *LockerLedgerImpl) ReleaseHeldBy(ctx context.Context, lockerNumber int, occupantID string) (*model.LockerAssignment, error) {
	if occupantID == "" {
		return nil, apperrors.ErrInvalidInput
	}
	return l.release(ctx, lockerNumber, occupantID)
}

// release occupantID 為空時不檢查使用者
func (l *LockerLedgerImpl) release(ctx context.Context, lockerNumber int, occupantID string) (*model.LockerAssignment, error) {
	if err := l.validate(lockerNumber); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	assignments, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	released, ok := assignments[lockerNumber]
	if !ok {
		return nil, apperrors.ErrLockerNotOccupied
	}
	if occupantID != "" && released.OccupantID != occupantID {
		logger.WithComponent("ledger").Warn("locker held by another occupant, not released",
			zap.Int("locker_number", lockerNumber),
			zap.String("held_by", released.OccupantID),
			zap.String("requested_by", occupantID),
		)
		return nil, apperrors.ErrLockerNotOccupied
	}
	delete(assignments, lockerNumber)

	if err := storage.SaveJSON(ctx, l.store, lockersKey, assignments); err != nil {
		return nil, err
	}
	return &released, nil
}

func (l *LockerLedgerImpl) List(ctx context.Context) ([]model.LockerAssignment, error) {
	l.mu.Lock()
	assignments, err := l.load(ctx)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}

	lockers := make([]model.LockerAssignment, 0, l.total)
	for n := 1; n <= l.total; n++ {
		if a, ok := assignments[n]; ok {
			lockers = append(lockers, a)
			continue
		}
		lockers = append(lockers, model.LockerAssignment{LockerNumber: n})
	}
	return lockers, nil
}
