package mocks

import (
	"context"

	"sauna-locker-desk/internal/model"

	"github.com/stretchr/testify/mock"
)

type StatsServiceMock struct {
	mock.Mock
}

func NewStatsServiceMock() *StatsServiceMock {
	return &StatsServiceMock{}
}

func (m *StatsServiceMock) Apply(ctx context.Context, event *model.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *StatsServiceMock) Daily(ctx context.Context, day string) (*model.DailyStats, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyStats), args.Error(1)
}
