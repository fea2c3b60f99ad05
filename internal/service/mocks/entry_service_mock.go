package mocks

import (
	"context"
	"time"

	"sauna-locker-desk/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type EntryServiceMock struct {
	mock.Mock
}

func NewEntryServiceMock() *EntryServiceMock {
	return &EntryServiceMock{}
}

func (m *EntryServiceMock) Quote(ctx context.Context, at time.Time) (model.PriceDecision, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(model.PriceDecision), args.Error(1)
}

func (m *EntryServiceMock) Register(ctx context.Context, req model.RegisterEntryRequest) (*model.Entry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entry), args.Error(1)
}

func (m *EntryServiceMock) Checkout(ctx context.Context, id uuid.UUID) (*model.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entry), args.Error(1)
}

func (m *EntryServiceMock) Cancel(ctx context.Context, id uuid.UUID) (*model.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entry), args.Error(1)
}

func (m *EntryServiceMock) Get(ctx context.Context, id uuid.UUID) (*model.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entry), args.Error(1)
}

func (m *EntryServiceMock) ListActive(ctx context.Context) ([]*model.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Entry), args.Error(1)
}
