package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sauna-locker-desk/internal/model"
	"sauna-locker-desk/internal/storage"
	apperrors "sauna-locker-desk/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cashEntry(locker int) model.RegisterEntryRequest {
	return model.RegisterEntryRequest{
		LockerNumber:  locker,
		CustomerName:  "王小明",
		PaymentMethod: model.PaymentCash,
	}
}

func TestEntryService_Quote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("Success - Now", func(t *testing.T) {
		decision, err := f.entry.Quote(ctx, time.Time{})
		require.NoError(t, err)
		assert.False(t, decision.IsSpecialRule)
		assert.Equal(t, 500, decision.Price)
		assert.Equal(t, testNow.Add(12*time.Hour), decision.ValidUntil)
	})

	t.Run("Success - Given Time", func(t *testing.T) {
		// 2026-10-18 為週日
		sunday := time.Date(2026, time.October, 18, 14, 0, 0, 0, time.UTC)
		decision, err := f.entry.Quote(ctx, sunday)
		require.NoError(t, err)
		assert.True(t, decision.IsSpecialRule)
		assert.Equal(t, 350, decision.Price)
		assert.Equal(t, "週日毛巾優惠", decision.RuleName)
	})
}

func TestEntryService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)

		entry, err := f.entry.Register(ctx, cashEntry(3))
		require.NoError(t, err)
		assert.Equal(t, 3, entry.LockerNumber)
		assert.Equal(t, 500, entry.Price)
		assert.Equal(t, model.EntryStatusActive, entry.Status)
		assert.Equal(t, testNow, entry.CheckInAt)
		assert.Equal(t, testNow.Add(12*time.Hour), entry.ValidUntil)

		occupied, err := f.lockers.IsOccupied(ctx, 3)
		require.NoError(t, err)
		assert.True(t, occupied)

		stored, err := f.entry.Get(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, stored.ID)

		events := f.events.published()
		require.Len(t, events, 1)
		assert.Equal(t, model.EventEntryRegistered, events[0].Type)
		assert.Equal(t, 500, events[0].Amount)
		assert.Equal(t, "2026-10-14", events[0].Day)
		assert.Equal(t, entry.ID.String(), events[0].Reference)
	})

	t.Run("Success - Ticket Payment", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.tickets.IssueBook(ctx, "HI", "1000", 1, 450)
		require.NoError(t, err)

		entry, err := f.entry.Register(ctx, model.RegisterEntryRequest{
			LockerNumber:  4,
			PaymentMethod: model.PaymentTicket,
			TicketNumber:  " HI1000 ",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, entry.Price)
		assert.Equal(t, "HI1000", entry.TicketNumber)

		ticket, err := f.tickets.Find(ctx, "HI1000")
		require.NoError(t, err)
		assert.Equal(t, model.TicketStatusUsed, ticket.Status)
	})

	t.Run("Failed - Locker Already Occupied", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.entry.Register(ctx, cashEntry(5))
		require.NoError(t, err)

		_, err = f.entry.Register(ctx, cashEntry(5))
		assert.ErrorIs(t, err, apperrors.ErrLockerAlreadyOccupied)
		assert.Len(t, f.events.published(), 1)
	})

	t.Run("Failed - Invalid Locker", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.entry.Register(ctx, cashEntry(21))
		assert.ErrorIs(t, err, apperrors.ErrInvalidLocker)
	})

	t.Run("Failed - Invalid Payment Method", func(t *testing.T) {
		f := newFixture(t)
		req := cashEntry(1)
		req.PaymentMethod = "card"

		_, err := f.entry.Register(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failed - Missing Ticket Number", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.entry.Register(ctx, model.RegisterEntryRequest{LockerNumber: 1, PaymentMethod: model.PaymentTicket})
		assert.ErrorIs(t, err, apperrors.ErrInvalidTicketNumber)
	})

	t.Run("Failed - Used Ticket Releases Locker", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.tickets.IssueBook(ctx, "HI", "1000", 1, 450)
		require.NoError(t, err)
		_, err = f.tickets.MarkUsed(ctx, "HI1000")
		require.NoError(t, err)

		_, err = f.entry.Register(ctx, model.RegisterEntryRequest{
			LockerNumber:  6,
			PaymentMethod: model.PaymentTicket,
			TicketNumber:  "HI1000",
		})
		assert.ErrorIs(t, err, apperrors.ErrTicketNotActive)

		occupied, err := f.lockers.IsOccupied(ctx, 6)
		require.NoError(t, err)
		assert.False(t, occupied)
		assert.Empty(t, f.events.published())

		active, err := f.entry.ListActive(ctx)
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("Failed - Entry Save Error Keeps Ticket Active", func(t *testing.T) {
		f := newFixtureWithStore(t, &failingStore{Store: storage.NewMemoryStore(), failKey: "entries"})
		_, err := f.tickets.IssueBook(ctx, "HI", "1000", 1, 450)
		require.NoError(t, err)

		_, err = f.entry.Register(ctx, model.RegisterEntryRequest{
			LockerNumber:  6,
			PaymentMethod: model.PaymentTicket,
			TicketNumber:  "HI1000",
		})
		require.Error(t, err)

		ticket, err := f.tickets.Find(ctx, "HI1000")
		require.NoError(t, err)
		assert.Equal(t, model.TicketStatusActive, ticket.Status)

		occupied, err := f.lockers.IsOccupied(ctx, 6)
		require.NoError(t, err)
		assert.False(t, occupied)
		assert.Empty(t, f.events.published())
	})

	t.Run("Failed - Unknown Ticket Releases Locker", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.entry.Register(ctx, model.RegisterEntryRequest{
			LockerNumber:  7,
			PaymentMethod: model.PaymentTicket,
			TicketNumber:  "HI9999",
		})
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)

		occupied, err := f.lockers.IsOccupied(ctx, 7)
		require.NoError(t, err)
		assert.False(t, occupied)
	})

	t.Run("Success - Publish Failure Is Not Fatal", func(t *testing.T) {
		f := newFixture(t)
		f.events.err = errors.New("queue down")

		entry, err := f.entry.Register(ctx, cashEntry(8))
		require.NoError(t, err)
		assert.Equal(t, model.EntryStatusActive, entry.Status)
	})
}

func TestEntryService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		entry, err := f.entry.Register(ctx, cashEntry(2))
		require.NoError(t, err)

		f.clock.Advance(2 * time.Hour)
		done, err := f.entry.Checkout(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, model.EntryStatusCheckedOut, done.Status)
		require.NotNil(t, done.CheckOutAt)
		assert.Equal(t, testNow.Add(2*time.Hour), *done.CheckOutAt)
		assert.Zero(t, done.OvertimeFee)

		occupied, err := f.lockers.IsOccupied(ctx, 2)
		require.NoError(t, err)
		assert.False(t, occupied)

		events := f.events.published()
		require.Len(t, events, 2)
		assert.Equal(t, model.EventEntryCheckedOut, events[1].Type)
		assert.Zero(t, events[1].Amount)
	})

	t.Run("Success - Overtime", func(t *testing.T) {
		f := newFixture(t)
		entry, err := f.entry.Register(ctx, cashEntry(2))
		require.NoError(t, err)

		// 超出 30 分鐘，扣掉 10 分鐘寬限後計 1 單位
		f.clock.Advance(12*time.Hour + 30*time.Minute)
		done, err := f.entry.Checkout(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, 30, done.OvertimeMinutes)
		assert.Equal(t, 100, done.OvertimeFee)

		events := f.events.published()
		require.Len(t, events, 2)
		assert.Equal(t, 100, events[1].Amount)
		assert.Equal(t, "2026-10-14", events[1].Day)
	})

	t.Run("Success - Locker Already Released", func(t *testing.T) {
		f := newFixture(t)
		entry, err := f.entry.Register(ctx, cashEntry(9))
		require.NoError(t, err)
		_, err = f.lockers.Release(ctx, 9)
		require.NoError(t, err)

		done, err := f.entry.Checkout(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, model.EntryStatusCheckedOut, done.Status)
	})

	t.Run("Success - Locker Reassigned To Another Entry", func(t *testing.T) {
		f := newFixture(t)
		stale, err := f.entry.Register(ctx, cashEntry(5))
		require.NoError(t, err)
		_, err = f.lockers.Release(ctx, 5)
		require.NoError(t, err)
		current, err := f.entry.Register(ctx, cashEntry(5))
		require.NoError(t, err)

		done, err := f.entry.Checkout(ctx, stale.ID)
		require.NoError(t, err)
		assert.Equal(t, model.EntryStatusCheckedOut, done.Status)

		// 置物櫃仍屬於目前的入場紀錄
		lockers, err := f.lockers.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, current.ID.String(), lockers[4].OccupantID)

		_, err = f.entry.Register(ctx, cashEntry(5))
		assert.ErrorIs(t, err, apperrors.ErrLockerAlreadyOccupied)
	})

	t.Run("Failed - Already Checked Out", func(t *testing.T) {
		f := newFixture(t)
		entry, err := f.entry.Register(ctx, cashEntry(2))
		require.NoError(t, err)
		_, err = f.entry.Checkout(ctx, entry.ID)
		require.NoError(t, err)

		_, err = f.entry.Checkout(ctx, entry.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidEntryStatus)
		_, err = f.entry.Cancel(ctx, entry.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidEntryStatus)
	})

	t.Run("Failed - Not Found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.entry.Checkout(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrEntryNotFound)
	})
}

func TestEntryService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		entry, err := f.entry.Register(ctx, cashEntry(11))
		require.NoError(t, err)

		cancelled, err := f.entry.Cancel(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, model.EntryStatusCancelled, cancelled.Status)

		occupied, err := f.lockers.IsOccupied(ctx, 11)
		require.NoError(t, err)
		assert.False(t, occupied)

		events := f.events.published()
		require.Len(t, events, 2)
		assert.Equal(t, model.EventEntryCancelled, events[1].Type)
		assert.Equal(t, 500, events[1].Amount)
	})

	t.Run("Failed - Not Found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.entry.Cancel(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrEntryNotFound)
	})
}

func TestEntryService_ListActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.entry.Register(ctx, cashEntry(5))
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.entry.Register(ctx, cashEntry(1))
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	third, err := f.entry.Register(ctx, cashEntry(3))
	require.NoError(t, err)

	_, err = f.entry.Checkout(ctx, second.ID)
	require.NoError(t, err)

	active, err := f.entry.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, third.ID, active[1].ID)
}

func TestEntryService_ConcurrentRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const workers = 10
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := f.entry.Register(ctx, cashEntry(1))
			errs <- err
		}()
	}

	succeeded := 0
	for i := 0; i < workers; i++ {
		if err := <-errs; err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrLockerAlreadyOccupied)
		}
	}
	assert.Equal(t, 1, succeeded)

	active, err := f.entry.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
