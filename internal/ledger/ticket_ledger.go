package ledger

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"sauna-locker-desk/internal/clock"
	"sauna-locker-desk/internal/model"
	"sauna-locker-desk/internal/storage"
	apperrors "sauna-locker-desk/pkg/app_errors"
	"sauna-locker-desk/pkg/logger"

	"go.uber.org/zap"
)

const (
	ticketsKey = "tickets"
	// MaxBooksPerSale 單次售出本數上限
	MaxBooksPerSale = 100
)

var (
	ticketDigitsPattern = regexp.MustCompile(`^\d+$`)
	ticketPrefixPattern = regexp.MustCompile(`^[A-Z]+$`)
)

type TicketLedger interface {
	// 售出票本：quantity 本，每本 10 張連號
	IssueBook(ctx context.Context, prefix string, startNumber string, quantity int, unitPrice int) ([]*model.Ticket, error)
	MarkUsed(ctx context.Context, number string) (*model.Ticket, error)
	MarkReturned(ctx context.Context, number string, reason string, amount int) (*model.Ticket, error)
	MarkRefunded(ctx context.Context, number string, reason string, amount int) (*model.Ticket, error)
	Find(ctx context.Context, number string) (*model.Ticket, error)
	List(ctx context.Context) ([]*model.Ticket, error)
}

type TicketLedgerImpl struct {
	mu    sync.Mutex
	store storage.Store
	clock clock.Clock
}

func NewTicketLedger(store storage.Store, clk clock.Clock) TicketLedger {
	return &TicketLedgerImpl{
		store: store,
		clock: clk,
	}
}

func (l *TicketLedgerImpl) load(ctx context.Context) (map[string]model.Ticket, error) {
	tickets := make(map[string]model.Ticket)
	if _, err := storage.LoadJSON(ctx, l.store, ticketsKey, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (l *TicketLedgerImpl) save(ctx context.Context, tickets map[string]model.Ticket) error {
	return storage.SaveJSON(ctx, l.store, ticketsKey, tickets)
}

func (l *TicketLedgerImpl) IssueBook(ctx context.Context, prefix string, startNumber string, quantity int, unitPrice int) ([]*model.Ticket, error) {
	if !ticketPrefixPattern.MatchString(prefix) || !ticketDigitsPattern.MatchString(startNumber) {
		return nil, apperrors.ErrInvalidTicketNumber
	}
	start, err := strconv.ParseUint(startNumber, 10, 64)
	if err != nil {
		return nil, apperrors.ErrInvalidTicketNumber
	}
	if quantity < 1 || quantity > MaxBooksPerSale || unitPrice < 0 {
		return nil, apperrors.ErrInvalidInput
	}

	count := uint64(quantity) * model.TicketsPerBook
	if start+count < start {
		return nil, apperrors.ErrInvalidTicketNumber
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tickets, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	now := l.clock.Now()
	issued := make([]*model.Ticket, 0, count)
	for i := uint64(0); i < count; i++ {
		number := prefix + strconv.FormatUint(start+i, 10)
		// 任一號碼重複則整批不寫入
		if _, exists := tickets[number]; exists {
			logger.WithComponent("ledger").Warn("ticket number already issued, batch rejected",
				zap.String("number", number),
				zap.String("start_number", prefix+startNumber),
				zap.Int("quantity", quantity),
			)
			return nil, apperrors.ErrTicketAlreadyIssued
		}
		issued = append(issued, &model.Ticket{
			Number:    number,
			Type:      prefix,
			Price:     unitPrice,
			Status:    model.TicketStatusActive,
			CreatedAt: now,
		})
	}

	for _, t := range issued {
		tickets[t.Number] = *t
	}
	if err := l.save(ctx, tickets); err != nil {
		return nil, err
	}
	return issued, nil
}

func (l *TicketLedgerImpl) MarkUsed(ctx context.Context, number string) (*model.Ticket, error) {
	return l.transition(ctx, number, func(t *model.Ticket) error {
		switch {
		case t.Status == model.TicketStatusUsed:
			return apperrors.ErrTicketNotActive
		case !t.Status.CanTransitionTo(model.TicketStatusUsed):
			return apperrors.ErrTicketAlreadyFinal
		}
		now := l.clock.Now()
		t.Status = model.TicketStatusUsed
		t.UsedAt = &now
		return nil
	})
}

func (l *TicketLedgerImpl) MarkReturned(ctx context.Context, number string, reason string, amount int) (*model.Ticket, error) {
	return l.markReturn(ctx, number, model.TicketStatusReturned, reason, amount)
}

func (l *TicketLedgerImpl) MarkRefunded(ctx context.Context, number string, reason string, amount int) (*model.Ticket, error) {
	return l.markReturn(ctx, number, model.TicketStatusRefunded, reason, amount)
}

func (l *TicketLedgerImpl) markReturn(ctx context.Context, number string, target model.TicketStatus, reason string, amount int) (*model.Ticket, error) {
	if amount < 0 {
		return nil, apperrors.ErrInvalidInput
	}
	return l.transition(ctx, number, func(t *model.Ticket) error {
		if !t.Status.CanTransitionTo(target) {
			return apperrors.ErrTicketAlreadyFinal
		}
		now := l.clock.Now()
		t.Status = target
		t.ReturnDate = &now
		t.ReturnReason = reason
		t.ReturnAmount = &amount
		return nil
	})
}

// transition 在鎖內讀取、套用狀態變更並寫回
func (l *TicketLedgerImpl) transition(ctx context.Context, number string, apply func(t *model.Ticket) error) (*model.Ticket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tickets, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	ticket, ok := tickets[number]
	if !ok {
		return nil, apperrors.ErrTicketNotFound
	}
	from := ticket.Status
	if err := apply(&ticket); err != nil {
		logger.WithComponent("ledger").Warn("ticket transition rejected",
			zap.String("number", number),
			zap.String("status", string(from)),
			zap.Error(err),
		)
		return nil, err
	}

	tickets[number] = ticket
	if err := l.save(ctx, tickets); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (l *TicketLedgerImpl) Find(ctx context.Context, number string) (*model.Ticket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tickets, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	ticket, ok := tickets[number]
	if !ok {
		return nil, apperrors.ErrTicketNotFound
	}
	return &ticket, nil
}

func (l *TicketLedgerImpl) List(ctx context.Context) ([]*model.Ticket, error) {
	l.mu.Lock()
	tickets, err := l.load(ctx)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}

	list := make([]*model.Ticket, 0, len(tickets))
	for number := range tickets {
		t := tickets[number]
		list = append(list, &t)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return lessTicketNumber(list[i].Number, list[j].Number)
	})
	return list, nil
}

// lessTicketNumber 同前綴時依數字排序，HI9 排在 HI10 之前
func lessTicketNumber(a, b string) bool {
	pa, na := splitTicketNumber(a)
	pb, nb := splitTicketNumber(b)
	if pa != pb {
		return pa < pb
	}
	if len(na) != len(nb) {
		return len(na) < len(nb)
	}
	return na < nb
}

func splitTicketNumber(number string) (string, string) {
	i := 0
	for i < len(number) && (number[i] < '0' || number[i] > '9') {
		i++
	}
	return number[:i], number[i:]
}
