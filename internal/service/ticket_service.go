package service

import (
	"context"
	"fmt"
	"strings"

	"sauna-locker-desk/internal/clock"
	"sauna-locker-desk/internal/ledger"
	"sauna-locker-desk/internal/model"
	"sauna-locker-desk/internal/queue"
	apperrors "sauna-locker-desk/pkg/app_errors"
	"sauna-locker-desk/pkg/logger"

	"go.uber.org/zap"
)

type TicketService interface {
	// 依票種售出票本，單價取自票種設定
	SellBook(ctx context.Context, req model.SellBookRequest) ([]*model.Ticket, error)
	Use(ctx context.Context, number string) (*model.Ticket, error)
	Return(ctx context.Context, number string, req model.ReturnTicketRequest) (*model.Ticket, error)
	Refund(ctx context.Context, number string, req model.ReturnTicketRequest) (*model.Ticket, error)
	Find(ctx context.Context, number string) (*model.Ticket, error)
	List(ctx context.Context) ([]*model.Ticket, error)
}

type TicketServiceImpl struct {
	ledger ledger.TicketLedger
	types  map[string]model.TicketType
	clock  clock.Clock
	events queue.EventQueue
}

func NewTicketService(
	ticketLedger ledger.TicketLedger,
	types map[string]model.TicketType,
	clk clock.Clock,
	events queue.EventQueue,
) TicketService {
	return &TicketServiceImpl{
		ledger: ticketLedger,
		types:  types,
		clock:  clk,
		events: events,
	}
}

func (s *TicketServiceImpl) SellBook(ctx context.Context, req model.SellBookRequest) ([]*model.Ticket, error) {
	prefix := strings.ToUpper(strings.TrimSpace(req.Type))
	ticketType, ok := s.types[prefix]
	if !ok {
		return nil, fmt.Errorf("%w: unknown ticket type %q", apperrors.ErrInvalidInput, req.Type)
	}

	tickets, err := s.ledger.IssueBook(ctx, prefix, strings.TrimSpace(req.StartNumber), req.Quantity, ticketType.Price)
	if err != nil {
		return nil, err
	}

	reference := tickets[0].Number + "-" + tickets[len(tickets)-1].Number
	logger.WithComponent("service").Info("ticket books sold",
		zap.String("range", reference),
		zap.Int("tickets", len(tickets)),
		zap.Int("amount", ticketType.Price*len(tickets)),
	)
	publishEvent(ctx, s.events, newLedgerEvent(
		model.EventTicketSold, s.clock.Now(), ticketType.Price*len(tickets), len(tickets), reference,
	))
	return tickets, nil
}

func (s *TicketServiceImpl) Use(ctx context.Context, number string) (*model.Ticket, error) {
	return s.ledger.MarkUsed(ctx, strings.TrimSpace(number))
}

func (s *TicketServiceImpl) Return(ctx context.Context, number string, req model.ReturnTicketRequest) (*model.Ticket, error) {
	ticket, err := s.ledger.MarkReturned(ctx, strings.TrimSpace(number), req.Reason, req.Amount)
	if err != nil {
		return nil, err
	}
	logger.WithComponent("service").Info("ticket returned",
		zap.String("number", ticket.Number),
		zap.String("reason", req.Reason),
		zap.Int("amount", req.Amount),
	)
	publishEvent(ctx, s.events, newLedgerEvent(model.EventTicketReturned, s.clock.Now(), req.Amount, 1, ticket.Number))
	return ticket, nil
}

func (s *TicketServiceImpl) Refund(ctx context.Context, number string, req model.ReturnTicketRequest) (*model.Ticket, error) {
	ticket, err := s.ledger.MarkRefunded(ctx, strings.TrimSpace(number), req.Reason, req.Amount)
	if err != nil {
		return nil, err
	}
	logger.WithComponent("service").Info("ticket refunded",
		zap.String("number", ticket.Number),
		zap.String("reason", req.Reason),
		zap.Int("amount", req.Amount),
	)
	publishEvent(ctx, s.events, newLedgerEvent(model.EventTicketRefunded, s.clock.Now(), req.Amount, 1, ticket.Number))
	return ticket, nil
}

func (s *TicketServiceImpl) Find(ctx context.Context, number string) (*model.Ticket, error) {
	return s.ledger.Find(ctx, strings.TrimSpace(number))
}

func (s *TicketServiceImpl) List(ctx context.Context) ([]*model.Ticket, error) {
	return s.ledger.List(ctx)
}
