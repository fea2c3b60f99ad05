package model

import "time"

// LedgerEventType 帳務事件類型
type LedgerEventType string

const (
	EventEntryRegistered LedgerEventType = "entry.registered"
	EventEntryCheckedOut LedgerEventType = "entry.checked_out"
	EventEntryCancelled  LedgerEventType = "entry.cancelled"
	EventTicketSold      LedgerEventType = "ticket.sold"
	EventTicketReturned  LedgerEventType = "ticket.returned"
	EventTicketRefunded  LedgerEventType = "ticket.refunded"
)

// DayLayout 統計日期格式
const DayLayout = "2006-01-02"

// LedgerEvent 入場、退場、售票、退票時發出的事件，供統計使用
type LedgerEvent struct {
	ID         string          `json:"id"`
	Type       LedgerEventType `json:"type"`
	Day        string          `json:"day"`
	OccurredAt time.Time       `json:"occurred_at"`
	Amount     int             `json:"amount"`
	Count      int             `json:"count"`
	Reference  string          `json:"reference,omitempty"`
}

// DailyStats 單日統計
type DailyStats struct {
	Day             string `json:"day"`
	Entries         int    `json:"entries"`
	EntryRevenue    int    `json:"entry_revenue"`
	OvertimeRevenue int    `json:"overtime_revenue"`
	Cancelled       int    `json:"cancelled"`
	TicketsSold     int    `json:"tickets_sold"`
	TicketRevenue   int    `json:"ticket_revenue"`
	TicketsReturned int    `json:"tickets_returned"`
	TicketsRefunded int    `json:"tickets_refunded"`
	RefundAmount    int    `json:"refund_amount"`
}

// NetRevenue 當日淨收入
func (s DailyStats) NetRevenue() int {
	return s.EntryRevenue + s.OvertimeRevenue + s.TicketRevenue - s.RefundAmount
}
