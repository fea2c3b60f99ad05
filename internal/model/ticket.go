package model

import "time"

// TicketStatus 票券狀態類型
type TicketStatus string

const (
	TicketStatusActive   TicketStatus = "active"
	TicketStatusUsed     TicketStatus = "used"
	TicketStatusReturned TicketStatus = "returned"
	TicketStatusRefunded TicketStatus = "refunded"
)

// TicketsPerBook 每本票券張數
const TicketsPerBook = 10

// IsValid 驗證狀態是否有效
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusActive, TicketStatusUsed, TicketStatusReturned, TicketStatusRefunded:
		return true
	}
	return false
}

// IsFinal 已使用、已退回、已退款皆為終態
func (s TicketStatus) IsFinal() bool {
	return s == TicketStatusUsed || s == TicketStatusReturned || s == TicketStatusRefunded
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	transitions := map[TicketStatus][]TicketStatus{
		TicketStatusActive:   {TicketStatusUsed, TicketStatusReturned, TicketStatusRefunded},
		TicketStatusUsed:     {},
		TicketStatusReturned: {},
		TicketStatusRefunded: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Ticket 票券模型，Number 格式為 <PREFIX><digits>
type Ticket struct {
	Number       string       `json:"number"`
	Type         string       `json:"type"`
	Price        int          `json:"price"`
	Status       TicketStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UsedAt       *time.Time   `json:"used_at,omitempty"`
	ReturnDate   *time.Time   `json:"return_date,omitempty"`
	ReturnReason string       `json:"return_reason,omitempty"`
	ReturnAmount *int         `json:"return_amount,omitempty"`
}

// TicketType 票種設定
type TicketType struct {
	Name  string `json:"name" yaml:"name"`
	Price int    `json:"price" yaml:"price"`
}

// SellBookRequest 售出票本請求
type SellBookRequest struct {
	Type        string `json:"type" binding:"required"`
	StartNumber string `json:"start_number" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

// ReturnTicketRequest 退票請求
type ReturnTicketRequest struct {
	Reason string `json:"reason" binding:"required"`
	Amount int    `json:"amount" binding:"min=0"`
}
