package model

import (
	"time"

	"github.com/google/uuid"
)

// EntryStatus 入場紀錄狀態
type EntryStatus string

const (
	EntryStatusActive     EntryStatus = "active"
	EntryStatusCheckedOut EntryStatus = "checked_out"
	EntryStatusCancelled  EntryStatus = "cancelled"
)

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s EntryStatus) CanTransitionTo(target EntryStatus) bool {
	transitions := map[EntryStatus][]EntryStatus{
		EntryStatusActive:     {EntryStatusCheckedOut, EntryStatusCancelled},
		EntryStatusCheckedOut: {},
		EntryStatusCancelled:  {},
	}

	for _, status := range transitions[s] {
		if status == target {
			return true
		}
	}
	return false
}

// PaymentMethod 付款方式
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentTicket PaymentMethod = "ticket"
)

// IsValid 驗證付款方式是否有效
func (p PaymentMethod) IsValid() bool {
	return p == PaymentCash || p == PaymentTicket
}

// Entry 入場紀錄
type Entry struct {
	ID              uuid.UUID     `json:"id"`
	LockerNumber    int           `json:"locker_number"`
	CustomerName    string        `json:"customer_name,omitempty"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	TicketNumber    string        `json:"ticket_number,omitempty"`
	Price           int           `json:"price"`
	RuleName        string        `json:"rule_name,omitempty"`
	IsSpecialRule   bool          `json:"is_special_rule"`
	CheckInAt       time.Time     `json:"check_in_at"`
	ValidUntil      time.Time     `json:"valid_until"`
	CheckOutAt      *time.Time    `json:"check_out_at,omitempty"`
	OvertimeMinutes int           `json:"overtime_minutes"`
	OvertimeFee     int           `json:"overtime_fee"`
	Status          EntryStatus   `json:"status"`
}

// IsActive 檢查是否仍在館內
func (e *Entry) IsActive() bool {
	return e.Status == EntryStatusActive
}

// RegisterEntryRequest 入場登記請求
type RegisterEntryRequest struct {
	LockerNumber  int           `json:"locker_number" binding:"required,min=1"`
	CustomerName  string        `json:"customer_name"`
	PaymentMethod PaymentMethod `json:"payment_method" binding:"required"`
	TicketNumber  string        `json:"ticket_number"`
}
