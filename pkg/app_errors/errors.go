package apperrors

import "errors"

var (
	// 置物櫃
	ErrInvalidLocker         = errors.New("invalid locker number")
	ErrLockerAlreadyOccupied = errors.New("locker already occupied")
	ErrLockerNotOccupied     = errors.New("locker not occupied")

	// 票券
	ErrInvalidTicketNumber = errors.New("invalid ticket number")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTicketNotActive     = errors.New("ticket not active")
	ErrTicketAlreadyFinal  = errors.New("ticket already used, returned or refunded")
	ErrTicketAlreadyIssued = errors.New("ticket number already issued")

	// 入場紀錄
	ErrEntryNotFound      = errors.New("entry not found")
	ErrInvalidEntryStatus = errors.New("invalid entry status")

	// 設定與輸入
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidTimestamp     = errors.New("invalid timestamp")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnknownEvent         = errors.New("unknown ledger event")
)
