package model

import "time"

// LockerAssignment 置物櫃使用狀態，OccupantID 為空代表空櫃
type LockerAssignment struct {
	LockerNumber int        `json:"locker_number"`
	OccupantID   string     `json:"occupant_id,omitempty"`
	OccupiedAt   *time.Time `json:"occupied_at,omitempty"`
}

// IsFree 檢查置物櫃是否為空櫃
func (a LockerAssignment) IsFree() bool {
	return a.OccupantID == ""
}

// LockerStatusResponse 單一置物櫃查詢響應
type LockerStatusResponse struct {
	LockerNumber int  `json:"locker_number"`
	Occupied     bool `json:"occupied"`
}
