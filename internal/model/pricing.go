package model

import "time"

// TimeSlotRule 特殊時段優惠規則
type TimeSlotRule struct {
	Name      string `json:"name" yaml:"name"`
	Price     int    `json:"price" yaml:"price"`
	AllowZero bool   `json:"allow_zero" yaml:"allowZero"`
	// StartTime、EndTime 為 HH:MM (24 小時制)，兩端皆包含，不跨日
	StartTime string `json:"start_time" yaml:"startTime"`
	EndTime   string `json:"end_time" yaml:"endTime"`
	// Days 0=週日 .. 6=週六
	Days []int `json:"days" yaml:"days"`
	// MaxStayTime 隔日的截止時間 (HH:MM)，有設定時取代預設停留時數
	MaxStayTime string `json:"max_stay_time,omitempty" yaml:"maxStayTime,omitempty"`
}

// HasMaxStayTime 是否設定隔日截止時間
func (r *TimeSlotRule) HasMaxStayTime() bool {
	return r.MaxStayTime != ""
}

// AppliesOn 檢查規則是否適用於該星期
func (r *TimeSlotRule) AppliesOn(weekday time.Weekday) bool {
	for _, d := range r.Days {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// OvertimePolicy 超時加收設定
type OvertimePolicy struct {
	// UnitMinutes 每單位分鐘數，0 表示不加收
	UnitMinutes  int `json:"unit_minutes" yaml:"unitMinutes"`
	FeePerUnit   int `json:"fee_per_unit" yaml:"feePerUnit"`
	GraceMinutes int `json:"grace_minutes" yaml:"graceMinutes"`
}

// PricingConfig 計價設定，規則依宣告順序比對，先宣告者優先
type PricingConfig struct {
	BasePrice        int            `json:"base_price" yaml:"basePrice"`
	DefaultStayHours int            `json:"default_stay_hours" yaml:"defaultStayHours"`
	Rules            []TimeSlotRule `json:"rules" yaml:"rules"`
	Overtime         OvertimePolicy `json:"overtime" yaml:"overtime"`
}

// PriceDecision 計價結果
type PriceDecision struct {
	IsSpecialRule bool      `json:"is_special_rule"`
	Price         int       `json:"price"`
	RuleName      string    `json:"rule_name"`
	ValidUntil    time.Time `json:"valid_until"`
}

// OvertimeDecision 超時計算結果
type OvertimeDecision struct {
	Minutes int `json:"minutes"`
	Units   int `json:"units"`
	Fee     int `json:"fee"`
}

// IsOvertime 是否需要加收
func (d OvertimeDecision) IsOvertime() bool {
	return d.Minutes > 0
}
