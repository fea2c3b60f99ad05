package pricing

import (
	"fmt"
	"time"

	"sauna-locker-desk/internal/model"
	apperrors "sauna-locker-desk/pkg/app_errors"
)

// Validate 在載入時檢查計價設定，任何錯誤都視為 ErrInvalidConfiguration
func Validate(cfg *model.PricingConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: pricing config is nil", apperrors.ErrInvalidConfiguration)
	}
	if cfg.BasePrice < 0 {
		return fmt.Errorf("%w: base price must not be negative", apperrors.ErrInvalidConfiguration)
	}
	if cfg.DefaultStayHours <= 0 {
		return fmt.Errorf("%w: default stay hours must be positive", apperrors.ErrInvalidConfiguration)
	}
	if cfg.Overtime.UnitMinutes < 0 || cfg.Overtime.FeePerUnit < 0 || cfg.Overtime.GraceMinutes < 0 {
		return fmt.Errorf("%w: overtime settings must not be negative", apperrors.ErrInvalidConfiguration)
	}

	for i := range cfg.Rules {
		if err := validateRule(&cfg.Rules[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateRule(rule *model.TimeSlotRule) error {
	if rule.Name == "" {
		return fmt.Errorf("%w: rule name is required", apperrors.ErrInvalidConfiguration)
	}
	if rule.Price < 0 {
		return fmt.Errorf("%w: rule %q: price must not be negative", apperrors.ErrInvalidConfiguration, rule.Name)
	}
	if rule.Price == 0 && !rule.AllowZero {
		return fmt.Errorf("%w: rule %q: zero price requires allowZero", apperrors.ErrInvalidConfiguration, rule.Name)
	}
	if len(rule.Days) == 0 {
		return fmt.Errorf("%w: rule %q: days are required", apperrors.ErrInvalidConfiguration, rule.Name)
	}
	for _, d := range rule.Days {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: rule %q: weekday %d out of range 0-6", apperrors.ErrInvalidConfiguration, rule.Name, d)
		}
	}

	start, end, err := ruleWindow(rule)
	if err != nil {
		return err
	}
	if rule.HasMaxStayTime() {
		if _, err := parseClock(rule.MaxStayTime); err != nil {
			return fmt.Errorf("rule %q max stay time: %w", rule.Name, err)
		}
	} else if end < start {
		return fmt.Errorf("%w: rule %q: end time before start time requires maxStayTime", apperrors.ErrInvalidConfiguration, rule.Name)
	}
	return nil
}

// RuleOverlap 兩條規則在同一星期的時段重疊
type RuleOverlap struct {
	First   string
	Second  string
	Weekday int
}

// Overlaps 找出重疊的規則組合；重疊時以先宣告者為準，呼叫端可據此提出警告。
// 需先通過 Validate。
func Overlaps(cfg *model.PricingConfig) []RuleOverlap {
	var overlaps []RuleOverlap
	for i := 0; i < len(cfg.Rules); i++ {
		a := &cfg.Rules[i]
		aStart, aEnd, err := ruleWindow(a)
		if err != nil || aEnd < aStart {
			continue
		}
		for j := i + 1; j < len(cfg.Rules); j++ {
			b := &cfg.Rules[j]
			bStart, bEnd, err := ruleWindow(b)
			if err != nil || bEnd < bStart {
				continue
			}
			if aStart > bEnd || bStart > aEnd {
				continue
			}
			for _, d := range a.Days {
				if b.AppliesOn(time.Weekday(d)) {
					overlaps = append(overlaps, RuleOverlap{First: a.Name, Second: b.Name, Weekday: d})
					break
				}
			}
		}
	}
	return overlaps
}
