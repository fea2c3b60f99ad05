package pricing

import (
	"fmt"
	"time"

	"sauna-locker-desk/internal/model"
	apperrors "sauna-locker-desk/pkg/app_errors"
)

// Evaluate 依入場時間決定價格、適用規則與有效期限。
// 規則依宣告順序比對，第一個符合星期與時段 (兩端皆包含) 的規則勝出；
// 沒有規則符合時使用基本價格。不修改 cfg，相同輸入永遠得到相同結果。
func Evaluate(now time.Time, cfg *model.PricingConfig) (model.PriceDecision, error) {
	if now.IsZero() {
		return model.PriceDecision{}, apperrors.ErrInvalidTimestamp
	}
	if cfg == nil {
		return model.PriceDecision{}, fmt.Errorf("%w: pricing config is nil", apperrors.ErrInvalidConfiguration)
	}

	stay := time.Duration(cfg.DefaultStayHours) * time.Hour
	offset := timeOfDay(now)

	for i := range cfg.Rules {
		rule := &cfg.Rules[i]
		if !rule.AppliesOn(now.Weekday()) {
			continue
		}

		start, end, err := ruleWindow(rule)
		if err != nil {
			return model.PriceDecision{}, err
		}
		if offset < start || offset > end {
			continue
		}

		validUntil := now.Add(stay)
		if rule.HasMaxStayTime() {
			cutoff, err := parseClock(rule.MaxStayTime)
			if err != nil {
				return model.PriceDecision{}, fmt.Errorf("rule %q max stay time: %w", rule.Name, err)
			}
			validUntil = nextDayAt(now, cutoff)
		}

		return model.PriceDecision{
			IsSpecialRule: true,
			Price:         rule.Price,
			RuleName:      rule.Name,
			ValidUntil:    validUntil,
		}, nil
	}

	return model.PriceDecision{
		IsSpecialRule: false,
		Price:         cfg.BasePrice,
		ValidUntil:    now.Add(stay),
	}, nil
}

func ruleWindow(rule *model.TimeSlotRule) (time.Duration, time.Duration, error) {
	start, err := parseClock(rule.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("rule %q start time: %w", rule.Name, err)
	}
	end, err := parseClock(rule.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("rule %q end time: %w", rule.Name, err)
	}
	return start, end, nil
}
