package pricing

import (
	"time"

	"sauna-locker-desk/internal/model"
	apperrors "sauna-locker-desk/pkg/app_errors"
)

// Overtime 計算超過 validUntil 的停留時間與加收金額。
// 寬限時間內不計費，超出部分每滿 (或未滿) 一個單位收一次費用。
func Overtime(validUntil, at time.Time, policy model.OvertimePolicy) (model.OvertimeDecision, error) {
	if validUntil.IsZero() || at.IsZero() {
		return model.OvertimeDecision{}, apperrors.ErrInvalidTimestamp
	}
	if !at.After(validUntil) {
		return model.OvertimeDecision{}, nil
	}

	over := at.Sub(validUntil)
	decision := model.OvertimeDecision{Minutes: ceilUnits(over, time.Minute)}
	if policy.UnitMinutes <= 0 {
		return decision, nil
	}

	billable := over - time.Duration(policy.GraceMinutes)*time.Minute
	if billable <= 0 {
		return decision, nil
	}

	decision.Units = ceilUnits(billable, time.Duration(policy.UnitMinutes)*time.Minute)
	decision.Fee = decision.Units * policy.FeePerUnit
	return decision, nil
}

func ceilUnits(d, unit time.Duration) int {
	return int((d + unit - 1) / unit)
}
