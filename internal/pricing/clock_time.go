package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	apperrors "sauna-locker-desk/pkg/app_errors"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// parseClock 將 HH:MM 轉為距離當日 00:00 的時間長度
func parseClock(value string) (time.Duration, error) {
	m := clockPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, fmt.Errorf("%w: malformed time %q, want HH:MM", apperrors.ErrInvalidConfiguration, value)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, nil
}

// timeOfDay 回傳 t 距離當日 00:00 (t 所在時區) 的時間長度
func timeOfDay(t time.Time) time.Duration {
	hour, minute, second := t.Clock()
	return time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second +
		time.Duration(t.Nanosecond())
}

// nextDayAt 回傳 t 隔天的指定時刻，以牆上時間計算
func nextDayAt(t time.Time, offset time.Duration) time.Time {
	year, month, day := t.Date()
	hour := int(offset / time.Hour)
	minute := int((offset % time.Hour) / time.Minute)
	return time.Date(year, month, day+1, hour, minute, 0, 0, t.Location())
}
