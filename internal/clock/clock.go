package clock

import (
	"sync"
	"time"
)

// Clock 提供目前時間，核心邏輯一律透過注入的 Clock 取得時間
type Clock interface {
	Now() time.Time
}

type realClock struct {
	loc *time.Location
}

// NewReal 回傳系統時鐘，時間轉換到場館所在時區
func NewReal(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return &realClock{loc: loc}
}

func (c *realClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Fixed 測試用時鐘，可手動前進
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (c *Fixed) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Fixed) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Fixed) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
