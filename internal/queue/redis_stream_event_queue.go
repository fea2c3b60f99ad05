package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"sauna-locker-desk/internal/model"
	"sauna-locker-desk/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey         = "ledger:events"
	ConsumerGroupName = "stats-workers"
	eventField        = "event"
)

// RedisStreamEventQueueConfig 零值欄位使用預設值
type RedisStreamEventQueueConfig struct {
	StreamKey string
	// 未 ack 超過此時間的事件由 XAUTOCLAIM 領回重送
	ClaimInterval time.Duration
	// 投遞次數達上限的事件直接 ack 丟棄
	MaxDeliveries int
	ReadBlock     time.Duration
	BatchSize     int64
	// 串流長度上限 (近似裁切)，統計事件處理完即可捨棄
	MaxLen int64
}

func (c RedisStreamEventQueueConfig) withDefaults() RedisStreamEventQueueConfig {
	if c.StreamKey == "" {
		c.StreamKey = StreamKey
	}
	if c.ClaimInterval <= 0 {
		c.ClaimInterval = 5 * time.Second
	}
	if c.MaxDeliveries <= 0 {
		c.MaxDeliveries = 5
	}
	if c.ReadBlock <= 0 {
		c.ReadBlock = 2 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.MaxLen <= 0 {
		c.MaxLen = 100000
	}
	return c
}

type RedisStreamEventQueueImpl struct {
	client   *redis.Client
	consumer string
	cfg      RedisStreamEventQueueConfig
	log      *zap.Logger
}

// NewRedisStreamEventQueue 建立 Redis Stream 版 EventQueue，並確保 consumer group 存在。
// consumerID 為空時使用隨機 ID；cfg 可為 nil。
func NewRedisStreamEventQueue(client *redis.Client, consumerID string, cfg *RedisStreamEventQueueConfig) (EventQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	var c RedisStreamEventQueueConfig
	if cfg != nil {
		c = *cfg
	}

	q := &RedisStreamEventQueueImpl{
		client:   client,
		consumer: "stats:" + consumerID,
		cfg:      c.withDefaults(),
		log:      logger.WithComponent("mq"),
	}

	err := client.XGroupCreateMkStream(context.Background(), q.cfg.StreamKey, ConsumerGroupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}
	return q, nil
}

func (q *RedisStreamEventQueueImpl) Publish(ctx context.Context, event *model.LedgerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.cfg.StreamKey,
		MaxLen: q.cfg.MaxLen,
		Approx: true,
		Values: map[string]interface{}{eventField: string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", q.cfg.StreamKey, err)
	}
	return nil
}

// Subscribe 一個 goroutine 讀新事件 (">")，另一個定時領回逾時未 ack 的事件；
// 兩者都結束後關閉 channel。
func (q *RedisStreamEventQueueImpl) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	claimDone := make(chan struct{})

	go func() {
		defer close(claimDone)
		q.claimLoop(ctx, out)
	}()
	go func() {
		defer close(out)
		q.readLoop(ctx, out)
		<-claimDone
	}()
	return out, nil
}

func (q *RedisStreamEventQueueImpl) readLoop(ctx context.Context, out chan<- Delivery) {
	for ctx.Err() == nil {
		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    ConsumerGroupName,
			Consumer: q.consumer,
			Streams:  []string{q.cfg.StreamKey, ">"},
			Count:    q.cfg.BatchSize,
			Block:    q.cfg.ReadBlock,
		}).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			q.log.Error("XReadGroup failed", zap.Error(err))
			sleep(ctx, time.Second)
			continue
		}

		for _, stream := range streams {
			if !q.deliver(ctx, out, stream.Messages, false) {
				return
			}
		}
	}
}

func (q *RedisStreamEventQueueImpl) claimLoop(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimInterval)
	defer ticker.Stop()

	cursor := "0-0"
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		msgs, next, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   q.cfg.StreamKey,
			Group:    ConsumerGroupName,
			Consumer: q.consumer,
			MinIdle:  q.cfg.ClaimInterval,
			Start:    cursor,
			Count:    q.cfg.BatchSize,
		}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return
			}
			q.log.Error("XAutoClaim failed", zap.Error(err))
			continue
		}
		// 游標回到 0-0 代表 PEL 已掃完一輪
		cursor = next
		if cursor == "" {
			cursor = "0-0"
		}

		if !q.deliver(ctx, out, msgs, true) {
			return
		}
	}
}

// deliver 將訊息轉成 Delivery 送出；ctx 結束時回傳 false
func (q *RedisStreamEventQueueImpl) deliver(ctx context.Context, out chan<- Delivery, msgs []redis.XMessage, redelivered bool) bool {
	for _, msg := range msgs {
		if redelivered && q.exhausted(ctx, msg.ID) {
			q.ack(msg.ID, "poison")
			continue
		}

		event, err := decodeEvent(msg)
		if err != nil {
			q.log.Warn("drop malformed message", zap.String("message_id", msg.ID), zap.Error(err))
			q.ack(msg.ID, "malformed")
			continue
		}

		id := msg.ID
		d := Delivery{
			Data: event,
			Ack:  func() { q.ack(id, "") },
			Nack: func(requeue bool) {
				if requeue {
					// 留在 PEL，ClaimInterval 後重送
					q.log.Debug("nack, waiting for reclaim", zap.String("message_id", id))
					return
				}
				q.ack(id, "nack")
			},
		}

		select {
		case out <- d:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// exhausted 查詢 PEL 中的投遞次數是否已達上限
func (q *RedisStreamEventQueueImpl) exhausted(ctx context.Context, id string) bool {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.cfg.StreamKey,
		Group:  ConsumerGroupName,
		Start:  id,
		End:    id,
		Count:  1,
	}).Result()
	if err != nil || len(pending) == 0 {
		if err != nil && !errors.Is(err, redis.Nil) {
			q.log.Warn("XPendingExt failed", zap.String("message_id", id), zap.Error(err))
		}
		return false
	}

	if int(pending[0].RetryCount) > q.cfg.MaxDeliveries {
		q.log.Warn("discard poison message",
			zap.String("message_id", id),
			zap.Int64("deliveries", pending[0].RetryCount),
			zap.Int("max_deliveries", q.cfg.MaxDeliveries),
		)
		return true
	}
	return false
}

// ack 使用 Background，訂閱結束後仍能確認已處理完的事件
func (q *RedisStreamEventQueueImpl) ack(id, reason string) {
	if err := q.client.XAck(context.Background(), q.cfg.StreamKey, ConsumerGroupName, id).Err(); err != nil {
		q.log.Error("XAck failed", zap.String("message_id", id), zap.String("reason", reason), zap.Error(err))
	}
}

func decodeEvent(msg redis.XMessage) (*model.LedgerEvent, error) {
	raw, ok := msg.Values[eventField].(string)
	if !ok {
		return nil, fmt.Errorf("missing %q field", eventField)
	}
	var event model.LedgerEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
