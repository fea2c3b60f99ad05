package queue

import (
	"context"
	"sauna-locker-desk/internal/model"
)

type Delivery struct {
	Data *model.LedgerEvent
	Ack  func()
	Nack func(requeue bool)
}

type EventQueue interface {
	// 發送帳務事件到隊列
	Publish(ctx context.Context, event *model.LedgerEvent) error
	// 訂閱帳務事件
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

type EventQueueImpl struct {
	// 單機版以 Go channel 作為隊列
	ch chan *model.LedgerEvent
}

func NewEventQueue(bufferSize int) EventQueue {
	return &EventQueueImpl{
		ch: make(chan *model.LedgerEvent, bufferSize),
	}
}

func (q *EventQueueImpl) Publish(ctx context.Context, event *model.LedgerEvent) error {
	select {
	case q.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *EventQueueImpl) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-q.ch:
				if !ok {
					return
				}

				d := Delivery{
					Data: event,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if !requeue {
							return
						}
						// 隊列已滿時放棄重試，避免卡住消費者
						select {
						case q.ch <- event:
						default:
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
