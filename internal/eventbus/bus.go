package eventbus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Handler 事件处理函数
type Handler[E any] func(ctx context.Context, event E) error

type subscription[E any] struct {
	id      uint64
	handler Handler[E]
}

// Bus 按事件类型分发的同步事件总线，同一类型的处理函数按订阅顺序执行
type Bus[K comparable, E any] struct {
	mutex       sync.RWMutex
	subscribers map[K][]subscription[E]
	counter     uint64
}

func NewBus[K comparable, E any]() *Bus[K, E] {
	return &Bus[K, E]{
		subscribers: make(map[K][]subscription[E]),
	}
}

// Subscribe 订阅事件，返回取消订阅函数
func (b *Bus[K, E]) Subscribe(eventType K, handler Handler[E]) func() {
	if handler == nil {
		return func() {}
	}
	id := atomic.AddUint64(&b.counter, 1)
	b.mutex.Lock()
	b.subscribers[eventType] = append(b.subscribers[eventType], subscription[E]{id: id, handler: handler})
	b.mutex.Unlock()
	return func() {
		b.mutex.Lock()
		defer b.mutex.Unlock()
		subs := b.subscribers[eventType]
		for i, s := range subs {
			if s.id == id {
				subs = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(subs) == 0 {
			delete(b.subscribers, eventType)
			return
		}
		b.subscribers[eventType] = subs
	}
}

// Publish 同步调用全部处理函数，单个处理函数出错不影响其余处理函数
func (b *Bus[K, E]) Publish(ctx context.Context, eventType K, event E) error {
	b.mutex.RLock()
	subs := b.subscribers[eventType]
	handlers := make([]Handler[E], 0, len(subs))
	for _, s := range subs {
		handlers = append(handlers, s.handler)
	}
	b.mutex.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// HasSubscribers 是否存在订阅者
func (b *Bus[K, E]) HasSubscribers(eventType K) bool {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.subscribers[eventType]) > 0
}
