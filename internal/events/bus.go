package events

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Subscriber получает события жизненного цикла бронирований.
// Доставка синхронная относительно Publish, поэтому подписчики должны быть
// быстрыми либо уходить в свою горутину.
type Subscriber interface {
	Notify(ctx context.Context, event domain.BookingEvent)
}

// SubscriberFunc адаптер функции к интерфейсу Subscriber
type SubscriberFunc func(ctx context.Context, event domain.BookingEvent)

// Notify вызывает функцию-подписчик
func (f SubscriberFunc) Notify(ctx context.Context, event domain.BookingEvent) {
	f(ctx, event)
}

// Bus внутрипроцессная шина событий бронирований.
// Внешние коллабораторы (уведомления, чат, видео) подписываются на неё,
// ядро никогда не вызывает их напрямую.
type Bus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewBus создает новую шину событий
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe регистрирует подписчика на все события
func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, s)
}

// Publish рассылает событие всем подписчикам
func (b *Bus) Publish(ctx context.Context, event domain.BookingEvent) {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, s := range subs {
		s.Notify(ctx, event)
	}
}
