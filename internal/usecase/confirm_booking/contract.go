package confirm_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/payments"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// HoldIndex интерфейс индекса доступности для работы с холдами
type HoldIndex interface {
	GetHold(holdID string) (*domain.Hold, error)
	ReleaseHold(holdID string)
	ConvertHold(holdID string)
}

// PaymentClient интерфейс клиента платежного сервиса
type PaymentClient interface {
	Authorize(ctx context.Context, amount float64, paymentToken, idempotencyKey string) (*payments.Authorization, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс для публикации событий жизненного цикла бронирования
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent)
}

// Metrics интерфейс бизнес-метрик бронирований
type Metrics interface {
	IncBooking(status string)
}

// NoopMetrics заглушка метрик, когда сбор выключен
type NoopMetrics struct{}

func (NoopMetrics) IncBooking(status string) {}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
