package request_hold

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ProviderRepository интерфейс репозитория провайдеров
type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// HoldIndex интерфейс индекса доступности для размещения холдов
type HoldIndex interface {
	PlaceHold(ctx context.Context, req availability.HoldRequest) (*domain.Hold, error)
}

// Metrics интерфейс бизнес-метрик холдов
type Metrics interface {
	IncHoldPlaced()
	IncHoldConflict()
}

// NoopMetrics заглушка метрик, когда сбор выключен
type NoopMetrics struct{}

func (NoopMetrics) IncHoldPlaced()   {}
func (NoopMetrics) IncHoldConflict() {}

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
