package providers

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ProviderRepository интерфейс репозитория провайдеров
type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	UpdateConfig(ctx context.Context, p *domain.Provider) error
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	ListByProvider(ctx context.Context, providerID int64, activeOnly bool) ([]*domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
