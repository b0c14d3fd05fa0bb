package request_hold

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	providerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/provider"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
)

// UseCase use case для взятия эксклюзивного холда на слот
type UseCase struct {
	providerRepo ProviderRepository
	serviceRepo  ServiceRepository
	holdIndex    HoldIndex
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	providerRepo ProviderRepository,
	serviceRepo ServiceRepository,
	holdIndex HoldIndex,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &UseCase{
		providerRepo: providerRepo,
		serviceRepo:  serviceRepo,
		holdIndex:    holdIndex,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case взятия холда.
// Конкурентные попытки на пересекающиеся диапазоны одного провайдера
// сериализуются индексом доступности: побеждает ровно одна, остальные
// детерминированно получают ErrSlotConflict.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RequestHold: client=%d, provider=%d, service=%d, date=%s, time=%s",
		req.ClientID, req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RequestHold: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем провайдера
	provider, err := uc.providerRepo.GetByID(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			uc.logger.Warn("RequestHold: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("RequestHold: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	if !provider.IsActive {
		uc.logger.Warn("RequestHold: provider id=%d is inactive", req.ProviderID)
		return nil, ErrProviderNotFound
	}

	// 4. Получаем услугу и проверяем принадлежность провайдеру
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("RequestHold: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("RequestHold: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.ProviderID != req.ProviderID || !service.IsActive {
		uc.logger.Warn("RequestHold: service id=%d not available for provider id=%d",
			req.ServiceID, req.ProviderID)
		return nil, ErrServiceNotAvailable
	}

	// 5. Валидация даты
	if err := validateDate(req.Date, now, provider.AdvanceBookingDays); err != nil {
		uc.logger.Warn("RequestHold: date validation failed: %v", err)
		return nil, err
	}

	// 6. Выравнивание по сетке слотов и рабочим часам
	day := provider.Schedule.For(req.Date.Weekday())
	endTime, err := validateSlotAlignment(day, provider, req.StartTime)
	if err != nil {
		uc.logger.Warn("RequestHold: slot alignment failed for provider=%d, time=%s: %v",
			req.ProviderID, req.StartTime, err)
		return nil, err
	}

	// 7. Проверка минимального времени до начала
	if err := validateBookingTime(req.Date, req.StartTime, now, provider.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("RequestHold: booking time validation failed: %v", err)
		return nil, err
	}

	// 8. Пытаемся взять холд; конфликт разрешает индекс доступности
	hold, err := uc.holdIndex.PlaceHold(ctx, availability.HoldRequest{
		ProviderID:   req.ProviderID,
		ServiceID:    req.ServiceID,
		ClientID:     req.ClientID,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      endTime,
		ServiceName:  service.Name,
		ServicePrice: service.Price,
	})
	if err != nil {
		if errors.Is(err, availability.ErrSlotConflict) {
			uc.metrics.IncHoldConflict()
			uc.logger.Warn("RequestHold: slot conflict for provider=%d, %s %s",
				req.ProviderID, req.Date.Format(domain.DateFormat), req.StartTime)
			return nil, ErrSlotConflict
		}
		uc.logger.Error("RequestHold: failed to place hold: %v", err)
		return nil, fmt.Errorf("%w: failed to place hold: %v", ErrInternal, err)
	}

	uc.metrics.IncHoldPlaced()
	uc.logger.Info("RequestHold: hold %s placed for client=%d, provider=%d, expires=%s",
		hold.ID, req.ClientID, req.ProviderID, hold.ExpiresAt)

	return &Response{
		HoldID:       hold.ID,
		ClientID:     hold.ClientID,
		ProviderID:   hold.ProviderID,
		ServiceID:    hold.ServiceID,
		Date:         hold.Date,
		StartTime:    hold.StartTime,
		EndTime:      hold.EndTime,
		ServiceName:  hold.ServiceName,
		ServicePrice: hold.ServicePrice,
		ExpiresAt:    hold.ExpiresAt,
		CreatedAt:    hold.CreatedAt,
	}, nil
}
