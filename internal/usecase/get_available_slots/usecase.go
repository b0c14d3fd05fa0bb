package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	providerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/provider"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
)

// UseCase use case для получения слотов провайдера на дату
type UseCase struct {
	providerRepo ProviderRepository
	serviceRepo  ServiceRepository
	bookingRepo  BookingRepository
	holdIndex    HoldIndex
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	providerRepo ProviderRepository,
	serviceRepo ServiceRepository,
	bookingRepo BookingRepository,
	holdIndex HoldIndex,
	logger Logger,
) *UseCase {
	return &UseCase{
		providerRepo: providerRepo,
		serviceRepo:  serviceRepo,
		bookingRepo:  bookingRepo,
		holdIndex:    holdIndex,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов.
// Доступность детерминирована: слот закрыт тогда и только тогда, когда его
// диапазон пересекается с активным бронированием или живым холдом.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: client=%d, provider=%d, service=%d, date=%s",
		req.ClientID, req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем провайдера с расписанием
	provider, err := uc.providerRepo.GetByID(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			uc.logger.Warn("GetAvailableSlots: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	if !provider.IsActive {
		uc.logger.Warn("GetAvailableSlots: provider id=%d is inactive", req.ProviderID)
		return nil, ErrProviderNotFound
	}

	// 4. Получаем услугу и проверяем, что она принадлежит провайдеру
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.ProviderID != req.ProviderID || !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d not available for provider id=%d",
			req.ServiceID, req.ProviderID)
		return nil, ErrServiceNotAvailable
	}

	// 5. Валидация даты с учетом ограничения глубины бронирования
	if err := validateDate(req.Date, now, provider.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 6. Рабочие часы на указанный день недели
	day := provider.Schedule.For(req.Date.Weekday())
	if !day.IsOpen {
		uc.logger.Info("GetAvailableSlots: provider id=%d is closed on %s",
			req.ProviderID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req), nil
	}

	// 7. Генерируем кандидатные слоты
	starts, err := generateTimeSlots(
		day,
		provider.SlotDurationMinutes,
		provider.BufferMinutes,
		req.Date,
		now,
		provider.MinBookingNoticeMinutes,
	)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate time slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate time slots: %v", ErrInternal, err)
	}

	// 8. Активные бронирования на дату
	filter := domain.ProviderBookingsFilter{
		ProviderID:      req.ProviderID,
		StartDate:       &req.Date,
		EndDate:         &req.Date,
		IncludeInactive: false,
	}

	bookings, err := uc.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 9. Живые холды на дату
	holds := uc.holdIndex.HeldRanges(req.ProviderID, req.Date)

	// 10. Размечаем доступность
	slots, err := markAvailability(starts, provider.SlotDurationMinutes, service.Price, bookings, holds)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to mark availability: %v", err)
		return nil, fmt.Errorf("%w: failed to mark availability: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for provider=%d, service=%d, date=%s",
		len(slots), req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:       req.Date,
		ProviderID: req.ProviderID,
		ServiceID:  req.ServiceID,
		Slots:      slots,
	}, nil
}

func (uc *UseCase) emptyResponse(req *Request) *Response {
	return &Response{
		Date:       req.Date,
		ProviderID: req.ProviderID,
		ServiceID:  req.ServiceID,
		Slots:      []domain.Slot{},
	}
}
