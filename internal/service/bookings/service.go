package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестирования)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
// Проверяет права доступа - бронирование видят только его клиент и провайдер
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if booking.ClientID != userID && booking.ProviderID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetClientBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%d, status=%v", req.ClientID, req.Status)

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: successfully fetched %d bookings for client=%d", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProviderBookings получает бронирования провайдера с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению отмененных
// Доступно только самому провайдеру
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProviderBookings: fetching bookings for provider=%d, user=%d", req.ProviderID, req.UserID)

	// Проверяем права доступа
	if req.UserID != req.ProviderID {
		s.logger.Warn("GetProviderBookings: access denied for user=%d to provider=%d", req.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	// Получаем бронирования с фильтрацией
	bookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: successfully fetched %d bookings for provider=%d", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование.
// Операция идемпотентна: повторная отмена уже отмененного бронирования
// завершается успешно без изменений. Отмена завершенного бронирования
// запрещена жизненным циклом и возвращает ErrInvalidTransition.
// Оплаченное бронирование при отмене помечается на возврат средств.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	var cancelled *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// Получаем бронирование под блокировкой
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Проверяем права доступа
		if booking.ClientID != req.UserID && booking.ProviderID != req.UserID {
			return ErrAccessDenied
		}

		// Повторная отмена - no-op
		if booking.IsCancelled() {
			s.logger.Info("Cancel: booking id=%d already cancelled, nothing to do", bookingID)
			return nil
		}

		// Переход проверяется таблицей жизненного цикла: из completed
		// (и любого другого терминального статуса) отмена запрещена
		if err := booking.TransitionTo(domain.StatusCancelled); err != nil {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrInvalidTransition
		}

		if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Оплаченное бронирование помечаем на возврат средств
		if booking.PaymentStatus == domain.PaymentPaid {
			if err := s.bookingRepo.UpdatePaymentStatus(ctx, bookingID, domain.PaymentRefunded); err != nil {
				return fmt.Errorf("%w: Cancel - failed to mark refund: %v", ErrInternal, err)
			}
		}

		cancelled = booking
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("Cancel: transaction failed for booking id=%d: %v", bookingID, err)
		}
		return err
	}

	// Отмена реально произошла - публикуем событие
	if cancelled != nil {
		s.metrics.IncBooking(string(domain.StatusCancelled))
		s.publisher.Publish(ctx, domain.BookingEvent{
			Type:       domain.EventBookingCancelled,
			BookingID:  cancelled.ID,
			ClientID:   cancelled.ClientID,
			ProviderID: cancelled.ProviderID,
			OccurredAt: s.timeProvider.Now(),
		})
		s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	}

	return nil
}

// CompleteElapsed переводит в completed все подтвержденные бронирования,
// чей диапазон уже полностью прошел. Вызывается фоновой задачей.
func (s *Service) CompleteElapsed(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()

	var completed []*domain.Booking
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		completed, err = s.bookingRepo.CompleteElapsed(ctx, now)
		if err != nil {
			return fmt.Errorf("%w: CompleteElapsed - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("CompleteElapsed: %v", err)
		return 0, err
	}

	for _, b := range completed {
		s.metrics.IncBooking(string(domain.StatusCompleted))
		s.publisher.Publish(ctx, domain.BookingEvent{
			Type:       domain.EventBookingCompleted,
			BookingID:  b.ID,
			ClientID:   b.ClientID,
			ProviderID: b.ProviderID,
			OccurredAt: now,
		})
	}

	if len(completed) > 0 {
		s.logger.Info("CompleteElapsed: completed %d elapsed bookings", len(completed))
	}

	return len(completed), nil
}
