package confirm_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/payments"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const (
	reasonPaymentDeclined = "payment declined"
	reasonPaymentError    = "payment service unavailable"
)

// UseCase use case подтверждения холда: создание бронирования и оплата
type UseCase struct {
	bookingRepo   BookingRepository
	holdIndex     HoldIndex
	paymentClient PaymentClient
	txManager     TxManager
	publisher     EventPublisher
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	holdIndex HoldIndex,
	paymentClient PaymentClient,
	txManager TxManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &UseCase{
		bookingRepo:   bookingRepo,
		holdIndex:     holdIndex,
		paymentClient: paymentClient,
		txManager:     txManager,
		publisher:     publisher,
		metrics:       metrics,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case подтверждения холда.
// Бронирование создается в статусе pending, после успешной авторизации
// платежа переводится в confirmed. Отказ платежа переводит бронирование
// в cancelled: из pending нет прямого пути в confirmed мимо оплаты.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmBooking: hold=%s, client=%d", req.HoldID, req.ClientID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем холд из индекса
	hold, err := uc.holdIndex.GetHold(req.HoldID)
	if err != nil {
		if errors.Is(err, availability.ErrHoldNotFound) {
			uc.logger.Warn("ConfirmBooking: hold %s not found", req.HoldID)
			return nil, ErrHoldNotFound
		}
		uc.logger.Error("ConfirmBooking: failed to get hold %s: %v", req.HoldID, err)
		return nil, fmt.Errorf("%w: failed to get hold: %v", ErrInternal, err)
	}

	// 3. Проверяем владельца холда
	if hold.ClientID != req.ClientID {
		uc.logger.Warn("ConfirmBooking: hold %s belongs to client %d, requested by %d",
			req.HoldID, hold.ClientID, req.ClientID)
		return nil, ErrAccessDenied
	}

	// 4. Проверяем TTL холда
	if hold.IsExpired(now) {
		uc.holdIndex.ReleaseHold(req.HoldID)
		uc.logger.Warn("ConfirmBooking: hold %s expired at %s", req.HoldID, hold.ExpiresAt)
		return nil, ErrHoldExpired
	}

	var notes *string
	if req.Notes != "" {
		notes = ptr.Ptr(req.Notes)
	}

	// 5. Создаем бронирование в статусе pending внутри serializable-транзакции
	// с повторной проверкой занятости диапазона под блокировкой
	var booking *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		taken, err := uc.rangeTaken(ctx, hold)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotConflict
		}

		created, err := uc.bookingRepo.Create(ctx, &domain.Booking{
			ClientID:      hold.ClientID,
			ProviderID:    hold.ProviderID,
			ServiceID:     hold.ServiceID,
			BookingDate:   hold.Date,
			StartTime:     hold.StartTime,
			EndTime:       hold.EndTime,
			Status:        domain.StatusPending,
			PaymentStatus: domain.PaymentPending,
			ServiceName:   hold.ServiceName,
			ServicePrice:  hold.ServicePrice,
			Notes:         notes,
		})
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		booking = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			uc.holdIndex.ReleaseHold(req.HoldID)
			uc.logger.Warn("ConfirmBooking: range already booked for hold %s", req.HoldID)
			return nil, ErrSlotConflict
		}
		uc.logger.Error("ConfirmBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 6. Авторизуем платеж. Ключ идемпотентности - ID холда: повторное
	// подтверждение того же холда не авторизует платеж дважды
	_, err = uc.paymentClient.Authorize(ctx, booking.ServicePrice, req.PaymentToken, hold.ID)
	if err != nil {
		if errors.Is(err, payments.ErrPaymentDeclined) {
			// Отказ платежа: бронирование отменяется, холд освобождается
			uc.cancelAfterPaymentFailure(ctx, booking, reasonPaymentDeclined)
			uc.holdIndex.ReleaseHold(req.HoldID)
			uc.logger.Warn("ConfirmBooking: payment declined for booking %d", booking.ID)
			return nil, ErrPaymentFailed
		}
		// Транспортная ошибка: бронирование отменяется, холд остается
		// живым до истечения TTL, клиент может повторить подтверждение
		uc.cancelAfterPaymentFailure(ctx, booking, reasonPaymentError)
		uc.logger.Error("ConfirmBooking: payment service error for booking %d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: payment service error: %v", ErrInternal, err)
	}

	// 7. Платеж прошел: подтверждаем бронирование и конвертируем холд.
	// Переход проверяется таблицей жизненного цикла
	if err := booking.TransitionTo(domain.StatusConfirmed); err != nil {
		uc.logger.Error("ConfirmBooking: booking %d cannot be confirmed from %s: %v",
			booking.ID, booking.Status, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := uc.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status); err != nil {
		uc.logger.Error("ConfirmBooking: failed to confirm booking %d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
	}

	if err := uc.bookingRepo.UpdatePaymentStatus(ctx, booking.ID, domain.PaymentPaid); err != nil {
		uc.logger.Error("ConfirmBooking: failed to mark booking %d as paid: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to update payment status: %v", ErrInternal, err)
	}

	uc.holdIndex.ConvertHold(req.HoldID)
	uc.metrics.IncBooking(string(domain.StatusConfirmed))

	// 8. Публикуем событие подтверждения
	uc.publisher.Publish(ctx, domain.BookingEvent{
		Type:       domain.EventBookingConfirmed,
		BookingID:  booking.ID,
		ClientID:   booking.ClientID,
		ProviderID: booking.ProviderID,
		OccurredAt: uc.timeProvider.Now(),
	})

	uc.logger.Info("ConfirmBooking: booking %d confirmed for client=%d, provider=%d",
		booking.ID, booking.ClientID, booking.ProviderID)

	return &Response{
		BookingID:     booking.ID,
		ClientID:      booking.ClientID,
		ProviderID:    booking.ProviderID,
		ServiceID:     booking.ServiceID,
		Date:          booking.BookingDate,
		StartTime:     booking.StartTime,
		EndTime:       booking.EndTime,
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentPaid,
		ServiceName:   booking.ServiceName,
		ServicePrice:  booking.ServicePrice,
		Notes:         booking.Notes,
		CreatedAt:     booking.CreatedAt,
	}, nil
}

// rangeTaken проверяет под блокировкой, что диапазон холда не занят
// активным бронированием. Совпадение границ занятостью не считается.
func (uc *UseCase) rangeTaken(ctx context.Context, hold *domain.Hold) (bool, error) {
	existing, err := uc.bookingRepo.GetByProviderWithFilter(ctx, domain.ProviderBookingsFilter{
		ProviderID: hold.ProviderID,
		StartDate:  ptr.Ptr(hold.Date),
		EndDate:    ptr.Ptr(hold.Date),
	})
	if err != nil {
		return false, fmt.Errorf("failed to check existing bookings: %w", err)
	}

	for _, b := range existing {
		if !b.IsActive() {
			continue
		}
		if b.StartTime.IsBefore(hold.EndTime) && b.EndTime.IsAfter(hold.StartTime) {
			return true, nil
		}
	}

	return false, nil
}

// cancelAfterPaymentFailure переводит pending-бронирование в cancelled через
// таблицу жизненного цикла и публикует событие отмены. Ошибка отмены
// логируется, но не маскирует исходную платежную ошибку.
func (uc *UseCase) cancelAfterPaymentFailure(ctx context.Context, booking *domain.Booking, reason string) {
	if err := booking.TransitionTo(domain.StatusCancelled); err != nil {
		uc.logger.Error("ConfirmBooking: booking %d cannot be cancelled from %s: %v",
			booking.ID, booking.Status, err)
		return
	}

	if err := uc.bookingRepo.Cancel(ctx, booking.ID, reason); err != nil {
		uc.logger.Error("ConfirmBooking: failed to cancel booking %d after payment failure: %v",
			booking.ID, err)
		return
	}

	uc.metrics.IncBooking(string(domain.StatusCancelled))
	uc.publisher.Publish(ctx, domain.BookingEvent{
		Type:       domain.EventBookingCancelled,
		BookingID:  booking.ID,
		ClientID:   booking.ClientID,
		ProviderID: booking.ProviderID,
		OccurredAt: uc.timeProvider.Now(),
	})
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.HoldID == "" {
		return fmt.Errorf("%w: holdID is required", ErrInvalidInput)
	}

	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.PaymentToken == "" {
		return fmt.Errorf("%w: paymentToken is required", ErrInvalidInput)
	}

	return nil
}
