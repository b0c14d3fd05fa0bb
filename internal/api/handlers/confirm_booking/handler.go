package confirm_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	confirmBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgHoldNotFound       = "холд не найден"
	msgHoldExpired        = "время удержания слота истекло"
	msgForbidden          = "доступ запрещен"
	msgSlotConflict       = "выбранный временной слот уже занят"
	msgPaymentFailed      = "платеж отклонен"
)

type Handler struct {
	useCase ConfirmBookingUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds/{holdId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем holdId из URL
	vars := mux.Vars(r)
	holdID := vars["holdId"]

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /holds/{id}/confirm - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ConfirmBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /holds/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(holdID, userID))
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, confirmBooking.ErrHoldNotFound):
			h.logger.Warn("POST /holds/{id}/confirm - Hold not found: hold_id=%s", holdID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, confirmBooking.ErrHoldExpired):
			h.logger.Warn("POST /holds/{id}/confirm - Hold expired: hold_id=%s, client_id=%d", holdID, userID)
			handlers.RespondGone(w, msgHoldExpired)

		case errors.Is(err, confirmBooking.ErrAccessDenied):
			h.logger.Warn("POST /holds/{id}/confirm - Access denied: hold_id=%s, client_id=%d", holdID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirmBooking.ErrSlotConflict):
			h.logger.Warn("POST /holds/{id}/confirm - Slot conflict: hold_id=%s", holdID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, confirmBooking.ErrPaymentFailed):
			h.logger.Warn("POST /holds/{id}/confirm - Payment failed: hold_id=%s, client_id=%d", holdID, userID)
			handlers.RespondPaymentRequired(w, msgPaymentFailed)

		case errors.Is(err, confirmBooking.ErrInvalidInput):
			h.logger.Warn("POST /holds/{id}/confirm - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /holds/{id}/confirm - Failed to confirm booking: hold_id=%s, client_id=%d, error=%v",
				holdID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /holds/{id}/confirm - Booking confirmed successfully: booking_id=%d, client_id=%d",
		result.BookingID, userID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
