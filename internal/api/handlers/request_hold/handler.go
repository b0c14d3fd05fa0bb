package request_hold

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	requestHold "github.com/m04kA/SMC-AppointmentService/internal/usecase/request_hold"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgProviderNotFound    = "провайдер не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgServiceNotAvailable = "услуга недоступна у этого провайдера"
	msgSlotConflict        = "выбранный временной слот уже занят"
	msgProviderClosed      = "провайдер не работает в выбранную дату"
	msgInvalidBookingDate  = "некорректная дата бронирования"
	msgDateTooFar          = "дата бронирования слишком далеко в будущем"
	msgInvalidTimeSlot     = "некорректный временной слот"
	msgTooLateToBook       = "слишком поздно для бронирования этого слота"
)

type Handler struct {
	useCase RequestHoldUseCase
	logger  Logger
}

func NewHandler(useCase RequestHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /holds - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RequestHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /holds - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /holds - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, requestHold.ErrSlotConflict):
			h.logger.Warn("POST /holds - Slot conflict: client_id=%d, provider_id=%d", userID, req.ProviderID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, requestHold.ErrProviderNotFound):
			h.logger.Warn("POST /holds - Provider not found: provider_id=%d", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, requestHold.ErrServiceNotFound):
			h.logger.Warn("POST /holds - Service not found: provider_id=%d, service_id=%d",
				req.ProviderID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, requestHold.ErrServiceNotAvailable):
			h.logger.Warn("POST /holds - Service not available: provider_id=%d, service_id=%d",
				req.ProviderID, req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceNotAvailable)

		case errors.Is(err, requestHold.ErrProviderClosed):
			h.logger.Warn("POST /holds - Provider closed: provider_id=%d, date=%s", req.ProviderID, req.Date)
			handlers.RespondBadRequest(w, msgProviderClosed)

		case errors.Is(err, requestHold.ErrInvalidDate):
			h.logger.Warn("POST /holds - Invalid booking date: provider_id=%d, date=%s", req.ProviderID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, requestHold.ErrDateTooFarInFuture):
			h.logger.Warn("POST /holds - Date too far in future: provider_id=%d, date=%s", req.ProviderID, req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, requestHold.ErrInvalidTimeSlot):
			h.logger.Warn("POST /holds - Invalid time slot: provider_id=%d, time=%s", req.ProviderID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, requestHold.ErrTooLateToBook):
			h.logger.Warn("POST /holds - Too late to book: provider_id=%d, time=%s", req.ProviderID, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, requestHold.ErrInvalidInput):
			h.logger.Warn("POST /holds - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /holds - Failed to place hold: client_id=%d, provider_id=%d, error=%v",
				userID, req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /holds - Hold placed successfully: hold_id=%s, client_id=%d, provider_id=%d",
		result.HoldID, userID, req.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
