package confirm_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	confirmBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_booking"
)

// ConfirmBookingRequest HTTP request model
type ConfirmBookingRequest struct {
	PaymentToken string `json:"paymentToken"`
	Notes        string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	ClientID      int64   `json:"clientId"`
	ProviderID    int64   `json:"providerId"`
	ServiceID     int64   `json:"serviceId"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	ServiceName   string  `json:"serviceName"`
	ServicePrice  float64 `json:"servicePrice"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"` // ISO 8601
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ConfirmBookingRequest) ToUseCaseRequest(holdID string, clientID int64) *confirmBooking.Request {
	return &confirmBooking.Request{
		HoldID:       holdID,
		ClientID:     clientID,
		PaymentToken: r.PaymentToken,
		Notes:        r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.BookingID,
		ClientID:      resp.ClientID,
		ProviderID:    resp.ProviderID,
		ServiceID:     resp.ServiceID,
		Date:          resp.Date.Format(domain.DateFormat),
		StartTime:     resp.StartTime.String(),
		EndTime:       resp.EndTime.String(),
		Status:        string(resp.Status),
		PaymentStatus: string(resp.PaymentStatus),
		ServiceName:   resp.ServiceName,
		ServicePrice:  resp.ServicePrice,
		Notes:         resp.Notes,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
	}
}
