package request_hold

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	requestHold "github.com/m04kA/SMC-AppointmentService/internal/usecase/request_hold"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// RequestHoldRequest HTTP request model
type RequestHoldRequest struct {
	ProviderID int64  `json:"providerId"`
	ServiceID  int64  `json:"serviceId"`
	Date       string `json:"date"`      // "2026-03-15"
	StartTime  string `json:"startTime"` // "10:00"
}

// HoldResponse HTTP response model
type HoldResponse struct {
	HoldID       string  `json:"holdId"`
	ClientID     int64   `json:"clientId"`
	ProviderID   int64   `json:"providerId"`
	ServiceID    int64   `json:"serviceId"`
	Date         string  `json:"date"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`
	ExpiresAt    string  `json:"expiresAt"` // ISO 8601
	CreatedAt    string  `json:"createdAt"` // ISO 8601
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RequestHoldRequest) ToUseCaseRequest(clientID int64) (*requestHold.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &requestHold.Request{
		ClientID:   clientID,
		ProviderID: r.ProviderID,
		ServiceID:  r.ServiceID,
		Date:       date,
		StartTime:  startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *requestHold.Response) *HoldResponse {
	return &HoldResponse{
		HoldID:       resp.HoldID,
		ClientID:     resp.ClientID,
		ProviderID:   resp.ProviderID,
		ServiceID:    resp.ServiceID,
		Date:         resp.Date.Format(domain.DateFormat),
		StartTime:    resp.StartTime.String(),
		EndTime:      resp.EndTime.String(),
		ServiceName:  resp.ServiceName,
		ServicePrice: resp.ServicePrice,
		ExpiresAt:    resp.ExpiresAt.Format(time.RFC3339),
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
	}
}
