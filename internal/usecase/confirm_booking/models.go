package confirm_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на подтверждение холда
type Request struct {
	HoldID       string // ID холда (uuid)
	ClientID     int64  // ID клиента, владельца холда
	PaymentToken string // Непрозрачный платежный токен
	Notes        string // Комментарий клиента (опционально)
}

// Response модель ответа с подтвержденным бронированием
type Response struct {
	BookingID  int64
	ClientID   int64
	ProviderID int64
	ServiceID  int64

	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	Status        domain.BookingStatus
	PaymentStatus domain.PaymentStatus

	ServiceName  string
	ServicePrice float64
	Notes        *string

	CreatedAt time.Time
}
