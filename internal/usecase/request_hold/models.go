package request_hold

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на взятие холда
type Request struct {
	ClientID   int64            // ID клиента
	ProviderID int64            // ID провайдера
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")
}

// Response модель ответа с размещенным холдом
type Response struct {
	HoldID     string           // ID холда (uuid)
	ClientID   int64            // ID клиента
	ProviderID int64            // ID провайдера
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата бронирования
	StartTime  types.TimeString // Время начала
	EndTime    types.TimeString // Время окончания

	// Снапшот услуги на момент холда
	ServiceName  string
	ServicePrice float64

	ExpiresAt time.Time // Момент истечения холда
	CreatedAt time.Time // Момент создания
}
