package update_provider_config

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/providers/models"
)

// UpdateConfigRequest HTTP request model
// Все поля опциональны - обновляются только переданные значения
type UpdateConfigRequest struct {
	SlotDurationMinutes     *int                        `json:"slotDurationMinutes,omitempty"`
	BufferMinutes           *int                        `json:"bufferMinutes,omitempty"`
	AdvanceBookingDays      *int                        `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int                        `json:"minBookingNoticeMinutes,omitempty"`
	Schedule                *models.WeekScheduleRequest `json:"schedule,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateConfigRequest) ToServiceRequest(userID int64) *models.UpdateConfigRequest {
	return &models.UpdateConfigRequest{
		UserID:                  userID,
		SlotDurationMinutes:     r.SlotDurationMinutes,
		BufferMinutes:           r.BufferMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		Schedule:                r.Schedule,
	}
}
