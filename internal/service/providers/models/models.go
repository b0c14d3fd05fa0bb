package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	// ErrInvalidTime возвращается при некорректном формате времени
	ErrInvalidTime = errors.New("invalid time format")

	// ErrInvalidSchedule возвращается при некорректном расписании
	ErrInvalidSchedule = errors.New("invalid schedule")
)

// Request модели

// DayScheduleRequest рабочие часы одного дня недели
type DayScheduleRequest struct {
	IsOpen    bool    `json:"isOpen"`
	OpenTime  *string `json:"openTime,omitempty"`  // "09:00", обязательно при isOpen
	CloseTime *string `json:"closeTime,omitempty"` // "17:00", обязательно при isOpen
}

// WeekScheduleRequest недельное расписание провайдера
type WeekScheduleRequest struct {
	Monday    DayScheduleRequest `json:"monday"`
	Tuesday   DayScheduleRequest `json:"tuesday"`
	Wednesday DayScheduleRequest `json:"wednesday"`
	Thursday  DayScheduleRequest `json:"thursday"`
	Friday    DayScheduleRequest `json:"friday"`
	Saturday  DayScheduleRequest `json:"saturday"`
	Sunday    DayScheduleRequest `json:"sunday"`
}

// UpdateConfigRequest запрос на обновление конфигурации провайдера
// Все поля опциональны - обновляются только переданные значения
type UpdateConfigRequest struct {
	UserID                  int64                `json:"userId"`
	SlotDurationMinutes     *int                 `json:"slotDurationMinutes,omitempty"`
	BufferMinutes           *int                 `json:"bufferMinutes,omitempty"`
	AdvanceBookingDays      *int                 `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int                 `json:"minBookingNoticeMinutes,omitempty"`
	Schedule                *WeekScheduleRequest `json:"schedule,omitempty"`
}

// ApplyToProvider применяет обновления к провайдеру
// Обновляются только непустые (not nil) поля из request
func (r *UpdateConfigRequest) ApplyToProvider(p *domain.Provider) error {
	if r.SlotDurationMinutes != nil {
		p.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.BufferMinutes != nil {
		p.BufferMinutes = *r.BufferMinutes
	}
	if r.AdvanceBookingDays != nil {
		p.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		p.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	if r.Schedule != nil {
		schedule, err := r.Schedule.ToDomainSchedule()
		if err != nil {
			return err
		}
		p.Schedule = schedule
	}
	return nil
}

// ToDomainSchedule конвертирует request в domain расписание с валидацией
func (r *WeekScheduleRequest) ToDomainSchedule() (domain.WeekSchedule, error) {
	var schedule domain.WeekSchedule
	var err error

	if schedule.Monday, err = toDomainDay(r.Monday); err != nil {
		return schedule, err
	}
	if schedule.Tuesday, err = toDomainDay(r.Tuesday); err != nil {
		return schedule, err
	}
	if schedule.Wednesday, err = toDomainDay(r.Wednesday); err != nil {
		return schedule, err
	}
	if schedule.Thursday, err = toDomainDay(r.Thursday); err != nil {
		return schedule, err
	}
	if schedule.Friday, err = toDomainDay(r.Friday); err != nil {
		return schedule, err
	}
	if schedule.Saturday, err = toDomainDay(r.Saturday); err != nil {
		return schedule, err
	}
	if schedule.Sunday, err = toDomainDay(r.Sunday); err != nil {
		return schedule, err
	}

	return schedule, nil
}

func toDomainDay(day DayScheduleRequest) (domain.DaySchedule, error) {
	if !day.IsOpen {
		return domain.DaySchedule{IsOpen: false}, nil
	}

	if day.OpenTime == nil || day.CloseTime == nil {
		return domain.DaySchedule{}, ErrInvalidSchedule
	}

	openTime, err := types.NewTimeStringFromString(*day.OpenTime)
	if err != nil {
		return domain.DaySchedule{}, ErrInvalidTime
	}

	closeTime, err := types.NewTimeStringFromString(*day.CloseTime)
	if err != nil {
		return domain.DaySchedule{}, ErrInvalidTime
	}

	if !openTime.IsBefore(closeTime) {
		return domain.DaySchedule{}, ErrInvalidSchedule
	}

	return domain.DaySchedule{
		IsOpen:    true,
		OpenTime:  &openTime,
		CloseTime: &closeTime,
	}, nil
}

// Response модели

// DayScheduleResponse рабочие часы одного дня недели
type DayScheduleResponse struct {
	IsOpen    bool    `json:"isOpen"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
}

// WeekScheduleResponse недельное расписание провайдера
type WeekScheduleResponse struct {
	Monday    DayScheduleResponse `json:"monday"`
	Tuesday   DayScheduleResponse `json:"tuesday"`
	Wednesday DayScheduleResponse `json:"wednesday"`
	Thursday  DayScheduleResponse `json:"thursday"`
	Friday    DayScheduleResponse `json:"friday"`
	Saturday  DayScheduleResponse `json:"saturday"`
	Sunday    DayScheduleResponse `json:"sunday"`
}

// ConfigResponse ответ с конфигурацией провайдера
type ConfigResponse struct {
	ID                      int64                `json:"id"`
	Name                    string               `json:"name"`
	Timezone                string               `json:"timezone"`
	Schedule                WeekScheduleResponse `json:"schedule"`
	SlotDurationMinutes     int                  `json:"slotDurationMinutes"`
	BufferMinutes           int                  `json:"bufferMinutes"`
	AdvanceBookingDays      int                  `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int                  `json:"minBookingNoticeMinutes"`
	IsActive                bool                 `json:"isActive"`
	CreatedAt               time.Time            `json:"createdAt"`
	UpdatedAt               time.Time            `json:"updatedAt"`
}

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              int64   `json:"id"`
	ProviderID      int64   `json:"providerId"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Category        string  `json:"category,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// Методы конвертации

// FromDomainProvider конвертирует domain модель в DTO
func FromDomainProvider(p *domain.Provider) *ConfigResponse {
	if p == nil {
		return nil
	}

	return &ConfigResponse{
		ID:                      p.ID,
		Name:                    p.Name,
		Timezone:                p.Timezone,
		Schedule:                fromDomainSchedule(p.Schedule),
		SlotDurationMinutes:     p.SlotDurationMinutes,
		BufferMinutes:           p.BufferMinutes,
		AdvanceBookingDays:      p.AdvanceBookingDays,
		MinBookingNoticeMinutes: p.MinBookingNoticeMinutes,
		IsActive:                p.IsActive,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt,
	}
}

func fromDomainSchedule(s domain.WeekSchedule) WeekScheduleResponse {
	return WeekScheduleResponse{
		Monday:    fromDomainDay(s.Monday),
		Tuesday:   fromDomainDay(s.Tuesday),
		Wednesday: fromDomainDay(s.Wednesday),
		Thursday:  fromDomainDay(s.Thursday),
		Friday:    fromDomainDay(s.Friday),
		Saturday:  fromDomainDay(s.Saturday),
		Sunday:    fromDomainDay(s.Sunday),
	}
}

func fromDomainDay(day domain.DaySchedule) DayScheduleResponse {
	resp := DayScheduleResponse{IsOpen: day.IsOpen}

	if day.OpenTime != nil {
		openStr := day.OpenTime.String()
		resp.OpenTime = &openStr
	}
	if day.CloseTime != nil {
		closeStr := day.CloseTime.String()
		resp.CloseTime = &closeStr
	}

	return resp
}

// FromDomainServiceList конвертирует список услуг в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{
		Services: make([]ServiceResponse, 0, len(services)),
	}

	for _, svc := range services {
		if svc == nil {
			continue
		}
		resp.Services = append(resp.Services, ServiceResponse{
			ID:              svc.ID,
			ProviderID:      svc.ProviderID,
			Name:            svc.Name,
			Description:     svc.Description,
			Category:        svc.Category,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
		})
	}

	return resp
}
