package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	providerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/provider"
	"github.com/m04kA/SMC-AppointmentService/internal/service/providers/models"
)

// Service сервис для работы с конфигурацией провайдеров и каталогом услуг
type Service struct {
	providerRepo ProviderRepository
	serviceRepo  ServiceRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса провайдеров
func NewService(
	providerRepo ProviderRepository,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		providerRepo: providerRepo,
		serviceRepo:  serviceRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetConfig получает конфигурацию провайдера вместе с расписанием
// Публичный метод - доступен всем
func (s *Service) GetConfig(ctx context.Context, providerID int64) (*models.ConfigResponse, error) {
	s.logger.Info("GetConfig: fetching config for provider=%d", providerID)

	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			s.logger.Warn("GetConfig: provider id=%d not found", providerID)
			return nil, ErrProviderNotFound
		}
		s.logger.Error("GetConfig: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetConfig - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetConfig: successfully fetched config for provider=%d", providerID)
	return models.FromDomainProvider(provider), nil
}

// UpdateConfig обновляет конфигурацию провайдера
// Доступно только самому провайдеру
// Поддерживает частичное обновление - обновляются только указанные поля
func (s *Service) UpdateConfig(ctx context.Context, providerID int64, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("UpdateConfig: updating config for provider=%d by user=%d", providerID, req.UserID)

	// Проверяем права доступа
	if req.UserID != providerID {
		s.logger.Warn("UpdateConfig: access denied for user=%d to provider=%d", req.UserID, providerID)
		return nil, ErrAccessDenied
	}

	var updated *domain.Provider

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		// 1. Получаем существующую конфигурацию
		provider, err := s.providerRepo.GetByID(ctx, providerID)
		if err != nil {
			if errors.Is(err, providerRepo.ErrProviderNotFound) {
				return ErrProviderNotFound
			}
			return fmt.Errorf("%w: UpdateConfig - repository error: %v", ErrInternal, err)
		}

		// 2. Применяем обновления
		if err := req.ApplyToProvider(provider); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		// 3. Валидируем обновленные данные
		if err := validateConfig(provider); err != nil {
			return err
		}

		// 4. Сохраняем конфигурацию и расписание
		if err := s.providerRepo.UpdateConfig(ctx, provider); err != nil {
			if errors.Is(err, providerRepo.ErrProviderNotFound) {
				return ErrProviderNotFound
			}
			return fmt.Errorf("%w: UpdateConfig - repository error: %v", ErrInternal, err)
		}

		updated = provider
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("UpdateConfig: transaction failed for provider=%d: %v", providerID, err)
		} else {
			s.logger.Warn("UpdateConfig: failed for provider=%d: %v", providerID, err)
		}
		return nil, err
	}

	s.logger.Info("UpdateConfig: successfully updated config for provider=%d", providerID)
	return models.FromDomainProvider(updated), nil
}

// ListServices получает каталог активных услуг провайдера
// Публичный метод - доступен всем
func (s *Service) ListServices(ctx context.Context, providerID int64) (*models.ServiceListResponse, error) {
	s.logger.Info("ListServices: fetching services for provider=%d", providerID)

	// Проверяем существование провайдера
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			s.logger.Warn("ListServices: provider id=%d not found", providerID)
			return nil, ErrProviderNotFound
		}
		s.logger.Error("ListServices: failed to get provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	if !provider.IsActive {
		s.logger.Warn("ListServices: provider id=%d is inactive", providerID)
		return nil, ErrProviderNotFound
	}

	services, err := s.serviceRepo.ListByProvider(ctx, providerID, true)
	if err != nil {
		s.logger.Error("ListServices: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListServices: successfully fetched %d services for provider=%d", len(services), providerID)
	return models.FromDomainServiceList(services), nil
}

// validateConfig валидирует параметры конфигурации провайдера
func validateConfig(p *domain.Provider) error {
	if p.SlotDurationMinutes < domain.MinSlotDurationMinutes || p.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	if p.BufferMinutes < domain.MinBufferMinutes || p.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}

	if p.AdvanceBookingDays < domain.MinAdvanceBookingDays || p.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if p.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || p.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	return nil
}
