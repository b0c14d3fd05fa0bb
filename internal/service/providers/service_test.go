package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	providerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/provider"
	"github.com/m04kA/SMC-AppointmentService/internal/service/providers/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeProviderRepo struct {
	provider  *domain.Provider
	getErr    error
	updateErr error
	updated   *domain.Provider
}

func (f *fakeProviderRepo) GetByID(_ context.Context, id int64) (*domain.Provider, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.provider, nil
}

func (f *fakeProviderRepo) UpdateConfig(_ context.Context, provider *domain.Provider) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = provider
	return nil
}

type fakeServiceRepo struct {
	services []*domain.Service
	err      error
}

func (f *fakeServiceRepo) ListByProvider(_ context.Context, providerID int64, onlyActive bool) ([]*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.services, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func testProvider() *domain.Provider {
	day := domain.DaySchedule{
		IsOpen:    true,
		OpenTime:  ptr.Ptr(types.TimeString("09:00")),
		CloseTime: ptr.Ptr(types.TimeString("17:00")),
	}
	return &domain.Provider{
		ID:       1,
		Name:     "Test Provider",
		Timezone: "UTC",
		Schedule: domain.WeekSchedule{
			Monday: day, Tuesday: day, Wednesday: day, Thursday: day, Friday: day,
		},
		SlotDurationMinutes:     30,
		BufferMinutes:           0,
		AdvanceBookingDays:      14,
		MinBookingNoticeMinutes: 60,
		IsActive:                true,
	}
}

func newTestService(p *fakeProviderRepo, s *fakeServiceRepo) *Service {
	return NewService(p, s, fakeTxManager{}, noopLogger{})
}

func TestService_GetConfig(t *testing.T) {
	svc := newTestService(&fakeProviderRepo{provider: testProvider()}, &fakeServiceRepo{})

	resp, err := svc.GetConfig(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, 30, resp.SlotDurationMinutes)
	assert.True(t, resp.Schedule.Monday.IsOpen)
	require.NotNil(t, resp.Schedule.Monday.OpenTime)
	assert.Equal(t, "09:00", *resp.Schedule.Monday.OpenTime)
	assert.False(t, resp.Schedule.Saturday.IsOpen)
}

func TestService_GetConfig_NotFound(t *testing.T) {
	svc := newTestService(&fakeProviderRepo{getErr: providerRepo.ErrProviderNotFound}, &fakeServiceRepo{})

	_, err := svc.GetConfig(context.Background(), 99)
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestService_UpdateConfig_PartialUpdate(t *testing.T) {
	repo := &fakeProviderRepo{provider: testProvider()}
	svc := newTestService(repo, &fakeServiceRepo{})

	resp, err := svc.UpdateConfig(context.Background(), 1, &models.UpdateConfigRequest{
		UserID:              1,
		SlotDurationMinutes: ptr.Ptr(45),
	})

	require.NoError(t, err)
	assert.Equal(t, 45, resp.SlotDurationMinutes)
	// Остальные поля не тронуты
	assert.Equal(t, 60, resp.MinBookingNoticeMinutes)
	require.NotNil(t, repo.updated)
	assert.Equal(t, 45, repo.updated.SlotDurationMinutes)
}

func TestService_UpdateConfig_AccessDenied(t *testing.T) {
	repo := &fakeProviderRepo{provider: testProvider()}
	svc := newTestService(repo, &fakeServiceRepo{})

	_, err := svc.UpdateConfig(context.Background(), 1, &models.UpdateConfigRequest{
		UserID:              999,
		SlotDurationMinutes: ptr.Ptr(45),
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, repo.updated)
}

func TestService_UpdateConfig_ValidatesRanges(t *testing.T) {
	svc := newTestService(&fakeProviderRepo{provider: testProvider()}, &fakeServiceRepo{})

	// Слот короче допустимого минимума
	_, err := svc.UpdateConfig(context.Background(), 1, &models.UpdateConfigRequest{
		UserID:              1,
		SlotDurationMinutes: ptr.Ptr(1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Отрицательный буфер
	_, err = svc.UpdateConfig(context.Background(), 1, &models.UpdateConfigRequest{
		UserID:        1,
		BufferMinutes: ptr.Ptr(-5),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_UpdateConfig_InvalidSchedule(t *testing.T) {
	svc := newTestService(&fakeProviderRepo{provider: testProvider()}, &fakeServiceRepo{})

	// Открытие позже закрытия
	_, err := svc.UpdateConfig(context.Background(), 1, &models.UpdateConfigRequest{
		UserID: 1,
		Schedule: &models.WeekScheduleRequest{
			Monday: models.DayScheduleRequest{
				IsOpen:    true,
				OpenTime:  ptr.Ptr("17:00"),
				CloseTime: ptr.Ptr("09:00"),
			},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Открытый день без времени
	_, err = svc.UpdateConfig(context.Background(), 1, &models.UpdateConfigRequest{
		UserID: 1,
		Schedule: &models.WeekScheduleRequest{
			Monday: models.DayScheduleRequest{IsOpen: true},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ListServices(t *testing.T) {
	services := &fakeServiceRepo{services: []*domain.Service{
		{ID: 10, ProviderID: 1, Name: "Haircut", DurationMinutes: 30, Price: 1500, IsActive: true},
		{ID: 11, ProviderID: 1, Name: "Coloring", DurationMinutes: 90, Price: 4500, IsActive: true},
	}}
	svc := newTestService(&fakeProviderRepo{provider: testProvider()}, services)

	resp, err := svc.ListServices(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, resp.Services, 2)
	assert.Equal(t, "Haircut", resp.Services[0].Name)
}

func TestService_ListServices_InactiveProvider(t *testing.T) {
	provider := testProvider()
	provider.IsActive = false
	svc := newTestService(&fakeProviderRepo{provider: provider}, &fakeServiceRepo{})

	_, err := svc.ListServices(context.Background(), 1)
	assert.ErrorIs(t, err, ErrProviderNotFound)
}
