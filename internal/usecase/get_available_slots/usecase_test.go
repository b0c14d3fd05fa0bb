package get_available_slots

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	providerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/provider"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeProviderRepo struct {
	provider *domain.Provider
	err      error
}

func (f *fakeProviderRepo) GetByID(_ context.Context, id int64) (*domain.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.provider, nil
}

type fakeServiceRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, _ domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bookings, nil
}

type fakeHoldIndex struct {
	holds []*domain.Hold
}

func (f *fakeHoldIndex) HeldRanges(_ int64, _ time.Time) []*domain.Hold {
	return f.holds
}

type fakeTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func workingDay(open, close types.TimeString) domain.DaySchedule {
	return domain.DaySchedule{IsOpen: true, OpenTime: ptr.Ptr(open), CloseTime: ptr.Ptr(close)}
}

// testProvider работает 09:00-17:00 все дни недели, слоты по 30 минут
func testProvider() *domain.Provider {
	day := workingDay("09:00", "17:00")
	return &domain.Provider{
		ID:   1,
		Name: "Test Provider",
		Schedule: domain.WeekSchedule{
			Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
			Friday: day, Saturday: day, Sunday: day,
		},
		SlotDurationMinutes:     30,
		BufferMinutes:           0,
		AdvanceBookingDays:      0,
		MinBookingNoticeMinutes: 60,
		IsActive:                true,
	}
}

func testService() *domain.Service {
	return &domain.Service{
		ID:              10,
		ProviderID:      1,
		Name:            "Haircut",
		DurationMinutes: 30,
		Price:           1500,
		IsActive:        true,
	}
}

func newTestUseCase(p *fakeProviderRepo, s *fakeServiceRepo, b *fakeBookingRepo, h *fakeHoldIndex, now time.Time) *UseCase {
	return NewUseCase(p, s, b, h, noopLogger{}).WithTimeProvider(&fakeTimeProvider{now: now})
}

var (
	testNow  = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) // воскресенье
	testDate = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)  // понедельник
)

func TestExecute_FullDayGeneratesSixteenSlots(t *testing.T) {
	uc := newTestUseCase(
		&fakeProviderRepo{provider: testProvider()},
		&fakeServiceRepo{service: testService()},
		&fakeBookingRepo{},
		&fakeHoldIndex{},
		testNow,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 1, ServiceID: 10, Date: testDate,
	})

	require.NoError(t, err)
	// 09:00-17:00 с шагом 30 минут: ровно 16 слотов
	require.Len(t, resp.Slots, 16)

	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("09:30"), resp.Slots[0].EndTime)
	assert.Equal(t, types.TimeString("16:30"), resp.Slots[15].StartTime)
	assert.Equal(t, types.TimeString("17:00"), resp.Slots[15].EndTime)

	for i, slot := range resp.Slots {
		assert.True(t, slot.Available, "slot %d must be available", i)
		assert.Equal(t, 30, slot.DurationMinutes)
		assert.Equal(t, 1500.0, slot.Price)
	}

	// Слоты упорядочены и не пересекаются
	for i := 1; i < len(resp.Slots); i++ {
		assert.False(t, resp.Slots[i].StartTime.IsBefore(resp.Slots[i-1].EndTime))
	}
}

func TestExecute_CloseToMidnightDropsTrailingSlot(t *testing.T) {
	provider := testProvider()
	// 23:00-23:59: помещается только 23:00-23:30, слот 23:30 уперся бы
	// в полночь и не предлагается
	provider.Schedule.Monday = workingDay("23:00", "23:59")

	uc := newTestUseCase(
		&fakeProviderRepo{provider: provider},
		&fakeServiceRepo{service: testService()},
		&fakeBookingRepo{},
		&fakeHoldIndex{},
		testNow,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 1, ServiceID: 10, Date: testDate,
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("23:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("23:30"), resp.Slots[0].EndTime)
}

func TestExecute_TrailingPartialSlotDropped(t *testing.T) {
	provider := testProvider()
	// 09:00-10:45 при 30-минутных слотах: помещаются 09:00, 09:30, 10:00,
	// хвостовой 10:30-11:00 вылезает за закрытие и отбрасывается
	day := workingDay("09:00", "10:45")
	provider.Schedule = domain.WeekSchedule{
		Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
		Friday: day, Saturday: day, Sunday: day,
	}

	uc := newTestUseCase(
		&fakeProviderRepo{provider: provider},
		&fakeServiceRepo{service: testService()},
		&fakeBookingRepo{},
		&fakeHoldIndex{},
		testNow,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 1, ServiceID: 10, Date: testDate,
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[2].StartTime)
	assert.Equal(t, types.TimeString("10:30"), resp.Slots[2].EndTime)
}

func TestExecute_BufferWidensSlotStep(t *testing.T) {
	provider := testProvider()
	provider.BufferMinutes = 15
	day := workingDay("09:00", "11:00")
	provider.Schedule = domain.WeekSchedule{
		Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
		Friday: day, Saturday: day, Sunday: day,
	}

	uc := newTestUseCase(
		&fakeProviderRepo{provider: provider},
		&fakeServiceRepo{service: testService()},
		&fakeBookingRepo{},
		&fakeHoldIndex{},
		testNow,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 1, ServiceID: 10, Date: testDate,
	})

	require.NoError(t, err)
	// Шаг 45 минут: 09:00, 09:45, 10:30
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("09:45"), resp.Slots[1].StartTime)
	assert.Equal(t, types.TimeString("10:30"), resp.Slots[2].StartTime)
}

func TestExecute_BookedRangeMarkedUnavailable(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		{
			ID:          1,
			ProviderID:  1,
			BookingDate: testDate,
			StartTime:   "10:00",
			EndTime:     "10:30",
			Status:      domain.StatusConfirmed,
		},
	}}

	uc := newTestUseCase(
		&fakeProviderRepo{provider: testProvider()},
		&fakeServiceRepo{service: testService()},
		bookings,
		&fakeHoldIndex{},
		testNow,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 1, ServiceID: 10, Date: testDate,
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 16)

	for _, slot := range resp.Slots {
		if slot.StartTime == "10:00" {
			assert.False(t, slot.Available, "booked slot must be unavailable")
		} else {
			assert.True(t, slot.Available, "slot %s must stay available", slot.StartTime)
		}
	}
}

func TestExecute_HeldRangeMarkedUnavailable(t *testing.T) {
	holds := &fakeHoldIndex{holds: []*domain.Hold{
		{
			ID:         "h1",
			ProviderID: 1,
			Date:       testDate,
			StartTime:  "11:00",
			EndTime:    "11:30",
		},
	}}

	uc := newTestUseCase(
		&fakeProviderRepo{provider: testProvider()},
		&fakeServiceRepo{service: testService()},
		&fakeBookingRepo{},
		holds,
		testNow,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 1, ServiceID: 10, Date: testDate,
	})

	require.NoError(t, err)
	for _, slot := range resp.Slots {
		if slot.StartTime == "11:00" {
			assert.False(t, slot.Available, "held slot must be unavailable")
		} else {
			assert.True(t, slot.Available)
		}
	}
}

func TestExecute_CancelledBookingDoesNotBlockSlot(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		{
			ID:          1,
			ProviderID:  1,
			BookingDate: testDate,
			StartTime:   "10:00",
			EndTime:     "10:30",
			Status:      domain.StatusCancelled,
		},
	}}

	uc := newTestUseCase(
		&fakeProviderRepo{provider: testProvider()},
		&fakeServiceRepo{service: testService()},
		bookings,
		&fakeHoldIndex{},
		testNow,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 1, ServiceID: 10, Date: testDate,
	})

	require.NoError(t, err)
	for _, slot := range resp.Slots {
		assert.True(t, slot.Available)
	}
}

func TestExecute_ClosedDayReturnsNoSlots(t *testing.T) {
	provider := testProvider()
	provider.Schedule.Monday = domain.DaySchedule{IsOpen: false}

	uc := newTestUseCase(
		&fakeProviderRepo{provider: provider},
		&fakeServiceRepo{service: testService()},
		&fakeBookingRepo{},
		&fakeHoldIndex{},
		testNow,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 1, ServiceID: 10, Date: testDate,
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_SameDayFiltersByNotice(t *testing.T) {
	// Сегодня 10:15, minBookingNotice 60 минут: слоты раньше 11:15 скрыты
	now := time.Date(2025, 6, 2, 10, 15, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeProviderRepo{provider: testProvider()},
		&fakeServiceRepo{service: testService()},
		&fakeBookingRepo{},
		&fakeHoldIndex{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 1, ServiceID: 10, Date: testDate,
	})

	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, types.TimeString("11:30"), resp.Slots[0].StartTime)
}

func TestExecute_PastDate(t *testing.T) {
	uc := newTestUseCase(
		&fakeProviderRepo{provider: testProvider()},
		&fakeServiceRepo{service: testService()},
		&fakeBookingRepo{},
		&fakeHoldIndex{},
		testNow,
	)

	_, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 1, ServiceID: 10,
		Date: testDate.AddDate(0, 0, -7),
	})

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_DateTooFarInFuture(t *testing.T) {
	provider := testProvider()
	provider.AdvanceBookingDays = 14

	uc := newTestUseCase(
		&fakeProviderRepo{provider: provider},
		&fakeServiceRepo{service: testService()},
		&fakeBookingRepo{},
		&fakeHoldIndex{},
		testNow,
	)

	_, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 1, ServiceID: 10,
		Date: testDate.AddDate(0, 0, 30),
	})

	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_ProviderNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeProviderRepo{err: providerRepo.ErrProviderNotFound},
		&fakeServiceRepo{service: testService()},
		&fakeBookingRepo{},
		&fakeHoldIndex{},
		testNow,
	)

	_, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 99, ServiceID: 10, Date: testDate,
	})

	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestExecute_InactiveProviderTreatedAsNotFound(t *testing.T) {
	provider := testProvider()
	provider.IsActive = false

	uc := newTestUseCase(
		&fakeProviderRepo{provider: provider},
		&fakeServiceRepo{service: testService()},
		&fakeBookingRepo{},
		&fakeHoldIndex{},
		testNow,
	)

	_, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 1, ServiceID: 10, Date: testDate,
	})

	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeProviderRepo{provider: testProvider()},
		&fakeServiceRepo{err: serviceRepo.ErrServiceNotFound},
		&fakeBookingRepo{},
		&fakeHoldIndex{},
		testNow,
	)

	_, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 1, ServiceID: 99, Date: testDate,
	})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ForeignServiceNotAvailable(t *testing.T) {
	service := testService()
	service.ProviderID = 2

	uc := newTestUseCase(
		&fakeProviderRepo{provider: testProvider()},
		&fakeServiceRepo{service: service},
		&fakeBookingRepo{},
		&fakeHoldIndex{},
		testNow,
	)

	_, err := uc.Execute(context.Background(), &Request{
		ClientID: 100, ProviderID: 1, ServiceID: 10, Date: testDate,
	})

	assert.ErrorIs(t, err, ErrServiceNotAvailable)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(
		&fakeProviderRepo{provider: testProvider()},
		&fakeServiceRepo{service: testService()},
		&fakeBookingRepo{},
		&fakeHoldIndex{},
		testNow,
	)

	_, err := uc.Execute(context.Background(), &Request{ProviderID: 0, ServiceID: 10, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ProviderID: 1, ServiceID: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
