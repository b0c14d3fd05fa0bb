package availability

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeBookingSource struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingSource) GetByProviderWithFilter(_ context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.ProviderID == filter.ProviderID {
			result = append(result, b)
		}
	}
	return result, nil
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

func (f *fakeTimeProvider) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func newTestIndex(bookings *fakeBookingSource, tp *fakeTimeProvider) *Index {
	return NewIndex(bookings, 5*time.Minute, noopLogger{}).WithTimeProvider(tp)
}

func holdRequest(providerID, clientID int64, start, end types.TimeString) HoldRequest {
	return HoldRequest{
		ProviderID:   providerID,
		ServiceID:    10,
		ClientID:     clientID,
		Date:         time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime:    start,
		EndTime:      end,
		ServiceName:  "Haircut",
		ServicePrice: 1500,
	}
}

func TestIndex_PlaceHold_Success(t *testing.T) {
	tp := &fakeTimeProvider{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	idx := newTestIndex(&fakeBookingSource{}, tp)

	hold, err := idx.PlaceHold(context.Background(), holdRequest(1, 100, "10:00", "10:30"))

	require.NoError(t, err)
	assert.NotEmpty(t, hold.ID)
	assert.Equal(t, int64(1), hold.ProviderID)
	assert.Equal(t, int64(100), hold.ClientID)
	assert.Equal(t, tp.Now().Add(5*time.Minute), hold.ExpiresAt)
}

func TestIndex_PlaceHold_ConflictWithLiveHold(t *testing.T) {
	tp := &fakeTimeProvider{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	idx := newTestIndex(&fakeBookingSource{}, tp)

	_, err := idx.PlaceHold(context.Background(), holdRequest(1, 100, "10:00", "10:30"))
	require.NoError(t, err)

	// Тот же диапазон
	_, err = idx.PlaceHold(context.Background(), holdRequest(1, 200, "10:00", "10:30"))
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Частичное пересечение
	_, err = idx.PlaceHold(context.Background(), holdRequest(1, 200, "10:15", "10:45"))
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Граничащий диапазон пересечением не считается
	_, err = idx.PlaceHold(context.Background(), holdRequest(1, 200, "10:30", "11:00"))
	assert.NoError(t, err)
}

func TestIndex_PlaceHold_EndOfDayRangeConflicts(t *testing.T) {
	tp := &fakeTimeProvider{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	idx := newTestIndex(&fakeBookingSource{}, tp)

	// Последний диапазон суток у провайдера, работающего до полуночи
	_, err := idx.PlaceHold(context.Background(), holdRequest(1, 100, "23:30", "23:59"))
	require.NoError(t, err)

	// Второй клиент на тот же диапазон проигрывает
	_, err = idx.PlaceHold(context.Background(), holdRequest(1, 200, "23:30", "23:59"))
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestIndex_PlaceHold_ProvidersAreIsolated(t *testing.T) {
	tp := &fakeTimeProvider{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	idx := newTestIndex(&fakeBookingSource{}, tp)

	_, err := idx.PlaceHold(context.Background(), holdRequest(1, 100, "10:00", "10:30"))
	require.NoError(t, err)

	// Другой провайдер, тот же диапазон - конфликта нет
	_, err = idx.PlaceHold(context.Background(), holdRequest(2, 200, "10:00", "10:30"))
	assert.NoError(t, err)
}

func TestIndex_PlaceHold_ConflictWithActiveBooking(t *testing.T) {
	tp := &fakeTimeProvider{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	bookings := &fakeBookingSource{bookings: []*domain.Booking{
		{
			ID:          1,
			ProviderID:  1,
			BookingDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			StartTime:   "10:00",
			EndTime:     "10:30",
			Status:      domain.StatusConfirmed,
		},
	}}
	idx := newTestIndex(bookings, tp)

	_, err := idx.PlaceHold(context.Background(), holdRequest(1, 100, "10:15", "10:45"))
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestIndex_PlaceHold_CancelledBookingDoesNotBlock(t *testing.T) {
	tp := &fakeTimeProvider{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	bookings := &fakeBookingSource{bookings: []*domain.Booking{
		{
			ID:          1,
			ProviderID:  1,
			BookingDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			StartTime:   "10:00",
			EndTime:     "10:30",
			Status:      domain.StatusCancelled,
		},
	}}
	idx := newTestIndex(bookings, tp)

	_, err := idx.PlaceHold(context.Background(), holdRequest(1, 100, "10:00", "10:30"))
	assert.NoError(t, err)
}

func TestIndex_PlaceHold_ExpiredHoldFreesRange(t *testing.T) {
	tp := &fakeTimeProvider{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	idx := newTestIndex(&fakeBookingSource{}, tp)

	_, err := idx.PlaceHold(context.Background(), holdRequest(1, 100, "10:00", "10:30"))
	require.NoError(t, err)

	// До истечения TTL диапазон занят
	_, err = idx.PlaceHold(context.Background(), holdRequest(1, 200, "10:00", "10:30"))
	require.ErrorIs(t, err, ErrSlotConflict)

	tp.Advance(5 * time.Minute)

	// После истечения диапазон снова доступен
	hold, err := idx.PlaceHold(context.Background(), holdRequest(1, 200, "10:00", "10:30"))
	require.NoError(t, err)
	assert.Equal(t, int64(200), hold.ClientID)
}

func TestIndex_PlaceHold_ConcurrentExactlyOneWinner(t *testing.T) {
	tp := &fakeTimeProvider{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	idx := newTestIndex(&fakeBookingSource{}, tp)

	const attempts = 32

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(clientID int64) {
			defer wg.Done()
			_, err := idx.PlaceHold(context.Background(), holdRequest(1, clientID, "10:00", "10:30"))
			results <- err
		}(int64(i + 1))
	}

	wg.Wait()
	close(results)

	winners := 0
	conflicts := 0
	for err := range results {
		switch {
		case err == nil:
			winners++
		default:
			require.ErrorIs(t, err, ErrSlotConflict)
			conflicts++
		}
	}

	assert.Equal(t, 1, winners, "exactly one concurrent attempt must win")
	assert.Equal(t, attempts-1, conflicts)
}

func TestIndex_GetHold(t *testing.T) {
	tp := &fakeTimeProvider{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	idx := newTestIndex(&fakeBookingSource{}, tp)

	placed, err := idx.PlaceHold(context.Background(), holdRequest(1, 100, "10:00", "10:30"))
	require.NoError(t, err)

	got, err := idx.GetHold(placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)
	assert.Equal(t, types.TimeString("10:00"), got.StartTime)

	_, err = idx.GetHold("missing")
	assert.ErrorIs(t, err, ErrHoldNotFound)
}

func TestIndex_GetHold_ReturnsExpiredHold(t *testing.T) {
	tp := &fakeTimeProvider{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	idx := newTestIndex(&fakeBookingSource{}, tp)

	placed, err := idx.PlaceHold(context.Background(), holdRequest(1, 100, "10:00", "10:30"))
	require.NoError(t, err)

	tp.Advance(10 * time.Minute)

	// Истекший, но еще не вычищенный холд читается - решение за вызывающим
	got, err := idx.GetHold(placed.ID)
	require.NoError(t, err)
	assert.True(t, got.IsExpired(tp.Now()))
}

func TestIndex_ReleaseHold(t *testing.T) {
	tp := &fakeTimeProvider{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	idx := newTestIndex(&fakeBookingSource{}, tp)

	placed, err := idx.PlaceHold(context.Background(), holdRequest(1, 100, "10:00", "10:30"))
	require.NoError(t, err)

	idx.ReleaseHold(placed.ID)

	_, err = idx.GetHold(placed.ID)
	assert.ErrorIs(t, err, ErrHoldNotFound)

	// Диапазон снова доступен
	_, err = idx.PlaceHold(context.Background(), holdRequest(1, 200, "10:00", "10:30"))
	assert.NoError(t, err)

	// Повторный Release - no-op
	idx.ReleaseHold(placed.ID)
}

func TestIndex_IsFree(t *testing.T) {
	tp := &fakeTimeProvider{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	idx := newTestIndex(&fakeBookingSource{}, tp)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	free, err := idx.IsFree(context.Background(), 1, date, "10:00", "10:30")
	require.NoError(t, err)
	assert.True(t, free)

	_, err = idx.PlaceHold(context.Background(), holdRequest(1, 100, "10:00", "10:30"))
	require.NoError(t, err)

	free, err = idx.IsFree(context.Background(), 1, date, "10:00", "10:30")
	require.NoError(t, err)
	assert.False(t, free)

	// Граничащий диапазон свободен
	free, err = idx.IsFree(context.Background(), 1, date, "10:30", "11:00")
	require.NoError(t, err)
	assert.True(t, free)
}

func TestIndex_HeldRanges(t *testing.T) {
	tp := &fakeTimeProvider{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	idx := newTestIndex(&fakeBookingSource{}, tp)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	_, err := idx.PlaceHold(context.Background(), holdRequest(1, 100, "10:00", "10:30"))
	require.NoError(t, err)
	_, err = idx.PlaceHold(context.Background(), holdRequest(1, 200, "11:00", "11:30"))
	require.NoError(t, err)

	holds := idx.HeldRanges(1, date)
	assert.Len(t, holds, 2)

	// Другая дата - пусто
	holds = idx.HeldRanges(1, date.AddDate(0, 0, 1))
	assert.Empty(t, holds)

	// Другой провайдер - пусто
	holds = idx.HeldRanges(2, date)
	assert.Empty(t, holds)
}

func TestIndex_PurgeExpired(t *testing.T) {
	tp := &fakeTimeProvider{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	idx := newTestIndex(&fakeBookingSource{}, tp)

	_, err := idx.PlaceHold(context.Background(), holdRequest(1, 100, "10:00", "10:30"))
	require.NoError(t, err)
	_, err = idx.PlaceHold(context.Background(), holdRequest(2, 200, "10:00", "10:30"))
	require.NoError(t, err)

	tp.Advance(2 * time.Minute)
	later, err := idx.PlaceHold(context.Background(), holdRequest(1, 300, "11:00", "11:30"))
	require.NoError(t, err)

	// Истекли только первые два холда
	tp.Advance(3 * time.Minute)

	purged := idx.PurgeExpired()
	assert.Equal(t, 2, purged)

	_, err = idx.GetHold(later.ID)
	assert.NoError(t, err)

	assert.Equal(t, 0, idx.PurgeExpired())
}
