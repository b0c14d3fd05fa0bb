package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

type fakeBookingRepo struct {
	booking *domain.Booking
	getErr  error

	clientBookings   []*domain.Booking
	providerBookings []*domain.Booking
	completed        []*domain.Booking

	cancelledID    int64
	cancelReason   string
	cancelCalls    int
	paymentUpdates []domain.PaymentStatus
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) GetByClientID(_ context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.clientBookings, nil
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	return f.providerBookings, nil
}

func (f *fakeBookingRepo) UpdatePaymentStatus(_ context.Context, id int64, status domain.PaymentStatus) error {
	f.paymentUpdates = append(f.paymentUpdates, status)
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	f.cancelCalls++
	f.cancelledID = id
	f.cancelReason = reason
	return nil
}

func (f *fakeBookingRepo) CompleteElapsed(_ context.Context, now time.Time) ([]*domain.Booking, error) {
	return f.completed, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type capturingPublisher struct {
	events []domain.BookingEvent
}

func (p *capturingPublisher) Publish(_ context.Context, event domain.BookingEvent) {
	p.events = append(p.events, event)
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time {
	return f.now
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

var testNow = time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

func testBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:            42,
		ClientID:      100,
		ProviderID:    1,
		ServiceID:     10,
		BookingDate:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:00",
		EndTime:       "10:30",
		Status:        status,
		PaymentStatus: domain.PaymentPaid,
		ServiceName:   "Haircut",
		ServicePrice:  1500,
	}
}

func newTestService(repo *fakeBookingRepo, publisher *capturingPublisher) *Service {
	return NewService(repo, fakeTxManager{}, publisher, nil, noopLogger{}).
		WithTimeProvider(&fakeTimeProvider{now: testNow})
}

func TestService_GetByID_Success(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed)}
	svc := newTestService(repo, &capturingPublisher{})

	// Клиент видит свое бронирование
	resp, err := svc.GetByID(context.Background(), 42, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)

	// Провайдер тоже
	_, err = svc.GetByID(context.Background(), 42, 1)
	assert.NoError(t, err)
}

func TestService_GetByID_AccessDenied(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed)}
	svc := newTestService(repo, &capturingPublisher{})

	_, err := svc.GetByID(context.Background(), 42, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_GetByID_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
	svc := newTestService(repo, &capturingPublisher{})

	_, err := svc.GetByID(context.Background(), 42, 100)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_Cancel_Success(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed)}
	publisher := &capturingPublisher{}
	svc := newTestService(repo, publisher)

	err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID:             100,
		CancellationReason: "plans changed",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.cancelCalls)
	assert.Equal(t, int64(42), repo.cancelledID)
	assert.Equal(t, "plans changed", repo.cancelReason)

	// Оплаченное бронирование помечено на возврат средств
	assert.Equal(t, []domain.PaymentStatus{domain.PaymentRefunded}, repo.paymentUpdates)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, domain.EventBookingCancelled, publisher.events[0].Type)
	assert.Equal(t, int64(42), publisher.events[0].BookingID)
}

func TestService_Cancel_UnpaidBookingNotRefunded(t *testing.T) {
	booking := testBooking(domain.StatusPending)
	booking.PaymentStatus = domain.PaymentPending
	repo := &fakeBookingRepo{booking: booking}
	svc := newTestService(repo, &capturingPublisher{})

	err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{UserID: 100})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.cancelCalls)
	assert.Empty(t, repo.paymentUpdates)
}

func TestService_Cancel_AlreadyCancelledIsNoop(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusCancelled)}
	publisher := &capturingPublisher{}
	svc := newTestService(repo, publisher)

	// Повторная отмена завершается успешно без побочных эффектов
	err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{UserID: 100})

	require.NoError(t, err)
	assert.Equal(t, 0, repo.cancelCalls)
	assert.Empty(t, repo.paymentUpdates)
	assert.Empty(t, publisher.events)
}

func TestService_Cancel_CompletedBookingRejected(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusCompleted)}
	publisher := &capturingPublisher{}
	svc := newTestService(repo, publisher)

	err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{UserID: 100})

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 0, repo.cancelCalls)
	assert.Empty(t, publisher.events)
}

func TestService_Cancel_AccessDenied(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed)}
	svc := newTestService(repo, &capturingPublisher{})

	err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{UserID: 999})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, 0, repo.cancelCalls)
}

func TestService_Cancel_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
	svc := newTestService(repo, &capturingPublisher{})

	err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{UserID: 100})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_Cancel_ByProvider(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed)}
	svc := newTestService(repo, &capturingPublisher{})

	err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID:             1, // провайдер
		CancellationReason: "equipment failure",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.cancelCalls)
}

func TestService_GetProviderBookings_AccessDenied(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := newTestService(repo, &capturingPublisher{})

	_, err := svc.GetProviderBookings(context.Background(), &models.GetProviderBookingsRequest{
		ProviderID: 1,
		UserID:     999,
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_GetClientBookings_InvalidStatus(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := newTestService(repo, &capturingPublisher{})

	bad := "unknown"
	_, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		ClientID: 100,
		Status:   &bad,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_CompleteElapsed(t *testing.T) {
	repo := &fakeBookingRepo{completed: []*domain.Booking{
		testBooking(domain.StatusCompleted),
		func() *domain.Booking {
			b := testBooking(domain.StatusCompleted)
			b.ID = 43
			return b
		}(),
	}}
	publisher := &capturingPublisher{}
	svc := newTestService(repo, publisher)

	count, err := svc.CompleteElapsed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, publisher.events, 2)
	assert.Equal(t, domain.EventBookingCompleted, publisher.events[0].Type)
	assert.Equal(t, domain.EventBookingCompleted, publisher.events[1].Type)
}

func TestService_CompleteElapsed_NothingElapsed(t *testing.T) {
	repo := &fakeBookingRepo{}
	publisher := &capturingPublisher{}
	svc := newTestService(repo, publisher)

	count, err := svc.CompleteElapsed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, publisher.events)
}
