package availability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Index отслеживает занятость временных диапазонов по провайдерам и
// разрешает конфликты одновременных попыток взять холд.
//
// Инвариант: для провайдера множество диапазонов активных бронирований и
// неистекших холдов попарно не пересекается. Холды живут только в памяти
// (эпемерны по замыслу), занятость бронирований читается из хранилища.
//
// Разрешение конфликтов - мьютекс на провайдера: попытки на одного
// провайдера строго последовательны, первая успевшая побеждает, остальные
// видят уже обновленный индекс и детерминированно получают ErrSlotConflict.
// Разные провайдеры никогда не конкурируют друг с другом.
type Index struct {
	mu        sync.Mutex
	providers map[int64]*providerState
	holdOwner map[string]int64 // hold ID -> provider ID

	bookings     BookingSource
	holdTTL      time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// providerState холды одного провайдера под собственным мьютексом
type providerState struct {
	mu    sync.Mutex
	holds map[string]*domain.Hold
}

// NewIndex создает индекс доступности
func NewIndex(bookings BookingSource, holdTTL time.Duration, logger Logger) *Index {
	return &Index{
		providers:    make(map[int64]*providerState),
		holdOwner:    make(map[string]int64),
		bookings:     bookings,
		holdTTL:      holdTTL,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (i *Index) WithTimeProvider(tp TimeProvider) *Index {
	i.timeProvider = tp
	return i
}

// HoldRequest параметры размещения холда
type HoldRequest struct {
	ProviderID   int64
	ServiceID    int64
	ClientID     int64
	Date         time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	ServiceName  string
	ServicePrice float64
}

// PlaceHold пытается взять эксклюзивный холд на диапазон.
// Под мьютексом провайдера: чистит истекшие холды, проверяет пересечения с
// живыми холдами и активными бронированиями, затем регистрирует холд с TTL.
// При любом пересечении возвращает ErrSlotConflict, состояние не меняется.
func (i *Index) PlaceHold(ctx context.Context, req HoldRequest) (*domain.Hold, error) {
	ps := i.providerState(req.ProviderID)

	ps.mu.Lock()
	defer ps.mu.Unlock()

	now := i.timeProvider.Now()
	i.purgeExpiredLocked(ps, now)

	// Пересечения с живыми холдами
	for _, h := range ps.holds {
		if h.Overlaps(req.Date, req.StartTime, req.EndTime) {
			return nil, ErrSlotConflict
		}
	}

	// Пересечения с активными бронированиями из хранилища
	occupied, err := i.occupiedByBookings(ctx, req.ProviderID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, ErrSlotConflict
	}

	hold := &domain.Hold{
		ID:           uuid.NewString(),
		ProviderID:   req.ProviderID,
		ServiceID:    req.ServiceID,
		ClientID:     req.ClientID,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ServiceName:  req.ServiceName,
		ServicePrice: req.ServicePrice,
		ExpiresAt:    now.Add(i.holdTTL),
		CreatedAt:    now,
	}

	ps.holds[hold.ID] = hold

	i.mu.Lock()
	i.holdOwner[hold.ID] = req.ProviderID
	i.mu.Unlock()

	i.logger.Info("PlaceHold: hold %s placed for provider=%d, %s %s-%s, expires=%s",
		hold.ID, req.ProviderID, req.Date.Format(domain.DateFormat),
		req.StartTime, req.EndTime, hold.ExpiresAt.Format(time.RFC3339))

	return copyHold(hold), nil
}

// GetHold возвращает холд по ID, включая истекший, но еще не вычищенный.
// Решение о судьбе истекшего холда принимает вызывающая сторона.
func (i *Index) GetHold(holdID string) (*domain.Hold, error) {
	ps, ok := i.ownerState(holdID)
	if !ok {
		return nil, ErrHoldNotFound
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	hold, ok := ps.holds[holdID]
	if !ok {
		return nil, ErrHoldNotFound
	}

	return copyHold(hold), nil
}

// ReleaseHold снимает холд, возвращая диапазон в доступность.
// Повторный вызов для уже снятого холда - no-op.
func (i *Index) ReleaseHold(holdID string) {
	i.removeHold(holdID)
}

// ConvertHold снимает холд после того, как его диапазон закреплен
// персистентным бронированием. Семантика удаления та же, что у ReleaseHold,
// отдельное имя фиксирует намерение.
func (i *Index) ConvertHold(holdID string) {
	i.removeHold(holdID)
}

func (i *Index) removeHold(holdID string) {
	ps, ok := i.ownerState(holdID)
	if !ok {
		return
	}

	ps.mu.Lock()
	delete(ps.holds, holdID)
	ps.mu.Unlock()

	i.mu.Lock()
	delete(i.holdOwner, holdID)
	i.mu.Unlock()
}

// IsFree сообщает, свободен ли диапазон [start, end) у провайдера:
// ни одного пересекающегося активного бронирования и неистекшего холда.
func (i *Index) IsFree(ctx context.Context, providerID int64, date time.Time, start, end types.TimeString) (bool, error) {
	ps := i.providerState(providerID)

	ps.mu.Lock()
	defer ps.mu.Unlock()

	i.purgeExpiredLocked(ps, i.timeProvider.Now())

	for _, h := range ps.holds {
		if h.Overlaps(date, start, end) {
			return false, nil
		}
	}

	occupied, err := i.occupiedByBookings(ctx, providerID, date, start, end)
	if err != nil {
		return false, err
	}

	return !occupied, nil
}

// HeldRanges возвращает копии живых холдов провайдера на дату.
// Используется выдачей доступных слотов, чтобы скрыть удерживаемые диапазоны.
func (i *Index) HeldRanges(providerID int64, date time.Time) []*domain.Hold {
	ps := i.providerState(providerID)

	ps.mu.Lock()
	defer ps.mu.Unlock()

	i.purgeExpiredLocked(ps, i.timeProvider.Now())

	holds := make([]*domain.Hold, 0)
	for _, h := range ps.holds {
		if sameDate(h.Date, date) {
			holds = append(holds, copyHold(h))
		}
	}

	return holds
}

// PurgeExpired вычищает истекшие холды у всех провайдеров.
// Вызывается фоновым reaper'ом; диапазоны возвращаются в доступность без
// каких-либо побочных эффектов на бронирования.
func (i *Index) PurgeExpired() int {
	now := i.timeProvider.Now()

	i.mu.Lock()
	states := make([]*providerState, 0, len(i.providers))
	for _, ps := range i.providers {
		states = append(states, ps)
	}
	i.mu.Unlock()

	total := 0
	for _, ps := range states {
		ps.mu.Lock()
		total += i.purgeExpiredLocked(ps, now)
		ps.mu.Unlock()
	}

	return total
}

// purgeExpiredLocked вычищает истекшие холды провайдера.
// Вызывается только под ps.mu.
func (i *Index) purgeExpiredLocked(ps *providerState, now time.Time) int {
	purged := 0
	for id, h := range ps.holds {
		if h.IsExpired(now) {
			delete(ps.holds, id)
			i.mu.Lock()
			delete(i.holdOwner, id)
			i.mu.Unlock()
			purged++
		}
	}
	return purged
}

func (i *Index) occupiedByBookings(ctx context.Context, providerID int64, date time.Time, start, end types.TimeString) (bool, error) {
	filter := domain.ProviderBookingsFilter{
		ProviderID:      providerID,
		StartDate:       &date,
		EndDate:         &date,
		IncludeInactive: false,
	}

	bookings, err := i.bookings.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		// Строгие неравенства: граничащие диапазоны не считаются пересечением
		if b.StartTime.IsBefore(end) && b.EndTime.IsAfter(start) {
			return true, nil
		}
	}

	return false, nil
}

func (i *Index) providerState(providerID int64) *providerState {
	i.mu.Lock()
	defer i.mu.Unlock()

	ps, ok := i.providers[providerID]
	if !ok {
		ps = &providerState{holds: make(map[string]*domain.Hold)}
		i.providers[providerID] = ps
	}
	return ps
}

func (i *Index) ownerState(holdID string) (*providerState, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	providerID, ok := i.holdOwner[holdID]
	if !ok {
		return nil, false
	}
	ps, ok := i.providers[providerID]
	return ps, ok
}

func copyHold(h *domain.Hold) *domain.Hold {
	c := *h
	return &c
}

func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
