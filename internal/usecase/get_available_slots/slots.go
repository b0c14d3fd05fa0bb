package get_available_slots

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// generateTimeSlots генерирует упорядоченный список кандидатных слотов на день.
// Чистая функция расписания и даты: слоты идут от времени открытия с шагом
// slotDuration+buffer, неполный хвостовой слот (вылезающий за закрытие)
// отбрасывается и никогда не предлагается. Для закрытого дня и прошедшей
// даты возвращается пустой список.
func generateTimeSlots(
	day domain.DaySchedule,
	slotDuration int,
	buffer int,
	requestDate time.Time,
	now time.Time,
	minBookingNoticeMinutes int,
) ([]types.TimeString, error) {
	// Прошедшая дата - слотов нет
	if isDateInPast(requestDate, now) {
		return []types.TimeString{}, nil
	}

	if !day.IsOpen || day.OpenTime == nil || day.CloseTime == nil {
		return []types.TimeString{}, nil
	}

	openTime := *day.OpenTime
	closeTime := *day.CloseTime

	step := slotDuration + buffer

	// Шаг 1: генерируем все слоты от открытия до закрытия
	allSlots := make([]types.TimeString, 0)
	currentSlot := openTime

	for currentSlot.IsBefore(closeTime) {
		slotEnd, err := currentSlot.AddMinutes(slotDuration)
		if err != nil {
			// Слот пересекает полночь - хвост дня, отбрасываем
			if errors.Is(err, types.ErrTimeOutOfRange) {
				break
			}
			return nil, err
		}
		if slotEnd.IsAfter(closeTime) {
			break
		}

		allSlots = append(allSlots, currentSlot)
		currentSlot, err = currentSlot.AddMinutes(step)
		if err != nil {
			if errors.Is(err, types.ErrTimeOutOfRange) {
				break
			}
			return nil, err
		}
	}

	// Шаг 2: для будущих дат фильтрация по времени не нужна
	if !isSameDay(requestDate, now) {
		return allSlots, nil
	}

	// Шаг 3: сегодня - отбрасываем слоты ближе minBookingNoticeMinutes
	currentTime := types.NewTimeString(now)
	minAllowedTime, err := currentTime.AddMinutes(minBookingNoticeMinutes)
	if err != nil {
		// Минимальный notice уходит за полночь - сегодня слотов уже нет
		if errors.Is(err, types.ErrTimeOutOfRange) {
			return []types.TimeString{}, nil
		}
		return nil, err
	}

	availableSlots := make([]types.TimeString, 0)
	for _, slot := range allSlots {
		if !slot.IsBefore(minAllowedTime) {
			availableSlots = append(availableSlots, slot)
		}
	}

	return availableSlots, nil
}

// markAvailability размечает кандидатные слоты признаком доступности:
// слот доступен, только если его диапазон не пересекается ни с одним
// активным бронированием и ни с одним живым холдом.
func markAvailability(
	starts []types.TimeString,
	slotDuration int,
	price float64,
	bookings []*domain.Booking,
	holds []*domain.Hold,
) ([]domain.Slot, error) {
	result := make([]domain.Slot, 0, len(starts))

	for _, start := range starts {
		end, err := start.AddMinutes(slotDuration)
		if err != nil {
			return nil, err
		}

		available := !overlapsBooking(start, end, bookings) && !overlapsHold(start, end, holds)

		result = append(result, domain.Slot{
			StartTime:       start,
			EndTime:         end,
			DurationMinutes: slotDuration,
			Price:           price,
			Available:       available,
		})
	}

	return result, nil
}

// overlapsBooking проверяет пересечение диапазона с активными бронированиями.
// Строгие неравенства: граничащие диапазоны не считаются пересечением.
func overlapsBooking(start, end types.TimeString, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if b.StartTime.IsBefore(end) && b.EndTime.IsAfter(start) {
			return true
		}
	}
	return false
}

// overlapsHold проверяет пересечение диапазона с живыми холдами
func overlapsHold(start, end types.TimeString, holds []*domain.Hold) bool {
	for _, h := range holds {
		if h.StartTime.IsBefore(end) && h.EndTime.IsAfter(start) {
			return true
		}
	}
	return false
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
