package provider

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с провайдерами и их расписанием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория провайдеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает провайдера вместе с недельным расписанием
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"timezone",
		"slot_duration_minutes",
		"buffer_minutes",
		"advance_booking_days",
		"min_booking_notice_minutes",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("providers").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Provider
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.Name,
		&p.Timezone,
		&p.SlotDurationMinutes,
		&p.BufferMinutes,
		&p.AdvanceBookingDays,
		&p.MinBookingNoticeMinutes,
		&p.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan provider: %v", ErrScanRow, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	schedule, err := r.getSchedule(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	p.Schedule = schedule

	return &p, nil
}

func (r *Repository) getSchedule(ctx context.Context, executor DBExecutor, providerID int64) (domain.WeekSchedule, error) {
	var schedule domain.WeekSchedule

	query, args, err := psqlbuilder.Select("weekday", "is_open", "open_time", "close_time").
		From("provider_hours").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return schedule, fmt.Errorf("%w: getSchedule - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return schedule, fmt.Errorf("%w: getSchedule - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int
		var day domain.DaySchedule
		var openTime, closeTime *types.TimeString

		if err := rows.Scan(&weekday, &day.IsOpen, &openTime, &closeTime); err != nil {
			return schedule, fmt.Errorf("%w: getSchedule - scan row: %v", ErrScanRow, err)
		}

		day.OpenTime = openTime
		day.CloseTime = closeTime

		setScheduleDay(&schedule, time.Weekday(weekday), day)
	}

	if err := rows.Err(); err != nil {
		return schedule, fmt.Errorf("%w: getSchedule - rows error: %v", ErrScanRow, err)
	}

	return schedule, nil
}

func setScheduleDay(schedule *domain.WeekSchedule, weekday time.Weekday, day domain.DaySchedule) {
	switch weekday {
	case time.Monday:
		schedule.Monday = day
	case time.Tuesday:
		schedule.Tuesday = day
	case time.Wednesday:
		schedule.Wednesday = day
	case time.Thursday:
		schedule.Thursday = day
	case time.Friday:
		schedule.Friday = day
	case time.Saturday:
		schedule.Saturday = day
	case time.Sunday:
		schedule.Sunday = day
	}
}

// UpdateConfig обновляет слотовую конфигурацию и расписание провайдера.
// Расписание перезаписывается целиком (7 строк на провайдера).
func (r *Repository) UpdateConfig(ctx context.Context, p *domain.Provider) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("providers").
		Set("slot_duration_minutes", p.SlotDurationMinutes).
		Set("buffer_minutes", p.BufferMinutes).
		Set("advance_booking_days", p.AdvanceBookingDays).
		Set("min_booking_notice_minutes", p.MinBookingNoticeMinutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateConfig - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateConfig - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateConfig - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrProviderNotFound
	}

	return r.replaceSchedule(ctx, executor, p.ID, p.Schedule)
}

func (r *Repository) replaceSchedule(ctx context.Context, executor DBExecutor, providerID int64, schedule domain.WeekSchedule) error {
	query, args, err := psqlbuilder.Delete("provider_hours").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceSchedule - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceSchedule - execute delete: %v", ErrExecQuery, err)
	}

	insertBuilder := psqlbuilder.Insert("provider_hours").
		Columns("provider_id", "weekday", "is_open", "open_time", "close_time")

	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		day := schedule.For(weekday)
		insertBuilder = insertBuilder.Values(providerID, int(weekday), day.IsOpen, day.OpenTime, day.CloseTime)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceSchedule - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceSchedule - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
