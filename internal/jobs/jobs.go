package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// HoldIndex интерфейс индекса доступности для очистки истекших холдов
type HoldIndex interface {
	PurgeExpired() int
}

// BookingCompleter интерфейс сервиса бронирований для завершения прошедших
type BookingCompleter interface {
	CompleteElapsed(ctx context.Context) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

const jobTimeout = 30 * time.Second

// Scheduler запускает фоновые задачи по cron-расписанию:
// очистку истекших холдов и завершение прошедших бронирований.
type Scheduler struct {
	cron      *cron.Cron
	holdIndex HoldIndex
	completer BookingCompleter
	logger    Logger
}

// NewScheduler создает новый планировщик фоновых задач
func NewScheduler(holdIndex HoldIndex, completer BookingCompleter, logger Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		holdIndex: holdIndex,
		completer: completer,
		logger:    logger,
	}
}

// Register регистрирует задачи по cron-спецификациям и возвращает ошибку
// при некорректной спецификации
func (s *Scheduler) Register(holdReaperSpec, completionSweepSpec string) error {
	if _, err := s.cron.AddFunc(holdReaperSpec, s.reapExpiredHolds); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(completionSweepSpec, s.completeElapsedBookings); err != nil {
		return err
	}

	return nil
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler: background jobs started")
}

// Stop останавливает планировщик и дожидается завершения текущих задач
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler: background jobs stopped")
}

// reapExpiredHolds удаляет истекшие холды из индекса доступности.
// Истекший холд и без того не блокирует конкурентов (проверки идут по
// времени), задача лишь возвращает память.
func (s *Scheduler) reapExpiredHolds() {
	purged := s.holdIndex.PurgeExpired()
	if purged > 0 {
		s.logger.Info("Scheduler: purged %d expired holds", purged)
	}
}

// completeElapsedBookings переводит прошедшие подтвержденные бронирования
// в completed
func (s *Scheduler) completeElapsedBookings() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.completer.CompleteElapsed(ctx); err != nil {
		s.logger.Error("Scheduler: completion sweep failed: %v", err)
	}
}
