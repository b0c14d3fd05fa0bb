package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/confirm_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_client_bookings"
	getProviderBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_provider_bookings"
	getProviderConfigHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_provider_config"
	listServicesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_services"
	requestHoldHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/request_hold"
	updateProviderConfigHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_provider_config"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/events"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	providerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/provider"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	paymentsClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/payments"
	"github.com/m04kA/SMC-AppointmentService/internal/jobs"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	providersService "github.com/m04kA/SMC-AppointmentService/internal/service/providers"
	confirmBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	requestHoldUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/request_hold"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент платежного сервиса
	paymentClient := paymentsClient.NewClient(
		cfg.Payments.URL,
		time.Duration(cfg.Payments.Timeout)*time.Second,
		log,
	)
	log.Info("Payment client initialized (url=%s, timeout=%ds)", cfg.Payments.URL, cfg.Payments.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		providerRepository *providerRepo.Repository
		serviceRepository  *serviceRepo.Repository
	)

	// Интерфейс менеджера транзакций, общий для обеих реализаций
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		providerRepository = providerRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		providerRepository = providerRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Индекс доступности: холды живут только в памяти процесса
	holdIndex := availability.NewIndex(
		bookingRepository,
		time.Duration(cfg.Holds.TTLSeconds)*time.Second,
		log,
	)
	log.Info("Availability index initialized (hold TTL=%ds)", cfg.Holds.TTLSeconds)

	// Шина событий жизненного цикла бронирований
	eventBus := events.NewBus()
	eventBus.Subscribe(events.SubscriberFunc(func(ctx context.Context, event domain.BookingEvent) {
		log.Info("Event published: type=%s, booking_id=%d", event.Type, event.BookingID)
	}))

	// Бизнес-метрики передаем только при включенном сборе
	var holdMetrics requestHoldUC.Metrics
	var bookingMetrics confirmBookingUC.Metrics
	var bookingsSvcMetrics bookingsService.Metrics
	if cfg.Metrics.Enabled {
		holdMetrics = metricsCollector
		bookingMetrics = metricsCollector
		bookingsSvcMetrics = metricsCollector
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		eventBus,
		bookingsSvcMetrics,
		log,
	)
	providerSvc := providersService.NewService(
		providerRepository,
		serviceRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		providerRepository,
		serviceRepository,
		bookingRepository,
		holdIndex,
		log,
	)

	requestHoldUseCase := requestHoldUC.NewUseCase(
		providerRepository,
		serviceRepository,
		holdIndex,
		holdMetrics,
		log,
	)

	confirmBookingUseCase := confirmBookingUC.NewUseCase(
		bookingRepository,
		holdIndex,
		paymentClient,
		txMgr,
		eventBus,
		bookingMetrics,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	requestHold := requestHoldHandler.NewHandler(requestHoldUseCase, log)
	confirmBooking := confirmBookingHandler.NewHandler(confirmBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)
	getProviderConfig := getProviderConfigHandler.NewHandler(providerSvc, log)
	updateProviderConfig := updateProviderConfigHandler.NewHandler(providerSvc, log)
	listServices := listServicesHandler.NewHandler(providerSvc, log)

	// Запускаем фоновые задачи
	scheduler := jobs.NewScheduler(holdIndex, bookingSvc, log)
	if err := scheduler.Register(cfg.Jobs.HoldReaperSpec, cfg.Jobs.CompletionSweepSpec); err != nil {
		log.Fatal("Failed to register background jobs: %v", err)
	}
	scheduler.Start()
	log.Info("Background jobs registered (hold reaper=%q, completion sweep=%q)",
		cfg.Jobs.HoldReaperSpec, cfg.Jobs.CompletionSweepSpec)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов для бронирования
	api.HandleFunc("/providers/{providerId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Каталог услуг провайдера
	api.HandleFunc("/providers/{providerId}/services",
		listServices.Handle).Methods(http.MethodGet)

	// Получение конфигурации провайдера
	api.HandleFunc("/providers/{providerId}/config",
		getProviderConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Холды ---
	// Взятие эксклюзивного холда на слот
	protected.HandleFunc("/holds", requestHold.Handle).Methods(http.MethodPost)

	// Подтверждение холда: создание бронирования и оплата
	protected.HandleFunc("/holds/{holdId}/confirm", confirmBooking.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// --- Управление провайдером ---
	// Список бронирований провайдера
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)

	// Обновление конфигурации провайдера
	protected.HandleFunc("/providers/{providerId}/config", updateProviderConfig.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи
	scheduler.Stop()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
