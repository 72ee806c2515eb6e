package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-CarBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-CarBookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-CarBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-CarBookingService/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/m04kA/SMC-CarBookingService/internal/api/handlers/get_user_bookings"
	listServicesHandler "github.com/m04kA/SMC-CarBookingService/internal/api/handlers/list_services"
	rescheduleBookingHandler "github.com/m04kA/SMC-CarBookingService/internal/api/handlers/reschedule_booking"
	updateBookingStatusHandler "github.com/m04kA/SMC-CarBookingService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-CarBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CarBookingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-CarBookingService/internal/infra/storage/booking"
	carRepo "github.com/m04kA/SMC-CarBookingService/internal/infra/storage/car"
	serviceRepo "github.com/m04kA/SMC-CarBookingService/internal/infra/storage/service"
	bookingsService "github.com/m04kA/SMC-CarBookingService/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-CarBookingService/internal/service/catalog"
	"github.com/m04kA/SMC-CarBookingService/internal/service/overlap"
	createBookingUC "github.com/m04kA/SMC-CarBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-CarBookingService/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/m04kA/SMC-CarBookingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-CarBookingService/migrations"
	"github.com/m04kA/SMC-CarBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CarBookingService/pkg/keylock"
	"github.com/m04kA/SMC-CarBookingService/pkg/logger"
	"github.com/m04kA/SMC-CarBookingService/pkg/metrics"
	"github.com/m04kA/SMC-CarBookingService/pkg/txmanager"
)

// admissionRecorder общий интерфейс учёта исходов для use cases
type admissionRecorder interface {
	RecordAdmission(outcome string)
}

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

	log.Info("Starting SMC-CarBookingService...")
	log.Info("Configuration loaded from config.toml (auth_mode=%s, lock_driver=%s)", cfg.Auth.Mode, cfg.Lock.Driver)

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		recorder         admissionRecorder
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		recorder = metricsCollector
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

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	// Без метрик обёртка работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Блокировка автомобиля на время проверки пересечений
	var (
		locker      createBookingUC.Locker
		redisClient *redis.Client
	)
	switch cfg.Lock.Driver {
	case config.LockDriverRedis:
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		locker = keylock.NewRedis(redisClient, cfg.Lock.TTL(), cfg.Lock.AcquireTimeout(), cfg.Lock.RetryInterval())
		log.Info("Redis car lock enabled (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Lock.TTL())
	default:
		locker = keylock.NewLocal(cfg.Lock.AcquireTimeout())
		log.Info("In-process car lock enabled")
	}

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	carRepository := carRepo.NewRepository(wrappedDB)
	serviceRepository := serviceRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	overlapChecker := overlap.NewChecker(bookingRepository)
	bookingSvc := bookingsService.NewService(bookingRepository, txMgr, log)
	catalogSvc := catalogService.NewService(serviceRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		carRepository,
		serviceRepository,
		overlapChecker,
		locker,
		txMgr,
		recorder,
		log,
	)

	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		overlapChecker,
		locker,
		txMgr,
		recorder,
		log,
	)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load booking timezone: %v", err)
	}
	businessStart, businessEnd, err := cfg.Booking.Window()
	if err != nil {
		log.Fatal("Failed to parse business hours: %v", err)
	}

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		getAvailableSlotsUC.Settings{
			Location:           location,
			BusinessStart:      businessStart,
			BusinessEnd:        businessEnd,
			DefaultSlotMinutes: cfg.Booking.SlotMinutes,
		},
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recovery(log), middleware.RequestLogger(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		trustedProxies, err := cfg.RateLimit.TrustedProxyPrefixes()
		if err != nil {
			log.Fatal("Invalid rate_limit.trusted_proxies: %v", err)
		}
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL(), trustedProxies)
		public.Use(limiter.Middleware)
		log.Info("Public rate limit enabled (rps=%.1f, burst=%d, trusted_proxies=%d)",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, len(trustedProxies))
	}

	// Свободные слоты на дату
	public.HandleFunc("/bookings/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Каталог активных услуг
	public.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют аутентификации)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	if cfg.Auth.Mode == config.AuthModeHeader {
		protected.Use(middleware.Auth)
	} else {
		protected.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
	}

	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// История бронирований пользователя
	protected.HandleFunc("/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)

	// Перенос бронирования
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Администрирование ---
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireRole(middleware.RoleAdmin))

	// Смена статуса бронирования по workflow
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
