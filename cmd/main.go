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
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/smartappt/booking-service/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/smartappt/booking-service/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/smartappt/booking-service/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/smartappt/booking-service/internal/api/handlers/delete_booking"
	getBookingHandler "github.com/smartappt/booking-service/internal/api/handlers/get_booking"
	getBusinessBookingsHandler "github.com/smartappt/booking-service/internal/api/handlers/get_business_bookings"
	getCustomerBookingsHandler "github.com/smartappt/booking-service/internal/api/handlers/get_customer_bookings"
	getDailySlotsHandler "github.com/smartappt/booking-service/internal/api/handlers/get_daily_slots"
	getMonthlyCalendarHandler "github.com/smartappt/booking-service/internal/api/handlers/get_monthly_calendar"
	manageBusinessHandler "github.com/smartappt/booking-service/internal/api/handlers/manage_business"
	manageScheduleHandler "github.com/smartappt/booking-service/internal/api/handlers/manage_schedule"
	updateBookingHandler "github.com/smartappt/booking-service/internal/api/handlers/update_booking"
	"github.com/smartappt/booking-service/internal/api/middleware"
	"github.com/smartappt/booking-service/internal/config"
	slotsCache "github.com/smartappt/booking-service/internal/infra/cache/slots"
	bookingRepo "github.com/smartappt/booking-service/internal/infra/storage/booking"
	businessRepo "github.com/smartappt/booking-service/internal/infra/storage/business"
	customerRepo "github.com/smartappt/booking-service/internal/infra/storage/customer"
	holidayRepo "github.com/smartappt/booking-service/internal/infra/storage/holiday"
	hoursRepo "github.com/smartappt/booking-service/internal/infra/storage/openinghours"
	serviceRepo "github.com/smartappt/booking-service/internal/infra/storage/service"
	bookingsService "github.com/smartappt/booking-service/internal/service/bookings"
	businessconfigService "github.com/smartappt/booking-service/internal/service/businessconfig"
	createBookingUC "github.com/smartappt/booking-service/internal/usecase/create_booking"
	getDailySlotsUC "github.com/smartappt/booking-service/internal/usecase/get_daily_slots"
	getMonthlyCalendarUC "github.com/smartappt/booking-service/internal/usecase/get_monthly_calendar"
	updateBookingUC "github.com/smartappt/booking-service/internal/usecase/update_booking"
	"github.com/smartappt/booking-service/pkg/dbmetrics"
	"github.com/smartappt/booking-service/pkg/logger"
	"github.com/smartappt/booking-service/pkg/metrics"
	"github.com/smartappt/booking-service/pkg/simpletxmanager"
	"github.com/smartappt/booking-service/pkg/txmanager"
)

func main() {
	// Загружаем .env (если есть) и конфигурацию
	_ = godotenv.Load()

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

	log.Info("Starting booking-service...")
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

	// Подключаемся к Redis (если кеш включен)
	var slotCache *slotsCache.Cache
	if cfg.Cache.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal("Failed to ping redis: %v", err)
		}
		cancel()

		slotCache = slotsCache.New(redisClient, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		log.Info("Slot cache enabled (addr=%s, ttl=%ds)", cfg.Cache.Addr, cfg.Cache.TTLSeconds)
	} else {
		log.Info("Slot cache disabled, availability is computed on every request")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		businessRepository *businessRepo.Repository
		serviceRepository  *serviceRepo.Repository
		customerRepository *customerRepo.Repository
		hoursRepository    *hoursRepo.Repository
		holidayRepository  *holidayRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		businessRepository = businessRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		customerRepository = customerRepo.NewRepository(wrappedDB)
		hoursRepository = hoursRepo.NewRepository(wrappedDB)
		holidayRepository = holidayRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		businessRepository = businessRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		customerRepository = customerRepo.NewRepository(db)
		hoursRepository = hoursRepo.NewRepository(db)
		holidayRepository = holidayRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		hoursRepository,
		slotCache,
		txMgr,
		log,
	)
	businessConfigSvc := businessconfigService.NewService(
		businessRepository,
		serviceRepository,
		hoursRepository,
		holidayRepository,
		slotCache,
		&businessconfigService.RealTimeProvider{},
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		businessRepository,
		serviceRepository,
		customerRepository,
		hoursRepository,
		holidayRepository,
		txMgr,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		hoursRepository,
		holidayRepository,
		slotCache,
		txMgr,
		log,
	)
	getDailySlotsUseCase := getDailySlotsUC.NewUseCase(
		bookingRepository,
		businessRepository,
		serviceRepository,
		hoursRepository,
		holidayRepository,
		slotCache,
		log,
	)
	getMonthlyCalendarUseCase := getMonthlyCalendarUC.NewUseCase(
		bookingRepository,
		businessRepository,
		serviceRepository,
		hoursRepository,
		holidayRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessBookings := getBusinessBookingsHandler.NewHandler(bookingSvc, log)
	getDailySlots := getDailySlotsHandler.NewHandler(getDailySlotsUseCase, log)
	getMonthlyCalendar := getMonthlyCalendarHandler.NewHandler(getMonthlyCalendarUseCase, log)
	manageBusiness := manageBusinessHandler.NewHandler(businessConfigSvc, log)
	manageSchedule := manageScheduleHandler.NewHandler(businessConfigSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Карточка бизнеса и его услуги
	api.HandleFunc("/businesses/{businessId}",
		manageBusiness.HandleGetBusiness).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/services",
		manageBusiness.HandleListServices).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/services/{serviceId}",
		manageBusiness.HandleGetService).Methods(http.MethodGet)

	// Недельное расписание и выходные
	api.HandleFunc("/businesses/{businessId}/schedule",
		manageSchedule.HandleGetSchedule).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/holidays",
		manageSchedule.HandleListHolidays).Methods(http.MethodGet)

	// Доступность: свободные слоты на день и календарь на месяц
	api.HandleFunc("/businesses/{businessId}/services/{serviceId}/slots",
		getDailySlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/services/{serviceId}/calendar",
		getMonthlyCalendar.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.HandleCustomer).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/reject", cancelBooking.HandleBusiness).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPost)

	// История бронирований клиента
	protected.HandleFunc("/customers/me/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом ---
	protected.HandleFunc("/businesses", manageBusiness.HandleCreateBusiness).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}", manageBusiness.HandleUpdateBusiness).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}", manageBusiness.HandleDeleteBusiness).Methods(http.MethodDelete)
	protected.HandleFunc("/businesses/{businessId}/bookings", getBusinessBookings.Handle).Methods(http.MethodGet)

	// Услуги
	protected.HandleFunc("/businesses/{businessId}/services",
		manageBusiness.HandleCreateService).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/services/{serviceId}",
		manageBusiness.HandleUpdateService).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/services/{serviceId}",
		manageBusiness.HandleDeleteService).Methods(http.MethodDelete)
	protected.HandleFunc("/businesses/{businessId}/services/{serviceId}/activate",
		manageBusiness.HandleActivateService).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/services/{serviceId}/deactivate",
		manageBusiness.HandleDeactivateService).Methods(http.MethodPost)

	// Расписание и выходные
	protected.HandleFunc("/businesses/{businessId}/schedule",
		manageSchedule.HandleCreateHours).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/schedule/{dayOfWeek}",
		manageSchedule.HandleUpdateHours).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/schedule/{dayOfWeek}",
		manageSchedule.HandleDeleteHours).Methods(http.MethodDelete)
	protected.HandleFunc("/businesses/{businessId}/holidays",
		manageSchedule.HandleAddHoliday).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/holidays/{holidayId}",
		manageSchedule.HandleDeleteHoliday).Methods(http.MethodDelete)

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
