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
	_ "time/tzdata"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	changeBookingStatusHandler "github.com/m04kA/BTR-BookingService/internal/api/handlers/change_booking_status"
	createBookingHandler "github.com/m04kA/BTR-BookingService/internal/api/handlers/create_booking"
	dayOverrideHandler "github.com/m04kA/BTR-BookingService/internal/api/handlers/day_override"
	deleteBookingHandler "github.com/m04kA/BTR-BookingService/internal/api/handlers/delete_booking"
	editBookingHandler "github.com/m04kA/BTR-BookingService/internal/api/handlers/edit_booking"
	getBookingHandler "github.com/m04kA/BTR-BookingService/internal/api/handlers/get_booking"
	getDayBookingsHandler "github.com/m04kA/BTR-BookingService/internal/api/handlers/get_day_bookings"
	getFreeIntervalsHandler "github.com/m04kA/BTR-BookingService/internal/api/handlers/get_free_intervals"
	getMonthLoadHandler "github.com/m04kA/BTR-BookingService/internal/api/handlers/get_month_load"
	getRiderBookingsHandler "github.com/m04kA/BTR-BookingService/internal/api/handlers/get_rider_bookings"
	getScheduleHandler "github.com/m04kA/BTR-BookingService/internal/api/handlers/get_schedule"
	riderProfileHandler "github.com/m04kA/BTR-BookingService/internal/api/handlers/rider_profile"
	updateDayPolicyHandler "github.com/m04kA/BTR-BookingService/internal/api/handlers/update_day_policy"
	"github.com/m04kA/BTR-BookingService/internal/api/middleware"
	"github.com/m04kA/BTR-BookingService/internal/availability"
	"github.com/m04kA/BTR-BookingService/internal/config"
	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/internal/infra/cache/freeintervals"
	"github.com/m04kA/BTR-BookingService/internal/infra/events"
	"github.com/m04kA/BTR-BookingService/internal/infra/queue"
	bookingRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/booking"
	riderRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/rider"
	scheduleRepo "github.com/m04kA/BTR-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/BTR-BookingService/internal/integrations/mailer"
	"github.com/m04kA/BTR-BookingService/internal/integrations/operatorchannel"
	"github.com/m04kA/BTR-BookingService/internal/notify"
	bookingsService "github.com/m04kA/BTR-BookingService/internal/service/bookings"
	ridersService "github.com/m04kA/BTR-BookingService/internal/service/riders"
	scheduleService "github.com/m04kA/BTR-BookingService/internal/service/schedule"
	completeBookingsUC "github.com/m04kA/BTR-BookingService/internal/usecase/complete_bookings"
	createBookingUC "github.com/m04kA/BTR-BookingService/internal/usecase/create_booking"
	editBookingUC "github.com/m04kA/BTR-BookingService/internal/usecase/edit_booking"
	getFreeIntervalsUC "github.com/m04kA/BTR-BookingService/internal/usecase/get_free_intervals"
	getMonthLoadUC "github.com/m04kA/BTR-BookingService/internal/usecase/get_month_load"
	transitionStatusUC "github.com/m04kA/BTR-BookingService/internal/usecase/transition_status"
	"github.com/m04kA/BTR-BookingService/internal/validation"
	"github.com/m04kA/BTR-BookingService/internal/worker/completion"
	"github.com/m04kA/BTR-BookingService/internal/worker/notifications"
	"github.com/m04kA/BTR-BookingService/pkg/dbmetrics"
	"github.com/m04kA/BTR-BookingService/pkg/logger"
	"github.com/m04kA/BTR-BookingService/pkg/metrics"
	"github.com/m04kA/BTR-BookingService/pkg/tracing"
	"github.com/m04kA/BTR-BookingService/pkg/txmanager"
)

// freeIntervalsCache общий интерфейс кеша для всех потребителей.
// Остается nil, если кеш выключен.
type freeIntervalsCache interface {
	Get(ctx context.Context, date time.Time) ([]domain.Interval, string, bool, error)
	Set(ctx context.Context, date time.Time, version string, free []domain.Interval) error
	Invalidate(ctx context.Context, dates ...time.Time) error
	InvalidateAll(ctx context.Context) error
}

func main() {
	configPath := os.Getenv("BTR_CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting BTR-BookingService (%s)...", cfg.Facility.Name)
	log.Info("Configuration loaded from %s", configPath)

	// Правила проката
	location, _ := cfg.Facility.Location()
	weekendStart, _ := cfg.Facility.WeekendStartDay()
	log.Info("Facility: time_zone=%s, weekend_start=%s, step=%s, bikes=[%d, %d]",
		location, weekendStart, cfg.Facility.SlotStep(), cfg.Facility.MinBikes, cfg.Facility.MaxBikes)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Трассировка
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to setup tracing: %v", err)
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

	// Без метрик обёртка просто проксирует вызовы
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	riderRepository := riderRepo.NewRepository(wrappedDB)

	// Redis: кеш свободных интервалов и очередь уведомлений
	var rdb *redis.Client
	if cfg.Cache.Enabled || cfg.Queue.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		log.Info("Connected to redis at %s", cfg.Redis.Addr)
	}

	var cache freeIntervalsCache
	if cfg.Cache.Enabled {
		cache = freeintervals.New(rdb, cfg.Cache.TTL())
		log.Info("Free intervals cache enabled (ttl=%s)", cfg.Cache.TTL())
	}

	// Каналы уведомлений
	var riderMailer notifications.Mailer = mailer.NoopMailer{}
	if cfg.SMTP.Enabled {
		riderMailer = mailer.NewSMTPMailer(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		log.Info("SMTP mailer enabled (host=%s)", cfg.SMTP.Host)
	}

	var operatorChat notifications.OperatorChannel = operatorchannel.NoopClient{}
	if cfg.OperatorChannel.Enabled {
		operatorChat = operatorchannel.NewClient(operatorchannel.Config{
			URL:           cfg.OperatorChannel.URL,
			Token:         cfg.OperatorChannel.Token,
			PeerID:        cfg.OperatorChannel.PeerID,
			Timeout:       time.Duration(cfg.OperatorChannel.Timeout) * time.Second,
			RatePerSecond: cfg.OperatorChannel.RatePerSecond,
		}, log)
		log.Info("Operator channel enabled (peer=%d)", cfg.OperatorChannel.PeerID)
	}

	notificationHandler := notifications.NewHandler(notifications.Config{
		Riders:      riderRepository,
		Bookings:    bookingRepository,
		Mailer:      riderMailer,
		Operators:   operatorChat,
		Directory:   cfg.Operators,
		BookingsURL: cfg.OperatorChannel.BookingsPageURL,
		Metrics:     metricsCollector,
		Log:         log,
	})

	// Очередь задач: asynq или синхронное выполнение
	var (
		taskQueue   notify.TaskQueue
		queueClient *queue.Client
		queueServer *notifications.Server
		inlineQueue *queue.InlineClient
	)
	if cfg.Queue.Enabled {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		queueClient = queue.NewClient(redisOpt, cfg.Queue.Name, cfg.Queue.MaxRetry)
		taskQueue = queueClient

		queueServer = notifications.NewServer(redisOpt, notifications.ServerConfig{
			Concurrency: cfg.Queue.Concurrency,
			Queue:       cfg.Queue.Name,
		}, notificationHandler, log)
		if err := queueServer.Start(); err != nil {
			log.Fatal("Failed to start notification worker: %v", err)
		}
	} else {
		inlineQueue = queue.NewInlineClient(notificationHandler.Mux(), log)
		taskQueue = inlineQueue
		log.Warn("Queue disabled, notifications are delivered inline")
	}

	// Публикация событий в RabbitMQ (опционально)
	var (
		eventPublisher notify.EventPublisher
		amqpPublisher  *events.Publisher
	)
	if cfg.Events.Enabled {
		amqpPublisher, err = events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq: %v", err)
		}
		eventPublisher = amqpPublisher
		log.Info("Booking events are published to exchange %s", cfg.Events.Exchange)
	}

	dispatcher := notify.NewDispatcher(taskQueue, eventPublisher, metricsCollector, log)

	// Расчет свободного времени и проверка заявок
	resolver := availability.NewResolver(availability.Config{
		WeekendStart: weekendStart,
		SlotStep:     cfg.Facility.SlotStep(),
	})
	validator := validation.NewValidator(validation.Config{
		MinBikes: cfg.Facility.MinBikes,
		MaxBikes: cfg.Facility.MaxBikes,
		SlotStep: cfg.Facility.SlotStep(),
		Location: location,
	})

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, cache, txMgr, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, cache, log)
	riderSvc := ridersService.NewService(riderRepository, log)

	// Инициализируем use cases
	getFreeIntervalsUseCase := getFreeIntervalsUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		resolver,
		cache,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		riderRepository,
		getFreeIntervalsUseCase,
		validator,
		cache,
		dispatcher,
		txMgr,
		log,
	)

	editBookingUseCase := editBookingUC.NewUseCase(
		bookingRepository,
		getFreeIntervalsUseCase,
		validator,
		cache,
		dispatcher,
		txMgr,
		log,
	)

	transitionStatusUseCase := transitionStatusUC.NewUseCase(
		bookingRepository,
		cache,
		dispatcher,
		txMgr,
		metricsCollector,
		log,
	)

	completeBookingsUseCase := completeBookingsUC.NewUseCase(
		bookingRepository,
		transitionStatusUseCase,
		location,
		cfg.Sweep.BatchSize,
		metricsCollector,
		log,
	)

	getMonthLoadUseCase := getMonthLoadUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		resolver,
		location,
		log,
	)

	// Инициализируем handlers
	getFreeIntervals := getFreeIntervalsHandler.NewHandler(getFreeIntervalsUseCase, location, log)
	getMonthLoad := getMonthLoadHandler.NewHandler(getMonthLoadUseCase, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, location, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, location, log)
	editBooking := editBookingHandler.NewHandler(editBookingUseCase, location, log)
	changeBookingStatus := changeBookingStatusHandler.NewHandler(transitionStatusUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getRiderBookings := getRiderBookingsHandler.NewHandler(bookingSvc, log)
	getDayBookings := getDayBookingsHandler.NewHandler(bookingSvc, location, log)
	riderProfile := riderProfileHandler.NewHandler(riderSvc, log)
	updateDayPolicy := updateDayPolicyHandler.NewHandler(scheduleSvc, log)
	dayOverride := dayOverrideHandler.NewHandler(scheduleSvc, location, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободное время на дату
	api.HandleFunc("/free-intervals", getFreeIntervals.Handle).Methods(http.MethodGet)

	// Загруженность по дням месяца
	api.HandleFunc("/calendar/{year:[0-9]{4}}/{month:[0-9]{1,2}}", getMonthLoad.Handle).Methods(http.MethodGet)

	// Расписание: политики дней и исключения
	api.HandleFunc("/schedule/policies", getSchedule.HandlePolicies).Methods(http.MethodGet)
	api.HandleFunc("/schedule/overrides", getSchedule.HandleOverrides).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Operators))

	// --- Профиль райдера ---
	protected.HandleFunc("/riders/me", riderProfile.HandleGet).Methods(http.MethodGet)
	protected.HandleFunc("/riders/me", riderProfile.HandlePut).Methods(http.MethodPut)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", editBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/bookings/{bookingId}/status", changeBookingStatus.Handle).Methods(http.MethodPatch)

	// История бронирований райдера ("me" - свои)
	protected.HandleFunc("/riders/{riderId}/bookings", getRiderBookings.Handle).Methods(http.MethodGet)

	// --- Операторы ---
	operators := protected.PathPrefix("").Subrouter()
	operators.Use(middleware.RequireOperator)

	operators.HandleFunc("/days/{date}/bookings", getDayBookings.Handle).Methods(http.MethodGet)
	operators.HandleFunc("/schedule/policies/{kind}", updateDayPolicy.Handle).Methods(http.MethodPut)
	operators.HandleFunc("/schedule/overrides/{date}", dayOverride.HandleUpsert).Methods(http.MethodPut)
	operators.HandleFunc("/schedule/overrides/{date}", dayOverride.HandleDelete).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Metrics.ServiceName),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Фоновое завершение прошедших броней
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	if cfg.Sweep.Enabled {
		sweeper := completion.NewWorker(completeBookingsUseCase, cfg.Sweep.Interval(), log)
		go func() {
			defer close(workerDone)
			sweeper.Run(workerCtx)
		}()
		log.Info("Completion sweep started (interval=%s, batch=%d)", cfg.Sweep.Interval(), cfg.Sweep.BatchSize)
	} else {
		close(workerDone)
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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	stopWorker()
	<-workerDone

	if queueServer != nil {
		queueServer.Shutdown()
	}
	if inlineQueue != nil {
		inlineQueue.Wait()
	}
	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			log.Warn("Failed to close queue client: %v", err)
		}
	}
	if amqpPublisher != nil {
		if err := amqpPublisher.Close(); err != nil {
			log.Warn("Failed to close rabbitmq publisher: %v", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Warn("Failed to close redis client: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
