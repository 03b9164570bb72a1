package main

import (
	buseshandler "shuttle/internal/buses/handler"
	busesrepository "shuttle/internal/buses/repository"
	busesservice "shuttle/internal/buses/service"
	busesvalidator "shuttle/internal/buses/validator"
	employeeshandler "shuttle/internal/employees/handler"
	employeesrepository "shuttle/internal/employees/repository"
	employeesservice "shuttle/internal/employees/service"
	employeesvalidator "shuttle/internal/employees/validator"
	"shuttle/internal/notifications"
	reservationshandler "shuttle/internal/reservations/handler"
	reservationsrepository "shuttle/internal/reservations/repository"
	reservationsservice "shuttle/internal/reservations/service"
	reservationsvalidator "shuttle/internal/reservations/validator"
	scheduleshandler "shuttle/internal/schedules/handler"
	schedulesrepository "shuttle/internal/schedules/repository"
	schedulesservice "shuttle/internal/schedules/service"
	schedulesvalidator "shuttle/internal/schedules/validator"
	tokensrepository "shuttle/internal/tokens/repository"
	tokensservice "shuttle/internal/tokens/service"
	"shuttle/pkg/app"
	"shuttle/pkg/config"
	kafkautil "shuttle/pkg/kafka"
	kafkaconfig "shuttle/pkg/kafka/config"
	"shuttle/pkg/middleware"
)

const ServiceName = "shuttle-api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting shuttle API service")

	// Tokens
	denylist := tokensrepository.NewMongoDenylistRepository(cfg)
	tokenService := tokensservice.NewTokenService(denylist, cfg)
	auth := middleware.NewAuthenticator(tokenService, cfg.Log)

	// Employees
	employeeRepo := employeesrepository.NewMongoEmployeeRepository(cfg)
	employeeService := employeesservice.NewEmployeeService(
		employeeRepo,
		tokenService,
		employeesvalidator.NewEmployeeValidator(cfg.Log),
		cfg,
	)

	// Buses and schedules
	busRepo := busesrepository.NewMongoBusRepository(cfg)
	busService := busesservice.NewBusService(busRepo, busesvalidator.NewBusValidator(cfg.Log), cfg)
	scheduleRepo := schedulesrepository.NewMongoScheduleRepository(cfg)
	scheduleService := schedulesservice.NewScheduleService(
		scheduleRepo,
		busRepo,
		schedulesvalidator.NewScheduleValidator(cfg.Log),
		cfg,
	)

	// Reservations
	reservationRepo := reservationsrepository.NewMongoReservationRepository(cfg)
	seatLockRepo := reservationsrepository.NewMongoSeatLockRepository(cfg)
	ledger := reservationsservice.NewSeatLedger(reservationRepo, seatLockRepo, cfg)
	bookingService := reservationsservice.NewBookingService(
		ledger,
		scheduleService,
		employeeService,
		newDispatcher(cfg),
		cfg,
	)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		employeeshandler.NewEmployeeHandler(employeeService, auth, cfg.Log),
		buseshandler.NewBusHandler(busService, auth, cfg.Log),
		scheduleshandler.NewScheduleHandler(scheduleService, auth, cfg.Log),
		reservationshandler.NewBookingHandler(
			bookingService,
			reservationsvalidator.NewReservationValidator(cfg.Log),
			auth,
			cfg.Log,
		),
	)
	serverApp.Run()
}

// newDispatcher falls back to a no-op when Kafka is not configured so the
// booking path keeps working without a broker.
func newDispatcher(cfg *config.Config) notifications.Dispatcher {
	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Warn("Kafka disabled, notifications will not be delivered", "error", err)
		return notifications.NoopDispatcher{}
	}

	producer, err := kafkautil.NewProducer(kafkaCfg, kafkaCfg.NotificationsTopic, kafkaCfg.NotificationsDLQ, cfg.Log)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, notifications will not be delivered", "error", err)
		return notifications.NoopDispatcher{}
	}

	return notifications.NewKafkaDispatcher(producer, ServiceName, cfg.Log)
}
