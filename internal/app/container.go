package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/playspot/playspot-backend/internal/api"
	"github.com/playspot/playspot-backend/internal/auth"
	"github.com/playspot/playspot-backend/internal/facility"
	"github.com/playspot/playspot-backend/internal/group"
	"github.com/playspot/playspot-backend/internal/notification"
	"github.com/playspot/playspot-backend/internal/reservation"
	"github.com/playspot/playspot-backend/internal/scheduler"
	"github.com/playspot/playspot-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       *zap.Logger
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	SweepInterval  time.Duration
	SweepLookahead time.Duration

	AMQPURL      string
	AMQPExchange string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Scheduler  *scheduler.Scheduler
	Notifier   notification.Notifier

	closers []func() error
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	var closers []func() error

	// Notification Module. The in-app feed is always stored; a RabbitMQ
	// fan-out is layered on top when a broker is configured.
	notifRepo := notification.NewPgxRepository(cfg.DBPool)
	notifService := notification.NewService(notifRepo)

	var notifier notification.Notifier = notification.NewStoreNotifier(notifRepo, logger)
	if cfg.AMQPURL != "" {
		amqpNotifier, err := notification.NewAMQPNotifier(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			return nil, err
		}
		closers = append(closers, amqpNotifier.Close)
		notifier = notification.Fanout(notifier, amqpNotifier)
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Facility Module
	facRepo := facility.NewPgxRepository(cfg.DBPool)
	facService := facility.NewService(facRepo)

	// Reservation Module
	resRepo := reservation.NewPgxRepository(cfg.DBPool)
	resService := reservation.NewService(resRepo, facService, notifier, logger)

	// Group Module
	groupRepo := group.NewPgxRepository(cfg.DBPool)
	groupService := group.NewService(groupRepo)

	// Viability sweep
	sweeper := scheduler.New(groupRepo, notifier, logger, cfg.SweepInterval, cfg.SweepLookahead)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		UserService:         userService,
		FacilityService:     facService,
		ReservationService:  resService,
		GroupService:        groupService,
		NotificationService: notifService,
		JWTManager:          jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Scheduler:  sweeper,
		Notifier:   notifier,
		closers:    closers,
	}, nil
}

// Close releases resources held by the container, such as the broker
// connection.
func (c *Container) Close() error {
	var firstErr error
	for _, close := range c.closers {
		if err := close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
