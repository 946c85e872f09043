package app

import (
	"context"
	"database/sql"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"parkyard/internal/config"
	httpserver "parkyard/internal/http"
	"parkyard/internal/http/handlers"
	redisstore "parkyard/internal/redis"
	"parkyard/internal/repository"
	"parkyard/internal/service"
	"parkyard/internal/ws"
	"parkyard/libs/db"
	libredis "parkyard/libs/redis"
)

// App wires the parking service dependency graph.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	engine, err := cfg.PricingEngine()
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	// Redis is optional: with no addr configured the active-session cache is
	// skipped and the service runs on the durable store alone.
	var (
		redisClient *redis.Client
		activeCache service.ActiveSessionCache
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = libredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		activeCache = redisstore.NewStore(redisClient, cfg.ActiveSessionTTL())
	}

	hub := ws.NewHub(logger)
	go hub.Run()

	sessionRepo := repository.NewSessionRepository(sqlDB)
	vehicleRepo := repository.NewVehicleRepository(sqlDB)
	reportRepo := repository.NewReportRepository(sqlDB)

	lifecycle := service.NewLifecycleService(sessionRepo, vehicleRepo, engine, activeCache, hub, logger)
	vehicles := service.NewVehicleService(vehicleRepo, logger)
	reports := service.NewReportService(reportRepo)

	movementHandler := handlers.NewMovementHandler(lifecycle, logger)
	vehiclesHandler := handlers.NewVehiclesHandler(vehicles, logger)
	reportsHandler := handlers.NewReportsHandler(reports, logger)

	routes := httpserver.Routes{
		YardEntry:  movementHandler.HandleEntry,
		YardExit:   movementHandler.HandleExit,
		YardFee:    movementHandler.HandleFee,
		YardActive: movementHandler.HandleActive,
		YardFeed:   hub.ServeWS,

		VehicleCreate:  vehiclesHandler.HandleCreate,
		VehicleList:    vehiclesHandler.HandleList,
		VehicleGet:     vehiclesHandler.HandleGet,
		VehicleByPlate: vehiclesHandler.HandleGetByPlate,
		VehicleUpdate:  vehiclesHandler.HandleUpdate,

		ReportRevenue:     reportsHandler.HandleRevenue,
		ReportTopVehicles: reportsHandler.HandleTopVehicles,
		ReportOccupancy:   reportsHandler.HandleOccupancy,

		Health:  handlers.NewHealthHandler(),
		Metrics: promhttp.Handler(),
	}

	router := httpserver.NewRouter(routes)
	handler := httpserver.WithLogging(logger, httpserver.WithMetrics(router))
	server := httpserver.NewServer(cfg.HTTPAddress(), handler, logger)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
