// OBD Core - vehicle telemetry ingestion service.
//
// This is the main entry point for the obdcore daemon. It receives
// telemetry frames from the OBD mobile uploader over HTTP, resolves
// vehicle identity, and maintains a vehicle registry backed by SQLite,
// with optional fan-out to MQTT and InfluxDB.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/obddrive/obd-core/migrations"

	"github.com/obddrive/obd-core/internal/api"
	"github.com/obddrive/obd-core/internal/infrastructure/config"
	"github.com/obddrive/obd-core/internal/infrastructure/database"
	"github.com/obddrive/obd-core/internal/infrastructure/influxdb"
	"github.com/obddrive/obd-core/internal/infrastructure/logging"
	"github.com/obddrive/obd-core/internal/infrastructure/mqtt"
	"github.com/obddrive/obd-core/internal/ingest"
	"github.com/obddrive/obd-core/internal/vehicle"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting OBD Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the catalog database and bring the schema up to date.
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Connect to MQTT (optional).
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional).
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Vehicle registry with persisted catalog, rehydrated from the
	// previous run.
	store := vehicle.NewStore(db)
	vehicleLog := log.With("component", "vehicle")
	coordinator := vehicle.NewCoordinator(vehicle.Options{
		Store:     store,
		Publisher: statePublisher(mqttClient),
		Writer:    telemetryWriter(influxClient),
		Logger:    vehicleLog,
	})
	if err := coordinator.Rehydrate(ctx); err != nil {
		return fmt.Errorf("rehydrating vehicle registry: %w", err)
	}

	// Entity creators announce discovery on the vehicle event topic.
	// Registered after rehydration so catalogued entities replay.
	events := eventPublisher(mqttClient)
	coordinator.RegisterSignalCreator(ctx, vehicle.NewSignalAnnouncer(events, vehicleLog))
	coordinator.RegisterTrackerCreator(ctx, vehicle.NewTrackerAnnouncer(events, vehicleLog))
	log.Info("vehicle registry ready", "vehicles", len(coordinator.Vehicles()))

	// Ingestion pipeline with routes from configuration.
	svc := ingest.NewService(ingest.Options{
		SessionTTL:      time.Duration(cfg.Ingest.SessionTTL) * time.Second,
		MaxSessions:     cfg.Ingest.MaxSessions,
		DefaultLanguage: cfg.Ingest.DefaultLanguage,
		Active:          cfg.Ingest.Active,
		Logger:          log.With("component", "ingest"),
	})
	for _, rc := range cfg.Routes {
		svc.UpsertRoute(ingest.RouteSpec{
			EntryID:           rc.EntryID,
			Email:             rc.Email,
			Imperial:          rc.Imperial,
			Lang:              rc.Language,
			MergeMode:         rc.MergeMode,
			NameMapText:       rc.NameMap,
			RejectPoorName:    rc.RejectPoorName,
			RequireMappedName: rc.RequireMappedName,
			Sink:              coordinator,
		})
	}
	log.Info("ingest service ready",
		"routes", len(cfg.Routes),
		"session_ttl_s", cfg.Ingest.SessionTTL,
		"max_sessions", cfg.Ingest.MaxSessions,
	)

	// HTTP server.
	metrics := api.NewMetrics(
		func() float64 { return float64(svc.SessionCount()) },
		func() float64 { return float64(len(coordinator.Vehicles())) },
	)
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		Logger:      log.With("component", "api"),
		Ingest:      svc,
		Coordinator: coordinator,
		Store:       store,
		Metrics:     metrics,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	log.Info("OBD Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses OBDCORE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("OBDCORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// statePublisher adapts the optional MQTT client; a nil client means
// state publishing is disabled.
func statePublisher(c *mqtt.Client) vehicle.StatePublisher {
	if c == nil {
		return nil
	}
	return c
}

// eventPublisher adapts the optional MQTT client; a nil client makes
// the entity announcers log-only.
func eventPublisher(c *mqtt.Client) vehicle.EventPublisher {
	if c == nil {
		return nil
	}
	return c
}

// telemetryWriter adapts the optional InfluxDB client; a nil client
// means history writing is disabled.
func telemetryWriter(c *influxdb.Client) vehicle.TelemetryWriter {
	if c == nil {
		return nil
	}
	return c
}

// healthCheck verifies the infrastructure connections are healthy.
// MQTT and InfluxDB are skipped when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}
