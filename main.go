package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/smgmdev/pressdeck/api"
	"github.com/smgmdev/pressdeck/config"
	"github.com/smgmdev/pressdeck/database"
	"github.com/smgmdev/pressdeck/logging"
	"github.com/smgmdev/pressdeck/services"
	"github.com/smgmdev/pressdeck/wordpress"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logging.New(cfg.LogLevel, cfg.IsDevelopment())

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
	}

	// If generating column mismatch report, run report and exit
	if cfg.ColumnReport {
		drifted, err := database.LogColumnDriftReport(db)
		if err != nil {
			log.Fatal().Err(err).Msg("Error generating column report")
		}
		log.Info().Int("driftedTables", drifted).Msg("Column report complete")
		return
	}

	currentDB := database.New(db)
	client := wordpress.NewClient(cfg.WordPressTimeout())

	var publishOpts []services.PublishOption

	var redisClient *redis.Client
	if cfg.UseRedisLock() {
		redisClient, err = services.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Error connecting to redis")
		}
		publishOpts = append(publishOpts, services.WithLocker(services.NewRedisLocker(redisClient, "pressdeck:", cfg.PublishLockTTL())))
	} else {
		publishOpts = append(publishOpts, services.WithLocker(services.NewMemoryLocker(cfg.PublishLockTTL())))
	}

	if cfg.ArchiveEnabled() {
		archiver, err := services.NewS3ArchiverFromEnv(ctx, cfg.S3ArchiveBucket, cfg.S3ArchivePrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("Error configuring featured image archive")
		}
		publishOpts = append(publishOpts, services.WithArchiver(archiver))
	}

	if cfg.SanitizeContent {
		publishOpts = append(publishOpts, services.WithSanitizer(services.ContentPolicy()))
	}

	reconciler := services.NewReconcileService(currentDB, client, cfg.ReconcileConcurrency, cfg.ReconcileRPS)

	var scheduler *services.ReconcileScheduler
	if cfg.ReconcileSchedule != "" {
		scheduler, err = services.NewReconcileScheduler(reconciler, cfg.ReconcileSchedule, 10*time.Minute)
		if err != nil {
			log.Fatal().Err(err).Msg("Error configuring reconcile schedule")
		}
		scheduler.Start()
	}

	server := api.NewServer(cfg, api.Services{
		DB:         currentDB,
		Sites:      services.NewSiteService(currentDB, client),
		Auth:       services.NewAuthService(currentDB, client),
		Articles:   services.NewArticleService(currentDB),
		Publisher:  services.NewPublishService(currentDB, client, publishOpts...),
		Reconciler: reconciler,
	})

	fatalErr := serveUntil(server, interruptSignals(), 30*time.Second)
	log.Info().Msgf("Server closed: %v", fatalErr)

	if scheduler != nil {
		scheduler.Stop()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing redis client")
		}
	}
	if err := currentDB.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database")
	}
}

// serveUntil runs server until it fails or a signal arrives, then shuts it
// down gracefully and returns the cause.
func serveUntil(server api.Server, signals <-chan os.Signal, timeout time.Duration) error {
	// room for both senders so neither blocks once shutdown starts
	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(signals, errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(timeout)
	return fatalErr
}

func interruptSignals() <-chan os.Signal {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	return c
}

// listenToInterrupt waits for a signal and then sends an error to the error channel.
func listenToInterrupt(signals <-chan os.Signal, errChannel chan<- error) {
	errChannel <- fmt.Errorf("%s", <-signals)
}
