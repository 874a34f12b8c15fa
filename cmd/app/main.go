package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cafe/cmd"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var gormDB *gorm.DB
	if configs.AuditDSN != "" {
		db, err := gorm.Open(postgresdriver.Open(configs.AuditDSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("Error connecting to audit database: %v", err)
		}
		gormDB = db
	}

	root, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	root.Scheduler().Start()
	defer root.Scheduler().Stop()

	jobManager, err := root.CreateJobManager()
	if err != nil {
		log.Fatalf("Error wiring jobs: %v", err)
	}
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	tcpServer := root.CreateTCPServer(fmt.Sprintf("0.0.0.0:%s", configs.TCPPort))
	if err := tcpServer.Start(); err != nil {
		log.Fatalf("Error starting cafe server: %v", err)
	}
	defer tcpServer.Stop()

	go startWebServer(root, configs.HTTPPort)

	// Block until shutdown is requested; deferred stops run in reverse
	// wiring order.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Shutting down", slog.String("signal", sig.String()))
}

func getConfigs() cmd.Config {
	// A .env file is optional; real environment variables win either way.
	_ = godotenv.Load(".env")

	return cmd.Config{
		TCPPort:         envOrDefault("TCP_PORT", "2610"),
		HTTPPort:        envOrDefault("HTTP_PORT", "8080"),
		SlotsPerType:    envIntOrDefault("SLOTS_PER_TYPE", 2),
		TeaPrepTime:     envDurationOrDefault("TEA_PREP_TIME", 30*time.Second),
		CoffeePrepTime:  envDurationOrDefault("COFFEE_PREP_TIME", 45*time.Second),
		DefaultPrepTime: envDurationOrDefault("DEFAULT_PREP_TIME", 30*time.Second),
		AuditDSN:        os.Getenv("AUDIT_DSN"),
		AuditSchedule:   envOrDefault("AUDIT_SCHEDULE", "*/10 * * * * *"),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return parsed
}

func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return parsed
}

func startWebServer(root *cmd.CompositionRoot, port string) {
	server, err := root.CreateHTTPServer()
	if err != nil {
		log.Fatalf("Error wiring web server: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	server.Register(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
