// Command students runs the standalone student store service.
//
// The service owns student records and exposes CRUD plus the store-side
// relationship primitives (assign group, clear group) used by the university
// gateway's coordinator.
//
// # Configuration File
//
//	listen_addr: ":8081"
//	metrics_addr: ":9091"
//	log_json: true
//	postgres:
//	  host: "db"
//	  port: 5432
//	  user: "student_db_username"
//	  password: "student_db_password"
//	  database: "student_db_dev"
//
// Without a postgres host the service runs on an in-memory store.
//
// # Usage
//
//	go run ./cmd/students --config=students.yaml
//	go run ./cmd/students --addr=:8081
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/api/httpserver"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/cmd/common"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/postgres"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/students"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML config file")
		addr        = flag.String("addr", "", "HTTP listen address")
		metricsAddr = flag.String("metrics-addr", "", "Metrics listen address")
		enablePprof = flag.Bool("pprof", false, "Enable pprof debug API")
	)
	flag.Parse()

	cfg, err := loadConfiguration(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *enablePprof {
		cfg.EnablePprof = true
	}

	if err := run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfiguration(configPath string) (*common.Config, error) {
	if configPath != "" {
		return common.LoadConfig(configPath)
	}
	return common.DefaultConfig(), nil
}

func run(cfg *common.Config) error {
	log := common.NewLogger(cfg).With("service", "students")

	var store students.Store
	if cfg.Postgres.Enabled() {
		db, err := postgres.Connect(&cfg.Postgres)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		pgStore, err := students.NewPostgresStore(db)
		if err != nil {
			return fmt.Errorf("initializing store: %w", err)
		}
		defer pgStore.Close()
		store = pgStore
		log.Info("Using PostgreSQL store", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)
	} else {
		store = students.NewMemoryStore()
		log.Warn("No database configured, using in-memory store")
	}

	srv, err := httpserver.New(cfg.ServerConfig(log), students.NewHandler(store, log))
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.RunInBackground()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down")
	srv.Shutdown()
	return nil
}
