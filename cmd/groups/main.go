// Command groups runs the standalone group store service.
//
// The service owns group records and exposes CRUD plus atomic membership
// set-add/set-remove, so concurrent relationship writes cannot lose updates
// to the membership list.
//
// # Configuration File
//
//	listen_addr: ":8082"
//	metrics_addr: ":9092"
//	log_json: true
//	postgres:
//	  host: "db"
//	  port: 5432
//	  user: "group_db_username"
//	  password: "group_db_password"
//	  database: "group_db_dev"
//
// Without a postgres host the service runs on an in-memory store.
//
// # Usage
//
//	go run ./cmd/groups --config=groups.yaml
//	go run ./cmd/groups --addr=:8082
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/api/httpserver"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/cmd/common"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/groups"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/postgres"
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
	log := common.NewLogger(cfg).With("service", "groups")

	var store groups.Store
	if cfg.Postgres.Enabled() {
		db, err := postgres.Connect(&cfg.Postgres)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		pgStore, err := groups.NewPostgresStore(db)
		if err != nil {
			return fmt.Errorf("initializing store: %w", err)
		}
		defer pgStore.Close()
		store = pgStore
		log.Info("Using PostgreSQL store", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)
	} else {
		store = groups.NewMemoryStore()
		log.Warn("No database configured, using in-memory store")
	}

	srv, err := httpserver.New(cfg.ServerConfig(log), groups.NewHandler(store, log))
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
