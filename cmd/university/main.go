// Command university runs the aggregation gateway.
//
// The gateway composes the student and group stores into denormalized views
// (a group with full student records) and convenience operations (create a
// student and attach it to a group, creating the group lazily), and exposes
// the relationship operations: add to group, remove from group, transfer.
//
// # Configuration File
//
//	listen_addr: ":8080"
//	metrics_addr: ":9090"
//	log_json: true
//	student_service_url: "http://students:8081"
//	group_service_url: "http://groups:8082"
//
// # Usage
//
//	go run ./cmd/university --config=university.yaml
//	go run ./cmd/university --students=http://localhost:8081 --groups=http://localhost:8082
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/api/httpserver"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/cmd/common"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/coordinator"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/gateway"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/groups"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/students"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML config file")
		addr        = flag.String("addr", "", "HTTP listen address")
		metricsAddr = flag.String("metrics-addr", "", "Metrics listen address")
		studentsURL = flag.String("students", "", "Student store base URL")
		groupsURL   = flag.String("groups", "", "Group store base URL")
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
	if *studentsURL != "" {
		cfg.StudentServiceURL = *studentsURL
	}
	if *groupsURL != "" {
		cfg.GroupServiceURL = *groupsURL
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
	if cfg.StudentServiceURL == "" || cfg.GroupServiceURL == "" {
		return fmt.Errorf("both student_service_url and group_service_url must be configured")
	}

	log := common.NewLogger(cfg).With("service", "university")

	studentClient := students.NewClient(cfg.StudentServiceURL)
	groupClient := groups.NewClient(cfg.GroupServiceURL)
	coord := coordinator.New(studentClient, groupClient, log)
	gw := gateway.New(studentClient, groupClient, coord, log)

	srv, err := httpserver.New(cfg.ServerConfig(log), gateway.NewHandler(gw))
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
