// Command multiservice runs the full deployment in one process: student
// store, group store, and university gateway on consecutive localhost ports,
// backed by in-memory stores. Intended for demos and local development.
//
// # Usage
//
//	go run ./cmd/multiservice --base-port=8080
//
// The university gateway listens on base-port+2.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/cmd/common"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/services"
)

func main() {
	var (
		basePort = flag.Int("base-port", 8080, "First port; the three services take consecutive ports")
		logJSON  = flag.Bool("log-json", false, "Log in JSON format")
		logDebug = flag.Bool("log-debug", false, "Enable debug logging")
	)
	flag.Parse()

	log := common.NewLogger(&common.Config{LogJSON: *logJSON, LogDebug: *logDebug})

	orch := services.NewOrchestrator(&services.OrchestratorConfig{
		BasePort: *basePort,
		Log:      log,
	})
	if err := orch.Deploy(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down deployment")
	orch.Shutdown()
}
