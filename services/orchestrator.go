package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/api/httpserver"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/coordinator"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/gateway"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/groups"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/students"
)

// OrchestratorConfig contains deployment configuration.
type OrchestratorConfig struct {
	// BasePort is the first port; the three services take consecutive ports
	// (students, groups, university).
	BasePort int

	Log *slog.Logger
}

// DeployedService is one running service instance.
type DeployedService struct {
	Name   string
	URL    string
	Server *httpserver.Server
}

// Orchestrator manages an in-process deployment of all three services.
type Orchestrator struct {
	config *OrchestratorConfig

	Students   *DeployedService
	Groups     *DeployedService
	University *DeployedService
}

// NewOrchestrator creates a deployment orchestrator.
func NewOrchestrator(config *OrchestratorConfig) *Orchestrator {
	return &Orchestrator{config: config}
}

// Deploy starts the student store, the group store, and the university
// gateway wired to them over HTTP.
func (o *Orchestrator) Deploy() error {
	log := o.config.Log

	studentSvc, err := o.deployService("students",
		o.config.BasePort,
		students.NewHandler(students.NewMemoryStore(), log.With("service", "students")))
	if err != nil {
		return fmt.Errorf("deploy student store: %w", err)
	}
	o.Students = studentSvc

	groupSvc, err := o.deployService("groups",
		o.config.BasePort+1,
		groups.NewHandler(groups.NewMemoryStore(), log.With("service", "groups")))
	if err != nil {
		return fmt.Errorf("deploy group store: %w", err)
	}
	o.Groups = groupSvc

	gwLog := log.With("service", "university")
	studentClient := students.NewClient(studentSvc.URL)
	groupClient := groups.NewClient(groupSvc.URL)
	coord := coordinator.New(studentClient, groupClient, gwLog)
	gw := gateway.New(studentClient, groupClient, coord, gwLog)

	universitySvc, err := o.deployService("university",
		o.config.BasePort+2,
		gateway.NewHandler(gw))
	if err != nil {
		return fmt.Errorf("deploy university gateway: %w", err)
	}
	o.University = universitySvc

	log.Info("Deployment complete",
		"students", studentSvc.URL, "groups", groupSvc.URL, "university", universitySvc.URL)
	return nil
}

func (o *Orchestrator) deployService(name string, port int, registrar httpserver.RouteRegistrar) (*DeployedService, error) {
	addr := fmt.Sprintf("localhost:%d", port)

	srv, err := httpserver.New(&httpserver.Config{
		ListenAddr:               addr,
		Log:                      o.config.Log.With("service", name),
		DrainDuration:            time.Second,
		GracefulShutdownDuration: 5 * time.Second,
		ReadTimeout:              10 * time.Second,
		WriteTimeout:             30 * time.Second,
	}, registrar)
	if err != nil {
		return nil, err
	}

	srv.RunInBackground()

	// Give the listener a moment before peers start calling.
	time.Sleep(100 * time.Millisecond)

	return &DeployedService{
		Name:   name,
		URL:    fmt.Sprintf("http://%s", addr),
		Server: srv,
	}, nil
}

// Shutdown stops all services.
func (o *Orchestrator) Shutdown() {
	for _, svc := range []*DeployedService{o.University, o.Groups, o.Students} {
		if svc != nil {
			svc.Server.Shutdown()
		}
	}
}
