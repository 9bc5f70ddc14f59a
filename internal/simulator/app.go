// Copyright 2025 NetViz Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package simulator

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/netviz-labs/attack-simulator/internal/chart"
	"github.com/netviz-labs/attack-simulator/internal/models"
	"github.com/netviz-labs/attack-simulator/internal/monitoring"
)

/* Simulation Controller code */

type SimulationStatus string

const (
	CONFIGURED SimulationStatus = "CONFIGURED"
	STARTED    SimulationStatus = "STARTED"
	STOPPED    SimulationStatus = "STOPPED"
	ERROR      SimulationStatus = "ERROR"
)

type SimulationStatusResponse struct {
	Status SimulationStatus
}

type AttackSimulatorApp struct {
	currentInstance *SimulationInstance
	status          SimulationStatus
	instanceMutex   sync.RWMutex
	server          *http.Server
	recorder        *chart.Recorder
	wg              sync.WaitGroup
	ctx             context.Context
	config          *AppConfig
}

func NewAttackSimulatorApp(configPath string) *AttackSimulatorApp {
	return &AttackSimulatorApp{
		currentInstance: nil,
		status:          STOPPED,
		instanceMutex:   sync.RWMutex{},
		recorder:        chart.NewRecorder(chart.DefaultWindow),
		wg:              sync.WaitGroup{},
		config:          InitConfig(configPath),
	}
}

func (app *AttackSimulatorApp) InitNewSimulation(profile *SimulationProfile) error {

	if profile == nil {
		return fmt.Errorf("no simulation profile provided, could not initialize")
	}

	app.instanceMutex.Lock()
	defer app.instanceMutex.Unlock()

	if app.currentInstance != nil {
		return fmt.Errorf("could not initialize the simulation instance, please stop or reset the current instance")
	}

	return app.replaceInstanceLocked(*profile)
}

// replaceInstanceLocked swaps in a freshly built instance for the given
// profile. The caller holds instanceMutex.
func (app *AttackSimulatorApp) replaceInstanceLocked(profile SimulationProfile) error {
	if app.currentInstance != nil {
		app.currentInstance.Shutdown()
		app.currentInstance = nil
	}

	inst := NewSimulationInstance(app.config.StatePort, profile)
	if err := inst.InitSimulationInstance(); err != nil {
		app.status = ERROR
		return fmt.Errorf("could not initialize the simulation instance: %w", err)
	}

	app.currentInstance = inst
	app.status = CONFIGURED
	return nil
}

func (app *AttackSimulatorApp) StartSimulation() error {
	app.instanceMutex.Lock()
	defer app.instanceMutex.Unlock()

	if app.currentInstance == nil {
		return fmt.Errorf("please configure the simulation via /configure")
	}

	// If already started, it's a restart - stop first
	if app.status == STARTED {
		if err := app.currentInstance.Stop(); err != nil {
			log.Printf("Warning: error stopping instance for restart: %s", err.Error())
		}
	}

	if err := app.currentInstance.Start(); err != nil {
		app.status = ERROR
		return fmt.Errorf("could not start the simulation instance")
	}

	app.status = STARTED
	return nil
}

func (app *AttackSimulatorApp) GetCurrentSimulationStatus() SimulationStatus {
	app.instanceMutex.RLock()
	defer app.instanceMutex.RUnlock()

	return app.status
}

func (app *AttackSimulatorApp) StopSimulation() error {
	app.instanceMutex.Lock()
	defer app.instanceMutex.Unlock()

	if app.status == STOPPED || app.currentInstance == nil {
		return fmt.Errorf("no running instance")
	}

	if app.status == STARTED {
		if err := app.currentInstance.Stop(); err != nil {
			return fmt.Errorf("could not stop the simulation instance")
		}
	}

	// Don't drop currentInstance - keep it so we can restart
	app.status = STOPPED
	return nil
}

func (app *AttackSimulatorApp) UpdateParams(speed, intensity float64) error {
	app.instanceMutex.RLock()
	defer app.instanceMutex.RUnlock()

	if app.currentInstance == nil {
		return fmt.Errorf("no configured instance")
	}
	app.currentInstance.SetParams(speed, intensity)
	return nil
}

// ExportSession flattens the active run plus the chart window into the
// portable session document.
func (app *AttackSimulatorApp) ExportSession() (models.SessionDocument, error) {
	app.instanceMutex.RLock()
	defer app.instanceMutex.RUnlock()

	if app.currentInstance == nil {
		return models.SessionDocument{}, fmt.Errorf("no configured instance")
	}
	return app.currentInstance.ExportSession(app.recorder.History()), nil
}

// ImportSession validates the document and, only if it is well formed,
// rebuilds the simulation from its scenario/seed/speed/intensity tuple.
// A malformed document leaves the current run untouched.
func (app *AttackSimulatorApp) ImportSession(doc *models.SessionDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", models.ErrInvalidSessionFormat)
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	app.instanceMutex.Lock()
	defer app.instanceMutex.Unlock()

	profile := SimulationProfile{
		Scenario:  doc.ScenarioID,
		Seed:      doc.Seed,
		Speed:     doc.Speed,
		Intensity: doc.Intensity,
	}
	if app.config.Profile != nil {
		profile.Width = app.config.Profile.Width
		profile.Height = app.config.Profile.Height
	}

	return app.replaceInstanceLocked(profile)
}

func (app *AttackSimulatorApp) Run() {

	var cancel context.CancelFunc
	app.ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	app.wg.Add(1)
	go app.listenShutdownEvent()
	log.Printf("running config: \n%s", app.config.Dumps())

	if err := app.recorder.Start(); err != nil {
		log.Fatalf("could not start chart recorder task: %s", err.Error())
	}

	if app.config.InitOnStartup {
		log.Printf("bootstraping simulation instance")
		err := app.InitNewSimulation(app.config.Profile)
		if err != nil {
			log.Fatalf("could not initialize the simulator on startup")
		}
	}

	app.startHttpServer()
	monitoring.StartMetricsServer(app.config.MetricsAddr)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Printf("terminating...")

	cancel()
	app.wg.Wait()
}

func (app *AttackSimulatorApp) listenShutdownEvent() {
	defer func() {
		_ = recover()
		app.wg.Done()
	}()

	<-app.ctx.Done()
	app.stopHttpServer()
}
