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
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/giuliocarot0/gitc"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/netviz-labs/attack-simulator/internal/engine"
	"github.com/netviz-labs/attack-simulator/internal/models"
	"github.com/netviz-labs/attack-simulator/internal/simrand"
)

// The driver ticks at ~60 Hz; the engine's spawn-rate math assumes this
// frame length (in simulation time units) and is not rescaled by
// wall-clock jitter.
const (
	tickUnits    = 16.6
	tickInterval = 16600 * time.Microsecond
)

/* Simulation Instance Code */

// A SimulationInstance binds one engine simulation to the outside
// world: the 60 Hz drive loop, the live speed/intensity knobs, the
// renderer-facing state API and the telemetry it pushes on the bus.
type SimulationInstance struct {
	ctx context.Context

	sim     engine.Simulation
	rng     *simrand.Source
	profile SimulationProfile
	simMu   sync.RWMutex

	loopCtx    context.Context
	loopCancel context.CancelFunc

	stateServer *http.Server
	statePort   uint16
	simId       string
}

func NewSimulationInstance(statePort uint16, profile SimulationProfile) *SimulationInstance {
	return &SimulationInstance{
		ctx:       context.Background(),
		profile:   profile,
		statePort: statePort,
		simId:     uuid.NewString(),
	}
}

func (inst *SimulationInstance) Id() string { return inst.simId }

// InitSimulationInstance builds the scenario through the factory and
// brings up the read-only state API the renderer polls.
func (inst *SimulationInstance) InitSimulationInstance() error {
	inst.profile.applyDefaults()

	inst.rng = simrand.NewSource(inst.profile.Seed)
	sim, err := engine.NewSimulation(inst.profile.Scenario, inst.rng, inst.profile.Width, inst.profile.Height)
	if err != nil {
		return fmt.Errorf("could not build scenario: %w", err)
	}
	inst.sim = sim

	/* enable the renderer-facing state interface */
	r := mux.NewRouter()
	inst.RegisterStateAPIs(r)

	h2server := &http2.Server{}
	inst.stateServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", inst.statePort),
		Handler: h2c.NewHandler(r, h2server),
	}

	go func() {
		err := inst.stateServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("could not start state server: %s", err.Error())
		}
	}()

	return nil
}

// Start spins the drive loop. The loop owns all engine mutation; every
// tick runs under the instance lock so the state API and knob updates
// never observe a half-stepped simulation.
func (inst *SimulationInstance) Start() error {
	if inst.sim == nil {
		return fmt.Errorf("instance not initialized")
	}

	inst.loopCtx, inst.loopCancel = context.WithCancel(inst.ctx)
	log.Printf("starting simulation %s (%s)", inst.simId, inst.profile.Scenario)

	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-inst.loopCtx.Done():
				return
			case <-ticker.C:
				inst.tick()
			}
		}
	}()
	return nil
}

func (inst *SimulationInstance) tick() {
	inst.simMu.Lock()
	inst.sim.Update(tickUnits, inst.profile.Speed, inst.profile.Intensity)
	msg := &models.MetricsTickMsg{
		SimulationID:  inst.simId,
		Scenario:      inst.profile.Scenario,
		Elapsed:       inst.sim.Elapsed(),
		ActivePackets: inst.sim.ActivePackets(),
		Metrics:       inst.sim.Metrics(),
		TimeStamp:     time.Now(),
	}
	inst.simMu.Unlock()

	if err := gitc.Send(inst.simId, models.ChartTask, models.EngineToChartType, msg); err != nil {
		log.Printf("[%s] could not publish telemetry: %s", inst.simId, err.Error())
	}
}

// Stop halts the drive loop but keeps the simulation, so a restart
// resumes where it paused.
func (inst *SimulationInstance) Stop() error {
	if inst.loopCancel == nil {
		return fmt.Errorf("instance not started")
	}
	inst.loopCancel()
	return nil
}

// Shutdown retires the instance for good: loop stopped, pending relay
// actions cancelled, state port released, chart history dropped.
func (inst *SimulationInstance) Shutdown() {
	if inst.loopCancel != nil {
		inst.loopCancel()
	}

	inst.simMu.Lock()
	if inst.sim != nil {
		inst.sim.Teardown()
	}
	inst.simMu.Unlock()

	if inst.stateServer != nil {
		if err := inst.stateServer.Close(); err != nil {
			log.Printf("[%s] could not stop state server: %s", inst.simId, err.Error())
		}
	}

	if err := gitc.Send(inst.simId, models.ChartTask, models.ChartResetType,
		&models.ChartResetMsg{SimulationID: inst.simId}); err != nil {
		log.Printf("[%s] could not reset chart history: %s", inst.simId, err.Error())
	}
}

// SetParams adjusts the live knobs; values are clamped to the ranges
// the engine math is total over.
func (inst *SimulationInstance) SetParams(speed, intensity float64) {
	inst.simMu.Lock()
	defer inst.simMu.Unlock()

	if speed < 0 {
		speed = 0
	}
	if intensity < 0 {
		intensity = 0
	} else if intensity > 100 {
		intensity = 100
	}
	inst.profile.Speed = speed
	inst.profile.Intensity = intensity
}

func (inst *SimulationInstance) Profile() SimulationProfile {
	inst.simMu.RLock()
	defer inst.simMu.RUnlock()
	return inst.profile
}

// Report snapshots what a renderer needs for one frame. Node and packet
// values are copied so the drive loop cannot mutate them under the
// consumer.
func (inst *SimulationInstance) Report() models.StateReport {
	inst.simMu.RLock()
	defer inst.simMu.RUnlock()

	nodes := inst.sim.Nodes()
	nodesCopy := make([]*engine.Node, len(nodes))
	for i, n := range nodes {
		c := *n
		nodesCopy[i] = &c
	}

	packets := inst.sim.Packets()
	packetsCopy := make([]*engine.Packet, len(packets))
	for i, p := range packets {
		c := *p
		c.Trail = append([]engine.Point(nil), p.Trail...)
		packetsCopy[i] = &c
	}

	return models.StateReport{
		SimulationID: inst.simId,
		Scenario:     inst.sim.Definition(),
		Elapsed:      inst.sim.Elapsed(),
		Speed:        inst.profile.Speed,
		Intensity:    inst.profile.Intensity,
		Nodes:        nodesCopy,
		Packets:      packetsCopy,
		Metrics:      inst.sim.Metrics(),
	}
}

// ExportSession flattens the run into the portable session document.
func (inst *SimulationInstance) ExportSession(history []models.ChartSample) models.SessionDocument {
	inst.simMu.RLock()
	defer inst.simMu.RUnlock()

	return models.SessionDocument{
		ScenarioID:   inst.profile.Scenario,
		Seed:         inst.profile.Seed,
		Speed:        inst.profile.Speed,
		Intensity:    inst.profile.Intensity,
		Metrics:      inst.sim.Metrics(),
		ChartHistory: history,
		TimeStamp:    time.Now(),
		SimulationID: inst.simId,
	}
}

/* renderer-facing read-only API */

func (inst *SimulationInstance) RegisterStateAPIs(r *mux.Router) {
	r.HandleFunc("/attack-simulator/v1/state", inst.handleState).Methods(http.MethodGet)
	r.HandleFunc("/attack-simulator/v1/state/nodes", inst.handleNodes).Methods(http.MethodGet)
	r.HandleFunc("/attack-simulator/v1/state/packets", inst.handlePackets).Methods(http.MethodGet)
	r.HandleFunc("/attack-simulator/v1/state/metrics", inst.handleMetrics).Methods(http.MethodGet)
	log.Printf("[%s] state api has been registered", inst.simId)
}

func (inst *SimulationInstance) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, inst.Report())
}

func (inst *SimulationInstance) handleNodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, inst.Report().Nodes)
}

func (inst *SimulationInstance) handlePackets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, inst.Report().Packets)
}

func (inst *SimulationInstance) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, inst.Report().Metrics)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "could not encode response", http.StatusInternalServerError)
	}
}
