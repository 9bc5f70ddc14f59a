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

package chart

import (
	"log"
	"sync"

	"github.com/giuliocarot0/gitc"

	"github.com/netviz-labs/attack-simulator/internal/engine"
	"github.com/netviz-labs/attack-simulator/internal/models"
	"github.com/netviz-labs/attack-simulator/internal/monitoring"
)

// DefaultWindow is how many telemetry samples the rolling chart keeps.
const DefaultWindow = 60

// A Recorder consumes per-tick telemetry off the gitc bus and keeps the
// rolling chart window the UI graphs from. The simulation core retains
// no history of its own; this is the collaborator that does. The
// recorder also forwards counters and gauges to Prometheus.
type Recorder struct {
	mu     sync.RWMutex
	window int

	simID    string
	scenario string
	samples  []models.ChartSample
	lastSeen engine.MetricsSnapshot
}

func NewRecorder(window int) *Recorder {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Recorder{window: window}
}

// Start registers the recorder as the CHART task on the bus. It runs
// for the life of the process, outliving individual simulations.
func (r *Recorder) Start() error {
	return gitc.StartTask(models.ChartTask, func(msg gitc.Message) {
		switch msg.Type {
		case models.EngineToChartType:
			r.record(msg.Payload.(*models.MetricsTickMsg))
		case models.ChartResetType:
			r.reset(msg.Payload.(*models.ChartResetMsg))
		}
	}, 1024)
}

func (r *Recorder) record(msg *models.MetricsTickMsg) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.SimulationID != r.simID {
		// A new run replaces the window wholesale.
		r.simID = msg.SimulationID
		r.scenario = msg.Scenario
		r.samples = nil
		r.lastSeen = engine.MetricsSnapshot{}
	}

	r.samples = append(r.samples, models.ChartSample{
		Elapsed:       msg.Elapsed,
		ServerLoad:    msg.Metrics.ServerLoad,
		LatencyMs:     msg.Metrics.LatencyMs,
		ActivePackets: msg.ActivePackets,
		TimeStamp:     msg.TimeStamp,
	})
	if len(r.samples) > r.window {
		r.samples = r.samples[len(r.samples)-r.window:]
	}

	r.export(msg)
	r.lastSeen = msg.Metrics
}

// export pushes the tick to Prometheus: gauges are set, the packet
// counter advances by the delta since the previous tick of this run.
func (r *Recorder) export(msg *models.MetricsTickMsg) {
	labels := []string{msg.SimulationID, msg.Scenario}

	monitoring.ServerLoad.WithLabelValues(labels...).Set(msg.Metrics.ServerLoad)
	monitoring.LatencyMs.WithLabelValues(labels...).Set(msg.Metrics.LatencyMs)
	monitoring.ActivePackets.WithLabelValues(labels...).Set(float64(msg.ActivePackets))
	monitoring.SimulationTicks.WithLabelValues(labels...).Inc()

	add := func(outcome string, delta int64) {
		if delta > 0 {
			monitoring.PacketsTotal.WithLabelValues(msg.SimulationID, msg.Scenario, outcome).Add(float64(delta))
		}
	}
	add("sent", msg.Metrics.PacketsSent-r.lastSeen.PacketsSent)
	add("received", msg.Metrics.PacketsRecv-r.lastSeen.PacketsRecv)
	add("dropped", msg.Metrics.PacketsDropped-r.lastSeen.PacketsDropped)
	add("blocked", msg.Metrics.PacketsBlocked-r.lastSeen.PacketsBlocked)
}

func (r *Recorder) reset(msg *models.ChartResetMsg) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.SimulationID != "" && msg.SimulationID != r.simID {
		return
	}
	log.Printf("[chart] clearing history for simulation %s", r.simID)
	r.simID = ""
	r.scenario = ""
	r.samples = nil
	r.lastSeen = engine.MetricsSnapshot{}
}

// History returns a copy of the current window.
func (r *Recorder) History() []models.ChartSample {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ChartSample, len(r.samples))
	copy(out, r.samples)
	return out
}
