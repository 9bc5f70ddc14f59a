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

package models

import (
	"time"

	"github.com/giuliocarot0/gitc"

	"github.com/netviz-labs/attack-simulator/internal/engine"
)

// ChartTask is the gitc task name the chart recorder listens on.
const ChartTask = "CHART"

const (
	// EngineToChartType carries a MetricsTickMsg from a running
	// simulation instance to the chart recorder.
	EngineToChartType gitc.MessageType = iota
	// ChartResetType tells the recorder to forget the history of a
	// finished or replaced simulation.
	ChartResetType
)

// MetricsTickMsg is the per-tick telemetry a simulation instance pushes
// on the bus. The recorder keeps the rolling window; the engine itself
// retains no history.
type MetricsTickMsg struct {
	SimulationID  string
	Scenario      string
	Elapsed       float64
	ActivePackets int
	Metrics       engine.MetricsSnapshot
	TimeStamp     time.Time
}

// ChartResetMsg clears the recorder window for one simulation id.
type ChartResetMsg struct {
	SimulationID string
}
