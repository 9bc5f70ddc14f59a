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
	"fmt"
	"time"

	"github.com/netviz-labs/attack-simulator/internal/engine"
)

// ErrInvalidSessionFormat is returned when an imported session document
// fails validation. The running simulation is left untouched.
var ErrInvalidSessionFormat = fmt.Errorf("invalid session format")

// A ChartSample is one point of the rolling chart window.
type ChartSample struct {
	Elapsed       float64   `json:"elapsed"`
	ServerLoad    float64   `json:"serverLoad"`
	LatencyMs     float64   `json:"latency"`
	ActivePackets int       `json:"activePackets"`
	TimeStamp     time.Time `json:"timestamp"`
}

// A SessionDocument is the flat export format of a run: the parameters
// needed to resume an equivalent simulation plus a metrics snapshot and
// the chart history at export time. Resuming replays the seed from the
// start, so the continuation is equivalent, not bit-identical.
type SessionDocument struct {
	ScenarioID   string                 `json:"scenarioId"`
	Seed         int64                  `json:"seed"`
	Speed        float64                `json:"speed"`
	Intensity    float64                `json:"intensity"`
	Metrics      engine.MetricsSnapshot `json:"metrics"`
	ChartHistory []ChartSample          `json:"chartHistory"`
	TimeStamp    time.Time              `json:"timestamp"`
	SimulationID string                 `json:"simulationId,omitempty"`
}

// Validate checks the fields an import actually rehydrates from.
func (doc *SessionDocument) Validate() error {
	if _, ok := engine.Definition(doc.ScenarioID); !ok {
		return fmt.Errorf("%w: unknown scenario %q", ErrInvalidSessionFormat, doc.ScenarioID)
	}
	if doc.Speed < 0 {
		return fmt.Errorf("%w: negative speed %g", ErrInvalidSessionFormat, doc.Speed)
	}
	if doc.Intensity < 0 || doc.Intensity > 100 {
		return fmt.Errorf("%w: intensity %g out of [0,100]", ErrInvalidSessionFormat, doc.Intensity)
	}
	return nil
}
