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

import "github.com/netviz-labs/attack-simulator/internal/engine"

// A StateReport is what the renderer polls between frames: the static
// topology, the live packets and the current counters of the active
// simulation. Everything in it is read-only for the consumer.
type StateReport struct {
	SimulationID string                    `json:"simulationId"`
	Scenario     engine.ScenarioDefinition `json:"scenario"`
	Elapsed      float64                   `json:"elapsed"`
	Speed        float64                   `json:"speed"`
	Intensity    float64                   `json:"intensity"`
	Nodes        []*engine.Node            `json:"nodes"`
	Packets      []*engine.Packet          `json:"packets"`
	Metrics      engine.MetricsSnapshot    `json:"metrics"`
}
