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

package engine

import (
	"fmt"
	"sort"

	"github.com/netviz-labs/attack-simulator/internal/simrand"
)

// ErrUnknownScenario is returned by NewSimulation for an unrecognized
// scenario id.
var ErrUnknownScenario = fmt.Errorf("unknown scenario")

// A ScenarioDefinition is the static configuration of one canned
// scenario: display strings, node counts, the target spawn rate and the
// scenario-specific tunables. Definitions are read-only; the matching
// simulation variant consumes them in its topology construction.
type ScenarioDefinition struct {
	ID               string  `json:"id"`
	DisplayName      string  `json:"displayName"`
	Description      string  `json:"description"`
	Attackers        int     `json:"attackers"`
	Clients          int     `json:"clients"`
	NodeCount        int     `json:"nodeCount"`
	PacketsPerSecond float64 `json:"packetsPerSecond"`
	BlockRate        float64 `json:"blockRate,omitempty"`
}

var definitions = map[string]ScenarioDefinition{
	ScenarioDDoS: {
		ID:               ScenarioDDoS,
		DisplayName:      "DDoS Attack",
		Description:      "A botnet of attackers floods a single server with traffic until it overloads and starts shedding packets.",
		Attackers:        8,
		Clients:          0,
		NodeCount:        9,
		PacketsPerSecond: 60,
	},
	ScenarioMITM: {
		ID:               ScenarioMITM,
		DisplayName:      "Man-in-the-Middle",
		Description:      "Two clients believe they talk directly while an attacker silently relays and inspects every message between them.",
		Attackers:        1,
		Clients:          2,
		NodeCount:        3,
		PacketsPerSecond: 20,
	},
	ScenarioFirewall: {
		ID:               ScenarioFirewall,
		DisplayName:      "Firewall Filtering",
		Description:      "Mixed legitimate and hostile traffic hits a firewall that inspects each packet and blocks attacker traffic at a configured rate.",
		Attackers:        3,
		Clients:          4,
		NodeCount:        9,
		PacketsPerSecond: 30,
		BlockRate:        0.8,
	},
	ScenarioARPSpoof: {
		ID:               ScenarioARPSpoof,
		DisplayName:      "ARP Spoofing",
		Description:      "An attacker poisons the ARP tables of a LAN segment so client traffic is rerouted through it before reaching its destination.",
		Attackers:        1,
		Clients:          9,
		NodeCount:        10,
		PacketsPerSecond: 25,
	},
}

// Scenario ids accepted by NewSimulation.
const (
	ScenarioDDoS     = "ddos"
	ScenarioMITM     = "mitm"
	ScenarioFirewall = "firewall"
	ScenarioARPSpoof = "arpspoof"
)

// Definition returns the static definition for a scenario id.
func Definition(id string) (ScenarioDefinition, bool) {
	def, ok := definitions[id]
	return def, ok
}

// ScenarioIDs lists the known scenario ids in stable order.
func ScenarioIDs() []string {
	ids := make([]string, 0, len(definitions))
	for id := range definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NewSimulation constructs and initializes the simulation variant for
// the given scenario id. The returned simulation exclusively owns rng
// for the rest of the run; width and height are the world dimensions
// the topology is laid out in. Unknown ids yield ErrUnknownScenario and
// no instance.
func NewSimulation(scenarioID string, rng *simrand.Source, width, height float64) (Simulation, error) {
	def, ok := definitions[scenarioID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, scenarioID)
	}

	var sim Simulation
	switch scenarioID {
	case ScenarioDDoS:
		sim = newDDoSSimulation(def, rng, width, height)
	case ScenarioMITM:
		sim = newMITMSimulation(def, rng, width, height)
	case ScenarioFirewall:
		sim = newFirewallSimulation(def, rng, width, height)
	case ScenarioARPSpoof:
		sim = newARPSpoofSimulation(def, rng, width, height)
	}

	sim.Initialize()
	return sim, nil
}
