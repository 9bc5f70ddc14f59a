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
	"math"

	"github.com/netviz-labs/attack-simulator/internal/simrand"
)

// rerouteDelay is the pause, in simulation time units, between traffic
// reaching the poisoning attacker and being passed on to its real
// destination.
const rerouteDelay = 400

// arpspoofSimulation arranges a LAN segment of clients on a grid with
// the poisoning attacker in the middle. Client traffic is rerouted
// through the attacker before reaching its destination; the attacker
// additionally injects spoofed packets of its own.
type arpspoofSimulation struct {
	simulation

	attacker *Node
	clients  []*Node
}

func newARPSpoofSimulation(def ScenarioDefinition, rng *simrand.Source, width, height float64) *arpspoofSimulation {
	s := &arpspoofSimulation{simulation: newSimulation(def, rng, width, height)}
	s.policy = s
	return s
}

func (s *arpspoofSimulation) buildTopology() {
	s.attacker = s.addNode(&Node{
		ID:         "attacker",
		Kind:       NodeAttacker,
		X:          s.width / 2,
		Y:          s.height / 2,
		Radius:     20,
		PulsePhase: s.rng.Range(0, 2*math.Pi),
	})

	// Square grid just large enough for the client count.
	side := int(math.Ceil(math.Sqrt(float64(s.def.Clients))))
	for i := 0; i < s.def.Clients; i++ {
		col, row := i%side, i/side
		s.clients = append(s.clients, s.addNode(&Node{
			ID:          fmt.Sprintf("client-%d", i+1),
			Kind:        NodeClient,
			X:           s.width * float64(col+1) / float64(side+1),
			Y:           s.height * float64(row+1) / float64(side+1),
			Radius:      12,
			Connections: []string{s.attacker.ID},
			PulsePhase:  s.rng.Range(0, 2*math.Pi),
		}))
	}
}

func (s *arpspoofSimulation) generatePackets(intensity float64) {
	if s.chance(0.3, intensity) {
		// Legitimate traffic taking the poisoned route: source to
		// attacker now, attacker to the real target later.
		src, err := simrand.Choice(s.rng, s.clients)
		if err != nil {
			return
		}
		dst := src
		for dst == src && len(s.clients) > 1 {
			dst, _ = simrand.Choice(s.rng, s.clients)
		}

		s.createPacket(src, s.attacker, PacketNormal, s.packetSpeed())

		target := dst
		s.schedule(rerouteDelay, func() {
			s.createPacket(s.attacker, target, PacketAttack, s.packetSpeed())
		})
		return
	}

	if s.chance(0.5, intensity) {
		dst, err := simrand.Choice(s.rng, s.clients)
		if err != nil {
			return
		}
		s.createPacket(s.attacker, dst, PacketAttack, s.packetSpeed())
	}
}

func (s *arpspoofSimulation) updateMetrics() {
	s.metrics.ServerLoad = math.Min(100, float64(s.ActivePackets())/40*100)
	s.metrics.LatencyMs = 30 + s.rng.Range(0, 100)

	s.settleFinished(func(*Packet) {
		s.metrics.PacketsRecv++
	})
}
