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

// ddosSimulation floods one central server from a ring of attackers.
// Past 80% load the server starts shedding: packets close to arrival
// get a 30% chance of being dropped instead of received.
type ddosSimulation struct {
	simulation

	server    *Node
	attackers []*Node
}

func newDDoSSimulation(def ScenarioDefinition, rng *simrand.Source, width, height float64) *ddosSimulation {
	s := &ddosSimulation{simulation: newSimulation(def, rng, width, height)}
	s.policy = s
	return s
}

func (s *ddosSimulation) buildTopology() {
	s.server = s.addNode(&Node{
		ID:         "server",
		Kind:       NodeServer,
		X:          s.width / 2,
		Y:          s.height / 2,
		Radius:     30,
		PulsePhase: s.rng.Range(0, 2*math.Pi),
	})

	ring := math.Min(s.width, s.height) / 3
	for i := 0; i < s.def.Attackers; i++ {
		angle := float64(i) / float64(s.def.Attackers) * 2 * math.Pi
		s.attackers = append(s.attackers, s.addNode(&Node{
			ID:          fmt.Sprintf("attacker-%d", i+1),
			Kind:        NodeAttacker,
			X:           s.server.X + math.Cos(angle)*ring,
			Y:           s.server.Y + math.Sin(angle)*ring,
			Radius:      15,
			Connections: []string{s.server.ID},
			PulsePhase:  s.rng.Range(0, 2*math.Pi),
		}))
	}
}

func (s *ddosSimulation) generatePackets(intensity float64) {
	for i := s.spawnSlots(intensity); i > 0; i-- {
		if s.rng.Next() >= 0.5 {
			continue
		}
		src, err := simrand.Choice(s.rng, s.attackers)
		if err != nil {
			return
		}
		s.createPacket(src, s.server, PacketAttack, s.packetSpeed())
	}
}

func (s *ddosSimulation) updateMetrics() {
	load := math.Min(100, float64(s.ActivePackets())/50*100)
	s.metrics.ServerLoad = load
	s.metrics.LatencyMs = 10 + load/100*500

	// Overloaded servers shed traffic at the door.
	if load > 80 {
		for _, p := range s.packets {
			if p.Active && p.Progress > 0.9 && s.rng.Next() < 0.3 {
				p.Active = false
				p.settled = true
				s.metrics.PacketsDropped++
			}
		}
	}

	s.settleFinished(func(*Packet) {
		s.metrics.PacketsRecv++
	})
}
