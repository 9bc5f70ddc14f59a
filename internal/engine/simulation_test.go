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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netviz-labs/attack-simulator/internal/simrand"
)

func newTestSim(t *testing.T, scenario string, seed int64) Simulation {
	t.Helper()
	sim, err := NewSimulation(scenario, simrand.NewSource(seed), 800, 600)
	require.NoError(t, err)
	return sim
}

// fingerprint reduces the observable simulation state to a comparable
// string: metrics plus the full live packet set.
func fingerprint(sim Simulation) string {
	out := fmt.Sprintf("%+v elapsed=%v\n", sim.Metrics(), sim.Elapsed())
	for _, p := range sim.Packets() {
		out += fmt.Sprintf("%d %s %.9f %.4f %.4f %v\n", p.ID, p.Kind, p.Progress, p.X, p.Y, p.Active)
	}
	return out
}

func TestDeterminism(t *testing.T) {
	for _, scenario := range ScenarioIDs() {
		t.Run(scenario, func(t *testing.T) {
			a := newTestSim(t, scenario, 42)
			b := newTestSim(t, scenario, 42)

			for tick := 0; tick < 600; tick++ {
				a.Update(16.6, 1, 80)
				b.Update(16.6, 1, 80)
				if tick%50 == 0 {
					require.Equal(t, fingerprint(a), fingerprint(b), "tick %d", tick)
				}
			}
			require.Equal(t, fingerprint(a), fingerprint(b))

			// Same layout too.
			require.Equal(t, a.Nodes(), b.Nodes())
		})
	}
}

func TestCountersMonotonic(t *testing.T) {
	for _, scenario := range ScenarioIDs() {
		t.Run(scenario, func(t *testing.T) {
			sim := newTestSim(t, scenario, 7)

			prev := sim.Metrics()
			for tick := 0; tick < 600; tick++ {
				sim.Update(16.6, 1, 100)
				m := sim.Metrics()
				require.GreaterOrEqual(t, m.PacketsSent, prev.PacketsSent, "tick %d", tick)
				require.GreaterOrEqual(t, m.PacketsRecv, prev.PacketsRecv, "tick %d", tick)
				require.GreaterOrEqual(t, m.PacketsDropped, prev.PacketsDropped, "tick %d", tick)
				require.GreaterOrEqual(t, m.PacketsBlocked, prev.PacketsBlocked, "tick %d", tick)
				prev = m
			}
		})
	}
}

// Every packet ever created is traveling, received, dropped or blocked;
// none vanish uncounted.
func TestPacketConservation(t *testing.T) {
	for _, scenario := range ScenarioIDs() {
		t.Run(scenario, func(t *testing.T) {
			sim := newTestSim(t, scenario, 21)

			for tick := 0; tick < 600; tick++ {
				sim.Update(16.6, 1, 100)
				m := sim.Metrics()
				accounted := int64(sim.ActivePackets()) + m.PacketsRecv + m.PacketsDropped + m.PacketsBlocked
				require.Equal(t, m.PacketsSent, accounted, "tick %d", tick)
				// After an update, everything still held is live.
				require.Len(t, sim.Packets(), sim.ActivePackets(), "tick %d", tick)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	for _, scenario := range ScenarioIDs() {
		t.Run(scenario, func(t *testing.T) {
			sim := newTestSim(t, scenario, 99)

			for tick := 0; tick < 600; tick++ {
				sim.Update(16.6, 1.5, 100)
				m := sim.Metrics()
				require.GreaterOrEqual(t, m.ServerLoad, 0.0)
				require.LessOrEqual(t, m.ServerLoad, 100.0)
				for _, p := range sim.Packets() {
					if p.Active {
						require.GreaterOrEqual(t, p.Progress, 0.0)
						require.Less(t, p.Progress, 1.0)
					}
					require.LessOrEqual(t, len(p.Trail), trailCapacity)
				}
			}
		})
	}
}

func TestInitializeIdempotent(t *testing.T) {
	sim := newTestSim(t, ScenarioDDoS, 1)
	nodes := len(sim.Nodes())

	sim.Initialize()
	require.Len(t, sim.Nodes(), nodes)
}

func TestUpdateAfterTeardown(t *testing.T) {
	sim := newTestSim(t, ScenarioDDoS, 1)
	for tick := 0; tick < 50; tick++ {
		sim.Update(16.6, 1, 100)
	}

	sim.Teardown()
	before := sim.Metrics()
	elapsed := sim.Elapsed()

	sim.Update(16.6, 1, 100)
	require.Equal(t, before, sim.Metrics())
	require.Equal(t, elapsed, sim.Elapsed())
}

func TestTeardownCancelsRelays(t *testing.T) {
	sim := newTestSim(t, ScenarioMITM, 3)
	m := sim.(*mitmSimulation)

	for tick := 0; tick < 50 && m.timers.pending() == 0; tick++ {
		sim.Update(16.6, 1, 100)
	}
	require.NotZero(t, m.timers.pending(), "no relay was scheduled within 50 ticks")

	sim.Teardown()
	require.Zero(t, m.timers.pending())
}

// The interceptor's forward leg shows up only after the relay delay has
// elapsed on the simulation clock.
func TestRelayedPacketsAppearAfterDelay(t *testing.T) {
	sim := newTestSim(t, ScenarioMITM, 3)

	sawForward := false
	for tick := 0; tick < 300; tick++ {
		sim.Update(16.6, 1, 100)
		for _, p := range sim.Packets() {
			if p.Source.Kind == NodeAttacker {
				require.GreaterOrEqual(t, sim.Elapsed(), float64(relayDelay),
					"forward leg before the relay delay elapsed")
				sawForward = true
			}
		}
	}
	require.True(t, sawForward, "no relayed packet over 300 ticks")
}

func TestZeroSpeedFreezesClock(t *testing.T) {
	sim := newTestSim(t, ScenarioDDoS, 5)
	for tick := 0; tick < 20; tick++ {
		sim.Update(16.6, 1, 100)
	}
	elapsed := sim.Elapsed()

	sim.Update(16.6, 0, 100)
	require.Equal(t, elapsed, sim.Elapsed())
}

func TestMetricsSnapshotIsDetached(t *testing.T) {
	sim := newTestSim(t, ScenarioDDoS, 5)
	sim.Update(16.6, 1, 100)

	snap := sim.Metrics()
	sent := snap.PacketsSent
	for tick := 0; tick < 100; tick++ {
		sim.Update(16.6, 1, 100)
	}
	require.Equal(t, sent, snap.PacketsSent)
}
