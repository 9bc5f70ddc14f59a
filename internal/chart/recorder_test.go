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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/netviz-labs/attack-simulator/internal/engine"
	"github.com/netviz-labs/attack-simulator/internal/models"
)

func tickMsg(simID string, n int) *models.MetricsTickMsg {
	return &models.MetricsTickMsg{
		SimulationID:  simID,
		Scenario:      "ddos",
		Elapsed:       float64(n) * 16.6,
		ActivePackets: n,
		Metrics: engine.MetricsSnapshot{
			PacketsSent: int64(n),
			ServerLoad:  float64(n),
			LatencyMs:   10,
		},
		TimeStamp: time.Unix(1700000000+int64(n), 0),
	}
}

func TestRecorderRollingWindow(t *testing.T) {
	r := NewRecorder(5)

	for n := 1; n <= 8; n++ {
		r.record(tickMsg("run-1", n))
	}

	hist := r.History()
	require.Len(t, hist, 5)
	// Oldest entries were evicted.
	require.Equal(t, 4.0, hist[0].ServerLoad)
	require.Equal(t, 8.0, hist[4].ServerLoad)
	require.Equal(t, 8, hist[4].ActivePackets)
}

func TestRecorderNewRunReplacesWindow(t *testing.T) {
	r := NewRecorder(5)

	for n := 1; n <= 3; n++ {
		r.record(tickMsg("run-1", n))
	}
	r.record(tickMsg("run-2", 1))

	hist := r.History()
	require.Len(t, hist, 1)
	require.Equal(t, 1.0, hist[0].ServerLoad)
}

func TestRecorderReset(t *testing.T) {
	r := NewRecorder(5)
	r.record(tickMsg("run-1", 1))

	// A reset for some other run is ignored.
	r.reset(&models.ChartResetMsg{SimulationID: "run-2"})
	require.Len(t, r.History(), 1)

	r.reset(&models.ChartResetMsg{SimulationID: "run-1"})
	require.Empty(t, r.History())
}

func TestRecorderHistoryIsCopy(t *testing.T) {
	r := NewRecorder(5)
	r.record(tickMsg("run-1", 1))

	hist := r.History()
	hist[0].ServerLoad = 999

	require.Equal(t, 1.0, r.History()[0].ServerLoad)
}
