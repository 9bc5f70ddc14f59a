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

// Metrics accumulates the counters of one simulation run. The packet
// counters are monotone; ServerLoad and LatencyMs are recomputed from
// scratch every tick. No history is retained here, the chart window is
// the recorder's job.
type Metrics struct {
	PacketsSent    int64
	PacketsRecv    int64
	PacketsDropped int64
	PacketsBlocked int64
	ServerLoad     float64
	LatencyMs      float64
}

// MetricsSnapshot is an immutable copy of Metrics handed to callers;
// later ticks never show through a held snapshot.
type MetricsSnapshot struct {
	PacketsSent    int64   `json:"packetsSent"`
	PacketsRecv    int64   `json:"packetsReceived"`
	PacketsDropped int64   `json:"packetsDropped"`
	PacketsBlocked int64   `json:"packetsBlocked"`
	ServerLoad     float64 `json:"serverLoad"`
	LatencyMs      float64 `json:"latency"`
}

func (m *Metrics) snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		PacketsSent:    m.PacketsSent,
		PacketsRecv:    m.PacketsRecv,
		PacketsDropped: m.PacketsDropped,
		PacketsBlocked: m.PacketsBlocked,
		ServerLoad:     m.ServerLoad,
		LatencyMs:      m.LatencyMs,
	}
}
