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

package monitoring

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PacketsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sim_packets_total",
			Help: "Total simulated packets by outcome",
		},
		[]string{"simulationId", "scenario", "outcome"},
	)

	ServerLoad = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sim_server_load",
			Help: "Derived server load of the active scenario (0-100)",
		},
		[]string{"simulationId", "scenario"},
	)

	LatencyMs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sim_latency_ms",
			Help: "Derived latency of the active scenario in milliseconds",
		},
		[]string{"simulationId", "scenario"},
	)

	ActivePackets = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sim_active_packets",
			Help: "Packets currently traveling",
		},
		[]string{"simulationId", "scenario"},
	)

	SimulationTicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sim_ticks_total",
			Help: "Update ticks executed per simulation run",
		},
		[]string{"simulationId", "scenario"},
	)
)

func init() {
	prometheus.MustRegister(PacketsTotal, ServerLoad, LatencyMs, ActivePackets, SimulationTicks)
}

func StartMetricsServer(addr string) {
	log.Printf("starting prometheus metrics server on %s", addr)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		err := http.ListenAndServe(addr, nil)
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("could not start metrics server: %s", err.Error())
		}
	}()
}
