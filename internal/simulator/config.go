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

package simulator

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	OamPort       uint16 `yaml:"oamPort"`
	StatePort     uint16 `yaml:"statePort"`
	MetricsAddr   string `yaml:"metricsAddr"`
	InitOnStartup bool   `yaml:"initOnStartup"`
	/* Custom configuration parameters */
	Profile *SimulationProfile `yaml:"simulationProfile"`
}

// A SimulationProfile is the tuple needed to (re)create a run: the
// scenario, the seed and the two live knobs, plus the world dimensions
// the topology is laid out in.
type SimulationProfile struct {
	Scenario  string  `yaml:"scenario" json:"scenario"`
	Seed      int64   `yaml:"seed" json:"seed"`
	Speed     float64 `yaml:"speed" json:"speed"`
	Intensity float64 `yaml:"intensity" json:"intensity"`
	Width     float64 `yaml:"width" json:"width"`
	Height    float64 `yaml:"height" json:"height"`
}

// applyDefaults fills the fields a minimal profile may omit.
func (p *SimulationProfile) applyDefaults() {
	if p.Speed == 0 {
		p.Speed = 1
	}
	if p.Intensity == 0 {
		p.Intensity = 50
	}
	if p.Width == 0 {
		p.Width = 800
	}
	if p.Height == 0 {
		p.Height = 600
	}
}

func InitConfig(configPath string) *AppConfig {

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		log.Fatalf("cannot read config file #%v ", err)
	}

	cfg := AppConfig{}
	err = yaml.Unmarshal(yamlFile, &cfg)
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	if cfg.InitOnStartup && cfg.Profile == nil {
		log.Fatalf("error: when initializing from startup, simulation profile must be defined in config file")
	}

	if cfg.OamPort == 0 {
		cfg.OamPort = 8081
	}
	if cfg.StatePort == 0 {
		cfg.StatePort = 8080
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = ":9090"
	}
	if cfg.Profile != nil {
		cfg.Profile.applyDefaults()
	}

	return &cfg
}

func (cfg *AppConfig) Dumps() string {
	d, err := yaml.Marshal(&cfg)
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	return string(d)

}
