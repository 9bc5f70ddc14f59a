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
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/netviz-labs/attack-simulator/internal/engine"
	"github.com/netviz-labs/attack-simulator/internal/models"
)

func (app *AttackSimulatorApp) handleConfigureSimulation(w http.ResponseWriter, r *http.Request) {

	profile := &SimulationProfile{}

	if app.config.Profile != nil {
		// avoid cli config to override the default one
		profile = app.config.Profile
	} else {
		if r.Body != nil {
			err := json.NewDecoder(r.Body).Decode(profile)
			if err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}
		} else {
			http.Error(w, "Missing request body", http.StatusBadRequest)
			return
		}
	}

	err := app.InitNewSimulation(profile)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrUnknownScenario) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	err = json.NewEncoder(w).Encode(SimulationStatusResponse{
		Status: app.status,
	})
	if err != nil {
		http.Error(w, "could not encode response", http.StatusInternalServerError)
	}

}

func (app *AttackSimulatorApp) handleStartSimulation(w http.ResponseWriter, r *http.Request) {
	err := app.StartSimulation()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	err = json.NewEncoder(w).Encode(SimulationStatusResponse{
		Status: app.status,
	})
	if err != nil {
		http.Error(w, "could not encode response", http.StatusInternalServerError)
	}
}

func (app *AttackSimulatorApp) handleStatusSimulation(w http.ResponseWriter, r *http.Request) {
	err := json.NewEncoder(w).Encode(SimulationStatusResponse{
		Status: app.GetCurrentSimulationStatus(),
	})
	if err != nil {
		http.Error(w, "could not encode response", http.StatusInternalServerError)
	}
}

func (app *AttackSimulatorApp) handleStopSimulation(w http.ResponseWriter, r *http.Request) {
	err := app.StopSimulation()
	if err != nil {
		http.Error(w, "could not stop simulation", http.StatusInternalServerError)
		return
	}
}

type paramsRequest struct {
	Speed     float64 `json:"speed"`
	Intensity float64 `json:"intensity"`
}

func (app *AttackSimulatorApp) handleUpdateParams(w http.ResponseWriter, r *http.Request) {
	req := paramsRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := app.UpdateParams(req.Speed, req.Intensity); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
}

func (app *AttackSimulatorApp) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	defs := make([]engine.ScenarioDefinition, 0)
	for _, id := range engine.ScenarioIDs() {
		def, _ := engine.Definition(id)
		defs = append(defs, def)
	}
	if err := json.NewEncoder(w).Encode(defs); err != nil {
		http.Error(w, "could not encode response", http.StatusInternalServerError)
	}
}

func (app *AttackSimulatorApp) handleExportSession(w http.ResponseWriter, r *http.Request) {
	doc, err := app.ExportSession()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		http.Error(w, "could not encode response", http.StatusInternalServerError)
	}
}

func (app *AttackSimulatorApp) handleImportSession(w http.ResponseWriter, r *http.Request) {
	doc := &models.SessionDocument{}
	if err := json.NewDecoder(r.Body).Decode(doc); err != nil {
		http.Error(w, models.ErrInvalidSessionFormat.Error(), http.StatusBadRequest)
		return
	}

	if err := app.ImportSession(doc); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrInvalidSessionFormat) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	err := json.NewEncoder(w).Encode(SimulationStatusResponse{
		Status: app.GetCurrentSimulationStatus(),
	})
	if err != nil {
		http.Error(w, "could not encode response", http.StatusInternalServerError)
	}
}

func (app *AttackSimulatorApp) startHttpServer() {
	app.wg.Add(1)

	router := mux.NewRouter()

	router.HandleFunc("/attack-simulator/v1/configure", app.handleConfigureSimulation)
	router.HandleFunc("/attack-simulator/v1/start", app.handleStartSimulation)
	router.HandleFunc("/attack-simulator/v1/status", app.handleStatusSimulation)
	router.HandleFunc("/attack-simulator/v1/stop", app.handleStopSimulation)
	router.HandleFunc("/attack-simulator/v1/params", app.handleUpdateParams)
	router.HandleFunc("/attack-simulator/v1/scenarios", app.handleListScenarios)
	router.HandleFunc("/attack-simulator/v1/session/export", app.handleExportSession)
	router.HandleFunc("/attack-simulator/v1/session/import", app.handleImportSession)

	app.server = &http.Server{Addr: fmt.Sprintf(":%d", app.config.OamPort), Handler: router}

	go func() {
		defer func() {
			_ = recover()
			app.wg.Done()
		}()

		log.Printf("serving simulation api on :%d", app.config.OamPort)
		// always returns error. ErrServerClosed on graceful close
		if err := app.server.ListenAndServe(); err != http.ErrServerClosed {
			// unexpected error. port in use?
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

}

func (app *AttackSimulatorApp) stopHttpServer() {
	if app.server != nil {
		err := app.server.Close()
		if err != nil {
			log.Default().Printf("could not stop oam server")
		}
	}

}
