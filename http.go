package server

import (
	"encoding/json"
	"log"
	"net/http"

	"duskhall/server/logging"
)

// HTTPHandlerConfig wires the pieces the HTTP surface reports on.
type HTTPHandlerConfig struct {
	Telemetry   *Telemetry
	RouterStats func() logging.RouterStats
}

// NewHTTPHandler builds the full route table: the WebSocket endpoint plus the
// diagnostics surface (health, counters, wire-protocol schema).
func NewHTTPHandler(hub *Hub, cfg HTTPHandlerConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", hub.HandleWS)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Telemetry TelemetrySnapshot    `json:"telemetry"`
			Logging   *logging.RouterStats `json:"logging,omitempty"`
		}{}
		if cfg.Telemetry != nil {
			payload.Telemetry = cfg.Telemetry.Snapshot()
		}
		if cfg.RouterStats != nil {
			stats := cfg.RouterStats()
			payload.Logging = &stats
		}
		writeJSON(w, payload)
	})

	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, ProtocolSchema())
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		log.Printf("write diagnostics response: %v", err)
	}
}
