// Package api exposes the live tracker's control surface over HTTP:
// status, detection parameters, session commands, and the accumulated
// detection list.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/skywatch-data/debris.report/internal/detect"
	"github.com/skywatch-data/debris.report/internal/tracker"
	"github.com/skywatch-data/debris.report/internal/version"
)

// TrackerControl is the slice of the tracker the HTTP surface needs.
type TrackerControl interface {
	Status() tracker.Status
	Detections() []detect.Record
	DetectionParams() detect.Params
	SetDetectionParams(detect.Params) error
	Command(tracker.Command) error
}

type Server struct {
	t TrackerControl
}

func NewServer(t TrackerControl) *Server {
	return &Server{t: t}
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.statusHandler)
	mux.HandleFunc("/params", s.paramsHandler)
	mux.HandleFunc("/detections", s.listDetections)
	mux.HandleFunc("/recalibrate", s.commandHandler(tracker.CmdRecalibrate, "recalibration scheduled"))
	mux.HandleFunc("/save-frame", s.commandHandler(tracker.CmdSaveFrame, "frame save scheduled"))
	mux.HandleFunc("/stop", s.commandHandler(tracker.CmdStop, "stop scheduled"))
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Write([]byte("Debris Tracker Control API"))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "ok", "service": "tracker", "version": "%s", "timestamp": "%s"}`,
		version.Version, time.Now().UTC().Format(time.RFC3339))
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.t.Status())
}

// paramsHandler serves the detection tunables: GET returns the current
// values, POST replaces them. New values apply from the next frame.
func (s *Server) paramsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.t.DetectionParams())
	case http.MethodPost:
		var p detect.Params
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, fmt.Sprintf("Invalid parameters: %v", err), http.StatusBadRequest)
			return
		}
		if err := s.t.SetDetectionParams(p); err != nil {
			http.Error(w, fmt.Sprintf("Rejected parameters: %v", err), http.StatusBadRequest)
			return
		}
		writeJSON(w, s.t.DetectionParams())
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) listDetections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	records := s.t.Detections()
	if records == nil {
		records = []detect.Record{}
	}
	writeJSON(w, records)
}

// commandHandler queues a tracker command. Commands take effect between
// frames, so a 200 means scheduled, not completed.
func (s *Server) commandHandler(cmd tracker.Command, ack string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := s.t.Command(cmd); err != nil {
			http.Error(w, fmt.Sprintf("Failed to queue command: %v", err), http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, map[string]string{"result": ack})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
