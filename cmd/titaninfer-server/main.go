// Command titaninfer-server is the HTTP demo server collaborator: it
// loads one .titan model and exposes /predict, /healthz, and /metrics
// over net/http's ServeMux (no third-party router is wired in — see
// DESIGN.md for why no pack member offered one).
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	titaninfer "github.com/HamoodiM/TitanInfer"
	"github.com/HamoodiM/TitanInfer/internal/logging"
	"github.com/HamoodiM/TitanInfer/tensor"
)

func main() {
	modelPath := flag.String("model", "", "path to a .titan model file (required)")
	addr := flag.String("addr", ":8080", "address to listen on")
	profile := flag.Bool("profile", false, "enable per-layer latency profiling")
	logLevel := flag.String("log-level", "info", "debug|info|warning|error|silent")
	flag.Parse()

	if *modelPath == "" {
		logging.Errorf("titaninfer-server: -model is required")
		return
	}
	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		logging.Errorf("titaninfer-server: %v", err)
		return
	}

	handle, err := titaninfer.NewBuilder().
		ModelPath(*modelPath).
		EnableProfiling(*profile).
		EnableMetrics(true).
		LogLevel(level).
		Build()
	if err != nil {
		logging.Errorf("titaninfer-server: loading model: %v", err)
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/predict", predictHandler(handle))
	mux.HandleFunc("/healthz", healthzHandler(handle))
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logging.Infof("titaninfer-server: listening on %s (model=%s)", *addr, *modelPath)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Errorf("titaninfer-server: %v", err)
	}
}

type predictRequest struct {
	Input []float32 `json:"input"`
}

type predictResponse struct {
	Output []float32 `json:"output"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func predictHandler(handle *titaninfer.ModelHandle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("decoding request body: %v", err))
			return
		}

		expected := handle.ExpectedInputShape()
		if len(req.Input) != expected.Size() {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("input has %d values, model expects %d", len(req.Input), expected.Size()))
			return
		}
		input := tensor.MustNew(expected)
		copy(input.Data(), req.Input)

		out, err := handle.Predict(input)
		if err != nil {
			writeJSONError(w, statusForError(err), err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(predictResponse{Output: out.Data()})
	}
}

func healthzHandler(handle *titaninfer.ModelHandle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !handle.IsLoaded() {
			http.Error(w, "no model loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func statusForError(err error) int {
	var tiErr *titaninfer.Error
	if errors.As(err, &tiErr) && tiErr.Kind == titaninfer.KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
