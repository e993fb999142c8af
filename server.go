package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/emg.report/internal/db"
	"github.com/banshee-data/emg.report/internal/emg/monitor"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server exposes stored runs and reports over HTTP.
type Server struct {
	db *db.DB
}

func NewServer(database *db.DB) *Server {
	return &Server{db: database}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/runs", s.listRuns)
	mux.HandleFunc("/api/results", s.listResults)
	mux.HandleFunc("/report", s.showReport)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	runs, err := s.db.Runs()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve runs: %v", err))
		return
	}

	if err := json.NewEncoder(w).Encode(runs); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write runs")
		return
	}
}

// resolveRun returns the run named by the run_id query parameter, or
// the latest run when the parameter is absent.
func (s *Server) resolveRun(r *http.Request) (db.Run, error) {
	if runID := r.URL.Query().Get("run_id"); runID != "" {
		runs, err := s.db.Runs()
		if err != nil {
			return db.Run{}, err
		}
		for _, run := range runs {
			if run.ID == runID {
				return run, nil
			}
		}
		return db.Run{}, sql.ErrNoRows
	}
	return s.db.LatestRun()
}

func (s *Server) listResults(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	run, err := s.resolveRun(r)
	if errors.Is(err, sql.ErrNoRows) {
		s.writeJSONError(w, http.StatusNotFound, "No such run")
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to resolve run: %v", err))
		return
	}

	rows, err := s.db.ResultsForRun(run.ID)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve results: %v", err))
		return
	}

	// without the ResultAPI struct the response would expose raw
	// sql.Null* fields (Float64, Valid); the API shape keeps undefined
	// scores as JSON null.
	apiResults := make([]db.ResultAPI, len(rows))
	for i, row := range rows {
		apiResults[i] = db.ResultToAPI(row)
	}

	if err := json.NewEncoder(w).Encode(apiResults); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write results")
		return
	}
}

func (s *Server) showReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	run, err := s.resolveRun(r)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "No runs recorded", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to resolve run: %v", err), http.StatusInternalServerError)
		return
	}

	rows, err := s.db.ResultsForRun(run.ID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve results: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := monitor.RenderRunReport(w, run, rows); err != nil {
		log.Printf("failed to render report: %v", err)
	}
}
