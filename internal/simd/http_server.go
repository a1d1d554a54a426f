package simd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/GoSim-25-26J-441/queueing-core/internal/analytic"
	"github.com/GoSim-25-26J-441/queueing-core/internal/report"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/logger"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

// maxDistribution caps the number of Pk values a solve request may ask for.
const maxDistribution = 1000

type HTTPServer struct {
	router  *mux.Router
	service *Service
}

func NewHTTPServer(service *Service) *HTTPServer {
	s := &HTTPServer{
		router:  mux.NewRouter(),
		service: service,
	}

	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	api := s.router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/solve", s.handleSolve).Methods(http.MethodPost)
	api.HandleFunc("/simulations", s.handleSimulate).Methods(http.MethodPost)
	api.HandleFunc("/compare", s.handleCompare).Methods(http.MethodPost)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	runs := api.PathPrefix("/runs").Subrouter()
	runs.HandleFunc("", s.handleListRuns).Methods(http.MethodGet)
	runs.HandleFunc("/{id}", s.handleGetRun).Methods(http.MethodGet)
	runs.HandleFunc("/{id}/records", s.handleRecords).Methods(http.MethodGet)
	runs.HandleFunc("/{id}/occupancy", s.handleOccupancy).Methods(http.MethodGet)
	runs.HandleFunc("/{id}/chart", s.handleChart).Methods(http.MethodGet)

	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"runs":      s.service.Store().Len(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type solveBody struct {
	RunID        string           `json:"run_id"`
	ArrivalRate  float64          `json:"arrival_rate"`
	ServiceRate  float64          `json:"service_rate"`
	Servers      int              `json:"servers"`
	Capacity     *models.Capacity `json:"capacity"`
	Distribution int              `json:"distribution"` // return Pk(0..n)
	CallbackURL  string           `json:"callback_url"`
}

func (b solveBody) params() models.QueueParameters {
	p := models.NewQueueParameters(b.ArrivalRate, b.ServiceRate)
	if b.Servers != 0 {
		p = p.WithServers(b.Servers)
	}
	if b.Capacity != nil {
		p = p.WithCapacity(*b.Capacity)
	}
	return p
}

func (s *HTTPServer) handleSolve(w http.ResponseWriter, r *http.Request) {
	var body solveBody
	if !s.decode(w, r, &body) {
		return
	}
	if body.Distribution < 0 || body.Distribution > maxDistribution {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("distribution must be between 0 and %d", maxDistribution))
		return
	}

	rec, err := s.service.Solve(r.Context(), SolveRequest{RunID: body.RunID, Params: body.params(), CallbackURL: body.CallbackURL})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := map[string]any{"run": rec.Run, "measures": rec.Measures}
	// models are not stored; rebuild from the normalized params
	if m, err := analytic.Resolve(rec.Run.Params); err == nil {
		resp["text"] = report.SolveText(m)
		if body.Distribution > 0 {
			resp["distribution"] = analytic.Distribution(m, body.Distribution)
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var body SimulateRequest
	if !s.decode(w, r, &body) {
		return
	}
	rec, err := s.service.Simulate(r.Context(), body)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"run":        rec.Run,
		"stats":      rec.Stats,
		"stats_text": report.StatsText(*rec.Stats),
	})
}

func (s *HTTPServer) handleCompare(w http.ResponseWriter, r *http.Request) {
	var body SimulateRequest
	if !s.decode(w, r, &body) {
		return
	}
	rec, err := s.service.Compare(r.Context(), body)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"run":        rec.Run,
		"comparison": rec.Comparison,
		"observed":   rec.Observed,
		"text":       report.ComparisonText(*rec.Comparison),
	})
}

func (s *HTTPServer) handleStats(w http.ResponseWriter, _ *http.Request) {
	c := s.service.Collector()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"uptime_seconds": c.Uptime().Seconds(),
		"metrics":        c.Summary(),
	})
}

func (s *HTTPServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Kind:   models.RunKind(q.Get("kind")),
		Status: models.RunStatus(q.Get("status")),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	recs := s.service.List(filter)
	runs := make([]models.Run, 0, len(recs))
	for _, rec := range recs {
		runs = append(runs, rec.Run)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *HTTPServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := s.service.Get(mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *HTTPServer) handleRecords(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]
	res, err := s.service.SimulationResult(runID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		s.writeJSON(w, http.StatusOK, map[string]any{"run_id": runID, "records": res.Records})
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", runID+"-records.csv"))
		if err := report.WriteRecordsCSV(w, res.Records); err != nil {
			logger.Error("failed to write records csv", "run_id", runID, "error", err)
		}
	case "table":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := report.RecordsTable(w, res.Records); err != nil {
			logger.Error("failed to write records table", "run_id", runID, "error", err)
		}
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
	}
}

func (s *HTTPServer) handleOccupancy(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]
	res, err := s.service.SimulationResult(runID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"run_id": runID, "points": res.Occupancy.Points()})
}

func (s *HTTPServer) handleChart(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]
	res, err := s.service.SimulationResult(runID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = report.FormatPNG
	}
	if format != report.FormatPNG && format != report.FormatSVG {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported chart format %q", format))
		return
	}
	w.Header().Set("Content-Type", report.ChartContentType(format))
	if err := report.OccupancyChart(w, res.Occupancy, format); err != nil {
		logger.Error("failed to render chart", "run_id", runID, "error", err)
	}
}

// Helper functions

func (s *HTTPServer) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var ipe *models.InvalidParameterError
		if errors.As(err, &ipe) {
			s.writeError(w, http.StatusBadRequest, ipe.Error())
		} else {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		}
		return false
	}
	return true
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	s.writeError(w, httpStatus(err), err.Error())
}

// httpStatus maps service errors to HTTP status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidParameter), errors.Is(err, ErrRunIDMissing):
		return http.StatusBadRequest
	case errors.Is(err, ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRunExists), errors.Is(err, ErrNoSimulation):
		return http.StatusConflict
	case errors.Is(err, models.ErrDegenerateComputation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrStoreFull):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
