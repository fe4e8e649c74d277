package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"nestegg/internal/analyzer"
	"nestegg/internal/core"
	applog "nestegg/internal/log"
	"nestegg/internal/simulation"
	"nestegg/internal/storage"
)

const maxRequestBody = 1 << 20 // 1 MiB

func economicPreset(id string) (simulation.EconomicScenario, bool) {
	preset, ok := simulation.EconomicScenarios[simulation.EconomicScenarioID(id)]
	return preset, ok
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}
	if len(body) > maxRequestBody {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return nil, false
	}
	return body, true
}

// handleSimulate runs a full projection: baseline plus comparison
// scenarios. Identical payloads are served from cache.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	cacheKey := string(body)
	if result, ok := s.simulationCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, result)
		return
	}

	var req SimulateRequest
	if err := unmarshalStrict(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in, adjustments, err := req.ToInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if adjustments == nil {
		adjustments = simulation.DefaultScenarios
	}

	result, err := simulation.RunFull(in, adjustments, simulation.Options{})
	if err != nil {
		var invalid *simulation.InvalidSimulationInput
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.requestLog.LogError(r.Context(), "Simulation failed", err, applog.OpSimulate)
		writeError(w, http.StatusInternalServerError, "simulation failed")
		return
	}

	s.simulationCache.Set(cacheKey, result)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) analysisFromBody(w http.ResponseWriter, r *http.Request, body []byte) (core.SpendingAnalysis, bool) {
	var req AnalyzeRequest
	if err := unmarshalStrict(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return core.SpendingAnalysis{}, false
	}

	asOf, err := req.AsOfTime()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return core.SpendingAnalysis{}, false
	}

	lookback := req.LookbackMonths
	if lookback <= 0 {
		lookback = analyzer.DefaultLookbackMonths
	}

	if req.UserID != "" {
		analysis, err := s.service.AnalyzeSpending(r.Context(), req.UserID, lookback, asOf)
		if err != nil {
			s.requestLog.LogError(r.Context(), "Spending analysis failed", err, applog.OpAnalyze)
			writeError(w, http.StatusInternalServerError, "analysis failed")
			return core.SpendingAnalysis{}, false
		}
		return analysis, true
	}

	transactions, err := req.ToTransactions()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return core.SpendingAnalysis{}, false
	}
	return analyzer.Analyze(transactions, lookback, asOf), true
}

// handleAnalyze classifies recent spending by category.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	cacheKey := string(body)
	if analysis, hit := s.analysisCache.Get(cacheKey); hit {
		writeJSON(w, http.StatusOK, analysis)
		return
	}

	analysis, ok := s.analysisFromBody(w, r, body)
	if !ok {
		return
	}

	s.analysisCache.Set(cacheKey, analysis)
	writeJSON(w, http.StatusOK, analysis)
}

// ReductionsResponse pairs the analysis with a savings plan.
type ReductionsResponse struct {
	Analysis   core.SpendingAnalysis    `json:"analysis"`
	Reductions []core.CategoryReduction `json:"reductions"`
	Summary    string                   `json:"summary"`
}

// handleReductions proposes per-category cuts toward a monthly savings
// target.
func (s *Server) handleReductions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	target, err := parseTarget(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}
	analysis, ok := s.analysisFromBody(w, r, body)
	if !ok {
		return
	}

	if target == 0 {
		target = defaultTarget(analysis)
	}
	reductions := analyzer.GenerateCategoryReductions(analysis, target)
	writeJSON(w, http.StatusOK, ReductionsResponse{
		Analysis:   analysis,
		Reductions: reductions,
		Summary:    analyzer.SummarizeAnalysis(analysis, reductions),
	})
}

// AggressiveScenarioResponse carries the generated adjustment and the
// reductions that back it.
type AggressiveScenarioResponse struct {
	Scenario   core.ScenarioAdjustment  `json:"scenario"`
	Reductions []core.CategoryReduction `json:"reductions"`
}

// handleAggressiveScenario builds a custom aggressive-saving adjustment
// from the caller's spending.
func (s *Server) handleAggressiveScenario(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	target, err := parseTarget(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}
	analysis, ok := s.analysisFromBody(w, r, body)
	if !ok {
		return
	}

	if target == 0 {
		target = defaultTarget(analysis)
	}
	reductions := analyzer.GenerateCategoryReductions(analysis, target)
	rationale := analyzer.SummarizeAnalysis(analysis, reductions)
	scenario := simulation.GenerateAggressiveSavingScenario(analysis, reductions, rationale)

	writeJSON(w, http.StatusOK, AggressiveScenarioResponse{
		Scenario:   scenario,
		Reductions: reductions,
	})
}

// handleChart returns a user's latest snapshot downsampled for display.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	points := simulation.DefaultChartPoints
	if v := r.URL.Query().Get("points"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "points must be a positive integer")
			return
		}
		points = n
	}

	result, _, err := s.service.LatestSnapshot(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no snapshot for user")
			return
		}
		s.requestLog.LogError(r.Context(), "Snapshot load failed", err, applog.OpSnapshot)
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	scenarios := append([]core.ScenarioResult{result.Baseline}, result.Scenarios...)
	writeJSON(w, http.StatusOK, simulation.FormatProjectionsForChart(scenarios, points))
}

// SnapshotResponse wraps a stored projection with its compute time.
type SnapshotResponse struct {
	Result    core.SimulationResult `json:"result"`
	CreatedAt time.Time             `json:"createdAt"`
}

// handleSnapshot serves the latest stored projection (GET) or requests a
// recompute (POST).
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "userId is required")
			return
		}

		result, at, err := s.service.LatestSnapshot(r.Context(), userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "no snapshot for user")
				return
			}
			s.requestLog.LogError(r.Context(), "Snapshot load failed", err, applog.OpSnapshot)
			writeError(w, http.StatusInternalServerError, "failed to load snapshot")
			return
		}
		writeJSON(w, http.StatusOK, SnapshotResponse{Result: result, CreatedAt: at})

	case http.MethodPost:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		var req struct {
			UserID string `json:"userId"`
		}
		if err := unmarshalStrict(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.UserID == "" {
			writeError(w, http.StatusBadRequest, "userId is required")
			return
		}

		if err := s.service.RequestSnapshot(r.Context(), req.UserID); err != nil {
			writeError(w, http.StatusServiceUnavailable, "snapshot queue unavailable")
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// defaultTarget is 10% of the average monthly expense, the cut a user
// can usually absorb without a plan of their own.
func defaultTarget(analysis core.SpendingAnalysis) float64 {
	return analysis.AvgMonthlyExpense * 0.10
}

func parseTarget(r *http.Request) (float64, error) {
	v := r.URL.Query().Get("target")
	if v == "" {
		return 0, nil
	}
	target, err := strconv.ParseFloat(v, 64)
	if err != nil || target < 0 {
		return 0, errors.New("target must be a non-negative number")
	}
	return target, nil
}
