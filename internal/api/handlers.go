package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/farewatch/fare-analytics/internal/models"
	"github.com/farewatch/fare-analytics/internal/repo"
	"github.com/farewatch/fare-analytics/internal/utils"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

// errorStatus maps pipeline errors onto HTTP statuses: validation problems
// are the client's fault, everything else is ours.
func errorStatus(err error) int {
	var appErr *utils.AppError
	if errors.As(err, &appErr) && appErr.Err == nil {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeBody tolerates an absent body so every request field can default.
func decodeBody(r *http.Request, out any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func enforceMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleFetchData(w http.ResponseWriter, r *http.Request) {
	if !enforceMethod(w, r, http.MethodPost) {
		return
	}

	var req models.AnalysisRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.service.Analyze(r.Context(), req)
	if err != nil {
		s.logger.Error("fetch-data failed", "error", err)
		writeError(w, errorStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    result,
		"message": fmt.Sprintf("Successfully fetched data for %d routes", len(result.Routes)),
	})
}

type analyzeRequest struct {
	Type string `json:"type"`
	models.AnalysisRequest
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !enforceMethod(w, r, http.MethodPost) {
		return
	}

	var req analyzeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.service.Analyze(r.Context(), req.AnalysisRequest)
	if err != nil {
		s.logger.Error("analyze failed", "error", err)
		writeError(w, errorStatus(err), err)
		return
	}

	narrative, err := s.service.Narrate(r.Context(), result, req.Type)
	if err != nil {
		s.logger.Error("narrative generation failed", "error", err)
		writeError(w, errorStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"insights": narrative,
		"data":     result,
	})
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	if !enforceMethod(w, r, http.MethodPost) {
		return
	}

	var req models.AnalysisRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	charts, err := s.service.Charts(r.Context(), req)
	if err != nil {
		s.logger.Error("chart generation failed", "error", err)
		writeError(w, errorStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"charts":  charts,
	})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	if !enforceMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, repo.RouteCatalog())
}

type iataRequest struct {
	IATACode string `json:"iata_code"`
}

func (s *Server) handleAirportInfo(w http.ResponseWriter, r *http.Request) {
	if !enforceMethod(w, r, http.MethodPost) {
		return
	}

	var req iataRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.IATACode == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("iata_code is required"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"airport": repo.LookupAirport(req.IATACode),
	})
}

func (s *Server) handleAirlineInfo(w http.ResponseWriter, r *http.Request) {
	if !enforceMethod(w, r, http.MethodPost) {
		return
	}

	var req iataRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.IATACode == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("iata_code is required"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"airline": repo.LookupAirline(req.IATACode),
	})
}
